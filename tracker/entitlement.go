/*
entitlement.go - Per-employee leave balances

PURPOSE:
  The Entitlement is the ledger the whole engine revolves around. Vacation
  balance is a stored running value mutated by every approval, rejection,
  removal and statutory-holiday event; it is NOT recomputed from history.
  That makes symmetry the critical invariant: every debit
  (AdjustDaysTaken) must have an exact matching credit (ReturnDaysTaken).

INVARIANTS:
  1. VacationDaysAvailable is created as earned + rollover and then only
     moved by incremental deltas.
  2. Sick availability is always derived: allotted - taken. Taken is the
     stored side; available is never stored independently.
  3. AdjustDaysTaken and ReturnDaysTaken are exact inverses.

PRECISION:
  Day quantities are decimal.Decimal so repeated half-day grants or
  corrections can never accumulate float error.

SEE ALSO:
  - engine.go: The only caller of the mutation methods
  - reconcile.go: Drift detection against request history
*/
package tracker

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENTITLEMENT
// =============================================================================

// Entitlement holds an employee's leave counters and access level.
type Entitlement struct {
	EmployeeID            EmployeeID
	Access                AccessLevel
	EarnedVacationDays    decimal.Decimal
	VacationRollover      decimal.Decimal
	VacationDaysAvailable decimal.Decimal
	SickDaysAllotted      decimal.Decimal
	SickDaysTaken         decimal.Decimal
}

// intAmount converts a request day count into a ledger amount.
func intAmount(days int) decimal.Decimal {
	return decimal.NewFromInt(int64(days))
}

// NewEntitlement creates an entitlement with the opening vacation balance
// folded from the earned allotment plus prior-period rollover.
func NewEntitlement(employeeID EmployeeID, access AccessLevel, earned, rollover, sick decimal.Decimal) *Entitlement {
	return &Entitlement{
		EmployeeID:            employeeID,
		Access:                access,
		EarnedVacationDays:    earned,
		VacationRollover:      rollover,
		VacationDaysAvailable: earned.Add(rollover),
		SickDaysAllotted:      sick,
	}
}

// SickDaysAvailable derives the remaining sick balance.
func (e *Entitlement) SickDaysAvailable() decimal.Decimal {
	return e.SickDaysAllotted.Sub(e.SickDaysTaken)
}

// AvailableDays returns the balance a request of the given type draws from.
// Statutory and Company days are unlimited and report a zero balance here;
// they are never balance-checked.
func (e *Entitlement) AvailableDays(t LeaveType) decimal.Decimal {
	switch t {
	case LeaveVacation:
		return e.VacationDaysAvailable
	case LeaveSick:
		return e.SickDaysAvailable()
	default:
		return decimal.Zero
	}
}

// AdjustDaysTaken debits the ledger for a consumed request: vacation comes
// out of the available balance, every other individual type accrues onto
// sick days taken. Zero amounts and unset types are a deliberate no-op so
// duplicate calls with empty deltas stay idempotent.
func (e *Entitlement) AdjustDaysTaken(t LeaveType, days int) {
	if t == "" || days == 0 {
		return
	}

	amount := decimal.NewFromInt(int64(days))
	if t == LeaveVacation {
		e.VacationDaysAvailable = e.VacationDaysAvailable.Sub(amount)
		return
	}
	e.SickDaysTaken = e.SickDaysTaken.Add(amount)
}

// ReturnDaysTaken is the exact inverse of AdjustDaysTaken, used when a
// request that consumed balance is removed.
func (e *Entitlement) ReturnDaysTaken(t LeaveType, days int) {
	if t == "" || days == 0 {
		return
	}

	amount := decimal.NewFromInt(int64(days))
	if t == LeaveVacation {
		e.VacationDaysAvailable = e.VacationDaysAvailable.Add(amount)
		return
	}
	e.SickDaysTaken = e.SickDaysTaken.Sub(amount)
}

// CreditVacationDay returns one vacation day to the available balance. Used
// by statutory-holiday propagation against approved vacation requests.
func (e *Entitlement) CreditVacationDay() {
	e.VacationDaysAvailable = e.VacationDaysAvailable.Add(decimal.NewFromInt(1))
}

// DebitVacationDay re-charges one vacation day, the inverse of
// CreditVacationDay when a statutory holiday is removed.
func (e *Entitlement) DebitVacationDay() {
	e.VacationDaysAvailable = e.VacationDaysAvailable.Sub(decimal.NewFromInt(1))
}

// ApplyUpdate folds edited allotments into the entitlement. When the earned
// vacation baseline shifts by some delta, the available balance shifts by
// the same delta, preserving consumption that already happened.
func (e *Entitlement) ApplyUpdate(access AccessLevel, earned, sick decimal.Decimal) {
	oldEarned := e.EarnedVacationDays

	e.Access = access
	e.EarnedVacationDays = earned
	e.SickDaysAllotted = sick

	if !earned.Equal(oldEarned) {
		e.VacationDaysAvailable = e.VacationDaysAvailable.Add(earned.Sub(oldEarned))
	}
}
