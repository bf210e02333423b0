/*
reconcile.go - Ledger drift detection

PURPOSE:
  The vacation balance is mutated incrementally; a missed inverse call
  leaks or double-charges days without anything noticing. Reconcile
  recomputes what the balance should be from the surviving request history
  and reports the difference. It is a diagnostic, never on the hot path,
  and it never repairs anything on its own.

LIMITS:
  Removed past-dated requests deliberately keep their consumption (no
  refund) but their rows are gone, so they surface here as positive drift.
  That is the point: drift is a signal for a human to look, not proof of a
  bug.
*/
package tracker

import (
	"context"

	"github.com/shopspring/decimal"
)

// Drift compares the stored vacation balance with one recomputed from
// request history.
type Drift struct {
	EmployeeID EmployeeID
	Stored     decimal.Decimal
	Expected   decimal.Decimal
	Drift      decimal.Decimal // stored - expected; zero means consistent
}

// Consistent reports whether the stored balance matches the recomputation.
func (d Drift) Consistent() bool {
	return d.Drift.IsZero()
}

// Reconcile recomputes an employee's expected vacation balance as
// earned + rollover - sum(approved vacation day counts) and reports drift
// against the stored running balance.
func (e *Engine) Reconcile(ctx context.Context, employeeID EmployeeID) (*Drift, error) {
	entitlement, err := e.entitlements.GetEntitlement(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if entitlement == nil {
		return nil, ErrEmployeeNotFound
	}

	approved, err := e.requests.ListOwnerRequestsByStatus(ctx, employeeID, StatusApproved)
	if err != nil {
		return nil, err
	}

	consumed := decimal.Zero
	for _, r := range approved {
		if r.Type != LeaveVacation {
			continue
		}
		consumed = consumed.Add(intAmount(r.NumberOfDays))
	}

	expected := entitlement.EarnedVacationDays.Add(entitlement.VacationRollover).Sub(consumed)

	return &Drift{
		EmployeeID: employeeID,
		Stored:     entitlement.VacationDaysAvailable,
		Expected:   expected,
		Drift:      entitlement.VacationDaysAvailable.Sub(expected),
	}, nil
}

// ReconcileAll runs Reconcile for every active employee and returns only
// the inconsistent ledgers.
func (e *Engine) ReconcileAll(ctx context.Context) ([]Drift, error) {
	entitlements, err := e.entitlements.ListEntitlements(ctx)
	if err != nil {
		return nil, err
	}

	var drifts []Drift
	for _, ent := range entitlements {
		d, err := e.Reconcile(ctx, ent.EmployeeID)
		if err != nil {
			return nil, err
		}
		if !d.Consistent() {
			drifts = append(drifts, *d)
		}
	}
	return drifts, nil
}
