/*
report.go - Per-employee summary rows

PURPOSE:
  Derives the admin report from the ledger plus request history. Rows are
  rebuilt on demand and never stored.

ROW SEMANTICS (per calendar year, relative to today):
  taken    - approved vacation days that already started this year
  upcoming - approved vacation days starting after today, this year or later
  rollover - the display rollover: whatever of the available balance exceeds
             the earned baseline (never negative)

  Day counts use the stored per-request numbers, which already carry any
  statutory-holiday adjustments.
*/
package tracker

import (
	"context"

	"github.com/shopspring/decimal"
)

// ReportEntry is one employee's summary row.
type ReportEntry struct {
	EmployeeName          string
	VacationRollover      decimal.Decimal
	VacationDaysTaken     int
	UpcomingVacationDays  int
	VacationDaysAvailable decimal.Decimal
	SickDaysRemaining     decimal.Decimal
	SickDaysTaken         decimal.Decimal
}

// Report builds one row per active employee.
func (e *Engine) Report(ctx context.Context) ([]ReportEntry, error) {
	employees, err := e.employees.ListActiveEmployees(ctx)
	if err != nil {
		return nil, err
	}
	entitlements, err := e.entitlements.ListEntitlements(ctx)
	if err != nil {
		return nil, err
	}
	approved, err := e.requests.ListRequestsByStatus(ctx, StatusApproved)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[EmployeeID]*Entitlement, len(entitlements))
	for _, ent := range entitlements {
		byEmployee[ent.EmployeeID] = ent
	}

	today := e.Today()
	entries := make([]ReportEntry, 0, len(employees))

	for _, employee := range employees {
		entitlement := byEmployee[employee.ID]
		if entitlement == nil {
			continue
		}

		taken, upcoming := 0, 0
		for _, r := range approved {
			if r.Type != LeaveVacation || r.OwnerID == nil || *r.OwnerID != employee.ID {
				continue
			}
			switch {
			case r.Start.BeforeOrEqual(today) && r.Start.Year() == today.Year():
				taken += r.NumberOfDays
			case r.Start.After(today) && r.Start.Year() >= today.Year():
				upcoming += r.NumberOfDays
			}
		}

		entries = append(entries, ReportEntry{
			EmployeeName:          employee.FullName(),
			VacationRollover:      displayRollover(entitlement),
			VacationDaysTaken:     taken,
			UpcomingVacationDays:  upcoming,
			VacationDaysAvailable: entitlement.VacationDaysAvailable,
			SickDaysRemaining:     entitlement.SickDaysAvailable(),
			SickDaysTaken:         entitlement.SickDaysTaken,
		})
	}

	return entries, nil
}

// displayRollover reports how much of the available balance is carried-over
// rather than earned this period, floored at zero once consumption eats into
// the earned allotment.
func displayRollover(e *Entitlement) decimal.Decimal {
	rollover := e.VacationDaysAvailable.Sub(e.EarnedVacationDays)
	if rollover.IsNegative() {
		return decimal.Zero
	}
	return rollover
}
