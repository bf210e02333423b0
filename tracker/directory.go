/*
directory.go - Employee and entitlement administration

PURPOSE:
  Admin-side management of the employee roster: adding, updating and
  soft-removing employees together with their entitlements, plus the
  duplicate-identity checks the user forms rely on.

IDENTITY RULES:
  - Emails are unique across active AND removed employees; a removed
    employee's email stays reserved so history cannot be re-attributed.
  - Full names are unique across active employees (they are how admins
    select people in forms).
*/
package tracker

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/vacation-tracker/calendar"
)

// EmployeeForm is the payload of the add/update user forms. Day allotments
// arrive as strings straight from the form fields.
type EmployeeForm struct {
	FirstName        string
	LastName         string
	Email            string
	StartDate        string // dd-MM-yyyy
	Access           AccessLevel
	VacationDays     string
	VacationRollover string
	SickDays         string
}

func (f EmployeeForm) fullName() string {
	return fmt.Sprintf("%s %s", normalizeName(f.FirstName), normalizeName(f.LastName))
}

func parseDays(field, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return d, nil
}

// =============================================================================
// ROSTER OPERATIONS
// =============================================================================

// AddEmployee creates an employee and its entitlement from the add-user
// form. The opening vacation balance is earned + rollover.
func (e *Engine) AddEmployee(ctx context.Context, form EmployeeForm) (*Employee, error) {
	if err := e.checkIdentity(ctx, form.Email, form.fullName(), ""); err != nil {
		return nil, err
	}

	start, err := calendar.ParseDMY(form.StartDate)
	if err != nil {
		return nil, err
	}
	earned, err := parseDays("vacation days", form.VacationDays)
	if err != nil {
		return nil, err
	}
	rollover, err := parseDays("vacation rollover", form.VacationRollover)
	if err != nil {
		return nil, err
	}
	sick, err := parseDays("sick days", form.SickDays)
	if err != nil {
		return nil, err
	}

	employee := &Employee{Email: form.Email, StartDate: start}
	employee.SetName(form.FirstName, form.LastName)

	if err := e.employees.AddEmployee(ctx, employee); err != nil {
		return nil, err
	}

	entitlement := NewEntitlement(employee.ID, form.Access, earned, rollover, sick)
	if err := e.entitlements.AddEntitlement(ctx, entitlement); err != nil {
		return nil, err
	}
	employee.Entitlement = entitlement

	return employee, nil
}

// UpdateEmployee applies the update-user form to an existing employee and
// its entitlement. A change to the earned vacation allotment shifts the
// available balance by the same delta.
func (e *Engine) UpdateEmployee(ctx context.Context, id EmployeeID, form EmployeeForm) (*Employee, error) {
	employee, err := e.employees.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	if err := e.checkIdentity(ctx, form.Email, form.fullName(), employee.FullName()); err != nil {
		return nil, err
	}

	start, err := calendar.ParseDMY(form.StartDate)
	if err != nil {
		return nil, err
	}
	earned, err := parseDays("vacation days", form.VacationDays)
	if err != nil {
		return nil, err
	}
	sick, err := parseDays("sick days", form.SickDays)
	if err != nil {
		return nil, err
	}

	employee.Email = form.Email
	employee.SetName(form.FirstName, form.LastName)
	employee.StartDate = start
	if err := e.employees.UpdateEmployee(ctx, employee); err != nil {
		return nil, err
	}

	entitlement, err := e.entitlements.GetEntitlement(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	if entitlement != nil {
		entitlement.ApplyUpdate(form.Access, earned, sick)
		if err := e.entitlements.UpdateEntitlement(ctx, entitlement); err != nil {
			return nil, err
		}
		employee.Entitlement = entitlement
	}

	return employee, nil
}

// RemoveEmployee soft-deletes an employee by full name. Their requests
// survive for audit but the employee disappears from active queries.
func (e *Engine) RemoveEmployee(ctx context.Context, fullName string) (*Employee, error) {
	employee, err := e.employees.GetEmployeeByName(ctx, fullName)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	now := time.Now()
	if err := e.employees.MarkEmployeeRemoved(ctx, employee.ID, now); err != nil {
		return nil, err
	}
	employee.RemovalDate = &now

	return employee, nil
}

// EmployeeDetails loads an employee and their entitlement by full name.
func (e *Engine) EmployeeDetails(ctx context.Context, fullName string) (*Employee, error) {
	employee, err := e.employees.GetEmployeeByName(ctx, fullName)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, ErrEmployeeNotFound
	}

	entitlement, err := e.entitlements.GetEntitlement(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	employee.Entitlement = entitlement

	return employee, nil
}

// EmployeeName is a select-list entry: Value is the full name the forms
// submit, Label the "Last, First" display form.
type EmployeeName struct {
	Value string
	Label string
}

// EmployeeNames lists active employees for select lists, sorted by label.
func (e *Engine) EmployeeNames(ctx context.Context) ([]EmployeeName, error) {
	employees, err := e.employees.ListActiveEmployees(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]EmployeeName, 0, len(employees))
	for _, employee := range employees {
		names = append(names, EmployeeName{
			Value: employee.FullName(),
			Label: fmt.Sprintf("%s, %s", employee.LastName, employee.FirstName),
		})
	}
	sort.Slice(names, func(i, j int) bool { return names[i].Label < names[j].Label })

	return names, nil
}

// checkIdentity enforces the uniqueness rules. currentName is the employee's
// existing full name during updates, so an unchanged identity doesn't
// collide with itself.
func (e *Engine) checkIdentity(ctx context.Context, email, fullName, currentName string) error {
	existing, err := e.employees.GetEmployeeByEmail(ctx, email)
	if err != nil {
		return err
	}
	removed, err := e.employees.GetRemovedEmployeeByEmail(ctx, email)
	if err != nil {
		return err
	}
	if (existing != nil && existing.FullName() != currentName) || removed != nil {
		return &DuplicateEmployeeError{Field: "email", Value: email}
	}

	existing, err = e.employees.GetEmployeeByName(ctx, fullName)
	if err != nil {
		return err
	}
	if existing != nil && existing.FullName() != currentName {
		return &DuplicateEmployeeError{Field: "name", Value: fullName}
	}

	return nil
}
