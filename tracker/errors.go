/*
errors.go - Centralized error types for the tracker engine

PURPOSE:
  All expected business failures in one place. These errors never escape the
  API boundary as HTTP failures: handlers recover them into a structured
  {title, body} result. Only storage failures propagate as-is.

ERROR CATEGORIES:
  1. Lookup errors   - employee/request absent
  2. Lifecycle errors - re-reviewing a reviewed request
  3. Validation errors - weekend starts, duplicate holidays, balance shortfalls

USAGE:
  if errors.Is(err, tracker.ErrInsufficientBalance) {
      var short *tracker.InsufficientBalanceError
      errors.As(err, &short)
      // short.Available, short.PendingDays drive the message
  }

SEE ALSO:
  - engine.go: Returns these errors
  - api/handlers.go: Converts them into {title, body} results
*/
package tracker

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/vacation-tracker/calendar"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist
	// (or has been removed).
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrRequestNotFound is returned when a referenced request doesn't exist.
	ErrRequestNotFound = errors.New("request not found")

	// ErrAlreadyReviewed is returned when approving or rejecting a request
	// that already left the Pending state. Review happens exactly once.
	ErrAlreadyReviewed = errors.New("request already reviewed")

	// ErrInsufficientBalance is returned when a request exceeds the
	// available entitlement balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrDuplicateHoliday is returned when a statutory holiday or company day
	// already exists for the submitted date range.
	ErrDuplicateHoliday = errors.New("holiday already exists for this day")

	// ErrWeekendStart is returned when a vacation or sick request starts on a
	// Saturday or Sunday.
	ErrWeekendStart = errors.New("request cannot start on a weekend")

	// ErrDuplicateEmployee is returned when an employee's email or full name
	// collides with an existing (or removed) record.
	ErrDuplicateEmployee = errors.New("employee already exists")
)

// =============================================================================
// STRUCTURED ERRORS - Carry context for message construction
// =============================================================================

// InsufficientBalanceError reports a balance shortfall, carrying the numbers
// the caller needs to explain it.
type InsufficientBalanceError struct {
	Type        LeaveType
	Available   decimal.Decimal
	Requested   int
	PendingDays int // day count already pending approval for the same type
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: available %s, requested %d, pending %d",
		e.Type, e.Available, e.Requested, e.PendingDays)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// AlreadyReviewedError reports a re-review attempt, carrying the status the
// request already reached.
type AlreadyReviewedError struct {
	ID     RequestID
	Status RequestStatus
}

func (e *AlreadyReviewedError) Error() string {
	return fmt.Sprintf("request %d already reviewed: status %s", e.ID, e.Status)
}

func (e *AlreadyReviewedError) Unwrap() error { return ErrAlreadyReviewed }

// DuplicateHolidayError reports a statutory/company-day uniqueness violation.
type DuplicateHolidayError struct {
	Type  LeaveType
	Start calendar.Date
}

func (e *DuplicateHolidayError) Error() string {
	return fmt.Sprintf("a %s already exists for %s", e.Type.DisplayName(), e.Start)
}

func (e *DuplicateHolidayError) Unwrap() error { return ErrDuplicateHoliday }

// DuplicateEmployeeError reports an identity collision when adding or
// updating an employee.
type DuplicateEmployeeError struct {
	Field string // "email" or "name"
	Value string
}

func (e *DuplicateEmployeeError) Error() string {
	return fmt.Sprintf("a record with %s %q already exists", e.Field, e.Value)
}

func (e *DuplicateEmployeeError) Unwrap() error { return ErrDuplicateEmployee }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is an expected business condition
// rather than a storage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrRequestNotFound) ||
		errors.Is(err, ErrAlreadyReviewed) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrDuplicateHoliday) ||
		errors.Is(err, ErrWeekendStart) ||
		errors.Is(err, ErrDuplicateEmployee)
}
