/*
Package tracker implements the entitlement accounting and request-lifecycle
engine for the vacation tracker.

PURPOSE:
  This package contains the domain model and the rules that decide how many
  leave days an employee has, how requests move through their lifecycle
  (pending -> approved/rejected), and how statutory holidays retroactively
  adjust overlapping vacation requests and balances.

KEY CONCEPTS IN THIS FILE (types.go):
  - LeaveType: The four leave categories (Vacation, Sick, Statutory, Company)
  - RequestStatus: The request lifecycle states
  - AccessLevel: Admin vs User authorization
  - Submission/Actor: Inputs handed over by the (excluded) web layer

DESIGN PRINCIPLES:
  1. Closed enums at the core boundary; single-character legacy codes live
     only in the persistence adapter.
  2. Precision: balances use decimal.Decimal, never floats.
  3. The ledger is mutated incrementally; every debit has a matching credit.

SEE ALSO:
  - entitlement.go: Per-employee leave balances
  - request.go: Request entity and day-count rules
  - engine.go: Submission, review, removal orchestration
*/
package tracker

import (
	"github.com/warp/vacation-tracker/calendar"
)

// =============================================================================
// LEAVE TYPES
// =============================================================================

// LeaveType identifies one of the four leave categories.
type LeaveType string

const (
	LeaveVacation  LeaveType = "Vacation"
	LeaveSick      LeaveType = "Sick"
	LeaveStatutory LeaveType = "Stat"
	LeaveCompany   LeaveType = "Company"
)

// ParseLeaveType maps a form token (vacation|sick|stat|company) to a
// LeaveType. Unknown tokens default to Vacation, matching the form's
// behavior of treating vacation as the base category.
func ParseLeaveType(token string) LeaveType {
	switch token {
	case "sick":
		return LeaveSick
	case "stat":
		return LeaveStatutory
	case "company":
		return LeaveCompany
	default:
		return LeaveVacation
	}
}

// Token returns the form token for this leave type.
func (t LeaveType) Token() string {
	switch t {
	case LeaveSick:
		return "sick"
	case LeaveStatutory:
		return "stat"
	case LeaveCompany:
		return "company"
	default:
		return "vacation"
	}
}

// IsHoliday reports whether this is a company-wide category (statutory
// holiday or company day) rather than an individual entitlement.
func (t LeaveType) IsHoliday() bool {
	return t == LeaveStatutory || t == LeaveCompany
}

// DisplayName returns the user-facing name of the category.
func (t LeaveType) DisplayName() string {
	switch t {
	case LeaveStatutory:
		return "Stat Holiday"
	case LeaveCompany:
		return "Company Day"
	case LeaveSick:
		return "Sick Day"
	default:
		return "Vacation"
	}
}

// =============================================================================
// REQUEST STATUS
// =============================================================================

// RequestStatus is the lifecycle state of a request.
// Pending transitions to Approved or Rejected exactly once; both are terminal.
type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

// =============================================================================
// ACCESS LEVELS
// =============================================================================

// AccessLevel is the single-level authorization model: admins review
// requests, manage employees and declare holidays; users submit for
// themselves.
type AccessLevel string

const (
	AccessAdmin AccessLevel = "Admin"
	AccessUser  AccessLevel = "User"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID int64
type RequestID int64

// =============================================================================
// CALLER INPUTS
// =============================================================================

// Actor identifies who is performing an operation. The web layer derives it
// from the authenticated session; the engine only cares about identity and
// admin rights.
type Actor struct {
	EmployeeID EmployeeID
	Admin      bool
}

// Submission is the raw payload of a time-off form post. Dates arrive as
// dd-MM-yyyy strings; Type is a form token (vacation|sick|stat|company).
type Submission struct {
	Title        string
	EmployeeName string
	Type         string
	StartDate    string
	EndDate      string
}

// LeaveType parses the submission's type token.
func (s Submission) LeaveType() LeaveType {
	return ParseLeaveType(s.Type)
}

// Start parses the submitted start date.
func (s Submission) Start() (calendar.Date, error) {
	return calendar.ParseDMY(s.StartDate)
}

// End parses the submitted end date and applies the calendar-range
// convention: multi-day requests are stored with an exclusive upper bound
// (end + 1 day), while same-day requests keep end == start.
func (s Submission) End() (calendar.Date, error) {
	end, err := calendar.ParseDMY(s.EndDate)
	if err != nil {
		return calendar.Date{}, err
	}
	if s.StartDate != s.EndDate {
		return end.AddDays(1), nil
	}
	return end, nil
}

// StartsOnWeekend reports whether the submitted start date falls on a
// Saturday or Sunday.
func (s Submission) StartsOnWeekend() bool {
	start, err := s.Start()
	if err != nil {
		return false
	}
	return start.IsWeekend()
}
