/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

RESULT ENVELOPE:
  Form-style operations answer with ResultDTO{title, body}: title is
  "Success!" or "Oops!" and body the human-readable confirmation the UI
  shows. Expected domain failures therefore travel as 200 + "Oops!";
  only storage/infrastructure failures become HTTP 5xx.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/vacation-tracker/tracker"
)

const (
	successTitle = "Success!"
	failureTitle = "Oops!"
)

// ResultDTO is the success/failure envelope for form-style submissions.
type ResultDTO struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func success(body string) ResultDTO {
	return ResultDTO{Title: successTitle, Body: body}
}

func failure(body string) ResultDTO {
	return ResultDTO{Title: failureTitle, Body: body}
}

// =============================================================================
// REQUESTS
// =============================================================================

// SubmitRequestDTO is the time-off form payload. Dates are dd-MM-yyyy, Type
// is a form token (vacation|sick|stat|company).
type SubmitRequestDTO struct {
	Title        string `json:"title"`
	EmployeeName string `json:"employee_name,omitempty"`
	Type         string `json:"type"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

// ProcessRequestDTO carries an admin's review verdict.
type ProcessRequestDTO struct {
	Action   string `json:"action"` // approve | reject
	Comments string `json:"comments,omitempty"`
}

// EventDTO is a calendar event in API responses.
type EventDTO struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	HeaderTitle     string `json:"header_title"`
	Start           string `json:"start"`
	End             string `json:"end"`
	Color           string `json:"color"`
	Category        string `json:"category"`
	Status          string `json:"status"`
	Length          int    `json:"length"`
	NumStatHolidays int    `json:"num_stat_holidays"`
	ClassName       string `json:"class_name"`
}

// NotificationDTO is a reviewed request delivered back to its owner.
type NotificationDTO struct {
	ID           int64  `json:"id"`
	Type         string `json:"type"`
	Status       string `json:"status"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"` // inclusive
	NumberOfDays int    `json:"number_of_days"`
	Comments     string `json:"comments,omitempty"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeFormDTO is the add/update user form payload. Day allotments stay
// strings end to end, matching the form fields.
type EmployeeFormDTO struct {
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email"`
	StartDate        string `json:"start_date"` // dd-MM-yyyy
	AccessLevel      string `json:"access_level"`
	VacationDays     string `json:"vacation_days"`
	VacationRollover string `json:"vacation_rollover,omitempty"`
	SickDays         string `json:"sick_days"`
}

func (d EmployeeFormDTO) form() tracker.EmployeeForm {
	access := tracker.AccessUser
	if d.AccessLevel == string(tracker.AccessAdmin) {
		access = tracker.AccessAdmin
	}
	return tracker.EmployeeForm{
		FirstName:        d.FirstName,
		LastName:         d.LastName,
		Email:            d.Email,
		StartDate:        d.StartDate,
		Access:           access,
		VacationDays:     d.VacationDays,
		VacationRollover: d.VacationRollover,
		SickDays:         d.SickDays,
	}
}

// RemoveEmployeeDTO names the employee to soft-remove.
type RemoveEmployeeDTO struct {
	Employee string `json:"employee"` // "First Last"
}

// EmployeeNameDTO is one select-list entry.
type EmployeeNameDTO struct {
	Value string `json:"value"` // "First Last", submitted back by forms
	Label string `json:"label"` // "Last, First"
}

// EmployeeDetailsDTO is the detail view backing the update-user form.
type EmployeeDetailsDTO struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	StartDate   string `json:"start_date"` // dd-MM-yyyy
	AccessLevel string `json:"access_level"`
	Vacation    string `json:"vacation"`
	Sick        string `json:"sick"`
}

// =============================================================================
// REPORTING
// =============================================================================

// ReportEntryDTO is one employee's summary row.
type ReportEntryDTO struct {
	EmployeeName          string `json:"employee_name"`
	VacationRollover      string `json:"vacation_rollover"`
	VacationDaysTaken     int    `json:"vacation_days_taken"`
	UpcomingVacationDays  int    `json:"upcoming_vacation_days"`
	VacationDaysAvailable string `json:"vacation_days_available"`
	SickDaysRemaining     string `json:"sick_days_remaining"`
	SickDaysTaken         string `json:"sick_days_taken"`
}

// DriftDTO is one inconsistent ledger from the reconciliation audit.
type DriftDTO struct {
	EmployeeID int64  `json:"employee_id"`
	Stored     string `json:"stored"`
	Expected   string `json:"expected"`
	Drift      string `json:"drift"`
}
