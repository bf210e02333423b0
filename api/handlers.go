/*
handlers.go - HTTP handlers for the vacation tracker

PURPOSE:
  Exposes the tracker engine via a JSON API. Handles HTTP request/response,
  identity resolution, and converts engine errors into the {title, body}
  envelopes the UI renders.

ENDPOINTS:
  Calendar:
    GET    /api/events              Calendar events for the caller
    GET    /api/notifications       Reviewed-request notifications (once each)

  Requests:
    POST   /api/requests            Submit time-off / declare holiday
    POST   /api/requests/{id}/process  Approve or reject (admin)
    DELETE /api/requests/{id}       Remove a request (admin)

  Employees (admin):
    GET    /api/employees           Select-list names
    GET    /api/employees/details   Detail view by full name
    POST   /api/employees           Add employee + entitlement
    PUT    /api/employees/{id}      Update employee + entitlement
    POST   /api/employees/remove    Soft-remove by full name

  Reporting (admin):
    GET    /api/report              Per-employee summary rows
    GET    /api/reconciliation      Ledger drift audit

IDENTITY:
  The caller is identified by the X-User-Email header, a stand-in for the
  excluded OAuth stack. The employee record behind the email decides admin
  rights.

ERROR HANDLING:
  Expected domain failures (insufficient balance, duplicates, weekend
  starts) come back as 200 with an "Oops!" ResultDTO, matching the form UI
  contract. Storage and infrastructure failures are logged and become 500s.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/vacation-tracker/tracker"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *tracker.Engine
	Store  tracker.Store
	Logger *zap.Logger
}

// NewHandler creates a handler over the engine and store.
func NewHandler(engine *tracker.Engine, store tracker.Store, logger *zap.Logger) *Handler {
	return &Handler{Engine: engine, Store: store, Logger: logger}
}

// caller resolves the authenticated employee from the X-User-Email header.
func (h *Handler) caller(r *http.Request) (*tracker.Employee, error) {
	email := r.Header.Get("X-User-Email")
	if email == "" {
		return nil, tracker.ErrEmployeeNotFound
	}

	employee, err := h.Store.GetEmployeeByEmail(r.Context(), email)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, tracker.ErrEmployeeNotFound
	}

	entitlement, err := h.Store.GetEntitlement(r.Context(), employee.ID)
	if err != nil {
		return nil, err
	}
	employee.Entitlement = entitlement
	return employee, nil
}

// adminCaller is caller plus an admin-rights check.
func (h *Handler) adminCaller(w http.ResponseWriter, r *http.Request) (*tracker.Employee, bool) {
	employee, err := h.caller(r)
	if err != nil {
		if errors.Is(err, tracker.ErrEmployeeNotFound) {
			writeStatus(w, http.StatusUnauthorized, "unknown user")
		} else {
			h.internalError(w, "resolve caller", err)
		}
		return nil, false
	}
	if !employee.IsAdmin() {
		writeStatus(w, http.StatusForbidden, "admin access required")
		return nil, false
	}
	return employee, true
}

// =============================================================================
// CALENDAR
// =============================================================================

// GetEvents returns the calendar events visible to the caller.
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	employee, err := h.caller(r)
	if err != nil {
		if errors.Is(err, tracker.ErrEmployeeNotFound) {
			writeStatus(w, http.StatusUnauthorized, "unknown user")
			return
		}
		h.internalError(w, "resolve caller", err)
		return
	}

	viewer := tracker.Actor{EmployeeID: employee.ID, Admin: employee.IsAdmin()}
	events, err := h.Engine.Events(r.Context(), viewer)
	if err != nil {
		h.internalError(w, "list events", err)
		return
	}

	dtos := make([]EventDTO, len(events))
	for i, ev := range events {
		dtos[i] = EventDTO{
			ID:              int64(ev.ID),
			Title:           ev.Title,
			HeaderTitle:     ev.HeaderTitle,
			Start:           ev.Start,
			End:             ev.End,
			Color:           ev.Color,
			Category:        ev.Category,
			Status:          string(ev.Status),
			Length:          ev.Length,
			NumStatHolidays: ev.NumStatHolidays,
			ClassName:       ev.ClassName,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetNotifications delivers the caller's pending review outcomes, each
// exactly once.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	employee, err := h.caller(r)
	if err != nil {
		if errors.Is(err, tracker.ErrEmployeeNotFound) {
			// Unknown users simply have nothing waiting.
			writeJSON(w, http.StatusOK, []NotificationDTO{})
			return
		}
		h.internalError(w, "resolve caller", err)
		return
	}

	notifications, err := h.Engine.Notifications(r.Context(), employee.ID)
	if err != nil {
		h.internalError(w, "list notifications", err)
		return
	}

	dtos := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		dtos[i] = NotificationDTO{
			ID:           int64(n.Request.ID),
			Type:         string(n.Request.Type),
			Status:       string(n.Request.Status),
			StartDate:    n.Request.Start.ISO(),
			EndDate:      n.End,
			NumberOfDays: n.Request.NumberOfDays,
			Comments:     n.Request.Comments,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// REQUEST SUBMISSION
// =============================================================================

// SubmitRequest handles the time-off form for all three submission paths:
// admin holiday declarations, admin on-behalf entries and employee
// self-submissions.
func (h *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	employee, err := h.caller(r)
	if err != nil {
		if errors.Is(err, tracker.ErrEmployeeNotFound) {
			writeStatus(w, http.StatusUnauthorized, "unknown user")
			return
		}
		h.internalError(w, "resolve caller", err)
		return
	}

	var dto SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	actor := tracker.Actor{EmployeeID: employee.ID, Admin: employee.IsAdmin()}
	sub := tracker.Submission{
		Title:        dto.Title,
		EmployeeName: dto.EmployeeName,
		Type:         dto.Type,
		StartDate:    dto.StartDate,
		EndDate:      dto.EndDate,
	}

	request, err := h.Engine.Submit(r.Context(), actor, sub)
	if err != nil {
		h.submitFailure(w, dto, actor, err)
		return
	}

	writeJSON(w, http.StatusOK, success(submitConfirmation(request, actor)))
}

// submitFailure translates submission errors into the form's failure bodies.
func (h *Handler) submitFailure(w http.ResponseWriter, dto SubmitRequestDTO, actor tracker.Actor, err error) {
	var insufficient *tracker.InsufficientBalanceError
	var duplicate *tracker.DuplicateHolidayError

	switch {
	case errors.Is(err, tracker.ErrWeekendStart):
		writeJSON(w, http.StatusOK, failure("Vacation/Sick days cannot start on a weekend."))

	case errors.As(err, &duplicate):
		writeJSON(w, http.StatusOK, failure(fmt.Sprintf(
			"There already exists a %s for this day.", duplicate.Type.DisplayName())))

	case errors.Is(err, tracker.ErrEmployeeNotFound):
		writeJSON(w, http.StatusOK, failure(fmt.Sprintf(
			"Employee (%s) was not found", dto.EmployeeName)))

	case errors.As(err, &insufficient):
		if actor.Admin {
			writeJSON(w, http.StatusOK, failure(fmt.Sprintf(
				"%s does not have enough %s Days to cover this request.\nThe user has %s %s available.",
				dto.EmployeeName, insufficient.Type, insufficient.Available, dayOrDays(insufficient.Available))))
			return
		}
		body := fmt.Sprintf(
			"Sorry, there aren't enough %s Days to cover this request.\nYou have %s %s available",
			insufficient.Type, insufficient.Available, dayOrDays(insufficient.Available))
		if insufficient.PendingDays > 0 {
			verb := "is"
			if insufficient.PendingDays > 1 {
				verb = "are"
			}
			body += fmt.Sprintf(", of which %d %s pending approval.", insufficient.PendingDays, verb)
		}
		writeJSON(w, http.StatusOK, failure(body))

	default:
		h.internalError(w, "submit request", err)
	}
}

func submitConfirmation(request *tracker.Request, actor tracker.Actor) string {
	if request.Type.IsHoliday() {
		return fmt.Sprintf("%s was added", request.Title)
	}
	if actor.Admin {
		daysWere := "Day was"
		if request.NumberOfDays != 1 {
			daysWere = "Days were"
		}
		return fmt.Sprintf("%s %s added for %s", request.Type, daysWere, request.Title)
	}
	return "Thanks for your submission. Your request is now pending approval."
}

func dayOrDays(available decimal.Decimal) string {
	if available.Equal(decimal.NewFromInt(1)) {
		return "day"
	}
	return "days"
}

// =============================================================================
// REVIEW & REMOVAL
// =============================================================================

// ProcessRequest approves or rejects a pending request.
func (h *Handler) ProcessRequest(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.adminCaller(w, r); !ok {
		return
	}

	id, err := requestID(r)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var dto ProcessRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	action := tracker.ReviewApprove
	verdict := "approved"
	if dto.Action == "reject" {
		action = tracker.ReviewReject
		verdict = "rejected"
	}

	request, err := h.Engine.ProcessPending(r.Context(), id, action, dto.Comments)
	if err != nil {
		var reviewed *tracker.AlreadyReviewedError
		var insufficient *tracker.InsufficientBalanceError
		switch {
		case errors.Is(err, tracker.ErrRequestNotFound):
			writeJSON(w, http.StatusOK, failure(
				"Unfornately this request doesn't exists. Please try again or contact your database admin."))
		case errors.As(err, &reviewed):
			writeJSON(w, http.StatusOK, failure(fmt.Sprintf(
				"This request was already reviewed and has a status of %q.", reviewed.Status)))
		case errors.As(err, &insufficient):
			writeJSON(w, http.StatusOK, failure(fmt.Sprintf(
				"Sorry, there aren't enough %s Days to cover this request.\nThe user has %s %s available.",
				insufficient.Type, insufficient.Available, dayOrDays(insufficient.Available))))
		default:
			h.internalError(w, "process pending request", err)
		}
		return
	}

	daysWere := "\tDay was"
	if request.NumberOfDays > 1 {
		daysWere = "\tDays were"
	}
	requestType := string(request.Type)
	if request.Type == tracker.LeaveSick {
		requestType += daysWere
	}

	writeJSON(w, http.StatusOK, success(fmt.Sprintf(
		"%s for %s %s %s", requestType, request.Title, daysWere, verdict)))
}

// RemoveRequest deletes a request, refunding or reverse-propagating as the
// engine decides.
func (h *Handler) RemoveRequest(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.adminCaller(w, r); !ok {
		return
	}

	id, err := requestID(r)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid request id")
		return
	}

	removal, err := h.Engine.Remove(r.Context(), id)
	if err != nil {
		if errors.Is(err, tracker.ErrRequestNotFound) {
			writeJSON(w, http.StatusOK, failure(
				"The request was not found. Please contact your database admin."))
			return
		}
		h.internalError(w, "remove request", err)
		return
	}

	title := removalTitle(removal.Request)
	if removal.Request.Type.IsHoliday() || removal.OwnerName == "" {
		writeJSON(w, http.StatusOK, success(fmt.Sprintf("%s was deleted.", title)))
		return
	}
	writeJSON(w, http.StatusOK, success(fmt.Sprintf(
		"%s was deleted for %s", title, removal.OwnerName)))
}

func removalTitle(request *tracker.Request) string {
	switch request.Type {
	case tracker.LeaveSick:
		return "Sick\t Day request"
	case tracker.LeaveCompany:
		return fmt.Sprintf("%s\t(Company Day)", request.Title)
	case tracker.LeaveStatutory:
		return fmt.Sprintf("%s\t(Stat Holiday)", request.Title)
	default:
		return fmt.Sprintf("%s\t request", request.Type)
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

const unknownUserBody = "Unfornately this user doesn't exists. Please try again or contact your database admin."

// ListEmployeeNames returns the select-list entries for active employees.
func (h *Handler) ListEmployeeNames(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.adminCaller(w, r); !ok {
		return
	}

	names, err := h.Engine.EmployeeNames(r.Context())
	if err != nil {
		h.internalError(w, "list employee names", err)
		return
	}

	dtos := make([]EmployeeNameDTO, len(names))
	for i, n := range names {
		dtos[i] = EmployeeNameDTO{Value: n.Value, Label: n.Label}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployeeDetails returns the detail view for the update-user form.
func (h *Handler) GetEmployeeDetails(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.adminCaller(w, r); !ok {
		return
	}

	name := r.URL.Query().Get("name")
	employee, err := h.Engine.EmployeeDetails(r.Context(), name)
	if err != nil {
		if errors.Is(err, tracker.ErrEmployeeNotFound) {
			writeJSON(w, http.StatusOK, failure(unknownUserBody))
			return
		}
		h.internalError(w, "get employee details", err)
		return
	}

	dto := EmployeeDetailsDTO{
		ID:        int64(employee.ID),
		FirstName: employee.FirstName,
		LastName:  employee.LastName,
		Email:     employee.Email,
		StartDate: employee.StartDate.DMY(),
	}
	if employee.Entitlement != nil {
		dto.AccessLevel = string(employee.Entitlement.Access)
		dto.Vacation = employee.Entitlement.EarnedVacationDays.String()
		dto.Sick = employee.Entitlement.SickDaysAllotted.String()
	}
	writeJSON(w, http.StatusOK, dto)
}

// CreateEmployee adds an employee with its entitlement.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.adminCaller(w, r); !ok {
		return
	}

	var dto EmployeeFormDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	employee, err := h.Engine.AddEmployee(r.Context(), dto.form())
	if err != nil {
		h.employeeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, success(fmt.Sprintf(
		"%s was successfully added.", employee.FullName())))
}

// UpdateEmployee applies the update-user form.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.adminCaller(w, r); !ok {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid employee id")
		return
	}

	var dto EmployeeFormDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	employee, err := h.Engine.UpdateEmployee(r.Context(), tracker.EmployeeID(id), dto.form())
	if err != nil {
		h.employeeFailure(w, err)
		return
	}

	writeJSON(w, http.StatusOK, success(fmt.Sprintf(
		"Employee details for %s were successfully updated.", employee.FullName())))
}

// RemoveEmployee soft-removes an employee by full name.
func (h *Handler) RemoveEmployee(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.adminCaller(w, r); !ok {
		return
	}

	var dto RemoveEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeStatus(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	employee, err := h.Engine.RemoveEmployee(r.Context(), dto.Employee)
	if err != nil {
		if errors.Is(err, tracker.ErrEmployeeNotFound) {
			writeJSON(w, http.StatusOK, failure(unknownUserBody))
			return
		}
		h.internalError(w, "remove employee", err)
		return
	}

	writeJSON(w, http.StatusOK, success(fmt.Sprintf(
		"%s was successfully removed", employee.FullName())))
}

func (h *Handler) employeeFailure(w http.ResponseWriter, err error) {
	var duplicate *tracker.DuplicateEmployeeError
	switch {
	case errors.Is(err, tracker.ErrEmployeeNotFound):
		writeJSON(w, http.StatusOK, failure(unknownUserBody))
	case errors.As(err, &duplicate):
		if duplicate.Field == "email" {
			writeJSON(w, http.StatusOK, failure(fmt.Sprintf(
				"A record with %s already exist.", duplicate.Value)))
			return
		}
		writeJSON(w, http.StatusOK, failure(fmt.Sprintf(
			"A record for %s already exists.", duplicate.Value)))
	default:
		// Form parse errors are user mistakes, not infrastructure failures.
		writeJSON(w, http.StatusOK, failure(err.Error()))
	}
}

// =============================================================================
// REPORTING
// =============================================================================

// GetReport returns the per-employee summary rows.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.adminCaller(w, r); !ok {
		return
	}

	entries, err := h.Engine.Report(r.Context())
	if err != nil {
		h.internalError(w, "build report", err)
		return
	}

	dtos := make([]ReportEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = ReportEntryDTO{
			EmployeeName:          e.EmployeeName,
			VacationRollover:      e.VacationRollover.String(),
			VacationDaysTaken:     e.VacationDaysTaken,
			UpcomingVacationDays:  e.UpcomingVacationDays,
			VacationDaysAvailable: e.VacationDaysAvailable.String(),
			SickDaysRemaining:     e.SickDaysRemaining.String(),
			SickDaysTaken:         e.SickDaysTaken.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetReconciliation runs the ledger drift audit and returns inconsistent
// ledgers only.
func (h *Handler) GetReconciliation(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.adminCaller(w, r); !ok {
		return
	}

	drifts, err := h.Engine.ReconcileAll(r.Context())
	if err != nil {
		h.internalError(w, "reconcile ledgers", err)
		return
	}

	dtos := make([]DriftDTO, len(drifts))
	for i, d := range drifts {
		dtos[i] = DriftDTO{
			EmployeeID: int64(d.EmployeeID),
			Stored:     d.Stored.String(),
			Expected:   d.Expected.String(),
			Drift:      d.Drift.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PLUMBING
// =============================================================================

func requestID(r *http.Request) (tracker.RequestID, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return tracker.RequestID(id), err
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("request failed", zap.String("op", op), zap.Error(err))
	writeStatus(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
