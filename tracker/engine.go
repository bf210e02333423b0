/*
engine.go - Submission, review and removal orchestration

PURPOSE:
  The Engine is the single entry point for every operation that touches the
  entitlement ledger. It validates submissions, checks balances, runs the
  statutory-holiday propagation and keeps the ledger's debits and credits
  symmetric.

SUBMISSION PATHS:
  1. Admin statutory/company day: uniqueness check, propagation,
     auto-approve. Never balance-checked.
  2. Admin vacation/sick on behalf of a named employee: balance check,
     auto-approve, immediate debit.
  3. Employee self-submission: weekend check, balance check against the
     potential balance (available minus other pending same-type requests),
     persisted Pending with NO debit. The debit happens at approval.

DEBIT TIMING:
  Balance moves at approval time, not at submission time. A pending request
  only "reserves" balance through the potential-balance check on later
  self-submissions. Removal refunds only future-dated requests; past leave
  was already consumed.

PROPAGATION:
  Adding a non-weekend statutory holiday makes every overlapped vacation one
  day cheaper: stored day count -1, and +1 day back to the owner's balance if
  the vacation was already approved. Removing the holiday applies the exact
  inverse, but only for future holidays. Applied once per add/remove event.

SEE ALSO:
  - request.go: Day-count computation and state machine
  - entitlement.go: The ledger mutations
  - event.go, report.go: Outbound projections
*/
package tracker

import (
	"context"
	"fmt"

	"github.com/warp/vacation-tracker/calendar"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine orchestrates request lifecycle operations against the stores.
type Engine struct {
	employees    EmployeeStore
	entitlements EntitlementStore
	requests     RequestStore

	// Today is the clock used for future/past decisions. Overridable in
	// tests.
	Today func() calendar.Date
}

// NewEngine wires an engine over the given stores.
func NewEngine(employees EmployeeStore, entitlements EntitlementStore, requests RequestStore) *Engine {
	return &Engine{
		employees:    employees,
		entitlements: entitlements,
		requests:     requests,
		Today:        calendar.Today,
	}
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submit routes a form submission to the right path for the caller's role
// and the request type. It returns the persisted request.
func (e *Engine) Submit(ctx context.Context, actor Actor, sub Submission) (*Request, error) {
	leaveType := sub.LeaveType()

	// Vacation/sick days cannot start on a weekend, whoever submits them.
	if !leaveType.IsHoliday() && sub.StartsOnWeekend() {
		return nil, ErrWeekendStart
	}

	if actor.Admin {
		if leaveType.IsHoliday() {
			return e.submitHoliday(ctx, sub)
		}
		return e.submitOnBehalf(ctx, sub)
	}

	return e.submitSelf(ctx, actor.EmployeeID, sub)
}

// submitHoliday handles admin-declared statutory holidays and company days:
// unlimited categories, structurally rate-limited to one per day and type.
func (e *Engine) submitHoliday(ctx context.Context, sub Submission) (*Request, error) {
	existing, err := e.requests.ListRequests(ctx)
	if err != nil {
		return nil, err
	}

	request, err := NewRequest(sub, sub.Title, nil, existing)
	if err != nil {
		return nil, err
	}

	duplicates, err := e.requests.ListRequestsContaining(ctx, request.Type, request.Start, request.End)
	if err != nil {
		return nil, err
	}
	if len(duplicates) != 0 {
		return nil, &DuplicateHolidayError{Type: request.Type, Start: request.Start}
	}

	if err := e.applyHolidayShift(ctx, request, false); err != nil {
		return nil, err
	}

	if err := request.Approve(); err != nil {
		return nil, err
	}
	if err := e.requests.AddRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// submitOnBehalf handles an admin entering vacation/sick days for a named
// employee. The request is auto-approved and the ledger debited immediately.
func (e *Engine) submitOnBehalf(ctx context.Context, sub Submission) (*Request, error) {
	employee, err := e.employees.GetEmployeeByName(ctx, sub.EmployeeName)
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
	if entitlement == nil {
		return nil, fmt.Errorf("employee %d has no entitlement", employee.ID)
	}

	existing, err := e.requests.ListRequests(ctx)
	if err != nil {
		return nil, err
	}

	owner := employee.ID
	request, err := NewRequest(sub, employee.FullName(), &owner, existing)
	if err != nil {
		return nil, err
	}

	available := entitlement.AvailableDays(request.Type)
	if available.Sub(intAmount(request.NumberOfDays)).IsNegative() {
		return nil, &InsufficientBalanceError{
			Type:      request.Type,
			Available: available,
			Requested: request.NumberOfDays,
		}
	}

	if err := request.Approve(); err != nil {
		return nil, err
	}
	if err := e.requests.AddRequest(ctx, request); err != nil {
		return nil, err
	}

	entitlement.AdjustDaysTaken(request.Type, request.NumberOfDays)
	if err := e.entitlements.UpdateEntitlement(ctx, entitlement); err != nil {
		return nil, err
	}
	return request, nil
}

// submitSelf handles an employee submitting for themselves. The request
// stays Pending and the ledger is untouched; the balance check also counts
// the employee's other pending same-type requests so they cannot queue up
// more days than could ever be approved.
func (e *Engine) submitSelf(ctx context.Context, employeeID EmployeeID, sub Submission) (*Request, error) {
	employee, err := e.employees.GetEmployee(ctx, employeeID)
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
	if entitlement == nil {
		return nil, fmt.Errorf("employee %d has no entitlement", employee.ID)
	}

	existing, err := e.requests.ListRequests(ctx)
	if err != nil {
		return nil, err
	}

	owner := employee.ID
	request, err := NewRequest(sub, employee.FullName(), &owner, existing)
	if err != nil {
		return nil, err
	}

	available := entitlement.AvailableDays(request.Type)
	potential := available
	pendingDays := 0

	if available.IsPositive() {
		pending, err := e.requests.ListOwnerRequestsByStatus(ctx, employee.ID, StatusPending)
		if err != nil {
			return nil, err
		}
		for _, p := range pending {
			if p.Type != request.Type {
				continue
			}
			potential = potential.Sub(intAmount(p.NumberOfDays))
			pendingDays += p.NumberOfDays
		}
	}

	if available.IsZero() || potential.Sub(intAmount(request.NumberOfDays)).IsNegative() {
		return nil, &InsufficientBalanceError{
			Type:        request.Type,
			Available:   available,
			Requested:   request.NumberOfDays,
			PendingDays: pendingDays,
		}
	}

	if err := e.requests.AddRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

// =============================================================================
// REVIEW
// =============================================================================

// ReviewAction is the admin's verdict on a pending request.
type ReviewAction string

const (
	ReviewApprove ReviewAction = "approve"
	ReviewReject  ReviewAction = "reject"
)

// ProcessPending applies an admin review to a pending request. Approval
// re-checks the stored balance and debits the ledger; rejection stores the
// reviewer's comments. Either way the owner's notify flag is set so the
// outcome is delivered exactly once.
func (e *Engine) ProcessPending(ctx context.Context, id RequestID, action ReviewAction, comments string) (*Request, error) {
	request, err := e.requests.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	if request.IsReviewed() {
		return nil, &AlreadyReviewedError{ID: request.ID, Status: request.Status}
	}

	if action == ReviewReject {
		if err := request.Reject(comments); err != nil {
			return nil, err
		}
	} else {
		if err := e.approvePending(ctx, request); err != nil {
			return nil, err
		}
	}

	request.NotifyOwner = true
	if err := e.requests.UpdateRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

func (e *Engine) approvePending(ctx context.Context, request *Request) error {
	if request.OwnerID == nil {
		return fmt.Errorf("pending request %d has no owner", request.ID)
	}

	entitlement, err := e.entitlements.GetEntitlement(ctx, *request.OwnerID)
	if err != nil {
		return err
	}
	if entitlement == nil {
		return fmt.Errorf("employee %d has no entitlement", *request.OwnerID)
	}

	// The stored balance already reflects any statutory-holiday adjustments
	// made since submission; never re-derive it here.
	available := entitlement.AvailableDays(request.Type)
	if available.Sub(intAmount(request.NumberOfDays)).IsNegative() {
		return &InsufficientBalanceError{
			Type:      request.Type,
			Available: available,
			Requested: request.NumberOfDays,
		}
	}

	if err := request.Approve(); err != nil {
		return err
	}

	entitlement.AdjustDaysTaken(request.Type, request.NumberOfDays)
	return e.entitlements.UpdateEntitlement(ctx, entitlement)
}

// =============================================================================
// REMOVAL
// =============================================================================

// Removal describes what happened when a request was deleted, for message
// construction at the boundary.
type Removal struct {
	Request   *Request
	OwnerName string
	Refunded  bool
}

// Remove deletes a request. Future-dated personal requests refund their day
// count to the owner's ledger; statutory/company days run the reverse
// holiday propagation instead.
func (e *Engine) Remove(ctx context.Context, id RequestID) (*Removal, error) {
	request, err := e.requests.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	if err := e.requests.DeleteRequest(ctx, id); err != nil {
		return nil, err
	}

	removal := &Removal{Request: request}

	if request.Type.IsHoliday() {
		if err := e.applyHolidayShift(ctx, request, true); err != nil {
			return nil, err
		}
		return removal, nil
	}

	if request.OwnerID == nil {
		return removal, nil
	}

	employee, err := e.employees.GetEmployee(ctx, *request.OwnerID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		// Owner was removed; nothing to refund.
		return removal, nil
	}
	removal.OwnerName = employee.FullName()

	// Only future leave frees balance; past days were already consumed.
	if request.Start.AfterOrEqual(e.Today()) {
		entitlement, err := e.entitlements.GetEntitlement(ctx, employee.ID)
		if err != nil {
			return nil, err
		}
		if entitlement != nil {
			entitlement.ReturnDaysTaken(request.Type, request.NumberOfDays)
			if err := e.entitlements.UpdateEntitlement(ctx, entitlement); err != nil {
				return nil, err
			}
			removal.Refunded = true
		}
	}

	return removal, nil
}

// =============================================================================
// STATUTORY HOLIDAY PROPAGATION
// =============================================================================

// applyHolidayShift adjusts every vacation request overlapped by a statutory
// holiday, and the owners' balances for the approved ones. With
// removing=false each overlapped vacation gets one day cheaper; with
// removing=true the exact inverse is applied. Runs once per add/remove
// event; company days and weekend-dated holidays never shift anything.
func (e *Engine) applyHolidayShift(ctx context.Context, holiday *Request, removing bool) error {
	if holiday.Type != LeaveStatutory || holiday.StartsOnWeekend() {
		return nil
	}
	// A past holiday's effect on consumed balances is history; removing the
	// row does not unwind it.
	if removing && holiday.Start.Before(e.Today()) {
		return nil
	}

	vacations, err := e.requests.ListRequestsContaining(ctx, LeaveVacation, holiday.Start, holiday.End)
	if err != nil {
		return err
	}

	for _, vacation := range vacations {
		if removing {
			vacation.NumberOfDays++
		} else {
			vacation.NumberOfDays--
		}
		if err := e.requests.UpdateRequest(ctx, vacation); err != nil {
			return err
		}

		if !vacation.IsApproved() || vacation.OwnerID == nil {
			continue
		}

		entitlement, err := e.entitlements.GetEntitlement(ctx, *vacation.OwnerID)
		if err != nil {
			return err
		}
		if entitlement == nil {
			continue
		}

		if removing {
			entitlement.DebitVacationDay()
		} else {
			entitlement.CreditVacationDay()
		}
		if err := e.entitlements.UpdateEntitlement(ctx, entitlement); err != nil {
			return err
		}
	}

	return nil
}
