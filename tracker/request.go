/*
request.go - Request entity and its lifecycle

PURPOSE:
  A Request is a dated slice of leave moving through
  Pending -> Approved | Rejected. Its day count is computed once at
  creation and stored, because statutory holidays added or removed later
  must adjust the stored count retroactively rather than forcing a
  recompute on every read.

DATE CONVENTION:
  Multi-day requests store an exclusive end (submitted end + 1 day) so the
  calendar can render half-open ranges; same-day requests keep end == start.
  Business logic always reasons in inclusive terms via the day count.

DAY COUNT:
  count = business days in [start, end)
        - contained non-weekend statutory holidays   (vacation only)

  Weekend-dated statutory holidays never reduce vacation usage: the day
  would not have been a workday anyway.

SEE ALSO:
  - calendar/calendar.go: BusinessDaySpan
  - engine.go: Statutory propagation adjusting stored counts
*/
package tracker

import (
	"github.com/warp/vacation-tracker/calendar"
)

// =============================================================================
// REQUEST
// =============================================================================

// Request is a leave request. OwnerID is nil for statutory holidays and
// company days, which belong to the company rather than a person.
type Request struct {
	ID           RequestID
	OwnerID      *EmployeeID
	Type         LeaveType
	Status       RequestStatus
	Start        calendar.Date
	End          calendar.Date // exclusive for multi-day; == Start for same-day
	NumberOfDays int
	Title        string
	Comments     string
	NotifyOwner  bool
}

// NewRequest builds a Pending request from a form submission. The day count
// is computed against the existing requests (statutory holidays already on
// the calendar reduce a vacation's cost immediately). Statutory and company
// submissions are forced to span exactly one day regardless of the submitted
// end date.
func NewRequest(sub Submission, title string, owner *EmployeeID, existing []*Request) (*Request, error) {
	start, err := sub.Start()
	if err != nil {
		return nil, err
	}
	end, err := sub.End()
	if err != nil {
		return nil, err
	}

	r := &Request{
		OwnerID: owner,
		Type:    sub.LeaveType(),
		Status:  StatusPending,
		Start:   start,
		End:     end,
		Title:   title,
	}

	if r.Type.IsHoliday() {
		r.End = r.Start
	}

	r.NumberOfDays = r.CountDays(existing)
	return r, nil
}

// CountDays computes the request's working-day cost, subtracting one day per
// contained non-weekend statutory holiday for vacation requests.
func (r *Request) CountDays(existing []*Request) int {
	days := calendar.BusinessDaySpan(r.Start, r.End)

	if r.Type == LeaveVacation {
		days -= CountContainedHolidays(r, existing)
	}
	return days
}

// CountContainedHolidays counts statutory holidays (any status) fully inside
// the request's date range that do not themselves start on a weekend.
func CountContainedHolidays(r *Request, requests []*Request) int {
	n := 0
	for _, h := range requests {
		if h.Type != LeaveStatutory {
			continue
		}
		if h.Start.AfterOrEqual(r.Start) && h.End.BeforeOrEqual(r.End) && !h.StartsOnWeekend() {
			n++
		}
	}
	return n
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// IsReviewed reports whether the request already left the Pending state.
func (r *Request) IsReviewed() bool {
	return r.Status != StatusPending
}

// IsApproved reports whether the request is approved.
func (r *Request) IsApproved() bool {
	return r.Status == StatusApproved
}

// Approve transitions Pending -> Approved. Reviewing a reviewed request
// fails; the transition happens exactly once.
func (r *Request) Approve() error {
	if r.IsReviewed() {
		return &AlreadyReviewedError{ID: r.ID, Status: r.Status}
	}
	r.Status = StatusApproved
	return nil
}

// Reject transitions Pending -> Rejected, storing the reviewer's comments.
func (r *Request) Reject(comments string) error {
	if r.IsReviewed() {
		return &AlreadyReviewedError{ID: r.ID, Status: r.Status}
	}
	r.Status = StatusRejected
	r.Comments = comments
	return nil
}

// =============================================================================
// DATE HELPERS
// =============================================================================

// StartsOnWeekend reports whether the request starts on Saturday or Sunday.
func (r *Request) StartsOnWeekend() bool {
	return r.Start.IsWeekend()
}

// DisplayEnd returns the inclusive end date for rendering outside the
// calendar's half-open convention.
func (r *Request) DisplayEnd() calendar.Date {
	if r.NumberOfDays == 1 {
		return r.Start
	}
	return r.End.AddDays(-1)
}

// Contains reports whether the given range lies fully inside this request.
func (r *Request) Contains(start, end calendar.Date) bool {
	return start.AfterOrEqual(r.Start) && end.BeforeOrEqual(r.End)
}
