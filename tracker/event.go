/*
event.go - Calendar event projection and review notifications

PURPOSE:
  Turns requests into the Event rows the calendar UI renders, and delivers
  review outcomes to employees exactly once via the notify flag.

VISIBILITY:
  Everyone sees approved requests. Admins additionally see every pending
  request; employees only their own.

SEE ALSO:
  - engine.go: The lifecycle that produces these requests
*/
package tracker

import (
	"context"
	"strconv"
)

func itoa(id RequestID) string {
	return strconv.FormatInt(int64(id), 10)
}

// Event colors, matched to the calendar UI's palette.
const (
	colorVacation        = "green"
	colorVacationPending = "rgb(118 155 118)"
	colorSick            = "#ff7518"
	colorSickPending     = "#ff8c69"
	colorStatHoliday     = "#96212d"
	colorCompanyDay      = "cornflowerblue"
)

// Event is the calendar projection of a request. Start and End are ISO date
// strings; End keeps the stored exclusive bound so the calendar renders
// half-open ranges correctly.
type Event struct {
	ID              RequestID
	Title           string
	HeaderTitle     string
	Start           string
	End             string
	Color           string
	Category        string // form token: vacation|sick|stat|company
	Status          RequestStatus
	Length          int
	NumStatHolidays int
	ClassName       string
}

// Events projects the requests visible to the viewer into calendar events.
func (e *Engine) Events(ctx context.Context, viewer Actor) ([]Event, error) {
	requests, err := e.requests.ListRequestsByStatus(ctx, StatusApproved)
	if err != nil {
		return nil, err
	}

	var pending []*Request
	if viewer.Admin {
		pending, err = e.requests.ListRequestsByStatus(ctx, StatusPending)
	} else {
		pending, err = e.requests.ListOwnerRequestsByStatus(ctx, viewer.EmployeeID, StatusPending)
	}
	if err != nil {
		return nil, err
	}
	requests = append(requests, pending...)

	events := make([]Event, 0, len(requests))
	for _, r := range requests {
		numHolidays := 0
		if r.Type == LeaveVacation {
			numHolidays = CountContainedHolidays(r, requests)
		}
		events = append(events, newEvent(r, numHolidays))
	}
	return events, nil
}

func newEvent(r *Request, numHolidays int) Event {
	ev := Event{
		ID:              r.ID,
		Title:           r.Title,
		HeaderTitle:     headerTitle(r),
		Start:           r.Start.ISO(),
		End:             r.End.ISO(),
		Category:        r.Type.Token(),
		Status:          r.Status,
		Length:          r.NumberOfDays,
		NumStatHolidays: numHolidays,
		ClassName:       itoa(r.ID),
	}

	if r.Status == StatusPending {
		ev.Title += "\t(Pending)"
	}

	switch r.Type {
	case LeaveSick:
		ev.Color = colorSick
		if r.Status == StatusPending {
			ev.Color = colorSickPending
		}
	case LeaveStatutory:
		ev.Color = colorStatHoliday
	case LeaveCompany:
		ev.Color = colorCompanyDay
	default:
		ev.Color = colorVacation
		if r.Status == StatusPending {
			ev.Color = colorVacationPending
		}
	}
	return ev
}

func headerTitle(r *Request) string {
	title := r.Type.DisplayName()
	if r.Status == StatusPending {
		title += "\t(Pending Approval)"
	}
	return title
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// Notification is a reviewed request handed back to its owner, with the end
// date adjusted to inclusive terms for display.
type Notification struct {
	Request *Request
	End     string // inclusive ISO end date
}

// Notifications returns the employee's reviewed vacation/sick requests that
// are still flagged for delivery, clearing the flag as it goes. Each review
// outcome is delivered exactly once.
func (e *Engine) Notifications(ctx context.Context, employeeID EmployeeID) ([]Notification, error) {
	requests, err := e.requests.ListRequests(ctx)
	if err != nil {
		return nil, err
	}

	var notifications []Notification
	for _, r := range requests {
		if !r.NotifyOwner || r.Type.IsHoliday() {
			continue
		}
		if r.OwnerID == nil || *r.OwnerID != employeeID {
			continue
		}

		r.NotifyOwner = false
		if err := e.requests.UpdateRequest(ctx, r); err != nil {
			return nil, err
		}

		notifications = append(notifications, Notification{
			Request: r,
			End:     r.DisplayEnd().ISO(),
		})
	}
	return notifications, nil
}
