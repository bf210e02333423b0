package tracker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vacation-tracker/tracker"
)

func submission(typ, start, end string) tracker.Submission {
	return tracker.Submission{Type: typ, StartDate: start, EndDate: end}
}

func mustRequest(t *testing.T, sub tracker.Submission, existing []*tracker.Request) *tracker.Request {
	t.Helper()
	r, err := tracker.NewRequest(sub, "test", nil, existing)
	require.NoError(t, err)
	return r
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

func TestNewRequest_MultiDayStoresExclusiveEnd(t *testing.T) {
	// Monday 16th through Wednesday 18th inclusive.
	r := mustRequest(t, submission("vacation", "16-06-2025", "18-06-2025"), nil)

	assert.Equal(t, "2025-06-16", r.Start.ISO())
	assert.Equal(t, "2025-06-19", r.End.ISO(), "stored end is submitted end + 1")
	assert.Equal(t, 3, r.NumberOfDays)
	assert.Equal(t, tracker.StatusPending, r.Status)
}

func TestNewRequest_SameDayKeepsEndEqualStart(t *testing.T) {
	r := mustRequest(t, submission("sick", "16-06-2025", "16-06-2025"), nil)

	assert.True(t, r.Start.Equal(r.End))
	assert.Equal(t, 1, r.NumberOfDays)
}

func TestNewRequest_HolidayForcedToSingleDay(t *testing.T) {
	// A statutory holiday submitted with a multi-day range collapses to its
	// start date before the day count is computed.
	r := mustRequest(t, submission("stat", "16-06-2025", "20-06-2025"), nil)

	assert.True(t, r.Start.Equal(r.End))
	assert.Equal(t, 1, r.NumberOfDays)
}

func TestNewRequest_BadDateFails(t *testing.T) {
	_, err := tracker.NewRequest(submission("vacation", "2025-06-16", "2025-06-18"), "t", nil, nil)
	assert.Error(t, err)
}

// =============================================================================
// DAY COUNT WITH STATUTORY HOLIDAYS
// =============================================================================

func TestCountDays_VacationSubtractsContainedStatHoliday(t *testing.T) {
	// GIVEN: A statutory holiday on Tuesday the 17th
	stat := mustRequest(t, submission("stat", "17-06-2025", "17-06-2025"), nil)

	// WHEN: Booking vacation Monday through Wednesday
	vacation := mustRequest(t, submission("vacation", "16-06-2025", "18-06-2025"),
		[]*tracker.Request{stat})

	// THEN: The holiday is free; only two days are charged
	assert.Equal(t, 2, vacation.NumberOfDays)
}

func TestCountDays_WeekendStatHolidayDoesNotReduceVacation(t *testing.T) {
	// Saturday the 14th would not have been a workday anyway.
	stat := mustRequest(t, submission("stat", "14-06-2025", "14-06-2025"), nil)

	vacation := mustRequest(t, submission("vacation", "13-06-2025", "16-06-2025"),
		[]*tracker.Request{stat})

	// Friday + Monday, no holiday discount.
	assert.Equal(t, 2, vacation.NumberOfDays)
}

func TestCountDays_SickIgnoresStatHolidays(t *testing.T) {
	stat := mustRequest(t, submission("stat", "17-06-2025", "17-06-2025"), nil)

	sick := mustRequest(t, submission("sick", "16-06-2025", "18-06-2025"),
		[]*tracker.Request{stat})

	assert.Equal(t, 3, sick.NumberOfDays)
}

func TestCountContainedHolidays_AnyStatusCounts(t *testing.T) {
	// Pending statutory holidays still discount the vacation.
	stat := mustRequest(t, submission("stat", "17-06-2025", "17-06-2025"), nil)
	require.Equal(t, tracker.StatusPending, stat.Status)

	vacation := mustRequest(t, submission("vacation", "16-06-2025", "18-06-2025"), nil)

	assert.Equal(t, 1, tracker.CountContainedHolidays(vacation, []*tracker.Request{stat}))
}

// =============================================================================
// LIFECYCLE
// =============================================================================

func TestApprove_ExactlyOnce(t *testing.T) {
	r := mustRequest(t, submission("vacation", "16-06-2025", "16-06-2025"), nil)

	require.NoError(t, r.Approve())
	assert.Equal(t, tracker.StatusApproved, r.Status)

	err := r.Approve()
	var reviewed *tracker.AlreadyReviewedError
	assert.ErrorAs(t, err, &reviewed)
	assert.Equal(t, tracker.StatusApproved, reviewed.Status)
}

func TestReject_StoresCommentsAndIsTerminal(t *testing.T) {
	r := mustRequest(t, submission("sick", "16-06-2025", "16-06-2025"), nil)

	require.NoError(t, r.Reject("come back healthy"))
	assert.Equal(t, tracker.StatusRejected, r.Status)
	assert.Equal(t, "come back healthy", r.Comments)

	var reviewed *tracker.AlreadyReviewedError
	assert.ErrorAs(t, r.Approve(), &reviewed)
}

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

func TestDisplayEnd_InclusiveConversion(t *testing.T) {
	multi := mustRequest(t, submission("vacation", "16-06-2025", "18-06-2025"), nil)
	assert.Equal(t, "2025-06-18", multi.DisplayEnd().ISO())

	single := mustRequest(t, submission("vacation", "16-06-2025", "16-06-2025"), nil)
	assert.Equal(t, "2025-06-16", single.DisplayEnd().ISO())
}

func TestStartsOnWeekend(t *testing.T) {
	sat := mustRequest(t, submission("stat", "14-06-2025", "14-06-2025"), nil)
	assert.True(t, sat.StartsOnWeekend())

	mon := mustRequest(t, submission("vacation", "16-06-2025", "16-06-2025"), nil)
	assert.False(t, mon.StartsOnWeekend())
}
