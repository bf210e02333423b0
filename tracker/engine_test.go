package tracker_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vacation-tracker/calendar"
	"github.com/warp/vacation-tracker/store/memory"
	"github.com/warp/vacation-tracker/tracker"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// All engine tests run against a frozen clock: Monday, June 16 2025.
func frozenToday() calendar.Date {
	return calendar.NewDate(2025, time.June, 16)
}

func newTestEngine(t *testing.T) (*tracker.Engine, *memory.Store) {
	t.Helper()
	store := memory.New()
	engine := tracker.NewEngine(store, store, store)
	engine.Today = frozenToday
	return engine, store
}

func seedEmployee(t *testing.T, store *memory.Store, first, last, email string, vacation, sick int64, access tracker.AccessLevel) *tracker.Employee {
	t.Helper()
	ctx := context.Background()

	employee := &tracker.Employee{Email: email, StartDate: calendar.NewDate(2020, time.January, 6)}
	employee.SetName(first, last)
	require.NoError(t, store.AddEmployee(ctx, employee))

	entitlement := tracker.NewEntitlement(employee.ID, access, days(vacation), days(0), days(sick))
	require.NoError(t, store.AddEntitlement(ctx, entitlement))
	employee.Entitlement = entitlement
	return employee
}

func entitlementOf(t *testing.T, store *memory.Store, id tracker.EmployeeID) *tracker.Entitlement {
	t.Helper()
	e, err := store.GetEntitlement(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, e)
	return e
}

func actorFor(e *tracker.Employee) tracker.Actor {
	return tracker.Actor{EmployeeID: e.ID, Admin: e.IsAdmin()}
}

func timeoff(typ, title, start, end string) tracker.Submission {
	return tracker.Submission{Title: title, Type: typ, StartDate: start, EndDate: end}
}

// =============================================================================
// SELF SUBMISSION
// =============================================================================

func TestSubmit_Self_StaysPendingWithoutDebit(t *testing.T) {
	// GIVEN: An employee with 10 vacation days
	// WHEN: They submit a three-day vacation
	// THEN: The request is Pending and the ledger untouched
	engine, store := newTestEngine(t)
	ctx := context.Background()
	alice := seedEmployee(t, store, "Alice", "Stone", "alice@example.com", 10, 5, tracker.AccessUser)

	request, err := engine.Submit(ctx, actorFor(alice), timeoff("vacation", "", "23-06-2025", "25-06-2025"))
	require.NoError(t, err)

	assert.Equal(t, tracker.StatusPending, request.Status)
	assert.Equal(t, 3, request.NumberOfDays)
	require.NotNil(t, request.OwnerID)
	assert.Equal(t, alice.ID, *request.OwnerID)

	assert.True(t, entitlementOf(t, store, alice.ID).VacationDaysAvailable.Equal(days(10)))
}

func TestSubmit_WeekendStartRejected(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	alice := seedEmployee(t, store, "Alice", "Stone", "alice@example.com", 10, 5, tracker.AccessUser)

	// Saturday June 21.
	_, err := engine.Submit(ctx, actorFor(alice), timeoff("vacation", "", "21-06-2025", "23-06-2025"))
	assert.ErrorIs(t, err, tracker.ErrWeekendStart)

	_, err = engine.Submit(ctx, actorFor(alice), timeoff("sick", "", "21-06-2025", "21-06-2025"))
	assert.ErrorIs(t, err, tracker.ErrWeekendStart)
}

func TestSubmit_Self_PendingRequestsReserveBalance(t *testing.T) {
	// GIVEN: 5 vacation days and a pending 3-day request
	// WHEN: Submitting another 3-day request
	// THEN: It fails; the potential balance (5-3=2) cannot cover it
	engine, store := newTestEngine(t)
	ctx := context.Background()
	alice := seedEmployee(t, store, "Alice", "Stone", "alice@example.com", 5, 5, tracker.AccessUser)

	_, err := engine.Submit(ctx, actorFor(alice), timeoff("vacation", "", "23-06-2025", "25-06-2025"))
	require.NoError(t, err)

	_, err = engine.Submit(ctx, actorFor(alice), timeoff("vacation", "", "07-07-2025", "09-07-2025"))

	var insufficient *tracker.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(days(5)))
	assert.Equal(t, 3, insufficient.PendingDays)
}

func TestSubmit_Self_ZeroBalanceAlwaysFails(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	alice := seedEmployee(t, store, "Alice", "Stone", "alice@example.com", 10, 0, tracker.AccessUser)

	_, err := engine.Submit(ctx, actorFor(alice), timeoff("sick", "", "17-06-2025", "17-06-2025"))

	var insufficient *tracker.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.IsZero())
}

// =============================================================================
// ADMIN ON-BEHALF SUBMISSION
// =============================================================================

func TestSubmit_OnBehalf_AutoApprovesAndDebits(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)
	bob := seedEmployee(t, store, "Bob", "Hill", "bob@example.com", 10, 5, tracker.AccessUser)

	sub := timeoff("vacation", "", "23-06-2025", "25-06-2025")
	sub.EmployeeName = "Bob Hill"

	request, err := engine.Submit(ctx, actorFor(admin), sub)
	require.NoError(t, err)

	assert.Equal(t, tracker.StatusApproved, request.Status)
	assert.Equal(t, "Bob Hill", request.Title)
	assert.True(t, entitlementOf(t, store, bob.ID).VacationDaysAvailable.Equal(days(7)))
}

func TestSubmit_OnBehalf_UnknownEmployeeFails(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)

	sub := timeoff("vacation", "", "23-06-2025", "25-06-2025")
	sub.EmployeeName = "Nobody Here"

	_, err := engine.Submit(ctx, actorFor(admin), sub)
	assert.ErrorIs(t, err, tracker.ErrEmployeeNotFound)
}

func TestSubmit_OnBehalf_InsufficientBalanceFails(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)
	bob := seedEmployee(t, store, "Bob", "Hill", "bob@example.com", 2, 5, tracker.AccessUser)

	sub := timeoff("vacation", "", "23-06-2025", "25-06-2025")
	sub.EmployeeName = "Bob Hill"

	_, err := engine.Submit(ctx, actorFor(admin), sub)

	var insufficient *tracker.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(days(2)))
	assert.True(t, entitlementOf(t, store, bob.ID).VacationDaysAvailable.Equal(days(2)))
}

// =============================================================================
// REVIEW
// =============================================================================

func TestProcessPending_ApproveDebitsAtApprovalTime(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	alice := seedEmployee(t, store, "Alice", "Stone", "alice@example.com", 10, 5, tracker.AccessUser)

	request, err := engine.Submit(ctx, actorFor(alice), timeoff("vacation", "", "23-06-2025", "25-06-2025"))
	require.NoError(t, err)
	require.True(t, entitlementOf(t, store, alice.ID).VacationDaysAvailable.Equal(days(10)))

	reviewed, err := engine.ProcessPending(ctx, request.ID, tracker.ReviewApprove, "")
	require.NoError(t, err)

	assert.Equal(t, tracker.StatusApproved, reviewed.Status)
	assert.True(t, reviewed.NotifyOwner)
	assert.True(t, entitlementOf(t, store, alice.ID).VacationDaysAvailable.Equal(days(7)))
}

func TestProcessPending_RejectStoresCommentsWithoutDebit(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	alice := seedEmployee(t, store, "Alice", "Stone", "alice@example.com", 10, 5, tracker.AccessUser)

	request, err := engine.Submit(ctx, actorFor(alice), timeoff("sick", "", "17-06-2025", "17-06-2025"))
	require.NoError(t, err)

	reviewed, err := engine.ProcessPending(ctx, request.ID, tracker.ReviewReject, "doctor's note required")
	require.NoError(t, err)

	assert.Equal(t, tracker.StatusRejected, reviewed.Status)
	assert.Equal(t, "doctor's note required", reviewed.Comments)
	assert.True(t, reviewed.NotifyOwner)
	assert.True(t, entitlementOf(t, store, alice.ID).SickDaysTaken.IsZero())
}

func TestProcessPending_ReviewHappensExactlyOnce(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	alice := seedEmployee(t, store, "Alice", "Stone", "alice@example.com", 10, 5, tracker.AccessUser)

	request, err := engine.Submit(ctx, actorFor(alice), timeoff("vacation", "", "23-06-2025", "25-06-2025"))
	require.NoError(t, err)

	_, err = engine.ProcessPending(ctx, request.ID, tracker.ReviewApprove, "")
	require.NoError(t, err)

	_, err = engine.ProcessPending(ctx, request.ID, tracker.ReviewApprove, "")
	var reviewed *tracker.AlreadyReviewedError
	require.ErrorAs(t, err, &reviewed)
	assert.Equal(t, tracker.StatusApproved, reviewed.Status)

	// The balance was debited once, not twice.
	assert.True(t, entitlementOf(t, store, alice.ID).VacationDaysAvailable.Equal(days(7)))
}

func TestProcessPending_ApproveRechecksStoredBalance(t *testing.T) {
	// Pending requests reserve nothing; an on-behalf grant in between can
	// consume the balance the pending request was counting on.
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)
	alice := seedEmployee(t, store, "Alice", "Stone", "alice@example.com", 4, 5, tracker.AccessUser)

	request, err := engine.Submit(ctx, actorFor(alice), timeoff("vacation", "", "23-06-2025", "25-06-2025"))
	require.NoError(t, err)

	grant := timeoff("vacation", "", "07-07-2025", "08-07-2025")
	grant.EmployeeName = "Alice Stone"
	_, err = engine.Submit(ctx, actorFor(admin), grant)
	require.NoError(t, err)

	_, err = engine.ProcessPending(ctx, request.ID, tracker.ReviewApprove, "")
	var insufficient *tracker.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(days(2)))
}

func TestProcessPending_UnknownRequest(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.ProcessPending(context.Background(), 999, tracker.ReviewApprove, "")
	assert.ErrorIs(t, err, tracker.ErrRequestNotFound)
}

// =============================================================================
// REMOVAL
// =============================================================================

func TestRemove_FutureRequestRefundsBalance(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)
	bob := seedEmployee(t, store, "Bob", "Hill", "bob@example.com", 10, 5, tracker.AccessUser)

	sub := timeoff("vacation", "", "23-06-2025", "25-06-2025")
	sub.EmployeeName = "Bob Hill"
	request, err := engine.Submit(ctx, actorFor(admin), sub)
	require.NoError(t, err)
	require.True(t, entitlementOf(t, store, bob.ID).VacationDaysAvailable.Equal(days(7)))

	removal, err := engine.Remove(ctx, request.ID)
	require.NoError(t, err)

	assert.True(t, removal.Refunded)
	assert.Equal(t, "Bob Hill", removal.OwnerName)
	assert.True(t, entitlementOf(t, store, bob.ID).VacationDaysAvailable.Equal(days(10)))

	gone, err := store.GetRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestRemove_PastRequestDoesNotRefund(t *testing.T) {
	// The leave started June 2, two weeks before the frozen clock; those
	// days were consumed.
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)
	bob := seedEmployee(t, store, "Bob", "Hill", "bob@example.com", 10, 5, tracker.AccessUser)

	sub := timeoff("vacation", "", "02-06-2025", "04-06-2025")
	sub.EmployeeName = "Bob Hill"
	request, err := engine.Submit(ctx, actorFor(admin), sub)
	require.NoError(t, err)

	removal, err := engine.Remove(ctx, request.ID)
	require.NoError(t, err)

	assert.False(t, removal.Refunded)
	assert.True(t, entitlementOf(t, store, bob.ID).VacationDaysAvailable.Equal(days(7)))
}

// =============================================================================
// STATUTORY HOLIDAYS
// =============================================================================

func TestSubmit_Holiday_AutoApprovedWithoutOwner(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)

	request, err := engine.Submit(ctx, actorFor(admin), timeoff("stat", "Canada Day", "01-07-2025", "01-07-2025"))
	require.NoError(t, err)

	assert.Equal(t, tracker.StatusApproved, request.Status)
	assert.Nil(t, request.OwnerID)
	assert.Equal(t, "Canada Day", request.Title)
}

func TestSubmit_Holiday_DuplicateRejected(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)

	_, err := engine.Submit(ctx, actorFor(admin), timeoff("stat", "Canada Day", "01-07-2025", "01-07-2025"))
	require.NoError(t, err)

	_, err = engine.Submit(ctx, actorFor(admin), timeoff("stat", "Canada Day", "01-07-2025", "01-07-2025"))

	var duplicate *tracker.DuplicateHolidayError
	require.ErrorAs(t, err, &duplicate)
	assert.Equal(t, tracker.LeaveStatutory, duplicate.Type)
}

func TestHolidayPropagation_AddAndRemoveRoundTrip(t *testing.T) {
	// GIVEN: An approved Mon-Wed vacation (3 days, balance 7)
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)
	bob := seedEmployee(t, store, "Bob", "Hill", "bob@example.com", 10, 5, tracker.AccessUser)

	sub := timeoff("vacation", "", "23-06-2025", "25-06-2025")
	sub.EmployeeName = "Bob Hill"
	vacation, err := engine.Submit(ctx, actorFor(admin), sub)
	require.NoError(t, err)
	require.True(t, entitlementOf(t, store, bob.ID).VacationDaysAvailable.Equal(days(7)))

	// WHEN: A statutory holiday lands on the Tuesday inside it
	holiday, err := engine.Submit(ctx, actorFor(admin), timeoff("stat", "Midsummer", "24-06-2025", "24-06-2025"))
	require.NoError(t, err)

	// THEN: The vacation gets one day cheaper and the balance one day back
	stored, err := store.GetRequest(ctx, vacation.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.NumberOfDays)
	assert.True(t, entitlementOf(t, store, bob.ID).VacationDaysAvailable.Equal(days(8)))

	// WHEN: The holiday is removed again (it is in the future)
	_, err = engine.Remove(ctx, holiday.ID)
	require.NoError(t, err)

	// THEN: Day count and balance are exactly where they started
	stored, err = store.GetRequest(ctx, vacation.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.NumberOfDays)
	assert.True(t, entitlementOf(t, store, bob.ID).VacationDaysAvailable.Equal(days(7)))
}

func TestHolidayPropagation_PendingVacationShiftsCountOnly(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)
	alice := seedEmployee(t, store, "Alice", "Stone", "alice@example.com", 10, 5, tracker.AccessUser)

	vacation, err := engine.Submit(ctx, actorFor(alice), timeoff("vacation", "", "23-06-2025", "25-06-2025"))
	require.NoError(t, err)

	_, err = engine.Submit(ctx, actorFor(admin), timeoff("stat", "Midsummer", "24-06-2025", "24-06-2025"))
	require.NoError(t, err)

	stored, err := store.GetRequest(ctx, vacation.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.NumberOfDays)

	// No debit ever happened, so no credit either.
	assert.True(t, entitlementOf(t, store, alice.ID).VacationDaysAvailable.Equal(days(10)))
}

func TestHolidayPropagation_WeekendHolidayShiftsNothing(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)
	bob := seedEmployee(t, store, "Bob", "Hill", "bob@example.com", 10, 5, tracker.AccessUser)

	// Friday June 20 through Monday June 23 inclusive: 2 working days.
	sub := timeoff("vacation", "", "20-06-2025", "23-06-2025")
	sub.EmployeeName = "Bob Hill"
	vacation, err := engine.Submit(ctx, actorFor(admin), sub)
	require.NoError(t, err)
	require.Equal(t, 2, vacation.NumberOfDays)

	// Saturday holiday inside the range.
	_, err = engine.Submit(ctx, actorFor(admin), timeoff("stat", "Solstice", "21-06-2025", "21-06-2025"))
	require.NoError(t, err)

	stored, err := store.GetRequest(ctx, vacation.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.NumberOfDays)
	assert.True(t, entitlementOf(t, store, bob.ID).VacationDaysAvailable.Equal(days(8)))
}

func TestCompanyDay_NeverPropagates(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)
	bob := seedEmployee(t, store, "Bob", "Hill", "bob@example.com", 10, 5, tracker.AccessUser)

	sub := timeoff("vacation", "", "23-06-2025", "25-06-2025")
	sub.EmployeeName = "Bob Hill"
	vacation, err := engine.Submit(ctx, actorFor(admin), sub)
	require.NoError(t, err)

	_, err = engine.Submit(ctx, actorFor(admin), timeoff("company", "Summer Party", "24-06-2025", "24-06-2025"))
	require.NoError(t, err)

	stored, err := store.GetRequest(ctx, vacation.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.NumberOfDays)
	assert.True(t, entitlementOf(t, store, bob.ID).VacationDaysAvailable.Equal(days(7)))
}

// =============================================================================
// EVENTS & NOTIFICATIONS
// =============================================================================

func TestEvents_EmployeeSeesOwnPendingOnly(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	alice := seedEmployee(t, store, "Alice", "Stone", "alice@example.com", 10, 5, tracker.AccessUser)
	bob := seedEmployee(t, store, "Bob", "Hill", "bob@example.com", 10, 5, tracker.AccessUser)

	_, err := engine.Submit(ctx, actorFor(alice), timeoff("vacation", "", "23-06-2025", "25-06-2025"))
	require.NoError(t, err)
	_, err = engine.Submit(ctx, actorFor(bob), timeoff("sick", "", "17-06-2025", "17-06-2025"))
	require.NoError(t, err)

	events, err := engine.Events(ctx, actorFor(alice))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Title, "(Pending)")
	assert.Equal(t, "vacation", events[0].Category)
}

func TestEvents_AdminSeesAllPending(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)
	alice := seedEmployee(t, store, "Alice", "Stone", "alice@example.com", 10, 5, tracker.AccessUser)
	bob := seedEmployee(t, store, "Bob", "Hill", "bob@example.com", 10, 5, tracker.AccessUser)

	_, err := engine.Submit(ctx, actorFor(alice), timeoff("vacation", "", "23-06-2025", "25-06-2025"))
	require.NoError(t, err)
	_, err = engine.Submit(ctx, actorFor(bob), timeoff("sick", "", "17-06-2025", "17-06-2025"))
	require.NoError(t, err)

	events, err := engine.Events(ctx, actorFor(admin))
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestNotifications_DeliveredExactlyOnce(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	alice := seedEmployee(t, store, "Alice", "Stone", "alice@example.com", 10, 5, tracker.AccessUser)

	request, err := engine.Submit(ctx, actorFor(alice), timeoff("vacation", "", "23-06-2025", "25-06-2025"))
	require.NoError(t, err)
	_, err = engine.ProcessPending(ctx, request.ID, tracker.ReviewApprove, "")
	require.NoError(t, err)

	first, err := engine.Notifications(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, tracker.StatusApproved, first[0].Request.Status)
	assert.Equal(t, "2025-06-25", first[0].End, "notification shows the inclusive end date")

	second, err := engine.Notifications(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, second)
}

// =============================================================================
// RECONCILIATION
// =============================================================================

func TestReconcile_ConsistentAfterNormalOperation(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	admin := seedEmployee(t, store, "Ada", "Admin", "ada@example.com", 10, 5, tracker.AccessAdmin)
	bob := seedEmployee(t, store, "Bob", "Hill", "bob@example.com", 10, 5, tracker.AccessUser)

	sub := timeoff("vacation", "", "23-06-2025", "25-06-2025")
	sub.EmployeeName = "Bob Hill"
	_, err := engine.Submit(ctx, actorFor(admin), sub)
	require.NoError(t, err)

	drift, err := engine.Reconcile(ctx, bob.ID)
	require.NoError(t, err)
	assert.True(t, drift.Consistent(), "debit-on-approve keeps the ledger in step with history")

	drifts, err := engine.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}

func TestReconcile_DetectsCorruptedBalance(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()
	bob := seedEmployee(t, store, "Bob", "Hill", "bob@example.com", 10, 5, tracker.AccessUser)

	entitlement := entitlementOf(t, store, bob.ID)
	entitlement.VacationDaysAvailable = entitlement.VacationDaysAvailable.Add(decimal.NewFromInt(2))
	require.NoError(t, store.UpdateEntitlement(ctx, entitlement))

	drift, err := engine.Reconcile(ctx, bob.ID)
	require.NoError(t, err)
	assert.False(t, drift.Consistent())
	assert.True(t, drift.Drift.Equal(days(2)))

	drifts, err := engine.ReconcileAll(ctx)
	require.NoError(t, err)
	require.Len(t, drifts, 1)
	assert.Equal(t, bob.ID, drifts[0].EmployeeID)
}
