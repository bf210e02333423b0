package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/vacation-tracker/api"
	"github.com/warp/vacation-tracker/calendar"
	"github.com/warp/vacation-tracker/store/memory"
	"github.com/warp/vacation-tracker/tracker"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const (
	adminEmail = "ada@example.com"
	userEmail  = "alice@example.com"
)

// newTestServer wires the full HTTP stack over an in-memory store with the
// clock frozen to Monday, June 16 2025. An admin (Ada Admin) and a regular
// employee (Alice Stone) are pre-seeded with 10 vacation / 5 sick days.
func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	engine := tracker.NewEngine(store, store, store)
	engine.Today = func() calendar.Date { return calendar.NewDate(2025, time.June, 16) }

	handler := api.NewHandler(engine, store, zap.NewNop())
	server := httptest.NewServer(api.NewRouter(handler, []string{"*"}))
	t.Cleanup(server.Close)

	seed(t, store, "Ada", "Admin", adminEmail, tracker.AccessAdmin)
	seed(t, store, "Alice", "Stone", userEmail, tracker.AccessUser)
	return server, store
}

func seed(t *testing.T, store *memory.Store, first, last, email string, access tracker.AccessLevel) {
	t.Helper()
	ctx := context.Background()

	employee := &tracker.Employee{Email: email, StartDate: calendar.NewDate(2020, time.January, 6)}
	employee.SetName(first, last)
	require.NoError(t, store.AddEmployee(ctx, employee))
	require.NoError(t, store.AddEntitlement(ctx, tracker.NewEntitlement(
		employee.ID, access, decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(5))))
}

func do(t *testing.T, server *httptest.Server, method, path, email string, body any) *http.Response {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, server.URL+path, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.Header.Set("X-User-Email", email)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeResult(t *testing.T, resp *http.Response) api.ResultDTO {
	t.Helper()
	var result api.ResultDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

// =============================================================================
// IDENTITY
// =============================================================================

func TestAPI_UnknownUserIsUnauthorized(t *testing.T) {
	server, _ := newTestServer(t)

	resp := do(t, server, http.MethodGet, "/api/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = do(t, server, http.MethodGet, "/api/events", "stranger@example.com", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_AdminRoutesRejectRegularUsers(t *testing.T) {
	server, _ := newTestServer(t)

	resp := do(t, server, http.MethodGet, "/api/report", userEmail, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = do(t, server, http.MethodGet, "/api/employees", userEmail, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// =============================================================================
// SUBMISSION
// =============================================================================

func TestAPI_SelfSubmissionPendsWithConfirmation(t *testing.T) {
	server, _ := newTestServer(t)

	resp := do(t, server, http.MethodPost, "/api/requests", userEmail, api.SubmitRequestDTO{
		Type: "vacation", StartDate: "23-06-2025", EndDate: "25-06-2025",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	assert.Equal(t, "Success!", result.Title)
	assert.Equal(t, "Thanks for your submission. Your request is now pending approval.", result.Body)
}

func TestAPI_WeekendStartFailsWithFormMessage(t *testing.T) {
	server, _ := newTestServer(t)

	resp := do(t, server, http.MethodPost, "/api/requests", userEmail, api.SubmitRequestDTO{
		Type: "vacation", StartDate: "21-06-2025", EndDate: "23-06-2025",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	result := decodeResult(t, resp)
	assert.Equal(t, "Oops!", result.Title)
	assert.Equal(t, "Vacation/Sick days cannot start on a weekend.", result.Body)
}

func TestAPI_DuplicateHolidayMessage(t *testing.T) {
	server, _ := newTestServer(t)

	holiday := api.SubmitRequestDTO{
		Title: "Canada Day", Type: "stat", StartDate: "01-07-2025", EndDate: "01-07-2025",
	}
	resp := do(t, server, http.MethodPost, "/api/requests", adminEmail, holiday)
	result := decodeResult(t, resp)
	require.Equal(t, "Success!", result.Title)
	assert.Equal(t, "Canada Day was added", result.Body)

	resp = do(t, server, http.MethodPost, "/api/requests", adminEmail, holiday)
	result = decodeResult(t, resp)
	assert.Equal(t, "Oops!", result.Title)
	assert.Equal(t, "There already exists a Stat Holiday for this day.", result.Body)
}

func TestAPI_OnBehalfInsufficientBalanceMessage(t *testing.T) {
	server, _ := newTestServer(t)

	// Alice has 10 days; three full weeks cannot be covered.
	resp := do(t, server, http.MethodPost, "/api/requests", adminEmail, api.SubmitRequestDTO{
		EmployeeName: "Alice Stone", Type: "vacation",
		StartDate: "23-06-2025", EndDate: "11-07-2025",
	})
	result := decodeResult(t, resp)

	assert.Equal(t, "Oops!", result.Title)
	assert.Equal(t,
		"Alice Stone does not have enough Vacation Days to cover this request.\nThe user has 10 days available.",
		result.Body)
}

// =============================================================================
// REVIEW
// =============================================================================

func TestAPI_ProcessRequestLifecycle(t *testing.T) {
	server, store := newTestServer(t)

	resp := do(t, server, http.MethodPost, "/api/requests", userEmail, api.SubmitRequestDTO{
		Type: "vacation", StartDate: "23-06-2025", EndDate: "25-06-2025",
	})
	require.Equal(t, "Success!", decodeResult(t, resp).Title)

	pending, err := store.ListRequestsByStatus(context.Background(), tracker.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	path := fmt.Sprintf("/api/requests/%d/process", pending[0].ID)

	resp = do(t, server, http.MethodPost, path, adminEmail, api.ProcessRequestDTO{
		Action: "approve",
	})
	result := decodeResult(t, resp)
	assert.Equal(t, "Success!", result.Title)

	stored, err := store.GetRequest(context.Background(), pending[0].ID)
	require.NoError(t, err)
	assert.Equal(t, tracker.StatusApproved, stored.Status)

	// Reviewing again reports the terminal status.
	resp = do(t, server, http.MethodPost, path, adminEmail, api.ProcessRequestDTO{
		Action: "approve",
	})
	result = decodeResult(t, resp)
	assert.Equal(t, "Oops!", result.Title)
	assert.Equal(t, `This request was already reviewed and has a status of "Approved".`, result.Body)
}

func TestAPI_ProcessUnknownRequest(t *testing.T) {
	server, _ := newTestServer(t)

	resp := do(t, server, http.MethodPost, "/api/requests/999/process", adminEmail, api.ProcessRequestDTO{
		Action: "approve",
	})
	result := decodeResult(t, resp)
	assert.Equal(t, "Oops!", result.Title)
	assert.Equal(t,
		"Unfornately this request doesn't exists. Please try again or contact your database admin.",
		result.Body)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestAPI_AddEmployeeAndDuplicateEmail(t *testing.T) {
	server, _ := newTestServer(t)

	form := api.EmployeeFormDTO{
		FirstName: "Bob", LastName: "Hill", Email: "bob@example.com",
		StartDate: "06-01-2020", AccessLevel: "User",
		VacationDays: "15", SickDays: "6",
	}

	resp := do(t, server, http.MethodPost, "/api/employees", adminEmail, form)
	result := decodeResult(t, resp)
	require.Equal(t, "Success!", result.Title)
	assert.Equal(t, "Bob Hill was successfully added.", result.Body)

	form.FirstName = "Robert"
	resp = do(t, server, http.MethodPost, "/api/employees", adminEmail, form)
	result = decodeResult(t, resp)
	assert.Equal(t, "Oops!", result.Title)
	assert.Equal(t, "A record with bob@example.com already exist.", result.Body)
}

func TestAPI_EmployeeNamesAndDetails(t *testing.T) {
	server, _ := newTestServer(t)

	resp := do(t, server, http.MethodGet, "/api/employees", adminEmail, nil)
	var names []api.EmployeeNameDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	require.Len(t, names, 2)
	assert.Equal(t, "Admin, Ada", names[0].Label)

	resp = do(t, server, http.MethodGet, "/api/employees/details?name=Alice+Stone", adminEmail, nil)
	var details api.EmployeeDetailsDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&details))
	assert.Equal(t, "Alice", details.FirstName)
	assert.Equal(t, "10", details.Vacation)
	assert.Equal(t, "06-01-2020", details.StartDate)
}

// =============================================================================
// REPORTING
// =============================================================================

func TestAPI_ReportRows(t *testing.T) {
	server, _ := newTestServer(t)

	resp := do(t, server, http.MethodGet, "/api/report", adminEmail, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rows []api.ReportEntryDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "10", rows[0].VacationDaysAvailable)
}

func TestAPI_ReconciliationStartsClean(t *testing.T) {
	server, _ := newTestServer(t)

	resp := do(t, server, http.MethodGet, "/api/reconciliation", adminEmail, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var drifts []api.DriftDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&drifts))
	assert.Empty(t, drifts)
}
