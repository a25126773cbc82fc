/*
handlers_test.go - HTTP-level tests for the ledger API

Exercises the full stack: chi router -> handlers -> writer/aggregator ->
sqlite :memory: store.
*/
package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/absence-ledger/api"
	"github.com/warp/absence-ledger/ledger"
	"github.com/warp/absence-ledger/store/sqlite"
)

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	t.Helper()

	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	handler := api.NewHandler(store, store, log)
	srv := httptest.NewServer(api.NewRouter(handler, nil))
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor", "test-admin")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

// =============================================================================
// TIME-OFF ENDPOINTS
// =============================================================================

func TestCreateTimeOff_Created(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/time-events", `{
		"employee_name": "mira",
		"kind": "vacation",
		"day_from": "2025-03-01",
		"day_to": "2025-03-05"
	}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCreateTimeOff_BadHoursRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/time-events", `{
		"employee_name": "mira",
		"kind": "short",
		"day": "2025-03-01",
		"hours_off": 13
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body api.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "invalid_input", body.Code)
	assert.Contains(t, body.Details, "hours_off")
}

func TestCreateTimeOff_RangeTooLongCode(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/time-events", `{
		"employee_name": "mira",
		"kind": "vacation",
		"day_from": "2025-01-01",
		"day_to": "2025-03-31"
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body api.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, "range_too_long", body.Code)
}

func TestDeleteTimeEvent_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodDelete, srv.URL+"/api/time-events/no-such-id", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// COMPENSATION ENDPOINTS
// =============================================================================

func TestCreateCompEvent_RecordsActorFromHeader(t *testing.T) {
	srv, store := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/comp-events", `{
		"employee_name": "mira",
		"day": "2025-03-10",
		"unit": "hour",
		"amount": 3,
		"note": "closing shift"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	events, err := store.ListCompEvents(context.Background(), ledger.ListFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "test-admin", events[0].CreatedBy)
}

func TestCreateCompEvent_ZeroAmountRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/comp-events", `{
		"employee_name": "mira",
		"day": "2025-03-10",
		"unit": "day",
		"amount": 0,
		"note": "nothing"
	}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteCompEvent_RoundTrip(t *testing.T) {
	srv, store := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/comp-events", `{
		"employee_name": "mira",
		"day": "2025-03-10",
		"unit": "day",
		"amount": 2,
		"note": "sunday opening"
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	events, err := store.ListCompEvents(context.Background(), ledger.ListFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/comp-events/"+events[0].ID, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/comp-events/"+events[0].ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// QUERIES AND STATEMENTS
// =============================================================================

func TestQueryWindow_MonthWithSummaries(t *testing.T) {
	srv, _ := newTestServer(t)

	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/api/time-events", `{
		"employee_name": "mira", "kind": "vacation", "day_from": "2025-03-03", "day_to": "2025-03-04"
	}`).StatusCode)
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/api/comp-events", `{
		"employee_name": "zara", "day": "2025-03-08", "unit": "day", "amount": 1, "note": "holiday cover"
	}`).StatusCode)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/ledger?month=2025-03", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.LedgerResponse
	decode(t, resp, &body)
	assert.Len(t, body.TimeEvents, 2)
	assert.Len(t, body.CompEvents, 1)
	require.Len(t, body.TimeSummaries, 1)
	assert.Equal(t, 2, body.TimeSummaries[0].VacationDays)
	require.Len(t, body.CompSummaries, 1)
	assert.Equal(t, 1, body.CompSummaries[0].BalanceDays)
}

func TestQueryWindow_BadMonthToken(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/ledger?month=spring", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBuildStatement_OrgPacketIncludesCompOnlyEmployee(t *testing.T) {
	srv, _ := newTestServer(t)

	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/api/time-events", `{
		"employee_name": "mira", "kind": "vacation", "day": "2025-03-03"
	}`).StatusCode)
	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/api/comp-events", `{
		"employee_name": "zara", "day": "2025-03-08", "unit": "hour", "amount": 5, "note": "stocktake"
	}`).StatusCode)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/statements/2025", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.OrgStatementDTO
	decode(t, resp, &body)
	assert.Equal(t, 2025, body.Year)
	require.Len(t, body.Rows, 2)
	assert.Equal(t, "mira", body.Rows[0].EmployeeName)
	assert.Equal(t, "zara", body.Rows[1].EmployeeName)
	assert.Equal(t, 5, body.Rows[1].BalanceHours)
	assert.Zero(t, body.Rows[1].VacationDays)
}

func TestBuildStatement_EmployeeDetail(t *testing.T) {
	srv, _ := newTestServer(t)

	require.Equal(t, http.StatusCreated, doJSON(t, http.MethodPost, srv.URL+"/api/time-events", `{
		"employee_name": "mira", "kind": "short", "day": "2025-03-03", "hours_off": 5
	}`).StatusCode)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/statements/2025?employee=mira", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.EmployeeStatementDTO
	decode(t, resp, &body)
	assert.Equal(t, "mira", body.EmployeeName)
	assert.Equal(t, 1, body.ShortDays)
	assert.Equal(t, 5, body.ShortHours)
	require.Len(t, body.TimeEvents, 1)
}

// =============================================================================
// DIRECTORY AND HEALTH
// =============================================================================

func TestListEmployees_EmptyIsJSONArray(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/employees", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var names []string
	decode(t, resp, &names)
	assert.Empty(t, names)
}

func TestHealthCheck(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
