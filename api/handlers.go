/*
handlers.go - HTTP handlers for the ledger API

PURPOSE:
  Implements all API endpoints. Handlers follow a standard pattern:
  1. Parse request (URL params, query strings, JSON body)
  2. Call domain logic (writer, aggregator, statement builder)
  3. Serialize response
  4. Map domain errors to HTTP statuses

ERROR HANDLING:
  - 400: invalid input, range too long
  - 404: delete referencing a nonexistent id
  - 500: persistence failures (the transaction was rolled back in full)

ACTOR IDENTITY:
  The caller is already authenticated upstream; its identity arrives in
  the X-Actor header and is recorded as created_by on every write.

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/warp/absence-ledger/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Writer     *ledger.Writer
	Aggregator *ledger.Aggregator
	Statements *ledger.StatementBuilder
	Directory  ledger.EmployeeDirectory
	Health     Pinger
	Log        logrus.FieldLogger
}

// NewHandler wires handlers for a store that implements the event
// store and the employee directory (the sqlite store does both).
func NewHandler(store ledger.EventStore, dir ledger.EmployeeDirectory, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Handler{
		Writer:     ledger.NewWriter(store, log),
		Aggregator: ledger.NewAggregator(store),
		Statements: ledger.NewStatementBuilder(store),
		Directory:  dir,
		Log:        log,
	}
	if p, ok := store.(Pinger); ok {
		h.Health = p
	}
	return h
}

// HealthCheck reports whether the service can reach its store.
// GET /api/health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		if err := h.Health.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store_unreachable", "Store unreachable", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func actor(r *http.Request) string {
	if a := r.Header.Get("X-Actor"); a != "" {
		return a
	}
	return "admin"
}

// =============================================================================
// EMPLOYEE DIRECTORY
// =============================================================================

// ListEmployees returns all known employee names.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	names, err := h.Directory.ListNames(r.Context())
	if err != nil {
		writeDomainError(w, &ledger.PersistenceError{Op: "list employees", Err: err})
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// =============================================================================
// TIME-OFF ENDPOINTS
// =============================================================================

// CreateTimeOff records a vacation range or a single short day.
// POST /api/time-events
func (h *Handler) CreateTimeOff(w http.ResponseWriter, r *http.Request) {
	var req CreateTimeOffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body", err)
		return
	}

	err := h.Writer.CreateTimeOff(r.Context(), ledger.TimeOffRequest{
		EmployeeName: req.EmployeeName,
		Kind:         req.Kind,
		Day:          req.Day,
		DayFrom:      req.DayFrom,
		DayTo:        req.DayTo,
		HoursOff:     req.HoursOff,
		Note:         req.Note,
		Actor:        actor(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

// DeleteTimeEvent removes a single absence day by id.
// DELETE /api/time-events/{id}
func (h *Handler) DeleteTimeEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Writer.DeleteTimeEvent(r.Context(), id, actor(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// COMPENSATION ENDPOINTS
// =============================================================================

// CreateCompEvent appends one compensation ledger line.
// POST /api/comp-events
func (h *Handler) CreateCompEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateCompRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Invalid request body", err)
		return
	}

	err := h.Writer.CreateComp(r.Context(), ledger.CompRequest{
		EmployeeName: req.EmployeeName,
		Day:          req.Day,
		Unit:         req.Unit,
		Amount:       req.Amount,
		Note:         req.Note,
		Actor:        actor(r),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

// DeleteCompEvent removes one ledger line by id.
// DELETE /api/comp-events/{id}
func (h *Handler) DeleteCompEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Writer.DeleteCompEvent(r.Context(), id, actor(r)); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// WINDOW QUERIES
// =============================================================================

// QueryWindow answers month or year window queries with raw events plus
// both summary sets.
// GET /api/ledger?month=YYYY-MM | year=YYYY [&employee=NAME]
func (h *Handler) QueryWindow(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	employee := q.Get("employee")

	var (
		res *ledger.QueryResult
		err error
	)
	switch {
	case q.Get("month") != "":
		res, err = h.Aggregator.QueryMonth(r.Context(), q.Get("month"), employee)
	case q.Get("year") != "":
		var year int
		if year, err = strconv.Atoi(q.Get("year")); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "Invalid year", err)
			return
		}
		res, err = h.Aggregator.QueryYear(r.Context(), year, employee)
	default:
		res, err = h.Aggregator.Query(r.Context(), ledger.Window{}, employee)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, LedgerResponse{
		TimeEvents:    toTimeEventDTOs(res.TimeEvents),
		CompEvents:    toCompEventDTOs(res.CompEvents),
		TimeSummaries: toTimeSummaryDTOs(res.TimeSummaries),
		CompSummaries: toCompSummaryDTOs(res.CompSummaries),
	})
}

// =============================================================================
// STATEMENTS
// =============================================================================

// BuildStatement assembles the packet the external document renderer
// consumes: per-employee detail when ?employee= is given, otherwise the
// all-employees summary.
// GET /api/statements/{year}?employee=NAME
func (h *Handler) BuildStatement(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "Invalid year", err)
		return
	}

	if employee := r.URL.Query().Get("employee"); employee != "" {
		st, err := h.Statements.BuildEmployee(r.Context(), year, employee)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, EmployeeStatementDTO{
			EmployeeName: st.EmployeeName,
			Year:         st.Year,
			VacationDays: st.VacationDays,
			ShortDays:    st.ShortDays,
			ShortHours:   st.ShortHours,
			CreditDays:   st.CreditDays,
			DebitDays:    st.DebitDays,
			BalanceDays:  st.BalanceDays,
			CreditHours:  st.CreditHours,
			DebitHours:   st.DebitHours,
			BalanceHours: st.BalanceHours,
			TimeEvents:   toTimeEventDTOs(st.TimeEvents),
			CompEvents:   toCompEventDTOs(st.CompEvents),
		})
		return
	}

	st, err := h.Statements.BuildOrg(r.Context(), year)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	rows := make([]StatementRowDTO, len(st.Rows))
	for i, row := range st.Rows {
		rows[i] = StatementRowDTO{
			EmployeeName: row.EmployeeName,
			VacationDays: row.VacationDays,
			ShortDays:    row.ShortDays,
			ShortHours:   row.ShortHours,
			BalanceDays:  row.BalanceDays,
			BalanceHours: row.BalanceHours,
		}
	}
	writeJSON(w, http.StatusOK, OrgStatementDTO{Year: st.Year, Rows: rows})
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string, err error) {
	resp := ErrorResponse{Error: message, Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps ledger errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrRangeTooLong):
		writeError(w, http.StatusBadRequest, "range_too_long", "Date range too long", err)
	case errors.Is(err, ledger.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", "Invalid input", err)
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", "Not found", err)
	default:
		writeError(w, http.StatusInternalServerError, "persistence_failure", "Storage error", err)
	}
}
