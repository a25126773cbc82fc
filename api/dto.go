/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types
  decouple the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

VALIDATION:
  Validation lives in the ledger.Writer, not here. DTOs are pure data
  carriers; the amount field decodes through decimal so a fractional
  JSON number truncates exactly instead of drifting through a float.

SEE ALSO:
  - handlers.go: uses these types
  - ledger/writer.go: the validation behind them
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/absence-ledger/ledger"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateTimeOffRequest submits a vacation range or a single short day.
type CreateTimeOffRequest struct {
	EmployeeName string `json:"employee_name"`
	Kind         string `json:"kind"`
	Day          string `json:"day,omitempty"`
	DayFrom      string `json:"day_from,omitempty"`
	DayTo        string `json:"day_to,omitempty"`
	HoursOff     *int   `json:"hours_off,omitempty"`
	Note         string `json:"note,omitempty"`
}

// CreateCompRequest submits one compensation ledger line.
type CreateCompRequest struct {
	EmployeeName string          `json:"employee_name"`
	Day          string          `json:"day"`
	Unit         string          `json:"unit"`
	Amount       decimal.Decimal `json:"amount"`
	Note         string          `json:"note"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// TimeEventDTO represents one absence day in API responses.
type TimeEventDTO struct {
	ID           string `json:"id"`
	EmployeeName string `json:"employee_name"`
	Day          string `json:"day"`
	Kind         string `json:"kind"`
	HoursOff     *int   `json:"hours_off,omitempty"`
	Note         string `json:"note,omitempty"`
	CreatedAt    string `json:"created_at"`
	CreatedBy    string `json:"created_by"`
}

// CompEventDTO represents one compensation line in API responses.
type CompEventDTO struct {
	ID           string `json:"id"`
	EmployeeName string `json:"employee_name"`
	Day          string `json:"day"`
	Unit         string `json:"unit"`
	Amount       int    `json:"amount"`
	Note         string `json:"note"`
	CreatedAt    string `json:"created_at"`
	CreatedBy    string `json:"created_by"`
}

// EmployeeSummaryDTO is one employee's time-off totals for a window.
type EmployeeSummaryDTO struct {
	EmployeeName string `json:"employee_name"`
	VacationDays int    `json:"vacation_days"`
	ShortDays    int    `json:"short_days"`
	ShortHours   int    `json:"short_hours"`
}

// CompSummaryDTO is one employee's compensation totals for a window.
type CompSummaryDTO struct {
	EmployeeName string `json:"employee_name"`
	CreditDays   int    `json:"credit_days"`
	DebitDays    int    `json:"debit_days"`
	BalanceDays  int    `json:"balance_days"`
	CreditHours  int    `json:"credit_hours"`
	DebitHours   int    `json:"debit_hours"`
	BalanceHours int    `json:"balance_hours"`
}

// LedgerResponse is the full window-query payload.
type LedgerResponse struct {
	TimeEvents    []TimeEventDTO       `json:"time_events"`
	CompEvents    []CompEventDTO       `json:"comp_events"`
	TimeSummaries []EmployeeSummaryDTO `json:"time_summaries"`
	CompSummaries []CompSummaryDTO     `json:"comp_summaries"`
}

// StatementRowDTO is one line of the all-employees statement packet.
type StatementRowDTO struct {
	EmployeeName string `json:"employee_name"`
	VacationDays int    `json:"vacation_days"`
	ShortDays    int    `json:"short_days"`
	ShortHours   int    `json:"short_hours"`
	BalanceDays  int    `json:"balance_days"`
	BalanceHours int    `json:"balance_hours"`
}

// OrgStatementDTO is the all-employees statement packet.
type OrgStatementDTO struct {
	Year int               `json:"year"`
	Rows []StatementRowDTO `json:"rows"`
}

// EmployeeStatementDTO is the single-employee detail packet.
type EmployeeStatementDTO struct {
	EmployeeName string         `json:"employee_name"`
	Year         int            `json:"year"`
	VacationDays int            `json:"vacation_days"`
	ShortDays    int            `json:"short_days"`
	ShortHours   int            `json:"short_hours"`
	CreditDays   int            `json:"credit_days"`
	DebitDays    int            `json:"debit_days"`
	BalanceDays  int            `json:"balance_days"`
	CreditHours  int            `json:"credit_hours"`
	DebitHours   int            `json:"debit_hours"`
	BalanceHours int            `json:"balance_hours"`
	TimeEvents   []TimeEventDTO `json:"time_events"`
	CompEvents   []CompEventDTO `json:"comp_events"`
}

// ErrorResponse is the structured error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toTimeEventDTOs(events []ledger.TimeEvent) []TimeEventDTO {
	dtos := make([]TimeEventDTO, len(events))
	for i, ev := range events {
		dtos[i] = TimeEventDTO{
			ID:           ev.ID,
			EmployeeName: ev.EmployeeName,
			Day:          ev.Day.String(),
			Kind:         string(ev.Kind),
			HoursOff:     ev.HoursOff,
			Note:         ev.Note,
			CreatedAt:    ev.CreatedAt.Format(time.RFC3339),
			CreatedBy:    ev.CreatedBy,
		}
	}
	return dtos
}

func toCompEventDTOs(events []ledger.CompEvent) []CompEventDTO {
	dtos := make([]CompEventDTO, len(events))
	for i, ev := range events {
		dtos[i] = CompEventDTO{
			ID:           ev.ID,
			EmployeeName: ev.EmployeeName,
			Day:          ev.Day.String(),
			Unit:         string(ev.Unit),
			Amount:       ev.Amount,
			Note:         ev.Note,
			CreatedAt:    ev.CreatedAt.Format(time.RFC3339),
			CreatedBy:    ev.CreatedBy,
		}
	}
	return dtos
}

func toTimeSummaryDTOs(summaries []ledger.EmployeeSummary) []EmployeeSummaryDTO {
	dtos := make([]EmployeeSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = EmployeeSummaryDTO{
			EmployeeName: s.EmployeeName,
			VacationDays: s.VacationDays,
			ShortDays:    s.ShortDays,
			ShortHours:   s.ShortHours,
		}
	}
	return dtos
}

func toCompSummaryDTOs(summaries []ledger.CompSummary) []CompSummaryDTO {
	dtos := make([]CompSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = CompSummaryDTO{
			EmployeeName: s.EmployeeName,
			CreditDays:   s.CreditDays,
			DebitDays:    s.DebitDays,
			BalanceDays:  s.BalanceDays,
			CreditHours:  s.CreditHours,
			DebitHours:   s.DebitHours,
			BalanceHours: s.BalanceHours,
		}
	}
	return dtos
}
