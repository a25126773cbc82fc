/*
Package ledger is the time-off and compensation core.

PURPOSE:
  This package contains the domain model and algorithms for tracking
  employee absences (full vacation days and partial "short" days) and a
  parallel compensation ledger (hours/days the organization owes an
  employee, or has paid back). Everything else in the surrounding
  application - admin UI, statement rendering, authentication - is an
  external collaborator that calls into or consumes this core.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeEvent: one employee's absence on one calendar day
  - CompEvent: one ledger line of owed or settled time
  - EmployeeSummary / CompSummary: derived per-employee totals

DESIGN PRINCIPLES:
  1. Natural-key idempotency: TimeEvents upsert on (employee, day, kind)
  2. Append-only compensation: CompEvents are never updated, only
     inserted or individually deleted; corrections are offsetting lines
  3. No cached state: every summary is recomputed from events, so the
     ledger is always consistent with the store by construction

SEE ALSO:
  - writer.go: validation + transactional writes
  - aggregate.go: summary computation and the outer-join merge
  - statement.go: packets for the external document renderer
*/
package ledger

import "time"

// =============================================================================
// EVENT KINDS AND UNITS
// =============================================================================

// Kind classifies a TimeEvent.
type Kind string

const (
	KindVacation Kind = "vacation" // full day off
	KindShort    Kind = "short"    // partial day, 1-12 hours off
)

// ParseKind validates a kind token.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindVacation, KindShort:
		return Kind(s), nil
	default:
		return "", &InputError{Field: "kind", Reason: "must be \"vacation\" or \"short\""}
	}
}

// Unit is the denomination of a compensation line.
type Unit string

const (
	UnitDay  Unit = "day"
	UnitHour Unit = "hour"
)

// ParseUnit validates a unit token.
func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case UnitDay, UnitHour:
		return Unit(s), nil
	default:
		return "", &InputError{Field: "unit", Reason: "must be \"day\" or \"hour\""}
	}
}

// =============================================================================
// GUARDRAILS - Hard sanity bounds on input
// =============================================================================

const (
	// MaxRangeDays caps a single vacation request. Two months away is
	// plausible; a fat-fingered multi-year range is not.
	MaxRangeDays = 62

	// Short-day hours bounds. Default applies when the caller omits hours.
	MinShortHours     = 1
	MaxShortHours     = 12
	DefaultShortHours = 4

	// Compensation magnitude bounds per unit. Loose sanity caps, not
	// tied to the vacation-range limit.
	MaxCompDays  = 62
	MaxCompHours = 24

	// Statement/aggregation year bounds.
	MinStatementYear = 2000
	MaxStatementYear = 2100

	// MaxQueryRows caps raw event listings per query.
	MaxQueryRows = 3000
)

// =============================================================================
// TIME EVENT - One employee-day of absence
// =============================================================================

// TimeEvent records one employee's absence on one calendar day.
// At most one event exists per (EmployeeName, Day, Kind); resubmitting
// the same triple updates HoursOff/Note in place.
type TimeEvent struct {
	ID           string
	EmployeeName string
	Day          Date
	Kind         Kind
	HoursOff     *int // required in [1,12] for short, nil for vacation
	Note         string
	CreatedAt    time.Time
	CreatedBy    string
}

// =============================================================================
// COMP EVENT - One compensation ledger line
// =============================================================================

// CompEvent records a debt or settlement between employer and employee.
// Amount is a nonzero signed integer: positive means the organization
// owes the employee, negative means a debt was settled. There is no
// uniqueness constraint; every line is independent.
type CompEvent struct {
	ID           string
	EmployeeName string
	Day          Date
	Unit         Unit
	Amount       int
	Note         string // required; the only audit trail for the line
	CreatedAt    time.Time
	CreatedBy    string
}

// =============================================================================
// DERIVED SUMMARIES - Recomputed on every query, never persisted
// =============================================================================

// EmployeeSummary totals one employee's TimeEvents in a window.
type EmployeeSummary struct {
	EmployeeName string
	VacationDays int
	ShortDays    int
	ShortHours   int
}

// CompSummary totals one employee's CompEvents in a window, split by
// unit into credit (positive amounts), debit (absolute sum of negative
// amounts) and the signed balance.
type CompSummary struct {
	EmployeeName string
	CreditDays   int
	DebitDays    int
	BalanceDays  int
	CreditHours  int
	DebitHours   int
	BalanceHours int
}

// CombinedSummary is the outer join of both summary kinds for one
// employee. An employee with only CompEvents in the window still gets a
// row, with the time-off fields zeroed.
type CombinedSummary struct {
	EmployeeName string
	VacationDays int
	ShortDays    int
	ShortHours   int
	CreditDays   int
	DebitDays    int
	BalanceDays  int
	CreditHours  int
	DebitHours   int
	BalanceHours int
}
