/*
aggregate.go - Summary computation over arbitrary date windows

PURPOSE:
  Answers every read query of the core: raw events plus per-employee
  totals for an arbitrary half-open window, a calendar month, or a
  calendar year. Nothing is cached - each call folds over the events the
  store returns, so results always match committed state.

THE MERGE RULE:
  The combined yearly view outer-joins the two summary sets on employee
  name. An employee with compensation lines but zero time events in the
  window still appears, with the time-off fields zeroed. Dropping
  comp-only employees is a correctness bug; aggregate_test.go pins it.

SEE ALSO:
  - statement.go: composes these results into renderer packets
*/
package ledger

import (
	"context"
	"sort"
)

// Aggregator computes derived summaries from the event store.
type Aggregator struct {
	store EventStore
}

func NewAggregator(store EventStore) *Aggregator {
	return &Aggregator{store: store}
}

// QueryResult bundles everything one window query returns: the raw
// events (capped at MaxQueryRows, day descending then name ascending)
// and both summary sets (name ascending).
type QueryResult struct {
	TimeEvents    []TimeEvent
	CompEvents    []CompEvent
	TimeSummaries []EmployeeSummary
	CompSummaries []CompSummary
}

// Query runs the window query. An empty employeeName matches everyone;
// a zero Window matches all time.
func (a *Aggregator) Query(ctx context.Context, win Window, employeeName string) (*QueryResult, error) {
	filter := ListFilter{EmployeeName: employeeName, Window: win}

	timeEvents, err := a.store.ListTimeEvents(ctx, filter)
	if err != nil {
		return nil, &PersistenceError{Op: "list time events", Err: err}
	}
	compEvents, err := a.store.ListCompEvents(ctx, filter)
	if err != nil {
		return nil, &PersistenceError{Op: "list comp events", Err: err}
	}

	return &QueryResult{
		TimeEvents:    timeEvents,
		CompEvents:    compEvents,
		TimeSummaries: SummarizeTime(timeEvents),
		CompSummaries: SummarizeComp(compEvents),
	}, nil
}

// QueryMonth runs Query over [first-of-month, first-of-next-month) for
// a YYYY-MM token.
func (a *Aggregator) QueryMonth(ctx context.Context, token, employeeName string) (*QueryResult, error) {
	win, err := MonthWindow(token)
	if err != nil {
		return nil, err
	}
	return a.Query(ctx, win, employeeName)
}

// QueryYear runs Query over the calendar year.
func (a *Aggregator) QueryYear(ctx context.Context, year int, employeeName string) (*QueryResult, error) {
	win, err := YearWindow(year)
	if err != nil {
		return nil, err
	}
	return a.Query(ctx, win, employeeName)
}

// YearOverview returns the merged per-employee view for one calendar
// year: the outer join of time and comp summaries, name ascending.
func (a *Aggregator) YearOverview(ctx context.Context, year int) ([]CombinedSummary, error) {
	res, err := a.QueryYear(ctx, year, "")
	if err != nil {
		return nil, err
	}
	return MergeSummaries(res.TimeSummaries, res.CompSummaries), nil
}

// =============================================================================
// SUMMARY FOLDS
// =============================================================================

// SummarizeTime totals time events per employee:
// vacationDays = count(kind=vacation), shortDays = count(kind=short),
// shortHours = sum(hoursOff where kind=short). Sorted by name ascending.
func SummarizeTime(events []TimeEvent) []EmployeeSummary {
	byName := make(map[string]*EmployeeSummary)
	for _, ev := range events {
		s, ok := byName[ev.EmployeeName]
		if !ok {
			s = &EmployeeSummary{EmployeeName: ev.EmployeeName}
			byName[ev.EmployeeName] = s
		}
		switch ev.Kind {
		case KindVacation:
			s.VacationDays++
		case KindShort:
			s.ShortDays++
			if ev.HoursOff != nil {
				s.ShortHours += *ev.HoursOff
			}
		}
	}
	return sortedTimeSummaries(byName)
}

// SummarizeComp totals comp lines per employee, split by unit into
// credit (positive amounts), debit (absolute sum of negatives) and the
// signed balance. Sorted by name ascending.
func SummarizeComp(events []CompEvent) []CompSummary {
	byName := make(map[string]*CompSummary)
	for _, ev := range events {
		s, ok := byName[ev.EmployeeName]
		if !ok {
			s = &CompSummary{EmployeeName: ev.EmployeeName}
			byName[ev.EmployeeName] = s
		}
		credit, debit := ev.Amount, 0
		if ev.Amount < 0 {
			credit, debit = 0, -ev.Amount
		}
		switch ev.Unit {
		case UnitDay:
			s.CreditDays += credit
			s.DebitDays += debit
			s.BalanceDays += ev.Amount
		case UnitHour:
			s.CreditHours += credit
			s.DebitHours += debit
			s.BalanceHours += ev.Amount
		}
	}

	out := make([]CompSummary, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeName < out[j].EmployeeName })
	return out
}

// MergeSummaries outer-joins the two summary sets on employee name.
// The time set drives; comp-only employees are appended with zeroed
// time fields. The result is sorted by name ascending regardless of
// input order.
func MergeSummaries(times []EmployeeSummary, comps []CompSummary) []CombinedSummary {
	compByName := make(map[string]CompSummary, len(comps))
	for _, c := range comps {
		compByName[c.EmployeeName] = c
	}

	seen := make(map[string]bool, len(times))
	out := make([]CombinedSummary, 0, len(times)+len(comps))
	for _, t := range times {
		seen[t.EmployeeName] = true
		row := CombinedSummary{
			EmployeeName: t.EmployeeName,
			VacationDays: t.VacationDays,
			ShortDays:    t.ShortDays,
			ShortHours:   t.ShortHours,
		}
		if c, ok := compByName[t.EmployeeName]; ok {
			fillComp(&row, c)
		}
		out = append(out, row)
	}
	for _, c := range comps {
		if seen[c.EmployeeName] {
			continue
		}
		row := CombinedSummary{EmployeeName: c.EmployeeName}
		fillComp(&row, c)
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeName < out[j].EmployeeName })
	return out
}

func fillComp(row *CombinedSummary, c CompSummary) {
	row.CreditDays = c.CreditDays
	row.DebitDays = c.DebitDays
	row.BalanceDays = c.BalanceDays
	row.CreditHours = c.CreditHours
	row.DebitHours = c.DebitHours
	row.BalanceHours = c.BalanceHours
}

func sortedTimeSummaries(byName map[string]*EmployeeSummary) []EmployeeSummary {
	out := make([]EmployeeSummary, 0, len(byName))
	for _, s := range byName {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeName < out[j].EmployeeName })
	return out
}
