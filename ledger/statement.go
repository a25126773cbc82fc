/*
statement.go - Data packets for the external document renderer

PURPOSE:
  The sole boundary between the ledger core and the statement generator
  that turns totals into signed documents. The builder assembles plain
  data structures - totals plus itemized rows - and knows nothing about
  pages, fonts or signatures.

TWO SHAPES:
  EmployeeStatement: one employee, one year - totals plus every time and
                     comp row ordered by day ascending.
  OrgStatement:      every employee, one year - one summary row each,
                     no itemization.
*/
package ledger

import (
	"context"
	"strings"
)

// StatementBuilder assembles statement packets from the event store.
type StatementBuilder struct {
	store EventStore
}

func NewStatementBuilder(store EventStore) *StatementBuilder {
	return &StatementBuilder{store: store}
}

// EmployeeStatement is the detail packet for one employee and year.
type EmployeeStatement struct {
	EmployeeName string
	Year         int

	VacationDays int
	ShortDays    int
	ShortHours   int

	CreditDays   int
	DebitDays    int
	BalanceDays  int
	CreditHours  int
	DebitHours   int
	BalanceHours int

	// Itemized rows, day ascending.
	TimeEvents []TimeEvent
	CompEvents []CompEvent
}

// StatementRow is one employee's line in the all-employees packet.
type StatementRow struct {
	EmployeeName string
	VacationDays int
	ShortDays    int
	ShortHours   int
	BalanceDays  int
	BalanceHours int
}

// OrgStatement is the all-employees summary packet: totals and balances
// only, one row per employee, name ascending.
type OrgStatement struct {
	Year int
	Rows []StatementRow
}

// BuildEmployee assembles the detail packet for one employee and year.
func (b *StatementBuilder) BuildEmployee(ctx context.Context, year int, employeeName string) (*EmployeeStatement, error) {
	name := strings.TrimSpace(employeeName)
	if name == "" {
		return nil, &InputError{Field: "employee_name", Reason: "missing"}
	}
	win, err := YearWindow(year)
	if err != nil {
		return nil, err
	}

	filter := ListFilter{EmployeeName: name, Window: win, OrderAsc: true}
	timeEvents, err := b.store.ListTimeEvents(ctx, filter)
	if err != nil {
		return nil, &PersistenceError{Op: "list time events", Err: err}
	}
	compEvents, err := b.store.ListCompEvents(ctx, filter)
	if err != nil {
		return nil, &PersistenceError{Op: "list comp events", Err: err}
	}

	st := &EmployeeStatement{
		EmployeeName: name,
		Year:         year,
		TimeEvents:   timeEvents,
		CompEvents:   compEvents,
	}
	if ts := SummarizeTime(timeEvents); len(ts) > 0 {
		st.VacationDays = ts[0].VacationDays
		st.ShortDays = ts[0].ShortDays
		st.ShortHours = ts[0].ShortHours
	}
	if cs := SummarizeComp(compEvents); len(cs) > 0 {
		st.CreditDays = cs[0].CreditDays
		st.DebitDays = cs[0].DebitDays
		st.BalanceDays = cs[0].BalanceDays
		st.CreditHours = cs[0].CreditHours
		st.DebitHours = cs[0].DebitHours
		st.BalanceHours = cs[0].BalanceHours
	}
	return st, nil
}

// BuildOrg assembles the all-employees packet for one year.
func (b *StatementBuilder) BuildOrg(ctx context.Context, year int) (*OrgStatement, error) {
	merged, err := NewAggregator(b.store).YearOverview(ctx, year)
	if err != nil {
		return nil, err
	}

	rows := make([]StatementRow, len(merged))
	for i, m := range merged {
		rows[i] = StatementRow{
			EmployeeName: m.EmployeeName,
			VacationDays: m.VacationDays,
			ShortDays:    m.ShortDays,
			ShortHours:   m.ShortHours,
			BalanceDays:  m.BalanceDays,
			BalanceHours: m.BalanceHours,
		}
	}
	return &OrgStatement{Year: year, Rows: rows}, nil
}
