package ledger

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day, no time component, no timezone
// =============================================================================

// Date is a calendar day. All events are keyed and compared at day
// granularity; callers must normalize any timestamp to a date before
// crossing this boundary so timezone drift can never shift a day.
type Date struct {
	t time.Time // always midnight UTC
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

// DaysUntil returns the inclusive span [d, other] in days.
// DaysUntil(d) == 1 for any d.
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours()/24) + 1
}

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }

func (d Date) String() string { return d.t.Format(dateLayout) }

// =============================================================================
// WINDOW - Half-open [From, To) date range for aggregation queries
// =============================================================================

// Window is a half-open date range: From is included, To is excluded.
// A nil bound means unbounded on that side.
type Window struct {
	From *Date
	To   *Date
}

// Contains reports whether the day falls inside the window.
func (w Window) Contains(d Date) bool {
	if w.From != nil && d.Before(*w.From) {
		return false
	}
	if w.To != nil && !d.Before(*w.To) {
		return false
	}
	return true
}

// MonthWindow builds the window [first-of-month, first-of-next-month)
// from a YYYY-MM token.
func MonthWindow(token string) (Window, error) {
	t, err := time.Parse("2006-01", token)
	if err != nil {
		return Window{}, &InputError{Field: "month", Reason: fmt.Sprintf("invalid month %q (use YYYY-MM)", token)}
	}
	from := NewDate(t.Year(), t.Month(), 1)
	to := from.AddMonths(1)
	return Window{From: &from, To: &to}, nil
}

// YearWindow builds the window [Jan 1, Jan 1 of next year).
// Years outside [2000, 2100] are rejected as fat-finger input.
func YearWindow(year int) (Window, error) {
	if year < MinStatementYear || year > MaxStatementYear {
		return Window{}, &InputError{Field: "year", Reason: fmt.Sprintf("year %d out of range [%d, %d]", year, MinStatementYear, MaxStatementYear)}
	}
	from := NewDate(year, time.January, 1)
	to := from.AddYears(1)
	return Window{From: &from, To: &to}, nil
}
