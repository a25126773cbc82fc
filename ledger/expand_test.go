package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/absence-ledger/ledger"
)

// =============================================================================
// RANGE EXPANSION
// =============================================================================

func TestExpandRange_FiveDays(t *testing.T) {
	// GIVEN: A vacation request for March 1-5
	// WHEN: The range is expanded
	// THEN: Exactly 5 days come back, ascending

	from := ledger.NewDate(2025, time.March, 1)
	to := ledger.NewDate(2025, time.March, 5)

	days, err := ledger.ExpandRange(from, to)
	require.NoError(t, err)

	require.Len(t, days, 5)
	for i, d := range days {
		assert.Equal(t, from.AddDays(i), d)
	}
}

func TestExpandRange_SingleDay(t *testing.T) {
	// A zero end date defaults to the start date.
	from := ledger.NewDate(2025, time.July, 14)

	days, err := ledger.ExpandRange(from, ledger.Date{})
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, from, days[0])
}

func TestExpandRange_CrossesMonthBoundary(t *testing.T) {
	from := ledger.NewDate(2025, time.January, 30)
	to := ledger.NewDate(2025, time.February, 2)

	days, err := ledger.ExpandRange(from, to)
	require.NoError(t, err)

	require.Len(t, days, 4)
	assert.Equal(t, "2025-01-31", days[1].String())
	assert.Equal(t, "2025-02-01", days[2].String())
}

func TestExpandRange_MaxSpanSucceeds(t *testing.T) {
	// Exactly 62 days (the guardrail) is allowed.
	from := ledger.NewDate(2025, time.March, 1)
	to := from.AddDays(ledger.MaxRangeDays - 1)

	days, err := ledger.ExpandRange(from, to)
	require.NoError(t, err)
	assert.Len(t, days, ledger.MaxRangeDays)
}

func TestExpandRange_TooLongRejected(t *testing.T) {
	// GIVEN: A request spanning 63 days
	// WHEN: The range is expanded
	// THEN: It is rejected with RangeTooLong before any day is produced

	from := ledger.NewDate(2025, time.March, 1)
	to := from.AddDays(ledger.MaxRangeDays)

	days, err := ledger.ExpandRange(from, to)
	assert.Nil(t, days)
	assert.ErrorIs(t, err, ledger.ErrRangeTooLong)

	var rangeErr *ledger.RangeTooLongError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, ledger.MaxRangeDays+1, rangeErr.Days)
}

func TestExpandRange_EndBeforeStartRejected(t *testing.T) {
	from := ledger.NewDate(2025, time.March, 5)
	to := ledger.NewDate(2025, time.March, 1)

	_, err := ledger.ExpandRange(from, to)
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
}

// =============================================================================
// WINDOWS
// =============================================================================

func TestMonthWindow_HalfOpen(t *testing.T) {
	win, err := ledger.MonthWindow("2025-03")
	require.NoError(t, err)

	assert.True(t, win.Contains(ledger.NewDate(2025, time.March, 1)))
	assert.True(t, win.Contains(ledger.NewDate(2025, time.March, 31)))
	assert.False(t, win.Contains(ledger.NewDate(2025, time.April, 1)))
	assert.False(t, win.Contains(ledger.NewDate(2025, time.February, 28)))
}

func TestMonthWindow_BadToken(t *testing.T) {
	_, err := ledger.MonthWindow("March 2025")
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
}

func TestYearWindow_Bounds(t *testing.T) {
	_, err := ledger.YearWindow(1999)
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)

	_, err = ledger.YearWindow(2101)
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)

	win, err := ledger.YearWindow(2025)
	require.NoError(t, err)
	assert.True(t, win.Contains(ledger.NewDate(2025, time.December, 31)))
	assert.False(t, win.Contains(ledger.NewDate(2026, time.January, 1)))
}
