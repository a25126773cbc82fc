package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/absence-ledger/ledger"
)

// =============================================================================
// SUMMARY FOLDS (pure)
// =============================================================================

func compLine(name string, unit ledger.Unit, amount int) ledger.CompEvent {
	return ledger.CompEvent{
		EmployeeName: name,
		Day:          ledger.NewDate(2025, time.March, 10),
		Unit:         unit,
		Amount:       amount,
		Note:         "test",
	}
}

func TestSummarizeComp_BalanceArithmetic(t *testing.T) {
	// GIVEN: Lines +3 day, -1 day, +2 hour for one employee
	// THEN: credit 3/2, debit 1/0, balance 2/2

	summaries := ledger.SummarizeComp([]ledger.CompEvent{
		compLine("mira", ledger.UnitDay, 3),
		compLine("mira", ledger.UnitDay, -1),
		compLine("mira", ledger.UnitHour, 2),
	})

	require.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, 3, s.CreditDays)
	assert.Equal(t, 1, s.DebitDays)
	assert.Equal(t, 2, s.BalanceDays)
	assert.Equal(t, 2, s.CreditHours)
	assert.Equal(t, 0, s.DebitHours)
	assert.Equal(t, 2, s.BalanceHours)
}

func TestSummarizeTime_CountsAndHours(t *testing.T) {
	four, six := 4, 6
	summaries := ledger.SummarizeTime([]ledger.TimeEvent{
		{EmployeeName: "mira", Kind: ledger.KindVacation, Day: ledger.NewDate(2025, time.March, 1)},
		{EmployeeName: "mira", Kind: ledger.KindVacation, Day: ledger.NewDate(2025, time.March, 2)},
		{EmployeeName: "mira", Kind: ledger.KindShort, Day: ledger.NewDate(2025, time.March, 3), HoursOff: &four},
		{EmployeeName: "otto", Kind: ledger.KindShort, Day: ledger.NewDate(2025, time.March, 3), HoursOff: &six},
	})

	require.Len(t, summaries, 2)
	assert.Equal(t, ledger.EmployeeSummary{EmployeeName: "mira", VacationDays: 2, ShortDays: 1, ShortHours: 4}, summaries[0])
	assert.Equal(t, ledger.EmployeeSummary{EmployeeName: "otto", ShortDays: 1, ShortHours: 6}, summaries[1])
}

func TestMergeSummaries_CompOnlyEmployeeIncluded(t *testing.T) {
	// GIVEN: "zara" has comp lines but zero time events in the window
	// WHEN: The yearly view is merged
	// THEN: zara still appears, time fields zeroed, comp fields intact

	times := []ledger.EmployeeSummary{
		{EmployeeName: "mira", VacationDays: 5},
	}
	comps := []ledger.CompSummary{
		{EmployeeName: "zara", CreditDays: 2, BalanceDays: 2},
		{EmployeeName: "mira", CreditHours: 3, BalanceHours: 3},
	}

	merged := ledger.MergeSummaries(times, comps)
	require.Len(t, merged, 2)

	assert.Equal(t, "mira", merged[0].EmployeeName)
	assert.Equal(t, 5, merged[0].VacationDays)
	assert.Equal(t, 3, merged[0].BalanceHours)

	zara := merged[1]
	assert.Equal(t, "zara", zara.EmployeeName)
	assert.Zero(t, zara.VacationDays)
	assert.Zero(t, zara.ShortDays)
	assert.Zero(t, zara.ShortHours)
	assert.Equal(t, 2, zara.CreditDays)
	assert.Equal(t, 2, zara.BalanceDays)
}

func TestMergeSummaries_SortedByNameRegardlessOfInput(t *testing.T) {
	times := []ledger.EmployeeSummary{
		{EmployeeName: "zara", VacationDays: 1},
		{EmployeeName: "mira", VacationDays: 1},
	}
	comps := []ledger.CompSummary{
		{EmployeeName: "anna", CreditDays: 1, BalanceDays: 1},
	}

	merged := ledger.MergeSummaries(times, comps)
	require.Len(t, merged, 3)
	assert.Equal(t, "anna", merged[0].EmployeeName)
	assert.Equal(t, "mira", merged[1].EmployeeName)
	assert.Equal(t, "zara", merged[2].EmployeeName)
}

// =============================================================================
// WINDOW QUERIES (store-backed)
// =============================================================================

func TestQueryMonth_HalfOpenBoundaries(t *testing.T) {
	// GIVEN: A vacation day on March 31 and one on April 1
	// WHEN: March and April are queried
	// THEN: Each day lands in exactly one month

	store := newTestStore(t)
	w := ledger.NewWriter(store, quietLogger())
	agg := ledger.NewAggregator(store)
	ctx := context.Background()

	for _, day := range []string{"2025-03-31", "2025-04-01"} {
		require.NoError(t, w.CreateTimeOff(ctx, ledger.TimeOffRequest{
			EmployeeName: "mira", Kind: "vacation", Day: day,
		}))
	}

	march, err := agg.QueryMonth(ctx, "2025-03", "")
	require.NoError(t, err)
	require.Len(t, march.TimeEvents, 1)
	assert.Equal(t, "2025-03-31", march.TimeEvents[0].Day.String())

	april, err := agg.QueryMonth(ctx, "2025-04", "")
	require.NoError(t, err)
	require.Len(t, april.TimeEvents, 1)
	assert.Equal(t, "2025-04-01", april.TimeEvents[0].Day.String())
}

func TestQuery_RawEventOrdering(t *testing.T) {
	// Raw events come back day descending, then employee ascending.
	store := newTestStore(t)
	w := ledger.NewWriter(store, quietLogger())
	agg := ledger.NewAggregator(store)
	ctx := context.Background()

	require.NoError(t, w.CreateTimeOff(ctx, ledger.TimeOffRequest{EmployeeName: "otto", Kind: "vacation", Day: "2025-03-01"}))
	require.NoError(t, w.CreateTimeOff(ctx, ledger.TimeOffRequest{EmployeeName: "anna", Kind: "vacation", Day: "2025-03-02"}))
	require.NoError(t, w.CreateTimeOff(ctx, ledger.TimeOffRequest{EmployeeName: "zara", Kind: "vacation", Day: "2025-03-02"}))

	res, err := agg.Query(ctx, ledger.Window{}, "")
	require.NoError(t, err)
	require.Len(t, res.TimeEvents, 3)
	assert.Equal(t, "anna", res.TimeEvents[0].EmployeeName)
	assert.Equal(t, "zara", res.TimeEvents[1].EmployeeName)
	assert.Equal(t, "otto", res.TimeEvents[2].EmployeeName)
}

func TestQuery_EmployeeFilter(t *testing.T) {
	store := newTestStore(t)
	w := ledger.NewWriter(store, quietLogger())
	agg := ledger.NewAggregator(store)
	ctx := context.Background()

	require.NoError(t, w.CreateTimeOff(ctx, ledger.TimeOffRequest{EmployeeName: "mira", Kind: "vacation", Day: "2025-03-01"}))
	require.NoError(t, w.CreateTimeOff(ctx, ledger.TimeOffRequest{EmployeeName: "otto", Kind: "vacation", Day: "2025-03-01"}))

	res, err := agg.Query(ctx, ledger.Window{}, "mira")
	require.NoError(t, err)
	require.Len(t, res.TimeEvents, 1)
	require.Len(t, res.TimeSummaries, 1)
	assert.Equal(t, "mira", res.TimeSummaries[0].EmployeeName)
}

func TestYearOverview_OuterJoinEndToEnd(t *testing.T) {
	// GIVEN: mira has time events, zara only comp lines, in 2025
	// WHEN: The yearly overview is computed
	// THEN: Both appear, zara with zeroed time fields

	store := newTestStore(t)
	w := ledger.NewWriter(store, quietLogger())
	agg := ledger.NewAggregator(store)
	ctx := context.Background()

	require.NoError(t, w.CreateTimeOff(ctx, ledger.TimeOffRequest{
		EmployeeName: "mira", Kind: "vacation", DayFrom: "2025-06-02", DayTo: "2025-06-04",
	}))
	require.NoError(t, w.CreateComp(ctx, ledger.CompRequest{
		EmployeeName: "zara", Day: "2025-06-10", Unit: "day", Amount: decimal.NewFromInt(2), Note: "stocktake weekend",
	}))

	merged, err := agg.YearOverview(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, merged, 2)

	assert.Equal(t, "mira", merged[0].EmployeeName)
	assert.Equal(t, 3, merged[0].VacationDays)

	assert.Equal(t, "zara", merged[1].EmployeeName)
	assert.Zero(t, merged[1].VacationDays)
	assert.Equal(t, 2, merged[1].BalanceDays)
}

func TestQueryYear_RejectsOutOfRangeYear(t *testing.T) {
	store := newTestStore(t)
	agg := ledger.NewAggregator(store)

	_, err := agg.QueryYear(context.Background(), 1870, "")
	assert.ErrorIs(t, err, ledger.ErrInvalidInput)
}
