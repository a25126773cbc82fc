package ledger

// =============================================================================
// RANGE EXPANDER - One day-record per calendar day in [from, to]
// =============================================================================

// ExpandRange returns every calendar day in the inclusive range
// [from, to] in ascending order. A zero-value to defaults to from, so a
// single-day request expands to exactly one day.
//
// The inclusive span must not exceed MaxRangeDays; longer ranges are
// rejected with a RangeTooLongError before any day is produced.
func ExpandRange(from, to Date) ([]Date, error) {
	if from.IsZero() {
		return nil, &InputError{Field: "day_from", Reason: "missing"}
	}
	if to.IsZero() {
		to = from
	}
	if to.Before(from) {
		return nil, &InputError{Field: "day_to", Reason: "end date before start date"}
	}

	span := from.DaysUntil(to)
	if span > MaxRangeDays {
		return nil, &RangeTooLongError{From: from, To: to, Days: span}
	}

	days := make([]Date, 0, span)
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days, nil
}
