package wbs

// =============================================================================
// PERIOD - Inclusive [Start, End] date range
// =============================================================================

// Period is the planned date range of a task. Both ends are inclusive:
// a task running Jan 29 - Feb 2 is active on all five days.
type Period struct {
	Start Date
	End   Date
}

// NewPeriod validates that end does not precede start.
func NewPeriod(start, end Date) (Period, error) {
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

// SingleDay returns the one-day period containing d.
func SingleDay(d Date) Period { return Period{Start: d, End: d} }

// Contains returns true if the date is within the period [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Days returns all days in the period, ascending.
func (p Period) Days() []Date {
	var days []Date
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// MonthKeys returns the keys of every calendar month the period touches,
// ascending.
func (p Period) MonthKeys() []MonthKey {
	var keys []MonthKey
	current := StartOfMonth(p.Start.Year(), p.Start.Month())
	last := StartOfMonth(p.End.Year(), p.End.Month())
	for current.BeforeOrEqual(last) {
		keys = append(keys, current.MonthKey())
		current = current.AddMonths(1)
	}
	return keys
}

// SpansMultipleMonths reports whether start and end fall in different months.
func (p Period) SpansMultipleMonths() bool {
	return p.Start.MonthKey() != p.End.MonthKey()
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
