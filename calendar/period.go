package calendar

import (
	"sort"

	"github.com/warp/workload-engine/wbs"
)

// =============================================================================
// BUSINESS DAY PERIOD - Per-month business-day counts over a date range
// =============================================================================

// monthTally accumulates one calendar month's feasible days.
type monthTally struct {
	workingDays    int
	availableHours wbs.Hours
}

// BusinessDayPeriod eagerly counts, for each month a [start, end] range
// touches, the business days on which the assignee has capacity and the sum
// of those available hours. A period lying entirely on weekends and holidays
// yields zero counts for every touched month; callers guard the division.
type BusinessDayPeriod struct {
	period  wbs.Period
	working *AssigneeWorkingCalendar
	months  map[wbs.MonthKey]monthTally
	keys    []wbs.MonthKey
	total   int
}

// NewBusinessDayPeriod computes the per-month tallies for the range.
func NewBusinessDayPeriod(start, end wbs.Date, assignee wbs.WbsAssignee, companyCalendar *CompanyCalendar, schedules []wbs.UserSchedule) (*BusinessDayPeriod, error) {
	period, err := wbs.NewPeriod(start, end)
	if err != nil {
		return nil, err
	}

	working := NewAssigneeWorkingCalendar(assignee, companyCalendar, schedules)
	months := make(map[wbs.MonthKey]monthTally)
	total := 0

	// Every touched month gets an entry, even when it ends up empty, so
	// MonthKeys reflects the full span of the period.
	for _, key := range period.MonthKeys() {
		months[key] = monthTally{availableHours: wbs.ZeroHours()}
	}

	for d := start; d.BeforeOrEqual(end); d = d.AddDays(1) {
		available := working.AvailableHours(d)
		if !available.IsPositive() {
			continue
		}
		key := d.MonthKey()
		tally := months[key]
		tally.workingDays++
		tally.availableHours = tally.availableHours.Add(available)
		months[key] = tally
		total++
	}

	keys := make([]wbs.MonthKey, 0, len(months))
	for key := range months {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return &BusinessDayPeriod{
		period:  period,
		working: working,
		months:  months,
		keys:    keys,
		total:   total,
	}, nil
}

// Period returns the underlying date range.
func (p *BusinessDayPeriod) Period() wbs.Period { return p.period }

// WorkingDaysInMonth returns the count of feasible business days in the month.
func (p *BusinessDayPeriod) WorkingDaysInMonth(key wbs.MonthKey) int {
	return p.months[key].workingDays
}

// AvailableHoursInMonth returns the summed available hours in the month.
func (p *BusinessDayPeriod) AvailableHoursInMonth(key wbs.MonthKey) wbs.Hours {
	tally, ok := p.months[key]
	if !ok {
		return wbs.ZeroHours()
	}
	return tally.availableHours
}

// TotalWorkingDays returns the feasible business days across the whole range.
func (p *BusinessDayPeriod) TotalWorkingDays() int { return p.total }

// MonthKeys returns every touched month, ascending.
func (p *BusinessDayPeriod) MonthKeys() []wbs.MonthKey { return p.keys }
