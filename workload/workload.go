package workload

import (
	"sort"

	"github.com/warp/workload-engine/wbs"
)

// =============================================================================
// ASSIGNEE WORKLOAD - Query object over a day sequence
// =============================================================================

// AssigneeWorkload is a pure query object over one assignee's daily
// allocation records. Days are kept in ascending date order.
type AssigneeWorkload struct {
	UserID string
	days   []DailyWorkAllocation
}

// NewAssigneeWorkload creates a workload over the given days, sorting them
// by date.
func NewAssigneeWorkload(userID string, days []DailyWorkAllocation) *AssigneeWorkload {
	sorted := make([]DailyWorkAllocation, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return &AssigneeWorkload{UserID: userID, days: sorted}
}

// Days returns the stored day records, ascending.
func (w *AssigneeWorkload) Days() []DailyWorkAllocation { return w.days }

// OverloadedDays returns every day where demand exceeds capacity.
func (w *AssigneeWorkload) OverloadedDays() []DailyWorkAllocation {
	var overloaded []DailyWorkAllocation
	for _, d := range w.days {
		if d.IsOverloaded() {
			overloaded = append(overloaded, d)
		}
	}
	return overloaded
}

// TotalHours sums allocated hours for days within [from, to] inclusive,
// zero when none fall in the range.
func (w *AssigneeWorkload) TotalHours(from, to wbs.Date) wbs.Hours {
	total := wbs.ZeroHours()
	for _, d := range w.days {
		if d.Date.AfterOrEqual(from) && d.Date.BeforeOrEqual(to) {
			total = total.Add(d.AllocatedHours())
		}
	}
	return total
}

// DailyAllocation looks up the record for an exact date.
func (w *AssigneeWorkload) DailyAllocation(date wbs.Date) (DailyWorkAllocation, bool) {
	for _, d := range w.days {
		if d.Date.Equal(date) {
			return d, true
		}
	}
	return DailyWorkAllocation{}, false
}

// DateRange returns the min and max stored dates, or nil, nil when empty.
func (w *AssigneeWorkload) DateRange() (*wbs.Date, *wbs.Date) {
	if len(w.days) == 0 {
		return nil, nil
	}
	start := w.days[0].Date
	end := w.days[len(w.days)-1].Date
	return &start, &end
}
