package workload

import (
	"github.com/warp/workload-engine/wbs"
)

// =============================================================================
// DAILY WORK ALLOCATION - Capacity vs demand for one day
// =============================================================================

// TaskAllocation is one task's hour figure on one day.
type TaskAllocation struct {
	WbsID          string
	TaskID         string
	TaskName       string
	AllocatedHours wbs.Hours
}

// DailyWorkAllocation pairs one day's capacity with the tasks active on it.
type DailyWorkAllocation struct {
	Date             wbs.Date
	AvailableHours   wbs.Hours
	TaskAllocations  []TaskAllocation
	IsWeekend        bool
	IsCompanyHoliday bool
	UserSchedules    []wbs.UserSchedule
}

// AllocatedHours sums the hour figures of every task active on the day.
func (d DailyWorkAllocation) AllocatedHours() wbs.Hours {
	total := wbs.ZeroHours()
	for _, t := range d.TaskAllocations {
		total = total.Add(t.AllocatedHours)
	}
	return total
}

// IsOverloaded reports allocated > available. Exactly full days
// (allocated == available) are not overloaded.
func (d DailyWorkAllocation) IsOverloaded() bool {
	return d.AllocatedHours().GreaterThan(d.AvailableHours)
}

// UtilizationRate returns allocated / available, 0 when no capacity.
func (d DailyWorkAllocation) UtilizationRate() float64 {
	if !d.AvailableHours.IsPositive() {
		return 0
	}
	return d.AllocatedHours().Div(d.AvailableHours).Float64()
}
