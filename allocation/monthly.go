package allocation

import (
	"sort"

	"github.com/warp/workload-engine/wbs"
)

// =============================================================================
// MONTHLY TASK ALLOCATION - Per-task, per-month breakdown
// =============================================================================

// AllocationDetail is one month's slice of a task.
type AllocationDetail struct {
	PlannedHours    wbs.Hours
	ActualHours     wbs.Hours
	WorkingDays     int
	AvailableHours  wbs.Hours
	AllocationRatio float64
}

// MonthlyTaskAllocation owns a month-keyed breakdown of one task.
//
// Invariants:
//   - Σ PlannedHours over all months equals the task's yotei kosu (within
//     floating tolerance, or exactly after quantization correction).
//   - ActualHours is non-zero only for the task's start month; actual effort
//     is never prorated across months.
type MonthlyTaskAllocation struct {
	WbsID    string
	TaskID   string
	TaskName string
	Phase    string

	details map[wbs.MonthKey]AllocationDetail
	keys    []wbs.MonthKey
}

func newMonthlyTaskAllocation(task wbs.Task, details map[wbs.MonthKey]AllocationDetail) *MonthlyTaskAllocation {
	keys := make([]wbs.MonthKey, 0, len(details))
	for key := range details {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	return &MonthlyTaskAllocation{
		WbsID:    task.WbsID,
		TaskID:   task.TaskID,
		TaskName: task.TaskName,
		Phase:    task.Phase,
		details:  details,
		keys:     keys,
	}
}

// MonthKeys returns every allocated month, ascending.
func (m *MonthlyTaskAllocation) MonthKeys() []wbs.MonthKey { return m.keys }

// Detail returns the breakdown for one month.
func (m *MonthlyTaskAllocation) Detail(key wbs.MonthKey) (AllocationDetail, bool) {
	d, ok := m.details[key]
	return d, ok
}

// TotalPlanned sums planned hours across all months.
func (m *MonthlyTaskAllocation) TotalPlanned() wbs.Hours {
	total := wbs.ZeroHours()
	for _, d := range m.details {
		total = total.Add(d.PlannedHours)
	}
	return total
}

// TotalActual sums actual hours across all months. Equals the start-month
// actual by the invariant above.
func (m *MonthlyTaskAllocation) TotalActual() wbs.Hours {
	total := wbs.ZeroHours()
	for _, d := range m.details {
		total = total.Add(d.ActualHours)
	}
	return total
}
