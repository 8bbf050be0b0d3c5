/*
Package workload builds day-by-day capacity/demand records for one assignee.

PURPOSE:
  Independent of the monthly proration path, this package answers "is this
  person overloaded on this day?" For every date in a window it pairs the
  assignee's available hours (from the shared working calendar) with the
  tasks active that day, for overload flags and Gantt-style visualization.

DEMAND MODES:
  How many hours a multi-day task "costs" on a single day is deliberately
  explicit:
  - DemandTotal:     each active task carries its full planned hours as a
                     reference figure (the observed reference behavior)
  - DemandDailyRate: planned hours / feasible working days in the task's
                     own period (a true daily burn rate)
  An unrecognized mode fails loudly at construction; it is never silently
  defaulted.

SEE ALSO:
  - daily.go: DailyWorkAllocation and its derived overload fields
  - workload.go: AssigneeWorkload query object
  - warning.go: Infeasible-task detection
*/
package workload

import (
	"github.com/warp/workload-engine/calendar"
	"github.com/warp/workload-engine/wbs"
)

// =============================================================================
// DEMAND MODE
// =============================================================================

// DemandMode selects the per-day hour figure attributed to an active task.
type DemandMode string

const (
	DemandTotal     DemandMode = "total"
	DemandDailyRate DemandMode = "daily_rate"
)

// =============================================================================
// WORKLOAD CALCULATOR
// =============================================================================

// Calculator derives daily allocation records for an assignee over a window.
type Calculator struct {
	mode DemandMode
}

// NewCalculator creates a calculator with the given demand mode. An empty
// mode means DemandTotal; anything else unrecognized is an error.
func NewCalculator(mode DemandMode) (*Calculator, error) {
	switch mode {
	case "":
		mode = DemandTotal
	case DemandTotal, DemandDailyRate:
	default:
		return nil, &UnknownDemandModeError{Mode: mode}
	}
	return &Calculator{mode: mode}, nil
}

// Mode returns the configured demand mode.
func (c *Calculator) Mode() DemandMode { return c.mode }

// IsTaskActiveOn reports whether the task's planned period contains the
// date, both ends inclusive. A task without planned dates is never active.
func (c *Calculator) IsTaskActiveOn(task wbs.Task, date wbs.Date) bool {
	if !task.HasPeriod() {
		return false
	}
	return task.PlannedPeriod().Contains(date)
}

// ScheduleDuration parses an "HH:MM" pair into fractional hours.
// Zero when equal, never negative.
func (c *Calculator) ScheduleDuration(startTime, endTime string) (wbs.Hours, error) {
	return wbs.ScheduleDuration(startTime, endTime)
}

// TaskAllocationsForDate returns one TaskAllocation per task active on the
// date. Empty when the assignee has no capacity that day. Concurrent active
// tasks are listed independently - they are not clipped to sum to the
// available hours; overload comparison happens one level up.
func (c *Calculator) TaskAllocationsForDate(tasks []wbs.Task, date wbs.Date, availableHours wbs.Hours, working *calendar.AssigneeWorkingCalendar) []TaskAllocation {
	if !availableHours.IsPositive() {
		return nil
	}

	var allocations []TaskAllocation
	for _, task := range tasks {
		if !c.IsTaskActiveOn(task, date) {
			continue
		}
		allocations = append(allocations, TaskAllocation{
			WbsID:          task.WbsID,
			TaskID:         task.TaskID,
			TaskName:       task.TaskName,
			AllocatedHours: c.demandFor(task, working),
		})
	}
	return allocations
}

// demandFor returns the per-day hour figure for a task under the configured
// mode. In daily-rate mode a task with zero feasible days in its own period
// falls back to the reference total; the warning service flags such tasks.
func (c *Calculator) demandFor(task wbs.Task, working *calendar.AssigneeWorkingCalendar) wbs.Hours {
	if c.mode == DemandTotal {
		return task.YoteiKosu
	}

	period := task.PlannedPeriod()
	workingDays := 0
	for d := period.Start; d.BeforeOrEqual(period.End); d = d.AddDays(1) {
		if working.AvailableHours(d).IsPositive() {
			workingDays++
		}
	}
	if workingDays == 0 {
		return task.YoteiKosu
	}
	return task.YoteiKosu.Div(wbs.NewHoursFromInt(workingDays))
}

// DailyAllocations assembles a DailyWorkAllocation for every date in
// [startDate, endDate] inclusive.
func (c *Calculator) DailyAllocations(tasks []wbs.Task, assignee wbs.WbsAssignee, schedules []wbs.UserSchedule, companyCalendar *calendar.CompanyCalendar, startDate, endDate wbs.Date) ([]DailyWorkAllocation, error) {
	window, err := wbs.NewPeriod(startDate, endDate)
	if err != nil {
		return nil, err
	}

	working := calendar.NewAssigneeWorkingCalendar(assignee, companyCalendar, schedules)

	var days []DailyWorkAllocation
	for d := window.Start; d.BeforeOrEqual(window.End); d = d.AddDays(1) {
		available := working.AvailableHours(d)
		days = append(days, DailyWorkAllocation{
			Date:             d,
			AvailableHours:   available,
			TaskAllocations:  c.TaskAllocationsForDate(tasks, d, available, working),
			IsWeekend:        d.IsWeekend(),
			IsCompanyHoliday: companyCalendar.IsHoliday(d),
			UserSchedules:    working.SchedulesOn(d),
		})
	}
	return days, nil
}
