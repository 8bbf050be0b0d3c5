/*
Package allocation prorates task hours across the calendar months they span.

PURPOSE:
  Turns one task + one assignee + the personal-schedule list into a
  month->hours map (or a detailed MonthlyTaskAllocation), proportional to
  feasible business days per month. The SummaryAccumulator then folds many
  such breakdowns into per-month, per-assignee, and grand totals.

ALLOCATION RULES:
  Single-month:  a task without an end date, or fully inside one month,
                 puts 100% of its yotei kosu in the start month.
  Multi-month:   hours(month) = kosu * workingDays(month) / totalWorkingDays.
                 The assignee rate does NOT change the split ratio - it
                 shrinks availability, not the task's own workload.
  Degenerate:    a multi-month period with zero feasible business days
                 (entirely weekends/holidays) credits 100% to the start
                 month instead of dividing by zero.
  Actual hours:  always land entirely on the start month, never prorated.

SEE ALSO:
  - quantizer.go: Sum-preserving rounding of the monthly split
  - summary.go: Aggregation over many task breakdowns
*/
package allocation

import (
	"github.com/warp/workload-engine/calendar"
	"github.com/warp/workload-engine/wbs"
)

// =============================================================================
// WORKING-HOURS ALLOCATION SERVICE
// =============================================================================

// Service prorates task hours by assignee working days.
type Service struct {
	companyCalendar *calendar.CompanyCalendar
}

// NewService creates an allocation service over the company calendar.
func NewService(companyCalendar *calendar.CompanyCalendar) *Service {
	return &Service{companyCalendar: companyCalendar}
}

// AllocateByWorkingDays splits the task's planned hours across the months
// its period touches, proportional to the assignee's feasible business days.
func (s *Service) AllocateByWorkingDays(task wbs.Task, assignee wbs.WbsAssignee, schedules []wbs.UserSchedule) (map[wbs.MonthKey]wbs.Hours, error) {
	period := task.PlannedPeriod()

	// Single-month rule: no end date, or start and end in the same month.
	if task.YoteiEnd == nil || !period.SpansMultipleMonths() {
		return map[wbs.MonthKey]wbs.Hours{task.YoteiStart.MonthKey(): task.YoteiKosu}, nil
	}

	days, err := calendar.NewBusinessDayPeriod(period.Start, period.End, assignee, s.companyCalendar, schedules)
	if err != nil {
		return nil, err
	}

	// Degenerate period: no feasible business day anywhere in the range.
	// Credit the start month 100% rather than divide by zero.
	if days.TotalWorkingDays() == 0 {
		return map[wbs.MonthKey]wbs.Hours{task.YoteiStart.MonthKey(): task.YoteiKosu}, nil
	}

	total := wbs.NewHoursFromInt(days.TotalWorkingDays())
	result := make(map[wbs.MonthKey]wbs.Hours, len(days.MonthKeys()))
	for _, key := range days.MonthKeys() {
		working := wbs.NewHoursFromInt(days.WorkingDaysInMonth(key))
		result[key] = task.YoteiKosu.Mul(working).Div(total)
	}
	return result, nil
}

// AllocateWithDetails runs the proration and records per-month working days,
// available hours, and allocation ratios alongside the planned hours.
//
// A nil assignee is replaced by a full-rate placeholder so unassigned tasks
// still get a deterministic split. A non-nil quantizer rounds the planned
// hours through QuantizeDistribution before the details are assembled.
func (s *Service) AllocateWithDetails(task wbs.Task, assignee *wbs.WbsAssignee, schedules []wbs.UserSchedule, quantizer *Quantizer) (*MonthlyTaskAllocation, error) {
	effective := wbs.FullTimePlaceholder()
	if assignee != nil {
		effective = *assignee
	}

	planned, err := s.AllocateByWorkingDays(task, effective, schedules)
	if err != nil {
		return nil, err
	}
	if quantizer != nil {
		planned = quantizer.QuantizeDistribution(planned, task.YoteiKosu)
	}

	period := task.PlannedPeriod()
	days, err := calendar.NewBusinessDayPeriod(period.Start, period.End, effective, s.companyCalendar, schedules)
	if err != nil {
		return nil, err
	}

	startKey := task.YoteiStart.MonthKey()
	details := make(map[wbs.MonthKey]AllocationDetail, len(planned))
	for key, hours := range planned {
		detail := AllocationDetail{
			PlannedHours:   hours,
			ActualHours:    wbs.ZeroHours(),
			WorkingDays:    days.WorkingDaysInMonth(key),
			AvailableHours: days.AvailableHoursInMonth(key),
		}
		if !task.YoteiKosu.IsZero() {
			detail.AllocationRatio = hours.Div(task.YoteiKosu).Float64()
		}
		if key == startKey {
			detail.ActualHours = task.ActualHours()
		}
		details[key] = detail
	}

	return newMonthlyTaskAllocation(task, details), nil
}
