package calendar

import (
	"github.com/warp/workload-engine/wbs"
)

// =============================================================================
// ASSIGNEE WORKING CALENDAR - Per-day capacity for one assignee
// =============================================================================

// AssigneeWorkingCalendar intersects the company calendar with one assignee's
// commitment rate and personal schedule. Schedules belonging to other users
// are ignored.
type AssigneeWorkingCalendar struct {
	assignee        wbs.WbsAssignee
	companyCalendar *CompanyCalendar
	schedulesByDate map[string][]wbs.UserSchedule
}

// NewAssigneeWorkingCalendar wraps (assignee, company calendar, schedules).
// The schedule list may contain entries for other users; only the assignee's
// own entries reduce availability.
func NewAssigneeWorkingCalendar(assignee wbs.WbsAssignee, companyCalendar *CompanyCalendar, schedules []wbs.UserSchedule) *AssigneeWorkingCalendar {
	byDate := make(map[string][]wbs.UserSchedule)
	for _, s := range schedules {
		if s.UserID != assignee.UserID {
			continue
		}
		key := s.Date.String()
		byDate[key] = append(byDate[key], s)
	}
	return &AssigneeWorkingCalendar{
		assignee:        assignee,
		companyCalendar: companyCalendar,
		schedulesByDate: byDate,
	}
}

// Assignee returns the wrapped assignee.
func (a *AssigneeWorkingCalendar) Assignee() wbs.WbsAssignee { return a.assignee }

// CompanyCalendar returns the underlying company calendar.
func (a *AssigneeWorkingCalendar) CompanyCalendar() *CompanyCalendar { return a.companyCalendar }

// SchedulesOn returns the assignee's personal schedule entries for the date.
func (a *AssigneeWorkingCalendar) SchedulesOn(d wbs.Date) []wbs.UserSchedule {
	return a.schedulesByDate[d.String()]
}

// AvailableHours computes how many hours the assignee can work on the date:
//  1. Zero on weekends and company holidays, regardless of rate or schedule.
//  2. Otherwise standard hours scaled by the commitment rate.
//  3. Minus the summed durations of that day's personal schedule entries.
//  4. Clamped at zero.
func (a *AssigneeWorkingCalendar) AvailableHours(d wbs.Date) wbs.Hours {
	if !a.companyCalendar.IsBusinessDay(d) {
		return wbs.ZeroHours()
	}
	base := a.companyCalendar.StandardHours().Scale(a.assignee.Rate)
	for _, s := range a.schedulesByDate[d.String()] {
		base = base.Sub(s.DurationHours())
	}
	return base.Max(wbs.ZeroHours())
}

// HasAvailability reports whether any day in the period has capacity.
func (a *AssigneeWorkingCalendar) HasAvailability(p wbs.Period) bool {
	for d := p.Start; d.BeforeOrEqual(p.End); d = d.AddDays(1) {
		if a.AvailableHours(d).IsPositive() {
			return true
		}
	}
	return false
}
