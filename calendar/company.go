/*
Package calendar answers "how many hours can this person work on this day?"

PURPOSE:
  Three layers, each wrapping the one below:
  - CompanyCalendar:         weekends + company holidays + standard hours
  - AssigneeWorkingCalendar: company calendar ∩ personal schedule ∩ rate
  - BusinessDayPeriod:       per-month business-day counts over a task range

KEY INSIGHT:
  AssigneeWorkingCalendar is the single source of truth for daily capacity.
  Both the monthly proration path (allocation package) and the daily workload
  path (workload package) read availability from here, so the backlog view and
  the calendar view can never disagree on capacity.

USAGE:
  cal := calendar.NewCompanyCalendar(holidays, 7.5)
  working := calendar.NewAssigneeWorkingCalendar(assignee, cal, schedules)
  free := working.AvailableHours(wbs.NewDate(2025, time.March, 10))

SEE ALSO:
  - availability.go: AssigneeWorkingCalendar
  - period.go: BusinessDayPeriod
*/
package calendar

import (
	"github.com/warp/workload-engine/wbs"
)

// DefaultStandardHours is the standard working-day length used when system
// settings do not override it.
const DefaultStandardHours = 7.5

// =============================================================================
// COMPANY CALENDAR - Holiday lookup + standard daily working hours
// =============================================================================

// CompanyCalendar is a read-only view over the company holiday list. The
// date->holiday set is built once at construction for O(1) lookup.
type CompanyCalendar struct {
	holidays      map[string]wbs.CompanyHoliday
	standardHours wbs.Hours
}

// NewCompanyCalendar builds a calendar from a holiday list and the configured
// standard working hours. A non-positive standardHours falls back to the
// default.
func NewCompanyCalendar(holidays []wbs.CompanyHoliday, standardHours float64) *CompanyCalendar {
	if standardHours <= 0 {
		standardHours = DefaultStandardHours
	}
	byDate := make(map[string]wbs.CompanyHoliday, len(holidays))
	for _, h := range holidays {
		byDate[h.Date.String()] = h
	}
	return &CompanyCalendar{holidays: byDate, standardHours: wbs.NewHours(standardHours)}
}

// IsHoliday reports whether the date is a company holiday.
func (c *CompanyCalendar) IsHoliday(d wbs.Date) bool {
	_, ok := c.holidays[d.String()]
	return ok
}

// HolidayName returns the holiday name for the date, empty when none.
func (c *CompanyCalendar) HolidayName(d wbs.Date) string {
	if h, ok := c.holidays[d.String()]; ok {
		return h.Name
	}
	return ""
}

// IsBusinessDay reports whether the date is a working day: not Saturday or
// Sunday and not a company holiday.
func (c *CompanyCalendar) IsBusinessDay(d wbs.Date) bool {
	return !d.IsWeekend() && !c.IsHoliday(d)
}

// StandardHours returns the standard working-day length.
func (c *CompanyCalendar) StandardHours() wbs.Hours {
	return c.standardHours
}
