package calendar_test

import (
	"testing"
	"time"

	"github.com/warp/workload-engine/calendar"
	"github.com/warp/workload-engine/wbs"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) wbs.Date {
	return wbs.NewDate(year, month, day)
}

func fullTime(userID string) wbs.WbsAssignee {
	return wbs.ReconstructWbsAssignee(userID, 1.0)
}

func holiday(d wbs.Date, name string) wbs.CompanyHoliday {
	return wbs.NewCompanyHoliday(d, name, wbs.HolidayNational)
}

func schedule(t *testing.T, userID string, d wbs.Date, start, end string) wbs.UserSchedule {
	t.Helper()
	s, err := wbs.NewUserSchedule(userID, d, start, end, "meeting")
	if err != nil {
		t.Fatalf("failed to create schedule: %v", err)
	}
	return s
}

// =============================================================================
// COMPANY CALENDAR TESTS
// =============================================================================

func TestCompanyCalendar_IsBusinessDay(t *testing.T) {
	cal := calendar.NewCompanyCalendar([]wbs.CompanyHoliday{
		holiday(date(2025, time.January, 1), "New Year's Day"),
	}, 7.5)

	if cal.IsBusinessDay(date(2025, time.January, 1)) { // Wednesday, holiday
		t.Error("holiday should not be a business day")
	}
	if cal.IsBusinessDay(date(2025, time.January, 4)) { // Saturday
		t.Error("Saturday should not be a business day")
	}
	if !cal.IsBusinessDay(date(2025, time.January, 6)) { // Monday
		t.Error("plain Monday should be a business day")
	}
}

func TestCompanyCalendar_NonPositiveHoursFallsBackToDefault(t *testing.T) {
	cal := calendar.NewCompanyCalendar(nil, 0)
	if !cal.StandardHours().Equal(wbs.NewHours(calendar.DefaultStandardHours)) {
		t.Errorf("expected default %v, got %s", calendar.DefaultStandardHours, cal.StandardHours())
	}
}

func TestCompanyCalendar_HolidayName(t *testing.T) {
	cal := calendar.NewCompanyCalendar([]wbs.CompanyHoliday{
		holiday(date(2025, time.May, 5), "Children's Day"),
	}, 7.5)

	if got := cal.HolidayName(date(2025, time.May, 5)); got != "Children's Day" {
		t.Errorf("expected Children's Day, got %q", got)
	}
	if got := cal.HolidayName(date(2025, time.May, 6)); got != "" {
		t.Errorf("expected empty name, got %q", got)
	}
}

// =============================================================================
// ASSIGNEE WORKING CALENDAR TESTS
// =============================================================================

func TestAvailableHours_ScaledByRate(t *testing.T) {
	// GIVEN: 7.5h standard day, 0.5 rate assignee
	// WHEN: availability on a plain business day
	// THEN: 3.75h
	cal := calendar.NewCompanyCalendar(nil, 7.5)
	assignee := wbs.ReconstructWbsAssignee("user-1", 0.5)
	working := calendar.NewAssigneeWorkingCalendar(assignee, cal, nil)

	got := working.AvailableHours(date(2025, time.January, 6))
	if !got.Equal(wbs.NewHours(3.75)) {
		t.Errorf("expected 3.75, got %s", got)
	}
}

func TestAvailableHours_SchedulesReduceAvailability(t *testing.T) {
	// GIVEN: full-time assignee with a 3h meeting on a business day
	// THEN: 7.5 - 3 = 4.5h
	cal := calendar.NewCompanyCalendar(nil, 7.5)
	day := date(2025, time.January, 6)
	working := calendar.NewAssigneeWorkingCalendar(fullTime("user-1"), cal, []wbs.UserSchedule{
		schedule(t, "user-1", day, "09:00", "12:00"),
	})

	if got := working.AvailableHours(day); !got.Equal(wbs.NewHours(4.5)) {
		t.Errorf("expected 4.5, got %s", got)
	}
}

func TestAvailableHours_ClampedAtZero(t *testing.T) {
	// Schedules exceeding the working day never push availability negative.
	cal := calendar.NewCompanyCalendar(nil, 7.5)
	day := date(2025, time.January, 6)
	working := calendar.NewAssigneeWorkingCalendar(fullTime("user-1"), cal, []wbs.UserSchedule{
		schedule(t, "user-1", day, "08:00", "13:00"),
		schedule(t, "user-1", day, "13:00", "18:00"),
	})

	got := working.AvailableHours(day)
	if !got.IsZero() {
		t.Errorf("expected 0, got %s", got)
	}
	if got.IsNegative() {
		t.Error("availability must never be negative")
	}
}

func TestAvailableHours_ZeroOnWeekendAndHolidayRegardlessOfRate(t *testing.T) {
	cal := calendar.NewCompanyCalendar([]wbs.CompanyHoliday{
		holiday(date(2025, time.January, 1), "New Year's Day"),
	}, 7.5)
	working := calendar.NewAssigneeWorkingCalendar(fullTime("user-1"), cal, nil)

	if !working.AvailableHours(date(2025, time.January, 1)).IsZero() {
		t.Error("holiday availability should be zero")
	}
	if !working.AvailableHours(date(2025, time.January, 4)).IsZero() {
		t.Error("Saturday availability should be zero")
	}
}

func TestAvailableHours_IgnoresOtherUsersSchedules(t *testing.T) {
	cal := calendar.NewCompanyCalendar(nil, 7.5)
	day := date(2025, time.January, 6)
	working := calendar.NewAssigneeWorkingCalendar(fullTime("user-1"), cal, []wbs.UserSchedule{
		schedule(t, "user-2", day, "09:00", "17:00"),
	})

	if got := working.AvailableHours(day); !got.Equal(wbs.NewHours(7.5)) {
		t.Errorf("another user's schedule must not reduce availability, got %s", got)
	}
}

func TestHasAvailability(t *testing.T) {
	cal := calendar.NewCompanyCalendar(nil, 7.5)
	working := calendar.NewAssigneeWorkingCalendar(fullTime("user-1"), cal, nil)

	// Sat Jan 4 - Sun Jan 5: no capacity anywhere.
	weekend, _ := wbs.NewPeriod(date(2025, time.January, 4), date(2025, time.January, 5))
	if working.HasAvailability(weekend) {
		t.Error("weekend-only period should have no availability")
	}

	// Sat Jan 4 - Mon Jan 6: Monday has capacity.
	withMonday, _ := wbs.NewPeriod(date(2025, time.January, 4), date(2025, time.January, 6))
	if !working.HasAvailability(withMonday) {
		t.Error("period reaching Monday should have availability")
	}
}

// =============================================================================
// BUSINESS DAY PERIOD TESTS
// =============================================================================

func TestBusinessDayPeriod_CountsPerMonth(t *testing.T) {
	// GIVEN: Wed Jan 29 - Tue Feb 4, 2025, no holidays
	//   January:  Wed 29, Thu 30, Fri 31     -> 3 working days
	//   February: Mon 3, Tue 4 (1st/2nd are weekend) -> 2 working days
	cal := calendar.NewCompanyCalendar(nil, 7.5)
	period, err := calendar.NewBusinessDayPeriod(
		date(2025, time.January, 29), date(2025, time.February, 4),
		fullTime("user-1"), cal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := period.WorkingDaysInMonth("2025/01"); got != 3 {
		t.Errorf("January: expected 3 working days, got %d", got)
	}
	if got := period.WorkingDaysInMonth("2025/02"); got != 2 {
		t.Errorf("February: expected 2 working days, got %d", got)
	}
	if got := period.TotalWorkingDays(); got != 5 {
		t.Errorf("total: expected 5, got %d", got)
	}
}

func TestBusinessDayPeriod_AvailableHoursPerMonth(t *testing.T) {
	cal := calendar.NewCompanyCalendar(nil, 7.5)
	period, err := calendar.NewBusinessDayPeriod(
		date(2025, time.January, 29), date(2025, time.February, 4),
		fullTime("user-1"), cal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := period.AvailableHoursInMonth("2025/01"); !got.Equal(wbs.NewHours(22.5)) {
		t.Errorf("January: expected 22.5h, got %s", got)
	}
	if got := period.AvailableHoursInMonth("2025/02"); !got.Equal(wbs.NewHours(15)) {
		t.Errorf("February: expected 15h, got %s", got)
	}
	if got := period.AvailableHoursInMonth("2025/03"); !got.IsZero() {
		t.Errorf("untouched month: expected 0, got %s", got)
	}
}

func TestBusinessDayPeriod_EmptyMonthStillListed(t *testing.T) {
	// Sat May 31 - Sun Jun 1, 2025: both months touched, zero feasible days.
	cal := calendar.NewCompanyCalendar(nil, 7.5)
	period, err := calendar.NewBusinessDayPeriod(
		date(2025, time.May, 31), date(2025, time.June, 1),
		fullTime("user-1"), cal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	keys := period.MonthKeys()
	if len(keys) != 2 || keys[0] != "2025/05" || keys[1] != "2025/06" {
		t.Errorf("expected [2025/05 2025/06], got %v", keys)
	}
	if period.TotalWorkingDays() != 0 {
		t.Errorf("expected 0 total working days, got %d", period.TotalWorkingDays())
	}
}

func TestBusinessDayPeriod_HolidaysExcluded(t *testing.T) {
	// The first week of Jan 2025 with Jan 1-3 off: only Mon Jan 6 onward counts.
	cal := calendar.NewCompanyCalendar([]wbs.CompanyHoliday{
		holiday(date(2025, time.January, 1), "New Year's Day"),
		holiday(date(2025, time.January, 2), "New Year Holiday"),
		holiday(date(2025, time.January, 3), "New Year Holiday"),
	}, 7.5)

	period, err := calendar.NewBusinessDayPeriod(
		date(2025, time.January, 1), date(2025, time.January, 7),
		fullTime("user-1"), cal, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Wed 1 - Fri 3 holidays, Sat 4 / Sun 5 weekend, Mon 6 + Tue 7 working.
	if got := period.TotalWorkingDays(); got != 2 {
		t.Errorf("expected 2 working days, got %d", got)
	}
}

func TestBusinessDayPeriod_RejectsBackwardsRange(t *testing.T) {
	cal := calendar.NewCompanyCalendar(nil, 7.5)
	_, err := calendar.NewBusinessDayPeriod(
		date(2025, time.February, 1), date(2025, time.January, 1),
		fullTime("user-1"), cal, nil)
	if err == nil {
		t.Fatal("expected error for backwards range")
	}
}
