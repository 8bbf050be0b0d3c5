package workload_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/warp/workload-engine/calendar"
	"github.com/warp/workload-engine/wbs"
	"github.com/warp/workload-engine/workload"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) wbs.Date {
	return wbs.NewDate(year, month, day)
}

func task(t *testing.T, id string, start wbs.Date, end *wbs.Date, kosu float64) wbs.Task {
	t.Helper()
	tk, err := wbs.NewTask("wbs-1", id, "task "+id, "", start, end, wbs.NewHours(kosu))
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return tk
}

func fullTime(userID string) wbs.WbsAssignee {
	return wbs.ReconstructWbsAssignee(userID, 1.0)
}

func noHolidays() *calendar.CompanyCalendar {
	return calendar.NewCompanyCalendar(nil, 7.5)
}

func mustCalculator(t *testing.T, mode workload.DemandMode) *workload.Calculator {
	t.Helper()
	c, err := workload.NewCalculator(mode)
	if err != nil {
		t.Fatalf("failed to create calculator: %v", err)
	}
	return c
}

func day(d wbs.Date, available float64, tasks ...workload.TaskAllocation) workload.DailyWorkAllocation {
	return workload.DailyWorkAllocation{
		Date:            d,
		AvailableHours:  wbs.NewHours(available),
		TaskAllocations: tasks,
	}
}

func taskHours(id string, hours float64) workload.TaskAllocation {
	return workload.TaskAllocation{WbsID: "wbs-1", TaskID: id, TaskName: "task " + id, AllocatedHours: wbs.NewHours(hours)}
}

// =============================================================================
// CALCULATOR CONSTRUCTION TESTS
// =============================================================================

func TestNewCalculator_EmptyModeDefaultsToTotal(t *testing.T) {
	c := mustCalculator(t, "")
	if c.Mode() != workload.DemandTotal {
		t.Errorf("expected total, got %s", c.Mode())
	}
}

func TestNewCalculator_UnknownModeFailsLoudly(t *testing.T) {
	_, err := workload.NewCalculator("per_sprint")
	if !errors.Is(err, workload.ErrUnknownDemandMode) {
		t.Errorf("expected ErrUnknownDemandMode, got %v", err)
	}

	var modeErr *workload.UnknownDemandModeError
	if !errors.As(err, &modeErr) || modeErr.Mode != "per_sprint" {
		t.Errorf("expected structured error naming the mode, got %v", err)
	}
}

// =============================================================================
// TASK ACTIVITY TESTS
// =============================================================================

func TestIsTaskActiveOn_InclusiveBothEnds(t *testing.T) {
	c := mustCalculator(t, workload.DemandTotal)
	end := date(2025, time.February, 2)
	tk := task(t, "t-1", date(2025, time.January, 29), &end, 10)

	if !c.IsTaskActiveOn(tk, date(2025, time.January, 29)) {
		t.Error("start day should be active")
	}
	if !c.IsTaskActiveOn(tk, date(2025, time.February, 2)) {
		t.Error("end day should be active")
	}
	if c.IsTaskActiveOn(tk, date(2025, time.January, 28)) {
		t.Error("day before start should not be active")
	}
	if c.IsTaskActiveOn(tk, date(2025, time.February, 3)) {
		t.Error("day after end should not be active")
	}
}

func TestIsTaskActiveOn_TaskWithoutDatesNeverActive(t *testing.T) {
	c := mustCalculator(t, workload.DemandTotal)
	tk := wbs.ReconstructTask("wbs-1", "t-1", "undated", "", wbs.Date{}, nil, wbs.NewHours(5), nil)

	if c.IsTaskActiveOn(tk, date(2025, time.January, 29)) {
		t.Error("task without planned dates should never be active")
	}
}

// =============================================================================
// DAILY ALLOCATION TESTS
// =============================================================================

func TestTaskAllocationsForDate_EmptyWhenNoCapacity(t *testing.T) {
	c := mustCalculator(t, workload.DemandTotal)
	cal := noHolidays()
	working := calendar.NewAssigneeWorkingCalendar(fullTime("user-1"), cal, nil)
	end := date(2025, time.January, 10)
	tasks := []wbs.Task{task(t, "t-1", date(2025, time.January, 6), &end, 10)}

	got := c.TaskAllocationsForDate(tasks, date(2025, time.January, 6), wbs.ZeroHours(), working)
	if got != nil {
		t.Errorf("expected no allocations on a zero-capacity day, got %v", got)
	}
}

func TestDailyAllocations_TotalModeCarriesFullKosu(t *testing.T) {
	// GIVEN: two overlapping tasks on Mon Jan 6, total demand mode
	// THEN: each active task carries its full planned hours, unclipped
	c := mustCalculator(t, workload.DemandTotal)
	end := date(2025, time.January, 10)
	tasks := []wbs.Task{
		task(t, "t-1", date(2025, time.January, 6), &end, 10),
		task(t, "t-2", date(2025, time.January, 6), &end, 20),
	}

	days, err := c.DailyAllocations(tasks, fullTime("user-1"), nil, noHolidays(),
		date(2025, time.January, 6), date(2025, time.January, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("expected 1 day, got %d", len(days))
	}

	if got := days[0].AllocatedHours(); !got.Equal(wbs.NewHours(30)) {
		t.Errorf("expected 30h total demand, got %s", got)
	}
}

func TestDailyAllocations_DailyRateSpreadsKosuOverFeasibleDays(t *testing.T) {
	// GIVEN: a 10h task over Mon Jan 6 - Fri Jan 10 (5 working days)
	// THEN: daily-rate mode attributes 2h per day
	c := mustCalculator(t, workload.DemandDailyRate)
	end := date(2025, time.January, 10)
	tasks := []wbs.Task{task(t, "t-1", date(2025, time.January, 6), &end, 10)}

	days, err := c.DailyAllocations(tasks, fullTime("user-1"), nil, noHolidays(),
		date(2025, time.January, 6), date(2025, time.January, 10))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, d := range days {
		if got := d.AllocatedHours(); !got.Equal(wbs.NewHours(2)) {
			t.Errorf("%s: expected 2h/day, got %s", d.Date, got)
		}
	}
}

func TestDailyAllocations_WindowCoversWeekend(t *testing.T) {
	c := mustCalculator(t, workload.DemandTotal)

	days, err := c.DailyAllocations(nil, fullTime("user-1"), nil, noHolidays(),
		date(2025, time.January, 3), date(2025, time.January, 6))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 4 {
		t.Fatalf("expected 4 days (Fri-Mon), got %d", len(days))
	}

	sat := days[1]
	if !sat.IsWeekend || !sat.AvailableHours.IsZero() {
		t.Errorf("Saturday should be a zero-capacity weekend day: %+v", sat)
	}
}

func TestDailyAllocations_RejectsBackwardsWindow(t *testing.T) {
	c := mustCalculator(t, workload.DemandTotal)
	_, err := c.DailyAllocations(nil, fullTime("user-1"), nil, noHolidays(),
		date(2025, time.January, 10), date(2025, time.January, 6))
	if !errors.Is(err, wbs.ErrInvalidPeriod) {
		t.Errorf("expected ErrInvalidPeriod, got %v", err)
	}
}

// =============================================================================
// OVERLOAD TESTS
// =============================================================================

func TestIsOverloaded_StrictlyGreaterThanAvailable(t *testing.T) {
	// Exactly-full days are not overloaded; one minute over is.
	exactlyFull := day(date(2025, time.January, 6), 7.5, taskHours("t-1", 7.5))
	if exactlyFull.IsOverloaded() {
		t.Error("allocated == available must not count as overloaded")
	}

	over := day(date(2025, time.January, 6), 7.5, taskHours("t-1", 7.75))
	if !over.IsOverloaded() {
		t.Error("allocated > available must count as overloaded")
	}
}

func TestUtilizationRate(t *testing.T) {
	halfUsed := day(date(2025, time.January, 6), 8, taskHours("t-1", 4))
	if got := halfUsed.UtilizationRate(); got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}

	noCapacity := day(date(2025, time.January, 4), 0, taskHours("t-1", 4))
	if got := noCapacity.UtilizationRate(); got != 0 {
		t.Errorf("zero-capacity day: expected 0, got %v", got)
	}
}

// =============================================================================
// ASSIGNEE WORKLOAD TESTS
// =============================================================================

func TestAssigneeWorkload_SortsDaysAscending(t *testing.T) {
	w := workload.NewAssigneeWorkload("user-1", []workload.DailyWorkAllocation{
		day(date(2025, time.January, 8), 7.5),
		day(date(2025, time.January, 6), 7.5),
		day(date(2025, time.January, 7), 7.5),
	})

	days := w.Days()
	for i := 1; i < len(days); i++ {
		if !days[i-1].Date.Before(days[i].Date) {
			t.Fatalf("days not ascending at %d: %s then %s", i, days[i-1].Date, days[i].Date)
		}
	}
}

func TestAssigneeWorkload_OverloadedDays(t *testing.T) {
	w := workload.NewAssigneeWorkload("user-1", []workload.DailyWorkAllocation{
		day(date(2025, time.January, 6), 7.5, taskHours("t-1", 9)),
		day(date(2025, time.January, 7), 7.5, taskHours("t-1", 7.5)),
		day(date(2025, time.January, 8), 7.5, taskHours("t-1", 2)),
	})

	overloaded := w.OverloadedDays()
	if len(overloaded) != 1 || !overloaded[0].Date.Equal(date(2025, time.January, 6)) {
		t.Errorf("expected only Jan 6 overloaded, got %v", overloaded)
	}
}

func TestAssigneeWorkload_TotalHoursInRange(t *testing.T) {
	w := workload.NewAssigneeWorkload("user-1", []workload.DailyWorkAllocation{
		day(date(2025, time.January, 6), 7.5, taskHours("t-1", 3)),
		day(date(2025, time.January, 7), 7.5, taskHours("t-1", 4)),
		day(date(2025, time.January, 8), 7.5, taskHours("t-1", 5)),
	})

	// Inclusive range picks up the 6th and 7th only.
	got := w.TotalHours(date(2025, time.January, 6), date(2025, time.January, 7))
	if !got.Equal(wbs.NewHours(7)) {
		t.Errorf("expected 7h, got %s", got)
	}

	// A range with no stored days sums to zero.
	empty := w.TotalHours(date(2025, time.March, 1), date(2025, time.March, 31))
	if !empty.IsZero() {
		t.Errorf("expected 0h, got %s", empty)
	}
}

func TestAssigneeWorkload_DailyAllocationLookup(t *testing.T) {
	w := workload.NewAssigneeWorkload("user-1", []workload.DailyWorkAllocation{
		day(date(2025, time.January, 6), 7.5),
	})

	if _, ok := w.DailyAllocation(date(2025, time.January, 6)); !ok {
		t.Error("expected a record for Jan 6")
	}
	if _, ok := w.DailyAllocation(date(2025, time.January, 7)); ok {
		t.Error("expected no record for Jan 7")
	}
}

func TestAssigneeWorkload_DateRangeEmptyReturnsNil(t *testing.T) {
	w := workload.NewAssigneeWorkload("user-1", nil)
	start, end := w.DateRange()
	if start != nil || end != nil {
		t.Errorf("expected nil, nil for empty workload, got %v, %v", start, end)
	}
}

// =============================================================================
// WARNING SERVICE TESTS
// =============================================================================

func TestWarningService_FlagsTaskWithNoFeasibleDay(t *testing.T) {
	// GIVEN: a task whose entire period is a weekend
	cal := noHolidays()
	service := workload.NewWarningService(cal, zerolog.Nop())
	end := date(2025, time.January, 5)
	tk := task(t, "t-1", date(2025, time.January, 4), &end, 10)

	warnings := service.Check([]workload.AssignedTask{{Task: tk}}, nil)

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if warnings[0].TaskID != "t-1" || warnings[0].Reason != workload.ReasonNoFeasibleDay {
		t.Errorf("unexpected warning: %+v", warnings[0])
	}
}

func TestWarningService_FlagsAllHolidayPeriod(t *testing.T) {
	cal := calendar.NewCompanyCalendar([]wbs.CompanyHoliday{
		wbs.NewCompanyHoliday(date(2025, time.January, 6), "Company Holiday", wbs.HolidayCompany),
		wbs.NewCompanyHoliday(date(2025, time.January, 7), "Company Holiday", wbs.HolidayCompany),
	}, 7.5)
	service := workload.NewWarningService(cal, zerolog.Nop())
	end := date(2025, time.January, 7)
	tk := task(t, "t-1", date(2025, time.January, 6), &end, 10)

	warnings := service.Check([]workload.AssignedTask{{Task: tk}}, nil)
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning for an all-holiday period, got %d", len(warnings))
	}
}

func TestWarningService_FullyBookedScheduleTriggersWarning(t *testing.T) {
	// The assignee's own schedule eats the whole period's capacity.
	cal := noHolidays()
	service := workload.NewWarningService(cal, zerolog.Nop())
	tk := task(t, "t-1", date(2025, time.January, 6), nil, 4)
	assignee := fullTime("user-1")

	booked, err := wbs.NewUserSchedule("user-1", date(2025, time.January, 6), "09:00", "17:00", "offsite")
	if err != nil {
		t.Fatalf("failed to create schedule: %v", err)
	}

	warnings := service.Check(
		[]workload.AssignedTask{{Task: tk, Assignee: &assignee}},
		[]wbs.UserSchedule{booked})
	if len(warnings) != 1 {
		t.Errorf("expected 1 warning for a fully-booked period, got %d", len(warnings))
	}
}

func TestWarningService_NoWarningForFeasibleTask(t *testing.T) {
	cal := noHolidays()
	service := workload.NewWarningService(cal, zerolog.Nop())
	end := date(2025, time.January, 10)
	tk := task(t, "t-1", date(2025, time.January, 6), &end, 10)

	warnings := service.Check([]workload.AssignedTask{{Task: tk}}, nil)
	if len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestWarningService_SkipsTasksWithoutPeriod(t *testing.T) {
	cal := noHolidays()
	service := workload.NewWarningService(cal, zerolog.Nop())
	undated := wbs.ReconstructTask("wbs-1", "t-1", "undated", "", wbs.Date{}, nil, wbs.NewHours(5), nil)

	warnings := service.Check([]workload.AssignedTask{{Task: undated}}, nil)
	if len(warnings) != 0 {
		t.Errorf("expected no warnings for undated task, got %v", warnings)
	}
}
