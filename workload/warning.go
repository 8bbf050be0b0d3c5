package workload

import (
	"github.com/rs/zerolog"

	"github.com/warp/workload-engine/calendar"
	"github.com/warp/workload-engine/wbs"
)

// =============================================================================
// WORKLOAD WARNING SERVICE - Infeasibility detection
// =============================================================================

// AssignedTask pairs a task with its assignee, nil when unassigned.
type AssignedTask struct {
	Task     wbs.Task
	Assignee *wbs.WbsAssignee
}

// Warning flags a task that has no feasible working day inside its own
// planned period.
type Warning struct {
	WbsID    string
	TaskID   string
	TaskName string
	Reason   string
}

const ReasonNoFeasibleDay = "no feasible working day in task period"

// WarningService detects tasks whose entire planned period falls on
// weekends, holidays, or fully-booked days. It is a detector, not a
// scheduler: it never mutates tasks or calendars.
type WarningService struct {
	companyCalendar *calendar.CompanyCalendar
	log             zerolog.Logger
}

// NewWarningService creates a warning service over the company calendar.
func NewWarningService(companyCalendar *calendar.CompanyCalendar, log zerolog.Logger) *WarningService {
	return &WarningService{companyCalendar: companyCalendar, log: log}
}

// Check inspects every task with a planned period. Assigned tasks use the
// assignee's working calendar (with their personal schedules); unassigned
// tasks fall back to a full-rate company-calendar-only check.
func (s *WarningService) Check(tasks []AssignedTask, schedules []wbs.UserSchedule) []Warning {
	var warnings []Warning
	for _, at := range tasks {
		if !at.Task.HasPeriod() {
			continue
		}

		assignee := wbs.FullTimePlaceholder()
		if at.Assignee != nil {
			assignee = *at.Assignee
		}
		working := calendar.NewAssigneeWorkingCalendar(assignee, s.companyCalendar, schedules)

		if working.HasAvailability(at.Task.PlannedPeriod()) {
			continue
		}

		s.log.Warn().
			Str("wbs_id", at.Task.WbsID).
			Str("task_id", at.Task.TaskID).
			Str("period", at.Task.PlannedPeriod().String()).
			Msg("task has no feasible working day")

		warnings = append(warnings, Warning{
			WbsID:    at.Task.WbsID,
			TaskID:   at.Task.TaskID,
			TaskName: at.Task.TaskName,
			Reason:   ReasonNoFeasibleDay,
		})
	}
	return warnings
}
