/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's value objects from the external API contract. Hours are
  serialized as float64 for UI consumption; the engine keeps decimals
  internally.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Structural validation (dates, clock strings, rates) happens in handlers
  via the wbs factory functions. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/warp/workload-engine/allocation"
	"github.com/warp/workload-engine/wbs"
	"github.com/warp/workload-engine/workload"
)

// =============================================================================
// TASKS
// =============================================================================

// TaskDTO represents a task in API responses.
type TaskDTO struct {
	TaskID      string   `json:"task_id"`
	WbsID       string   `json:"wbs_id"`
	TaskName    string   `json:"task_name"`
	Phase       string   `json:"phase,omitempty"`
	AssigneeID  *string  `json:"assignee_id,omitempty"`
	YoteiStart  string   `json:"yotei_start"`
	YoteiEnd    *string  `json:"yotei_end,omitempty"`
	YoteiKosu   float64  `json:"yotei_kosu"`
	JissekiKosu *float64 `json:"jisseki_kosu,omitempty"`
}

// CreateTaskRequest is the request to create or update a task.
type CreateTaskRequest struct {
	TaskID     string  `json:"task_id,omitempty"`
	WbsID      string  `json:"wbs_id"`
	TaskName   string  `json:"task_name"`
	Phase      string  `json:"phase,omitempty"`
	AssigneeID *string `json:"assignee_id,omitempty"`
	YoteiStart string  `json:"yotei_start"`
	YoteiEnd   *string `json:"yotei_end,omitempty"`
	YoteiKosu  float64 `json:"yotei_kosu"`
}

// RecordActualRequest records jisseki kosu on a task.
type RecordActualRequest struct {
	JissekiKosu float64 `json:"jisseki_kosu"`
}

// =============================================================================
// ASSIGNEES / HOLIDAYS / SCHEDULES
// =============================================================================

// AssigneeDTO represents a WBS assignee.
type AssigneeDTO struct {
	UserID string  `json:"user_id"`
	Rate   float64 `json:"rate"`
}

// HolidayDTO represents a company holiday.
type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// CreateScheduleRequest is the request to record a personal schedule entry.
type CreateScheduleRequest struct {
	UserID    string `json:"user_id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Title     string `json:"title,omitempty"`
}

// ScheduleDTO represents a personal schedule entry.
type ScheduleDTO struct {
	UserID        string  `json:"user_id"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Title         string  `json:"title,omitempty"`
	DurationHours float64 `json:"duration_hours"`
}

// =============================================================================
// ALLOCATION / SUMMARY
// =============================================================================

// AllocationDetailDTO is one month's slice of a task allocation.
type AllocationDetailDTO struct {
	Month           string  `json:"month"`
	PlannedHours    float64 `json:"planned_hours"`
	ActualHours     float64 `json:"actual_hours"`
	WorkingDays     int     `json:"working_days"`
	AvailableHours  float64 `json:"available_hours"`
	AllocationRatio float64 `json:"allocation_ratio"`
}

// MonthlyAllocationDTO is a task's full month-by-month breakdown.
type MonthlyAllocationDTO struct {
	TaskID       string                `json:"task_id"`
	WbsID        string                `json:"wbs_id"`
	TaskName     string                `json:"task_name"`
	TotalPlanned float64               `json:"total_planned"`
	Months       []AllocationDetailDTO `json:"months"`
}

// SummaryTotalDTO is one summed bucket of the monthly summary.
type SummaryTotalDTO struct {
	PlannedHours  float64 `json:"planned_hours"`
	ActualHours   float64 `json:"actual_hours"`
	ForecastHours float64 `json:"forecast_hours"`
	BaselineHours float64 `json:"baseline_hours"`
	Difference    float64 `json:"difference"`
}

// SummaryRowDTO is one (month, assignee) cell.
type SummaryRowDTO struct {
	Assignee string `json:"assignee"`
	Month    string `json:"month"`
	SummaryTotalDTO
}

// SummaryDTO is the full monthly summary report.
type SummaryDTO struct {
	Rows           []SummaryRowDTO            `json:"rows"`
	MonthlyTotals  map[string]SummaryTotalDTO `json:"monthly_totals"`
	AssigneeTotals map[string]SummaryTotalDTO `json:"assignee_totals"`
	GrandTotal     SummaryTotalDTO            `json:"grand_total"`
}

// =============================================================================
// WORKLOAD / WARNINGS
// =============================================================================

// TaskAllocationDTO is one task's hour figure on one day.
type TaskAllocationDTO struct {
	TaskID         string  `json:"task_id"`
	TaskName       string  `json:"task_name"`
	AllocatedHours float64 `json:"allocated_hours"`
}

// DailyAllocationDTO is one day of an assignee's workload.
type DailyAllocationDTO struct {
	Date             string              `json:"date"`
	AvailableHours   float64             `json:"available_hours"`
	AllocatedHours   float64             `json:"allocated_hours"`
	UtilizationRate  float64             `json:"utilization_rate"`
	IsWeekend        bool                `json:"is_weekend"`
	IsCompanyHoliday bool                `json:"is_company_holiday"`
	IsOverloaded     bool                `json:"is_overloaded"`
	Tasks            []TaskAllocationDTO `json:"tasks"`
	Schedules        []ScheduleDTO       `json:"schedules,omitempty"`
}

// WorkloadDTO is an assignee's workload over a window.
type WorkloadDTO struct {
	UserID         string               `json:"user_id"`
	StartDate      *string              `json:"start_date"`
	EndDate        *string              `json:"end_date"`
	Days           []DailyAllocationDTO `json:"days"`
	OverloadedDays int                  `json:"overloaded_days"`
}

// WarningDTO flags an infeasible task.
type WarningDTO struct {
	WbsID    string `json:"wbs_id"`
	TaskID   string `json:"task_id"`
	TaskName string `json:"task_name"`
	Reason   string `json:"reason"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERTERS
// =============================================================================

func toTaskDTO(task wbs.Task, assigneeID *string) TaskDTO {
	dto := TaskDTO{
		TaskID:     task.TaskID,
		WbsID:      task.WbsID,
		TaskName:   task.TaskName,
		Phase:      task.Phase,
		AssigneeID: assigneeID,
		YoteiStart: task.YoteiStart.String(),
		YoteiKosu:  task.YoteiKosu.Float64(),
	}
	if task.YoteiEnd != nil {
		v := task.YoteiEnd.String()
		dto.YoteiEnd = &v
	}
	if task.JissekiKosu != nil {
		v := task.JissekiKosu.Float64()
		dto.JissekiKosu = &v
	}
	return dto
}

func toScheduleDTO(s wbs.UserSchedule) ScheduleDTO {
	return ScheduleDTO{
		UserID:        s.UserID,
		Date:          s.Date.String(),
		StartTime:     s.StartTime,
		EndTime:       s.EndTime,
		Title:         s.Title,
		DurationHours: s.DurationHours().Float64(),
	}
}

func toMonthlyAllocationDTO(alloc *allocation.MonthlyTaskAllocation) MonthlyAllocationDTO {
	dto := MonthlyAllocationDTO{
		TaskID:       alloc.TaskID,
		WbsID:        alloc.WbsID,
		TaskName:     alloc.TaskName,
		TotalPlanned: alloc.TotalPlanned().Float64(),
	}
	for _, key := range alloc.MonthKeys() {
		detail, _ := alloc.Detail(key)
		dto.Months = append(dto.Months, AllocationDetailDTO{
			Month:           key.String(),
			PlannedHours:    detail.PlannedHours.Float64(),
			ActualHours:     detail.ActualHours.Float64(),
			WorkingDays:     detail.WorkingDays,
			AvailableHours:  detail.AvailableHours.Float64(),
			AllocationRatio: detail.AllocationRatio,
		})
	}
	return dto
}

func toSummaryTotalDTO(t allocation.SummaryTotal) SummaryTotalDTO {
	return SummaryTotalDTO{
		PlannedHours:  t.PlannedHours.Float64(),
		ActualHours:   t.ActualHours.Float64(),
		ForecastHours: t.ForecastHours.Float64(),
		BaselineHours: t.BaselineHours.Float64(),
		Difference:    t.Difference().Float64(),
	}
}

func toSummaryDTO(totals allocation.SummaryTotals) SummaryDTO {
	dto := SummaryDTO{
		MonthlyTotals:  make(map[string]SummaryTotalDTO, len(totals.MonthlyTotals)),
		AssigneeTotals: make(map[string]SummaryTotalDTO, len(totals.AssigneeTotals)),
		GrandTotal:     toSummaryTotalDTO(totals.GrandTotal),
	}
	for _, row := range totals.Rows {
		dto.Rows = append(dto.Rows, SummaryRowDTO{
			Assignee:        row.Assignee,
			Month:           row.Month.String(),
			SummaryTotalDTO: toSummaryTotalDTO(row.SummaryTotal),
		})
	}
	for month, t := range totals.MonthlyTotals {
		dto.MonthlyTotals[month.String()] = toSummaryTotalDTO(t)
	}
	for assignee, t := range totals.AssigneeTotals {
		dto.AssigneeTotals[assignee] = toSummaryTotalDTO(t)
	}
	return dto
}

func toWorkloadDTO(w *workload.AssigneeWorkload) WorkloadDTO {
	dto := WorkloadDTO{
		UserID:         w.UserID,
		OverloadedDays: len(w.OverloadedDays()),
	}
	if start, end := w.DateRange(); start != nil {
		s, e := start.String(), end.String()
		dto.StartDate, dto.EndDate = &s, &e
	}
	for _, day := range w.Days() {
		dayDTO := DailyAllocationDTO{
			Date:             day.Date.String(),
			AvailableHours:   day.AvailableHours.Float64(),
			AllocatedHours:   day.AllocatedHours().Float64(),
			UtilizationRate:  day.UtilizationRate(),
			IsWeekend:        day.IsWeekend,
			IsCompanyHoliday: day.IsCompanyHoliday,
			IsOverloaded:     day.IsOverloaded(),
		}
		for _, t := range day.TaskAllocations {
			dayDTO.Tasks = append(dayDTO.Tasks, TaskAllocationDTO{
				TaskID:         t.TaskID,
				TaskName:       t.TaskName,
				AllocatedHours: t.AllocatedHours.Float64(),
			})
		}
		for _, s := range day.UserSchedules {
			dayDTO.Schedules = append(dayDTO.Schedules, toScheduleDTO(s))
		}
		dto.Days = append(dto.Days, dayDTO)
	}
	return dto
}
