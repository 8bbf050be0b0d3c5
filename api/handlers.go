/*
handlers.go - HTTP API handlers for the workload allocation engine

PURPOSE:
  Exposes the allocation engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the engine packages.

ENDPOINTS:
  Tasks:
    GET    /api/wbs/{wbsID}/tasks        List tasks of a WBS
    POST   /api/tasks                    Create/update task
    GET    /api/tasks/{id}               Get task
    POST   /api/tasks/{id}/actual        Record jisseki kosu
    DELETE /api/tasks/{id}               Delete task
    GET    /api/tasks/{id}/allocation    Month-by-month proration

  Assignees:
    GET    /api/wbs/{wbsID}/assignees    List assignees
    POST   /api/wbs/{wbsID}/assignees    Upsert assignee rate

  Reporting:
    GET    /api/wbs/{wbsID}/summary      Monthly summary totals
    GET    /api/wbs/{wbsID}/users/{userID}/workload   Daily capacity/demand
    GET    /api/wbs/{wbsID}/warnings     Infeasible-task warnings

  Calendar:
    GET    /api/holidays                 List holidays
    POST   /api/holidays                 Create holiday
    POST   /api/holidays/defaults        Seed the default holiday set
    DELETE /api/holidays/{id}            Delete holiday
    POST   /api/schedules                Record personal schedule entry
    GET    /api/users/{userID}/schedules List personal schedule entries

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  One malformed task never aborts a batch computation: summary and warning
  endpoints log and skip it.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/warp/workload-engine/allocation"
	"github.com/warp/workload-engine/calendar"
	"github.com/warp/workload-engine/store/sqlite"
	"github.com/warp/workload-engine/wbs"
	"github.com/warp/workload-engine/workload"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         *sqlite.Store
	StandardHours float64
	Quantum       float64
	DemandMode    workload.DemandMode
	Log           zerolog.Logger
}

// NewHandler creates a handler over the store with the engine settings.
func NewHandler(store *sqlite.Store, standardHours, quantum float64, mode workload.DemandMode, log zerolog.Logger) *Handler {
	return &Handler{
		Store:         store,
		StandardHours: standardHours,
		Quantum:       quantum,
		DemandMode:    mode,
		Log:           log,
	}
}

// companyCalendar materializes the holiday calendar from the store.
func (h *Handler) companyCalendar(r *http.Request) (*calendar.CompanyCalendar, error) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		return nil, err
	}
	return calendar.NewCompanyCalendar(holidays, h.StandardHours), nil
}

// quantizer returns the configured quantizer, nil when quantization is off.
func (h *Handler) quantizer() *allocation.Quantizer {
	if h.Quantum <= 0 {
		return nil
	}
	return allocation.NewQuantizer(h.Quantum)
}

// =============================================================================
// TASK HANDLERS
// =============================================================================

// CreateTask creates or updates a task.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := parseDate(req.YoteiStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid yotei_start", err)
		return
	}
	var end *wbs.Date
	if req.YoteiEnd != nil {
		d, err := parseDate(*req.YoteiEnd)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid yotei_end", err)
			return
		}
		end = &d
	}

	taskID := req.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}

	task, err := wbs.NewTask(req.WbsID, taskID, req.TaskName, req.Phase, start, end, wbs.NewHours(req.YoteiKosu))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid task", err)
		return
	}

	rec := sqlite.TaskRecord{Task: task, AssigneeUserID: req.AssigneeID}
	if err := h.Store.SaveTask(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save task", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskDTO(task, req.AssigneeID))
}

// GetTask returns a single task.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetTask(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, wbs.ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, "Task not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get task", err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(rec.Task, rec.AssigneeUserID))
}

// ListTasks returns every task of a WBS.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListTasks(r.Context(), chi.URLParam(r, "wbsID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	dtos := make([]TaskDTO, len(records))
	for i, rec := range records {
		dtos[i] = toTaskDTO(rec.Task, rec.AssigneeUserID)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// RecordActual records jisseki kosu on a task.
func (h *Handler) RecordActual(w http.ResponseWriter, r *http.Request) {
	var req RecordActualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.JissekiKosu < 0 {
		writeError(w, http.StatusBadRequest, "Invalid jisseki_kosu", wbs.ErrNegativeHours)
		return
	}

	rec, err := h.Store.GetTask(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, wbs.ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, "Task not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get task", err)
		return
	}

	rec.Task = rec.Task.WithActualHours(wbs.NewHours(req.JissekiKosu))
	if err := h.Store.SaveTask(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save task", err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskDTO(rec.Task, rec.AssigneeUserID))
}

// DeleteTask removes a task.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteTask(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, wbs.ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, "Task not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete task", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ASSIGNEE HANDLERS
// =============================================================================

// UpsertAssignee sets a user's commitment rate on a WBS.
func (h *Handler) UpsertAssignee(w http.ResponseWriter, r *http.Request) {
	var req AssigneeDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	assignee, err := wbs.NewWbsAssignee(req.UserID, req.Rate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignee", err)
		return
	}
	if err := h.Store.SaveAssignee(r.Context(), chi.URLParam(r, "wbsID"), assignee); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save assignee", err)
		return
	}
	writeJSON(w, http.StatusCreated, AssigneeDTO{UserID: assignee.UserID, Rate: assignee.Rate})
}

// ListAssignees returns every assignee of a WBS.
func (h *Handler) ListAssignees(w http.ResponseWriter, r *http.Request) {
	assignees, err := h.Store.ListAssignees(r.Context(), chi.URLParam(r, "wbsID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assignees", err)
		return
	}

	dtos := make([]AssigneeDTO, len(assignees))
	for i, a := range assignees {
		dtos[i] = AssigneeDTO{UserID: a.UserID, Rate: a.Rate}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ALLOCATION / REPORTING HANDLERS
// =============================================================================

// GetTaskAllocation returns a task's month-by-month proration.
func (h *Handler) GetTaskAllocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, err := h.Store.GetTask(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, wbs.ErrTaskNotFound) {
		writeError(w, http.StatusNotFound, "Task not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get task", err)
		return
	}

	cal, err := h.companyCalendar(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	var assignee *wbs.WbsAssignee
	var schedules []wbs.UserSchedule
	if rec.AssigneeUserID != nil {
		a, err := h.Store.GetAssignee(ctx, rec.Task.WbsID, *rec.AssigneeUserID)
		if err != nil && !errors.Is(err, wbs.ErrAssigneeNotFound) {
			writeError(w, http.StatusInternalServerError, "Failed to get assignee", err)
			return
		}
		if err == nil {
			assignee = &a
			period := rec.Task.PlannedPeriod()
			schedules, err = h.Store.ListSchedules(ctx, a.UserID, period.Start, period.End)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to list schedules", err)
				return
			}
		}
	}

	service := allocation.NewService(cal)
	alloc, err := service.AllocateWithDetails(rec.Task, assignee, schedules, h.quantizer())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to allocate task", err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthlyAllocationDTO(alloc))
}

// GetSummary folds every task of a WBS into the monthly summary totals.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wbsID := chi.URLParam(r, "wbsID")

	records, err := h.Store.ListTasks(ctx, wbsID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	cal, err := h.companyCalendar(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	assignees, schedules, err := h.loadAssigneesAndSchedules(r, wbsID, records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignees", err)
		return
	}

	service := allocation.NewService(cal)
	quantizer := h.quantizer()
	accumulator := allocation.NewSummaryAccumulator()

	for _, rec := range records {
		var assignee *wbs.WbsAssignee
		name := "(unassigned)"
		if rec.AssigneeUserID != nil {
			if a, ok := assignees[*rec.AssigneeUserID]; ok {
				assignee = &a
				name = a.UserID
			}
		}

		alloc, err := service.AllocateWithDetails(rec.Task, assignee, schedules, quantizer)
		if err != nil {
			// One malformed task must not abort the rest of the batch.
			h.Log.Error().Err(err).Str("task_id", rec.Task.TaskID).Msg("skipping task in summary")
			continue
		}

		for _, key := range alloc.MonthKeys() {
			detail, _ := alloc.Detail(key)
			accumulator.Add(name, key, detail.PlannedHours, detail.ActualHours, detail.PlannedHours, alloc)
		}
	}

	writeJSON(w, http.StatusOK, toSummaryDTO(accumulator.Totals()))
}

// GetWorkload returns an assignee's daily capacity/demand records.
func (h *Handler) GetWorkload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wbsID := chi.URLParam(r, "wbsID")
	userID := chi.URLParam(r, "userID")

	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	assignee, err := h.Store.GetAssignee(ctx, wbsID, userID)
	if errors.Is(err, wbs.ErrAssigneeNotFound) {
		writeError(w, http.StatusNotFound, "Assignee not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get assignee", err)
		return
	}

	records, err := h.Store.ListTasksByAssignee(ctx, wbsID, userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}
	tasks := make([]wbs.Task, len(records))
	for i, rec := range records {
		tasks[i] = rec.Task
	}

	schedules, err := h.Store.ListSchedules(ctx, userID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list schedules", err)
		return
	}

	cal, err := h.companyCalendar(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	calculator, err := workload.NewCalculator(h.DemandMode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Invalid demand mode", err)
		return
	}
	days, err := calculator.DailyAllocations(tasks, assignee, schedules, cal, from, to)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date range", err)
		return
	}

	writeJSON(w, http.StatusOK, toWorkloadDTO(workload.NewAssigneeWorkload(userID, days)))
}

// GetWarnings returns infeasible-task warnings for a WBS.
func (h *Handler) GetWarnings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wbsID := chi.URLParam(r, "wbsID")

	records, err := h.Store.ListTasks(ctx, wbsID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	cal, err := h.companyCalendar(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load calendar", err)
		return
	}

	assignees, schedules, err := h.loadAssigneesAndSchedules(r, wbsID, records)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load assignees", err)
		return
	}

	assigned := make([]workload.AssignedTask, 0, len(records))
	for _, rec := range records {
		at := workload.AssignedTask{Task: rec.Task}
		if rec.AssigneeUserID != nil {
			if a, ok := assignees[*rec.AssigneeUserID]; ok {
				at.Assignee = &a
			}
		}
		assigned = append(assigned, at)
	}

	service := workload.NewWarningService(cal, h.Log)
	warnings := service.Check(assigned, schedules)

	dtos := make([]WarningDTO, len(warnings))
	for i, warn := range warnings {
		dtos[i] = WarningDTO{WbsID: warn.WbsID, TaskID: warn.TaskID, TaskName: warn.TaskName, Reason: warn.Reason}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// loadAssigneesAndSchedules materializes the assignee map and every relevant
// schedule entry across the spanned task periods.
func (h *Handler) loadAssigneesAndSchedules(r *http.Request, wbsID string, records []sqlite.TaskRecord) (map[string]wbs.WbsAssignee, []wbs.UserSchedule, error) {
	ctx := r.Context()

	list, err := h.Store.ListAssignees(ctx, wbsID)
	if err != nil {
		return nil, nil, err
	}
	assignees := make(map[string]wbs.WbsAssignee, len(list))
	for _, a := range list {
		assignees[a.UserID] = a
	}

	if len(records) == 0 {
		return assignees, nil, nil
	}

	window := records[0].Task.PlannedPeriod()
	for _, rec := range records[1:] {
		p := rec.Task.PlannedPeriod()
		if p.Start.Before(window.Start) {
			window.Start = p.Start
		}
		if p.End.After(window.End) {
			window.End = p.End
		}
	}

	schedules, err := h.Store.ListAllSchedules(ctx, window.Start, window.End)
	if err != nil {
		return nil, nil, err
	}
	return assignees, schedules, nil
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// ListHolidays returns all holidays.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = HolidayDTO{Date: hol.Date.String(), Name: hol.Name, Type: string(hol.Type)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a company holiday.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	holiday := wbs.NewCompanyHoliday(date, req.Name, wbs.HolidayType(req.Type))
	if err := h.Store.SaveHoliday(r.Context(), uuid.NewString(), holiday); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, HolidayDTO{Date: holiday.Date.String(), Name: holiday.Name, Type: string(holiday.Type)})
}

// AddDefaultHolidays seeds the standard holiday set for a year.
func (h *Handler) AddDefaultHolidays(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if v := r.URL.Query().Get("year"); v != "" {
		if _, err := fmt.Sscanf(v, "%d", &year); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
	}

	for _, hol := range defaultHolidays(year) {
		if err := h.Store.SaveHoliday(r.Context(), uuid.NewString(), hol); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]int{"year": year})
}

// DeleteHoliday removes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateSchedule records a personal schedule entry.
func (h *Handler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req CreateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	schedule, err := wbs.NewUserSchedule(req.UserID, date, req.StartTime, req.EndTime, req.Title)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid schedule", err)
		return
	}
	if err := h.Store.SaveSchedule(r.Context(), uuid.NewString(), schedule); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save schedule", err)
		return
	}
	writeJSON(w, http.StatusCreated, toScheduleDTO(schedule))
}

// ListSchedules returns a user's schedule entries in a window.
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	from, err := parseDate(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date", err)
		return
	}
	to, err := parseDate(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date", err)
		return
	}

	schedules, err := h.Store.ListSchedules(r.Context(), chi.URLParam(r, "userID"), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list schedules", err)
		return
	}

	dtos := make([]ScheduleDTO, len(schedules))
	for i, s := range schedules {
		dtos[i] = toScheduleDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// defaultHolidays is the standard seed set: the new-year block and the
// year-end company close.
func defaultHolidays(year int) []wbs.CompanyHoliday {
	return []wbs.CompanyHoliday{
		wbs.NewCompanyHoliday(wbs.NewDate(year, time.January, 1), "New Year's Day", wbs.HolidayNational),
		wbs.NewCompanyHoliday(wbs.NewDate(year, time.January, 2), "New Year Holiday", wbs.HolidayCompany),
		wbs.NewCompanyHoliday(wbs.NewDate(year, time.January, 3), "New Year Holiday", wbs.HolidayCompany),
		wbs.NewCompanyHoliday(wbs.NewDate(year, time.May, 3), "Constitution Day", wbs.HolidayNational),
		wbs.NewCompanyHoliday(wbs.NewDate(year, time.May, 4), "Greenery Day", wbs.HolidayNational),
		wbs.NewCompanyHoliday(wbs.NewDate(year, time.May, 5), "Children's Day", wbs.HolidayNational),
		wbs.NewCompanyHoliday(wbs.NewDate(year, time.December, 29), "Year-End Close", wbs.HolidayCompany),
		wbs.NewCompanyHoliday(wbs.NewDate(year, time.December, 30), "Year-End Close", wbs.HolidayCompany),
		wbs.NewCompanyHoliday(wbs.NewDate(year, time.December, 31), "Year-End Close", wbs.HolidayCompany),
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDate(v string) (wbs.Date, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return wbs.Date{}, fmt.Errorf("date %q: expected YYYY-MM-DD", v)
	}
	return wbs.DateOf(t), nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
