/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/tasks/*          Task management and per-task allocation
  /api/wbs/*            Per-WBS listings, summary, workload, warnings
  /api/holidays/*       Company holiday calendar
  /api/schedules        Personal schedule entries
  /api/users/*          Per-user schedule listing

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Task routes
		r.Route("/tasks", func(r chi.Router) {
			r.Post("/", h.CreateTask)
			r.Get("/{id}", h.GetTask)
			r.Post("/{id}/actual", h.RecordActual)
			r.Delete("/{id}", h.DeleteTask)
			r.Get("/{id}/allocation", h.GetTaskAllocation)
		})

		// WBS-scoped routes
		r.Route("/wbs/{wbsID}", func(r chi.Router) {
			r.Get("/tasks", h.ListTasks)
			r.Get("/assignees", h.ListAssignees)
			r.Post("/assignees", h.UpsertAssignee)
			r.Get("/summary", h.GetSummary)
			r.Get("/warnings", h.GetWarnings)
			r.Get("/users/{userID}/workload", h.GetWorkload)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Post("/defaults", h.AddDefaultHolidays)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		// Schedule routes
		r.Post("/schedules", h.CreateSchedule)
		r.Get("/users/{userID}/schedules", h.ListSchedules)
	})

	return r
}
