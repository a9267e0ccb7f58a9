package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/aiplanner/internal/api/middleware"
	"github.com/phrazzld/aiplanner/internal/api/shared"
	"github.com/phrazzld/aiplanner/internal/service/auth"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) error

// RouterDeps are the services behind the HTTP API.
type RouterDeps struct {
	Users     UserService
	Tasks     TaskService
	Imports   ImportService
	Schedules ScheduleService
	Tokens    auth.JWTService
	Health    HealthChecker
	Logger    *slog.Logger
}

// NewRouter creates the router with every route and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewTraceMiddleware(deps.Logger))

	authHandler := NewAuthHandler(deps.Users)
	taskHandler := NewTaskHandler(deps.Tasks)
	importHandler := NewImportHandler(deps.Imports)
	scheduleHandler := NewScheduleHandler(deps.Schedules)
	authMiddleware := middleware.NewAuthMiddleware(deps.Tokens)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/tasks", taskHandler.ListTasks)
			r.Post("/tasks", taskHandler.CreateTask)
			r.Delete("/tasks/{id}", taskHandler.DeleteTask)

			r.Post("/imports/canvas", importHandler.ImportCanvas)
			r.Post("/schedules", scheduleHandler.GenerateSchedule)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if deps.Health != nil {
			if err := deps.Health(r.Context()); err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "unavailable", err)
				return
			}
		}
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
