package app

import (
	"net/http"

	"taskHelper/internal/config"
	"taskHelper/internal/handlers"
	"taskHelper/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the task routes under both /tasks and /api/tasks.
func NewRouter(h *handlers.TaskHandler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerMinute))

	r.Get("/", h.Root)
	r.Get("/health", h.HealthCheck)
	r.Handle("/metrics", middleware.MetricsHandler())

	r.Route("/tasks", h.Routes)
	r.Route("/api/tasks", h.Routes)

	return r
}
