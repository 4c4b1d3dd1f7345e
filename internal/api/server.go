package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/devtrack/devicetracker/internal/api/handler"
	"github.com/devtrack/devicetracker/internal/cache"
	"github.com/devtrack/devicetracker/internal/config"
	"github.com/devtrack/devicetracker/internal/device"
	"github.com/devtrack/devicetracker/internal/notify"
)

// Deps carries everything the router's handlers need.
type Deps struct {
	Pool      *pgxpool.Pool
	Devices   *device.Store
	Notes     *notify.Store
	Scheduler *notify.Scheduler
	Badge     *notify.CountBadge
	Cache     *cache.Cache
	Logger    *slog.Logger
}

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(deps Deps, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(deps.Pool, deps.Devices, deps.Notes, deps.Scheduler, deps.Badge, deps.Cache, cfg, deps.Logger)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Devices
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", h.ListDevices)
			r.Post("/", h.CreateDevice)
			r.Post("/maintain", h.MaintainDevices)
			r.Post("/session", h.CommitSession)
			r.Get("/{id}", h.GetDevice)
			r.Put("/{id}", h.UpdateDevice)
			r.Delete("/{id}", h.DeleteDevice)
		})

		// Audit & reports
		r.Get("/audit/report", h.GetAuditReport)
		r.Get("/audit/export", h.ExportCSV)
		r.Get("/audit/badge", h.GetBadge)

		// Notifications
		r.Get("/notifications", h.ListNotifications)
		r.Post("/notifications/rebuild", h.RebuildNotifications)
	})

	return r
}
