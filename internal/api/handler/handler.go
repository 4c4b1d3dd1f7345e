// Package handler provides HTTP handlers for all API endpoints. Handlers
// read and mutate devices through the device store; every successful
// mutation invalidates the report cache and requests a notification
// rebuild.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devtrack/devicetracker/internal/api/respond"
	"github.com/devtrack/devicetracker/internal/cache"
	"github.com/devtrack/devicetracker/internal/config"
	"github.com/devtrack/devicetracker/internal/device"
	"github.com/devtrack/devicetracker/internal/notify"
)

// DeviceStore is the inventory surface the handlers depend on, satisfied
// by *device.Store.
type DeviceStore interface {
	List(ctx context.Context) ([]device.Device, error)
	Get(ctx context.Context, id string) (*device.Device, error)
	Insert(ctx context.Context, d *device.Device) error
	InsertBatch(ctx context.Context, devices []device.Device) (int, error)
	Update(ctx context.Context, d *device.Device) error
	Delete(ctx context.Context, id string) error
	MaintainToday(ctx context.Context, ids []string, now time.Time) (int, error)
	SerialExists(ctx context.Context, serial string) (bool, error)
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool      *pgxpool.Pool
	devices   DeviceStore
	notes     *notify.Store
	scheduler *notify.Scheduler
	badge     *notify.CountBadge
	cache     *cache.Cache
	cfg       *config.Config
	logger    *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(pool *pgxpool.Pool, devices DeviceStore, notes *notify.Store, scheduler *notify.Scheduler, badge *notify.CountBadge, c *cache.Cache, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		pool:      pool,
		devices:   devices,
		notes:     notes,
		scheduler: scheduler,
		badge:     badge,
		cache:     c,
		cfg:       cfg,
		logger:    logger,
	}
}

// mutated runs the post-mutation bookkeeping shared by every write path:
// drop cached reports and request a notification rebuild.
func (h *Handler) mutated() {
	h.cache.Invalidate()
	h.scheduler.Request()
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "DeviceTracker API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	var n int
	err := h.pool.QueryRow(r.Context(), "health_check").Scan(&n)
	if err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
