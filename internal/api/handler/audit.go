package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/devtrack/devicetracker/internal/api/respond"
	"github.com/devtrack/devicetracker/internal/audit"
	"github.com/devtrack/devicetracker/internal/cache"
	"github.com/devtrack/devicetracker/internal/device"
	"github.com/devtrack/devicetracker/internal/export"
	"github.com/devtrack/devicetracker/internal/notify"
)

// auditReport is the report endpoint's response shape.
type auditReport struct {
	Scope       audit.Scope     `json:"scope"`
	HorizonDays int             `json:"horizon_days"`
	Query       string          `json:"query,omitempty"`
	Counts      audit.Counts    `json:"counts"`
	ByType      device.Counts   `json:"by_type"`
	Devices     []device.Device `json:"devices"`
}

// auditParams reads the shared scope/horizon/q query parameters.
func auditParams(r *http.Request) (audit.Scope, int, string) {
	scope := audit.ParseScope(r.URL.Query().Get("scope"))
	horizon := audit.DefaultHorizonDays
	if v := r.URL.Query().Get("horizon"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			horizon = n
		}
	}
	return scope, audit.ClampHorizon(horizon), r.URL.Query().Get("q")
}

// buildReport classifies the snapshot once and applies scope + search.
func (h *Handler) buildReport(r *http.Request, scope audit.Scope, horizon int, query string) (*auditReport, error) {
	devices, err := h.devices.List(r.Context())
	if err != nil {
		return nil, err
	}

	today := audit.StartOfDay(time.Now().In(h.cfg.Location()))
	filtered := audit.Search(audit.Filter(devices, scope, today, horizon), query)
	if filtered == nil {
		filtered = []device.Device{}
	}

	return &auditReport{
		Scope:       scope,
		HorizonDays: horizon,
		Query:       query,
		Counts:      audit.Count(devices, today, horizon),
		ByType:      device.NewCounts(devices),
		Devices:     filtered,
	}, nil
}

// GetAuditReport returns classification counts plus the filtered device
// list for the requested scope.
// @Summary Audit report
// @Description Classifies the inventory into overdue / due-soon / all with counts, optional search, and an adjustable look-ahead window (1-365 days).
// @Tags audit
// @Produce json
// @Param scope query string false "overdue | due_soon | all" default(all)
// @Param horizon query int false "Look-ahead window in days" default(14)
// @Param q query string false "Search serial or type"
// @Success 200 {object} handler.auditReport
// @Router /audit/report [get]
func (h *Handler) GetAuditReport(w http.ResponseWriter, r *http.Request) {
	scope, horizon, query := auditParams(r)
	key := fmt.Sprintf("audit:%s:%d:%s", scope, horizon, query)

	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLReport, true)
		return
	}

	report, err := h.buildReport(r, scope, horizon, query)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "REPORT_FAILED", "Could not read devices")
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Could not encode report")
		return
	}

	etag := h.cache.Set(key, data, cache.TTLReport)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, cache.TTLReport, false)
}

// ExportCSV downloads the filtered audit view as CSV.
// @Summary Export devices as CSV
// @Tags audit
// @Produce text/csv
// @Param scope query string false "overdue | due_soon | all" default(all)
// @Param horizon query int false "Look-ahead window in days" default(14)
// @Param q query string false "Search serial or type"
// @Success 200 {string} string "CSV body"
// @Router /audit/export [get]
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	scope, horizon, query := auditParams(r)
	report, err := h.buildReport(r, scope, horizon, query)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "EXPORT_FAILED", "Could not read devices")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="devices.csv"`)
	if err := export.WriteCSV(w, report.Devices); err != nil {
		h.logger.Warn("csv export failed", "error", err)
	}
}

// GetBadge returns the process-wide overdue badge.
// @Summary Overdue badge
// @Description Returns the current overdue count mirrored by the notification rebuild cycle. Zero means cleared.
// @Tags audit
// @Produce json
// @Success 200 {object} map[string]int
// @Router /audit/badge [get]
func (h *Handler) GetBadge(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]int{"overdue": h.badge.Value()})
}

// ListNotifications returns pending summary notifications.
// @Summary Pending notifications
// @Tags notifications
// @Produce json
// @Success 200 {array} notify.Notification
// @Router /notifications [get]
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	pending, err := h.notes.Pending(r.Context())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "LIST_FAILED", "Could not read notifications")
		return
	}
	if pending == nil {
		pending = []notify.Notification{}
	}
	respond.WriteJSONObject(w, http.StatusOK, pending)
}

// RebuildNotifications requests a summary rebuild. The cycle itself runs
// on the scheduler goroutine; this endpoint returns as soon as the request
// is queued.
// @Summary Rebuild summary notifications
// @Tags notifications
// @Produce json
// @Param mode query string false "immediate | morning" default(morning)
// @Param hour query int false "Morning hour (0-23)" default(9)
// @Success 202 {object} map[string]string
// @Router /notifications/rebuild [post]
func (h *Handler) RebuildNotifications(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("mode") {
	case "immediate":
		h.scheduler.RequestMode(notify.Immediate())
	case "morning":
		hour := notify.DefaultMorningHour
		if v := r.URL.Query().Get("hour"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 23 {
				hour = n
			}
		}
		h.scheduler.RequestMode(notify.MorningAt(hour))
	default:
		h.scheduler.Request()
	}
	respond.WriteJSONObject(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
