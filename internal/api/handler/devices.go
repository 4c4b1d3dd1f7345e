package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devtrack/devicetracker/internal/api/respond"
	"github.com/devtrack/devicetracker/internal/cache"
	"github.com/devtrack/devicetracker/internal/device"
	"github.com/devtrack/devicetracker/internal/session"
)

// deviceRequest is the write shape for create and update.
type deviceRequest struct {
	Serial          string     `json:"serial"`
	Type            string     `json:"type"`
	LastMaintenance time.Time  `json:"last_maintenance"`
	NextDue         *time.Time `json:"next_due"`
}

func (req *deviceRequest) toDevice() (device.Device, bool) {
	d := device.Device{
		Serial:          device.NormalizeSerial(req.Serial),
		LastMaintenance: req.LastMaintenance,
		NextDue:         req.NextDue,
	}
	d.Type, _ = device.ParseType(req.Type)
	if d.LastMaintenance.IsZero() {
		d.LastMaintenance = time.Now()
	}
	return d, d.Serial != ""
}

// inventoryCacheKey caches the full device list; mutated() drops it.
const inventoryCacheKey = "devices:list"

// ListDevices returns the full inventory.
// @Summary List devices
// @Description Returns all devices ordered by next due date.
// @Tags devices
// @Produce json
// @Success 200 {array} device.Device
// @Router /devices [get]
func (h *Handler) ListDevices(w http.ResponseWriter, r *http.Request) {
	if data, etag, ok := h.cache.Get(inventoryCacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLInventory, true)
		return
	}

	devices, err := h.devices.List(r.Context())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "LIST_FAILED", "Could not read devices")
		return
	}
	if devices == nil {
		devices = []device.Device{}
	}

	data, err := json.Marshal(devices)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Could not encode devices")
		return
	}
	etag := h.cache.Set(inventoryCacheKey, data, cache.TTLInventory)
	respond.WriteJSON(w, data, etag, cache.TTLInventory, false)
}

// GetDevice returns one device.
// @Summary Get device
// @Tags devices
// @Produce json
// @Param id path string true "Device ID"
// @Success 200 {object} device.Device
// @Failure 404 {object} respond.ErrorResponse
// @Router /devices/{id} [get]
func (h *Handler) GetDevice(w http.ResponseWriter, r *http.Request) {
	d, err := h.devices.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Device not found")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, d)
}

// CreateDevice adds a device to the inventory.
// @Summary Create device
// @Tags devices
// @Accept json
// @Produce json
// @Param device body deviceRequest true "Device"
// @Success 201 {object} device.Device
// @Failure 400 {object} respond.ErrorResponse
// @Failure 409 {object} respond.ErrorResponse
// @Router /devices [post]
func (h *Handler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_JSON", "Request body is not valid JSON")
		return
	}
	d, ok := req.toDevice()
	if !ok {
		respond.WriteError(w, http.StatusBadRequest, "EMPTY_SERIAL", "Serial must not be empty")
		return
	}
	if exists, err := h.devices.SerialExists(r.Context(), d.Serial); err == nil && exists {
		respond.WriteError(w, http.StatusConflict, "DUPLICATE_SERIAL", "A device with this serial already exists")
		return
	}
	if err := h.devices.Insert(r.Context(), &d); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INSERT_FAILED", "Could not save device")
		return
	}
	h.mutated()
	respond.WriteJSONObject(w, http.StatusCreated, d)
}

// UpdateDevice rewrites a device.
// @Summary Update device
// @Tags devices
// @Accept json
// @Produce json
// @Param id path string true "Device ID"
// @Param device body deviceRequest true "Device"
// @Success 200 {object} device.Device
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /devices/{id} [put]
func (h *Handler) UpdateDevice(w http.ResponseWriter, r *http.Request) {
	var req deviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_JSON", "Request body is not valid JSON")
		return
	}
	d, ok := req.toDevice()
	if !ok {
		respond.WriteError(w, http.StatusBadRequest, "EMPTY_SERIAL", "Serial must not be empty")
		return
	}
	d.ID = chi.URLParam(r, "id")
	if err := h.devices.Update(r.Context(), &d); err != nil {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Device not found")
		return
	}
	h.mutated()
	respond.WriteJSONObject(w, http.StatusOK, d)
}

// DeleteDevice removes a device.
// @Summary Delete device
// @Tags devices
// @Param id path string true "Device ID"
// @Success 204
// @Failure 404 {object} respond.ErrorResponse
// @Router /devices/{id} [delete]
func (h *Handler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	if err := h.devices.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Device not found")
		return
	}
	h.mutated()
	w.WriteHeader(http.StatusNoContent)
}

// MaintainDevices records a maintenance-today action for a set of devices:
// last maintenance becomes now, next due moves three months out.
// @Summary Maintain devices today
// @Tags devices
// @Accept json
// @Produce json
// @Param ids body handler.maintainRequest true "Device IDs"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /devices/maintain [post]
func (h *Handler) MaintainDevices(w http.ResponseWriter, r *http.Request) {
	var req maintainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_JSON", "Request body is not valid JSON")
		return
	}
	if len(req.IDs) == 0 {
		respond.WriteError(w, http.StatusBadRequest, "NO_IDS", "No device IDs given")
		return
	}

	updated, err := h.devices.MaintainToday(r.Context(), req.IDs, time.Now())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "MAINTAIN_FAILED", "Could not update devices")
		return
	}
	h.mutated()
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"updated": updated})
}

type maintainRequest struct {
	IDs []string `json:"ids"`
}

// sessionRequest carries a maintenance-session batch: explicit rows and/or
// pasted serial text expanded with the session defaults.
type sessionRequest struct {
	Rows  []session.Row `json:"rows"`
	Paste string        `json:"paste"`
	Type  string        `json:"type"` // default type for pasted serials
}

// CommitSession validates a maintenance-session batch and adds it to the
// inventory. Empty rows and duplicate serials are dropped, not rejected.
// @Summary Commit a maintenance session batch
// @Tags devices
// @Accept json
// @Produce json
// @Param batch body handler.sessionRequest true "Session rows and/or pasted serials"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /devices/session [post]
func (h *Handler) CommitSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_JSON", "Request body is not valid JSON")
		return
	}

	rows := req.Rows
	if req.Paste != "" {
		t, _ := device.ParseType(req.Type)
		rows = append(rows, session.ParseSerials(req.Paste, t, time.Now())...)
	}

	valid := session.ValidRows(rows)
	if len(valid) == 0 {
		respond.WriteError(w, http.StatusBadRequest, "NO_VALID_ROWS", "All rows are empty or duplicates")
		return
	}

	inserted, err := h.devices.InsertBatch(r.Context(), session.Devices(valid))
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INSERT_FAILED", "Could not save devices")
		return
	}
	h.mutated()
	respond.WriteJSONObject(w, http.StatusCreated, map[string]interface{}{
		"rows":     len(rows),
		"valid":    len(valid),
		"inserted": inserted,
	})
}
