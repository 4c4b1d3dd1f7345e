// Package session prepares batches of devices recorded during a
// maintenance session: rows are normalized, deduplicated, and turned into
// inventory devices in one commit.
package session

import (
	"strings"
	"time"

	"github.com/devtrack/devicetracker/internal/device"
)

// Row is one device entry being edited during a session.
type Row struct {
	Serial          string      `json:"serial"`
	Type            device.Type `json:"type"`
	LastMaintenance time.Time   `json:"last_maintenance"`
	SetNextDue      bool        `json:"set_next_due"`
	NextDue         time.Time   `json:"next_due"`
}

// NewRow creates a session row with the defaults a session applies:
// maintained now, next due three months out.
func NewRow(serial string, t device.Type, now time.Time) Row {
	return Row{
		Serial:          serial,
		Type:            t,
		LastMaintenance: now,
		SetNextDue:      true,
		NextDue:         device.NextDueAfter(now),
	}
}

// ValidRows normalizes a batch: serials are trimmed and uppercased, empty
// rows are dropped, and duplicate serials keep the first occurrence.
func ValidRows(rows []Row) []Row {
	seen := make(map[string]struct{}, len(rows))
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		s := device.NormalizeSerial(r.Serial)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		r.Serial = s
		if !r.Type.Valid() {
			r.Type, _ = device.ParseType(string(r.Type))
		}
		out = append(out, r)
	}
	return out
}

// Devices converts validated rows into inventory devices. Rows without
// SetNextDue produce devices with no due date.
func Devices(rows []Row) []device.Device {
	devices := make([]device.Device, 0, len(rows))
	for _, r := range rows {
		d := device.Device{
			Serial:          r.Serial,
			Type:            r.Type,
			LastMaintenance: r.LastMaintenance,
		}
		if r.SetNextDue {
			nd := r.NextDue
			d.NextDue = &nd
		}
		devices = append(devices, d)
	}
	return devices
}

// ParseSerials splits pasted text into one session row per serial.
// Serials may be separated by newlines, commas, or whitespace, which
// covers a pasted spreadsheet column or a scanner dump.
func ParseSerials(text string, t device.Type, now time.Time) []Row {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ',' || r == '\t' || r == ' ' || r == ';'
	})
	rows := make([]Row, 0, len(fields))
	for _, f := range fields {
		if s := device.NormalizeSerial(f); s != "" {
			rows = append(rows, NewRow(s, t, now))
		}
	}
	return rows
}
