// Package audit classifies devices by maintenance due date. All functions
// are pure over a device snapshot plus a single "today" reference computed
// once per pass, so a pass that straddles midnight stays self-consistent.
//
// Boundary semantics: overdue is strictly before today; the due-soon and
// due-this-month windows include both ends. A device due exactly today is
// due-soon, never overdue.
package audit

import (
	"strings"
	"time"

	"github.com/devtrack/devicetracker/internal/device"
)

// Scope selects a bucket of the inventory for the audit view.
type Scope string

const (
	ScopeOverdue Scope = "overdue"
	ScopeDueSoon Scope = "due_soon"
	ScopeAll     Scope = "all"
)

// ParseScope decodes a scope query value; anything unrecognized is ScopeAll.
func ParseScope(raw string) Scope {
	switch Scope(strings.ToLower(strings.TrimSpace(raw))) {
	case ScopeOverdue:
		return ScopeOverdue
	case ScopeDueSoon:
		return ScopeDueSoon
	default:
		return ScopeAll
	}
}

// Look-ahead window bounds for the due-soon bucket.
const (
	MinHorizonDays     = 1
	MaxHorizonDays     = 365
	DefaultHorizonDays = 14
)

// ClampHorizon bounds a look-ahead value to [1, 365] days.
func ClampHorizon(days int) int {
	if days < MinHorizonDays {
		return MinHorizonDays
	}
	if days > MaxHorizonDays {
		return MaxHorizonDays
	}
	return days
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last day of today's calendar month at midnight.
func EndOfMonth(today time.Time) time.Time {
	y, m, _ := today.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, today.Location())
	return first.AddDate(0, 1, -1)
}

// dueDay normalizes a stored due date to a calendar day in today's
// location. Stored dates may carry arbitrary time-of-day (DATE columns
// scan as UTC midnight); classification compares days, not instants, so
// the stored day's components are taken as-is. Converting the instant
// instead would shift the day back by one in any zone west of UTC.
func dueDay(nextDue time.Time, today time.Time) time.Time {
	y, m, d := nextDue.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, today.Location())
}

// Overdue reports whether d's due date is strictly before today.
// A device with no due date is never overdue.
func Overdue(d device.Device, today time.Time) bool {
	if d.NextDue == nil {
		return false
	}
	return dueDay(*d.NextDue, today).Before(today)
}

// DueSoon reports whether d is due within horizonDays of today, inclusive
// of both ends.
func DueSoon(d device.Device, today time.Time, horizonDays int) bool {
	if d.NextDue == nil {
		return false
	}
	nd := dueDay(*d.NextDue, today)
	horizon := today.AddDate(0, 0, ClampHorizon(horizonDays))
	return !nd.Before(today) && !nd.After(horizon)
}

// DueThisMonth reports whether d is due between today and the end of
// today's calendar month, inclusive. The window never reaches backwards:
// a device overdue before today is not due-this-month.
func DueThisMonth(d device.Device, today time.Time) bool {
	if d.NextDue == nil {
		return false
	}
	nd := dueDay(*d.NextDue, today)
	return !nd.Before(today) && !nd.After(EndOfMonth(today))
}

// Counts holds one classification pass over a snapshot.
type Counts struct {
	Overdue      int `json:"overdue"`
	DueSoon      int `json:"due_soon"`
	DueThisMonth int `json:"due_this_month"`
	Total        int `json:"total"`
}

// Count classifies a snapshot in a single pass. An empty snapshot yields
// all zeros.
func Count(devices []device.Device, today time.Time, horizonDays int) Counts {
	c := Counts{Total: len(devices)}
	for _, d := range devices {
		if Overdue(d, today) {
			c.Overdue++
		}
		if DueSoon(d, today, horizonDays) {
			c.DueSoon++
		}
		if DueThisMonth(d, today) {
			c.DueThisMonth++
		}
	}
	return c
}

// Filter returns the devices in the selected scope.
func Filter(devices []device.Device, scope Scope, today time.Time, horizonDays int) []device.Device {
	if scope == ScopeAll {
		return devices
	}
	out := make([]device.Device, 0, len(devices))
	for _, d := range devices {
		switch scope {
		case ScopeOverdue:
			if Overdue(d, today) {
				out = append(out, d)
			}
		case ScopeDueSoon:
			if DueSoon(d, today, horizonDays) {
				out = append(out, d)
			}
		}
	}
	return out
}

// Search narrows a device list by case-insensitive substring match on
// serial or type. An empty query returns the list unchanged, so Search
// composes with Filter: search narrows within the selected scope.
func Search(devices []device.Device, query string) []device.Device {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return devices
	}
	out := make([]device.Device, 0, len(devices))
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Serial), q) ||
			strings.Contains(strings.ToLower(string(d.Type)), q) {
			out = append(out, d)
		}
	}
	return out
}
