// Package device defines the inventory data model and its Postgres store.
package device

import (
	"strings"
	"time"
)

// Type is the closed device-class enumeration. Stored as its raw string in
// Postgres; decode goes through ParseType so unknown raw values degrade to
// a known class instead of leaking through the API.
type Type string

const (
	TypeMacBook Type = "MACBOOK"
	TypeIPad    Type = "IPAD"
	TypeDesktop Type = "DESKTOP"
)

// Types lists all valid device types in display order.
var Types = []Type{TypeMacBook, TypeIPad, TypeDesktop}

// Valid reports whether t is a member of the closed enumeration.
func (t Type) Valid() bool {
	switch t {
	case TypeMacBook, TypeIPad, TypeDesktop:
		return true
	}
	return false
}

// ParseType decodes a raw type string. Unrecognized values fall back to
// MACBOOK; ok is false so callers can log the mismatch.
func ParseType(raw string) (t Type, ok bool) {
	t = Type(strings.ToUpper(strings.TrimSpace(raw)))
	if t.Valid() {
		return t, true
	}
	return TypeMacBook, false
}

// NextDueAfter returns the due date implied by a maintenance: three
// calendar months later.
func NextDueAfter(maintained time.Time) time.Time {
	return maintained.AddDate(0, 3, 0)
}

// Device is a tracked physical device.
//
// LastMaintenance and NextDue are calendar dates; time-of-day carries no
// meaning. NextDue == nil means no due date is scheduled.
type Device struct {
	ID              string     `json:"id"`
	Serial          string     `json:"serial"`
	Type            Type       `json:"type"`
	LastMaintenance time.Time  `json:"last_maintenance"`
	NextDue         *time.Time `json:"next_due,omitempty"`
}

// NormalizeSerial trims and uppercases a serial for storage and matching.
func NormalizeSerial(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Counts aggregates inventory totals by device type.
type Counts struct {
	ByType map[Type]int `json:"by_type"`
}

// NewCounts tallies a device snapshot, including zero entries for types
// with no devices.
func NewCounts(devices []Device) Counts {
	c := Counts{ByType: make(map[Type]int, len(Types))}
	for _, t := range Types {
		c.ByType[t] = 0
	}
	for _, d := range devices {
		c.ByType[d.Type]++
	}
	return c
}

// Total returns the total device count.
func (c Counts) Total() int {
	n := 0
	for _, v := range c.ByType {
		n += v
	}
	return n
}
