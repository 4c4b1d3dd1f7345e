package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrack/devicetracker/internal/device"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestNewRowDefaults(t *testing.T) {
	r := NewRow("C02ABC", device.TypeIPad, now)
	assert.Equal(t, now, r.LastMaintenance)
	assert.True(t, r.SetNextDue)
	assert.Equal(t, now.AddDate(0, 3, 0), r.NextDue)
}

func TestValidRowsNormalizesAndDedupes(t *testing.T) {
	rows := []Row{
		NewRow("  abc1 ", device.TypeMacBook, now),
		NewRow("", device.TypeMacBook, now),
		NewRow("ABC1", device.TypeDesktop, now), // duplicate of the first after normalization
		NewRow("xyz2", device.TypeIPad, now),
		NewRow("   ", device.TypeMacBook, now),
	}

	valid := ValidRows(rows)
	require.Len(t, valid, 2)
	assert.Equal(t, "ABC1", valid[0].Serial)
	assert.Equal(t, device.TypeMacBook, valid[0].Type, "first occurrence wins")
	assert.Equal(t, "XYZ2", valid[1].Serial)
}

func TestValidRowsFixesInvalidType(t *testing.T) {
	valid := ValidRows([]Row{{Serial: "ser1", Type: device.Type("WATCH"), LastMaintenance: now}})
	require.Len(t, valid, 1)
	assert.Equal(t, device.TypeMacBook, valid[0].Type)
}

func TestDevicesRespectsSetNextDue(t *testing.T) {
	with := NewRow("A1", device.TypeMacBook, now)
	without := NewRow("B2", device.TypeMacBook, now)
	without.SetNextDue = false

	devices := Devices([]Row{with, without})
	require.Len(t, devices, 2)
	require.NotNil(t, devices[0].NextDue)
	assert.Equal(t, now.AddDate(0, 3, 0), *devices[0].NextDue)
	assert.Nil(t, devices[1].NextDue)
}

func TestParseSerialsSeparators(t *testing.T) {
	text := "abc1\r\ndef2, ghi3\tjkl4;mno5  pqr6"
	rows := ParseSerials(text, device.TypeIPad, now)
	require.Len(t, rows, 6)
	assert.Equal(t, "ABC1", rows[0].Serial)
	assert.Equal(t, "PQR6", rows[5].Serial)
	for _, r := range rows {
		assert.Equal(t, device.TypeIPad, r.Type)
	}
}

func TestParseSerialsEmptyInput(t *testing.T) {
	assert.Empty(t, ParseSerials("", device.TypeMacBook, now))
	assert.Empty(t, ParseSerials(" \n\t ; ,", device.TypeMacBook, now))
}
