package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrack/devicetracker/internal/device"
)

func TestWriteCSV(t *testing.T) {
	due := time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)
	devices := []device.Device{
		{
			Serial:          "C02ABC",
			Type:            device.TypeMacBook,
			LastMaintenance: time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
			NextDue:         &due,
		},
		{
			Serial:          "DMPXY9",
			Type:            device.TypeIPad,
			LastMaintenance: time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, devices))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, []string{"C02ABC", "MACBOOK", "2026-03-15", "2026-06-15"}, records[1])
	assert.Equal(t, []string{"DMPXY9", "IPAD", "2026-01-02", ""}, records[2], "missing due date is an empty cell")
}

func TestWriteCSVDatesRenderInUTC(t *testing.T) {
	// 23:00 UTC-5 on March 15 is March 16 in UTC; the export uses UTC days.
	est := time.FixedZone("UTC-5", -5*60*60)
	due := time.Date(2026, time.March, 15, 23, 0, 0, 0, est)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []device.Device{{
		Serial:          "S1",
		Type:            device.TypeDesktop,
		LastMaintenance: due,
		NextDue:         &due,
	}}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-16", records[1][3])
}

func TestWriteCSVEmptyList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
	assert.Equal(t, Header, records[0])
}
