// Package export writes device lists as CSV, typically the filtered view
// of an audit report.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/devtrack/devicetracker/internal/device"
)

// dateLayout renders calendar dates the way spreadsheets expect.
const dateLayout = "2006-01-02"

// Header is the CSV column header row.
var Header = []string{"serial", "type", "lastMaintenance", "nextDue"}

// WriteCSV writes the device list to w with a header row. Dates render as
// yyyy-MM-dd in UTC; an absent next-due date is an empty cell.
func WriteCSV(w io.Writer, devices []device.Device) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, d := range devices {
		next := ""
		if d.NextDue != nil {
			next = d.NextDue.In(time.UTC).Format(dateLayout)
		}
		record := []string{
			d.Serial,
			string(d.Type),
			d.LastMaintenance.In(time.UTC).Format(dateLayout),
			next,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
