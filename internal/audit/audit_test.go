package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrack/devicetracker/internal/device"
)

// today is a fixed mid-month reference so month boundaries are predictable.
var today = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

func dueOn(t time.Time) device.Device {
	return device.Device{Serial: "SER", Type: device.TypeMacBook, NextDue: &t}
}

func dueIn(days int) device.Device {
	return dueOn(today.AddDate(0, 0, days))
}

func TestOverdueIsStrictlyBeforeToday(t *testing.T) {
	assert.True(t, Overdue(dueIn(-1), today))
	assert.False(t, Overdue(dueIn(0), today), "due exactly today is not overdue")
	assert.False(t, Overdue(dueIn(1), today))
}

func TestOverdueNilDueDate(t *testing.T) {
	d := device.Device{Serial: "NODUE"}
	assert.False(t, Overdue(d, today))
	assert.False(t, DueSoon(d, today, DefaultHorizonDays))
	assert.False(t, DueThisMonth(d, today))
}

func TestDueSoonWindowInclusiveBothEnds(t *testing.T) {
	assert.False(t, DueSoon(dueIn(-1), today, 14), "yesterday is overdue, not due soon")
	assert.True(t, DueSoon(dueIn(0), today, 14), "today is inside the window")
	assert.True(t, DueSoon(dueIn(14), today, 14), "horizon day is inside the window")
	assert.False(t, DueSoon(dueIn(15), today, 14))
}

func TestDueSoonShrinksWithHorizon(t *testing.T) {
	d := dueIn(10)
	assert.True(t, DueSoon(d, today, 14))
	assert.False(t, DueSoon(d, today, 1), "narrower window excludes the same device")
	assert.True(t, DueSoon(dueIn(1), today, 1))
}

func TestClampHorizon(t *testing.T) {
	assert.Equal(t, MinHorizonDays, ClampHorizon(0))
	assert.Equal(t, MinHorizonDays, ClampHorizon(-10))
	assert.Equal(t, 30, ClampHorizon(30))
	assert.Equal(t, MaxHorizonDays, ClampHorizon(1000))
}

func TestDueThisMonthBoundaries(t *testing.T) {
	lastOfMonth := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	firstOfNext := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, DueThisMonth(dueOn(lastOfMonth), today))
	assert.False(t, DueThisMonth(dueOn(firstOfNext), today))
	assert.True(t, DueThisMonth(dueIn(0), today))
	assert.False(t, DueThisMonth(dueIn(-1), today), "window never reaches backwards")
}

func TestDueDayIgnoresStoredTimeOfDay(t *testing.T) {
	// DATE columns scan as UTC midnight; a due date carrying 23:59 is
	// still the same calendar day.
	lateToday := time.Date(2026, time.March, 10, 23, 59, 0, 0, time.UTC)
	assert.False(t, Overdue(dueOn(lateToday), today))
	assert.True(t, DueSoon(dueOn(lateToday), today, 14))
}

func TestClassificationWestOfUTC(t *testing.T) {
	// Stored dates scan as UTC midnight while "today" lives in the local
	// zone. In a zone behind UTC the stored instant falls on yesterday's
	// local clock, but the calendar day must not shift.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	todayNY := time.Date(2026, time.March, 10, 0, 0, 0, 0, ny)

	dueToday := dueOn(time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC))
	assert.False(t, Overdue(dueToday, todayNY), "due exactly today is never overdue")
	assert.True(t, DueSoon(dueToday, todayNY, 14))
	assert.True(t, DueThisMonth(dueToday, todayNY))

	firstOfNext := dueOn(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	assert.False(t, DueThisMonth(firstOfNext, todayNY), "first of next month stays outside the month window")

	dueYesterday := dueOn(time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC))
	assert.True(t, Overdue(dueYesterday, todayNY))
}

func TestEndOfMonth(t *testing.T) {
	assert.Equal(t, 31, EndOfMonth(today).Day())

	feb := time.Date(2026, time.February, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 28, EndOfMonth(feb).Day())

	leapFeb := time.Date(2028, time.February, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 29, EndOfMonth(leapFeb).Day())
}

func TestCountSinglePass(t *testing.T) {
	devices := []device.Device{
		dueIn(-1),                      // overdue
		{Serial: "NODUE"},              // unscheduled
		dueIn(40),                      // beyond horizon and month
		dueIn(5),                       // due soon and this month
		dueOn(today.AddDate(0, 0, 21)), // this month only (March 31)
	}

	c := Count(devices, today, DefaultHorizonDays)
	assert.Equal(t, 1, c.Overdue)
	assert.Equal(t, 1, c.DueSoon)
	assert.Equal(t, 2, c.DueThisMonth)
	assert.Equal(t, 5, c.Total)
}

func TestCountEmptySnapshot(t *testing.T) {
	assert.Equal(t, Counts{}, Count(nil, today, DefaultHorizonDays))
}

func TestParseScope(t *testing.T) {
	assert.Equal(t, ScopeOverdue, ParseScope("overdue"))
	assert.Equal(t, ScopeDueSoon, ParseScope(" DUE_SOON "))
	assert.Equal(t, ScopeAll, ParseScope("all"))
	assert.Equal(t, ScopeAll, ParseScope("bogus"))
	assert.Equal(t, ScopeAll, ParseScope(""))
}

func TestFilterByScope(t *testing.T) {
	devices := []device.Device{dueIn(-2), dueIn(3), dueIn(100)}

	require.Len(t, Filter(devices, ScopeAll, today, 14), 3)

	overdue := Filter(devices, ScopeOverdue, today, 14)
	require.Len(t, overdue, 1)
	assert.True(t, Overdue(overdue[0], today))

	soon := Filter(devices, ScopeDueSoon, today, 14)
	require.Len(t, soon, 1)
	assert.True(t, DueSoon(soon[0], today, 14))
}

func TestSearchMatchesSerialAndType(t *testing.T) {
	devices := []device.Device{
		{Serial: "C02ABC123", Type: device.TypeMacBook},
		{Serial: "DMPXY9", Type: device.TypeIPad},
	}

	assert.Len(t, Search(devices, "c02"), 1)
	assert.Len(t, Search(devices, "ipad"), 1)
	assert.Len(t, Search(devices, "zzz"), 0)
	assert.Len(t, Search(devices, ""), 2, "empty query passes through")
	assert.Len(t, Search(devices, "  "), 2)
}

func TestSearchComposesWithFilter(t *testing.T) {
	a := dueIn(-1)
	a.Serial = "OLD-1"
	b := dueIn(-1)
	b.Serial = "NEW-2"
	c := dueIn(5)
	c.Serial = "OLD-3"

	got := Search(Filter([]device.Device{a, b, c}, ScopeOverdue, today, 14), "old")
	require.Len(t, got, 1)
	assert.Equal(t, "OLD-1", got[0].Serial)
}
