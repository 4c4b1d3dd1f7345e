package notify

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextFire(t *testing.T) {
	now := time.Date(2026, time.March, 10, 8, 30, 0, 0, time.UTC)

	assert.Equal(t,
		time.Date(2026, time.March, 10, 9, 5, 0, 0, time.UTC),
		nextFire(now, 9, 5), "target still ahead fires today")

	assert.Equal(t,
		time.Date(2026, time.March, 11, 8, 0, 0, 0, time.UTC),
		nextFire(now, 8, 0), "target already passed fires tomorrow")

	atTarget := time.Date(2026, time.March, 10, 9, 5, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2026, time.March, 11, 9, 5, 0, 0, time.UTC),
		nextFire(atTarget, 9, 5), "exactly at target rolls to tomorrow")
}

func TestNextFireRecomputesFromCalendar(t *testing.T) {
	// A late fire (woke at 09:07 for a 09:05 target) must aim at tomorrow
	// 09:05, not 09:05 plus a fixed interval.
	late := time.Date(2026, time.March, 10, 9, 7, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2026, time.March, 11, 9, 5, 0, 0, time.UTC),
		nextFire(late, 9, 5))
}

func TestDailyRefresherFires(t *testing.T) {
	var fired atomic.Int64
	d := NewDailyRefresher(func() { fired.Add(1) }, time.UTC, discard())

	// Point the refresher at a target a few ms ahead of its fake clock.
	base := time.Date(2026, time.March, 10, 9, 4, 59, int(999*time.Millisecond), time.UTC)
	d.now = func() time.Time { return base }
	d.Arm(9, 5)
	defer d.Invalidate()

	require.Eventually(t, func() bool { return fired.Load() >= 1 },
		time.Second, 5*time.Millisecond)
}

func TestDailyRefresherInvalidate(t *testing.T) {
	var fired atomic.Int64
	d := NewDailyRefresher(func() { fired.Add(1) }, time.UTC, discard())

	base := time.Date(2026, time.March, 10, 9, 4, 59, 0, time.UTC)
	d.now = func() time.Time { return base }
	d.Arm(9, 5)
	d.Invalidate()

	time.Sleep(20 * time.Millisecond)
	// Invalidate before the second elapses; nothing should have fired.
	assert.Equal(t, int64(0), fired.Load())

	d.Invalidate() // safe to call again when unarmed
}

func TestDailyRefresherRearmReplacesSchedule(t *testing.T) {
	var fired atomic.Int64
	d := NewDailyRefresher(func() { fired.Add(1) }, time.UTC, discard())

	base := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return base }
	d.Arm(9, 5)
	d.Arm(9, 5) // replaces the first schedule's goroutine
	d.Invalidate()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(0), fired.Load())
}
