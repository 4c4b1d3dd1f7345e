package notify

import (
	"log/slog"
	"sync"
	"time"
)

// DailyRefresher fires a rebuild once per day at a fixed local wall-clock
// time. Each fire recomputes the next target from the calendar rather than
// adding a fixed interval to the previous fire, so clock changes, sleep,
// or a late fire never accumulate drift.
//
// One refresher is created at process start and held by main. Invalidate
// stops future fires without touching already-scheduled notifications.
type DailyRefresher struct {
	trigger func()
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger

	mu   sync.Mutex
	stop chan struct{}
}

// NewDailyRefresher creates an unarmed refresher. trigger is invoked once
// per fire, from the refresher's own goroutine.
func NewDailyRefresher(trigger func(), loc *time.Location, logger *slog.Logger) *DailyRefresher {
	if loc == nil {
		loc = time.Local
	}
	return &DailyRefresher{
		trigger: trigger,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

// Arm schedules the daily fire at hour:minute local time, replacing any
// previous schedule.
func (d *DailyRefresher) Arm(hour, minute int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stop != nil {
		close(d.stop)
	}
	stop := make(chan struct{})
	d.stop = stop

	d.logger.Info("Daily refresh armed",
		"at", time.Date(0, 1, 1, hour, minute, 0, 0, d.loc).Format("15:04"))

	go d.loop(stop, hour, minute)
}

// Invalidate stops future fires. Safe to call when unarmed.
func (d *DailyRefresher) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stop != nil {
		close(d.stop)
		d.stop = nil
		d.logger.Info("Daily refresh invalidated")
	}
}

func (d *DailyRefresher) loop(stop chan struct{}, hour, minute int) {
	for {
		now := d.now().In(d.loc)
		next := nextFire(now, hour, minute)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-timer.C:
			d.trigger()
		case <-stop:
			timer.Stop()
			return
		}
	}
}

// nextFire returns the next occurrence of hour:minute relative to now:
// today's occurrence if still in the future, otherwise tomorrow's.
func nextFire(now time.Time, hour, minute int) time.Time {
	y, m, d := now.Date()
	todayAt := time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	if todayAt.After(now) {
		return todayAt
	}
	return todayAt.AddDate(0, 0, 1)
}
