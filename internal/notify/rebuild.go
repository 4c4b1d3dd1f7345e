package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devtrack/devicetracker/internal/audit"
	"github.com/devtrack/devicetracker/internal/device"
)

// DeviceSource provides the read-only device snapshot.
type DeviceSource interface {
	List(ctx context.Context) ([]device.Device, error)
}

// Rebuilder runs the cancel → classify → schedule cycle. It never returns
// an error: the notification layer is a convenience, so every failure
// degrades to "nothing to report this cycle" and the triggering action
// (save, delete, timer fire) is unaffected.
//
// Rebuild is not safe for concurrent use; serialize calls through a
// Scheduler or a single owning goroutine.
type Rebuilder struct {
	devices DeviceSource
	center  Center
	badge   Badge
	mode    Mode
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger
}

// NewRebuilder creates a rebuilder. loc picks the calendar for "today" and
// morning fire times; nil means the process-local zone.
func NewRebuilder(devices DeviceSource, center Center, badge Badge, mode Mode, loc *time.Location, logger *slog.Logger) *Rebuilder {
	if loc == nil {
		loc = time.Local
	}
	return &Rebuilder{
		devices: devices,
		center:  center,
		badge:   badge,
		mode:    mode,
		loc:     loc,
		now:     time.Now,
		logger:  logger,
	}
}

// Rebuild replaces both summary notifications from the current snapshot
// using the configured mode. Call at launch, after any device mutation,
// and from the daily timer.
func (r *Rebuilder) Rebuild(ctx context.Context) {
	r.RebuildMode(ctx, r.mode)
}

// RebuildMode runs one cycle with an explicit due-this-month mode.
func (r *Rebuilder) RebuildMode(ctx context.Context, mode Mode) {
	now := r.now().In(r.loc)
	today := audit.StartOfDay(now)

	// Unconditional cancel before any scheduling. This is what makes the
	// cycle idempotent: N rebuilds with unchanged data leave exactly one
	// live notification per non-zero bucket.
	if err := r.center.CancelAll(ctx, SummaryIdentifiers); err != nil {
		r.logger.Warn("cancel summary notifications failed", "error", err)
	}

	devices, err := r.devices.List(ctx)
	if err != nil {
		// Unreadable store degrades to an empty snapshot: zero counts,
		// badge cleared, nothing scheduled.
		r.logger.Warn("device snapshot unavailable, treating as empty", "error", err)
		devices = nil
	}

	counts := audit.Count(devices, today, audit.DefaultHorizonDays)

	r.badge.Set(counts.Overdue)

	if counts.Overdue > 0 {
		r.schedule(ctx, Notification{
			Identifier: IDOverdue,
			Title:      "Overdue devices",
			Body:       fmt.Sprintf("You have %s overdue.", deviceCount(counts.Overdue)),
			FireAt:     now.Add(scheduleDelay),
		})
	}

	if counts.DueThisMonth > 0 {
		r.schedule(ctx, Notification{
			Identifier: IDDueThisMonth,
			Title:      "Maintenance due this month",
			Body:       fmt.Sprintf("You have %s due this month.", deviceCount(counts.DueThisMonth)),
			FireAt:     r.monthFireTime(now, mode),
		})
	}

	r.logger.Info("notification summaries rebuilt",
		"overdue", counts.Overdue,
		"due_this_month", counts.DueThisMonth,
		"total", counts.Total)
}

// schedule issues one notification. Failures are logged and swallowed so
// one identifier never blocks its sibling.
func (r *Rebuilder) schedule(ctx context.Context, n Notification) {
	err := r.center.Schedule(ctx, n)
	switch {
	case err == nil:
	case errors.Is(err, ErrAuthorizationDenied):
		r.logger.Debug("notification authorization denied, skipping", "identifier", n.Identifier)
	default:
		r.logger.Warn("schedule notification failed", "identifier", n.Identifier, "error", err)
	}
}

// monthFireTime resolves the due-this-month fire time for a mode:
// immediate, or the next occurrence of the morning hour (today's if still
// in the future, otherwise tomorrow's).
func (r *Rebuilder) monthFireTime(now time.Time, mode Mode) time.Time {
	if mode.Immediate {
		return now.Add(scheduleDelay)
	}
	y, m, d := now.Date()
	todayAt := time.Date(y, m, d, mode.Hour, 0, 0, 0, r.loc)
	if todayAt.After(now) {
		return todayAt
	}
	return todayAt.AddDate(0, 0, 1)
}

// deviceCount renders a count with the correct singular/plural noun.
func deviceCount(n int) string {
	if n == 1 {
		return "1 device"
	}
	return fmt.Sprintf("%d devices", n)
}
