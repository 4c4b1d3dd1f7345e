package notify

import (
	"context"
	"log/slog"
)

// Scheduler serializes rebuild cycles through a single owning goroutine.
// The snapshot read and both summary identifiers are replaced wholesale
// per cycle, so every trigger (HTTP mutation, daily timer, manual request)
// posts a request here instead of calling Rebuild from its own goroutine.
//
// Requests coalesce: posting while one is already queued is a no-op, which
// keeps a burst of mutations from piling up redundant cycles.
type Scheduler struct {
	rebuilder *Rebuilder
	requests  chan Mode
	logger    *slog.Logger
}

// NewScheduler creates a scheduler for the given rebuilder.
func NewScheduler(r *Rebuilder, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		rebuilder: r,
		requests:  make(chan Mode, 1),
		logger:    logger,
	}
}

// Request posts a rebuild with the rebuilder's configured mode. Never
// blocks; safe from any goroutine.
func (s *Scheduler) Request() {
	s.RequestMode(s.rebuilder.mode)
}

// RequestMode posts a rebuild with an explicit due-this-month mode.
func (s *Scheduler) RequestMode(mode Mode) {
	select {
	case s.requests <- mode:
	default: // a rebuild is already queued
	}
}

// Run owns the rebuild loop. Blocks until ctx is cancelled. Intended to be
// called with `go`.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Notification rebuild loop started")
	for {
		select {
		case mode := <-s.requests:
			s.rebuilder.RebuildMode(ctx, mode)
		case <-ctx.Done():
			s.logger.Info("Notification rebuild loop stopped")
			return
		}
	}
}
