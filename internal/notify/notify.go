// Package notify builds the two maintenance summary notifications from the
// current device snapshot and keeps them fresh.
//
// Pipeline per rebuild: cancel both reserved identifiers → classify the
// snapshot → schedule overdue / due-this-month summaries → mirror the
// overdue count on the badge. Rebuilds are cheap, idempotent, and safe to
// request on every mutation; a background dispatch worker delivers due
// notifications.
package notify

import (
	"context"
	"errors"
	"time"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// Reserved summary identifiers. Exclusively owned by this package: every
// rebuild replaces their notification state wholesale, and no other
// component may schedule under them.
const (
	IDOverdue      = "summary.overdue"
	IDDueThisMonth = "summary.dueThisMonth"
)

// SummaryIdentifiers lists both reserved identifiers in cancel order.
var SummaryIdentifiers = []string{IDOverdue, IDDueThisMonth}

const (
	// scheduleDelay pushes "immediate" fires a few seconds out so the
	// triggering mutation settles first.
	scheduleDelay = 3 * time.Second

	// DefaultMorningHour is when the due-this-month summary fires in
	// morning mode.
	DefaultMorningHour = 9
)

// ErrAuthorizationDenied is returned by Center or Sender implementations
// that lack permission to post notifications. Rebuild and dispatch treat
// it as "nothing to report", never as a failure of the triggering action.
var ErrAuthorizationDenied = errors.New("notification authorization denied")

// --------------------------------------------------------------------------
// Types
// --------------------------------------------------------------------------

// Mode controls when the due-this-month summary fires.
type Mode struct {
	Immediate bool
	Hour      int // local morning hour; used when Immediate is false
}

// Immediate fires the due-this-month summary right away.
func Immediate() Mode { return Mode{Immediate: true} }

// MorningAt fires the due-this-month summary at the next occurrence of the
// given local hour: today's if still ahead, otherwise tomorrow's.
func MorningAt(hour int) Mode { return Mode{Hour: hour} }

// DefaultMode is what the application uses: morning at 09:00.
func DefaultMode() Mode { return MorningAt(DefaultMorningHour) }

// Notification is one scheduled summary.
type Notification struct {
	Identifier string    `json:"identifier"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Status     string    `json:"status,omitempty"`
	FireAt     time.Time `json:"fire_at"`
}

// Center is the notification-delivery collaborator. Calls are one-way:
// the rebuild cycle issues them in program order (cancel before schedule)
// and does not wait for delivery.
type Center interface {
	// CancelAll removes all pending and delivered notifications carrying
	// the given identifiers.
	CancelAll(ctx context.Context, identifiers []string) error
	// Schedule adds one notification under its identifier.
	Schedule(ctx context.Context, n Notification) error
}

// Badge mirrors the overdue count process-wide. Set(0) clears it.
type Badge interface {
	Set(count int)
}
