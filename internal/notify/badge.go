package notify

import "sync/atomic"

// CountBadge is the process-wide overdue indicator, the server-side
// analogue of a dock badge. Zero means cleared.
type CountBadge struct {
	n atomic.Int64
}

// NewCountBadge creates a cleared badge.
func NewCountBadge() *CountBadge {
	return &CountBadge{}
}

// Set replaces the badge count. Set(0) clears it.
func (b *CountBadge) Set(count int) {
	b.n.Store(int64(count))
}

// Value returns the current badge count.
func (b *CountBadge) Value() int {
	return int(b.n.Load())
}
