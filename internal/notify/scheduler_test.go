package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrack/devicetracker/internal/device"
)

func TestSchedulerProcessesRequest(t *testing.T) {
	center := newFakeCenter()
	src := &fakeSource{devices: []device.Device{dueIn(-1)}}
	s := NewScheduler(newTestRebuilder(src, center, NewCountBadge(), Immediate()), discard())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	s.Request()

	require.Eventually(t, func() bool { return center.cancels >= 1 },
		time.Second, 5*time.Millisecond)
}

func TestSchedulerRequestNeverBlocks(t *testing.T) {
	center := newFakeCenter()
	src := &fakeSource{devices: nil}
	s := NewScheduler(newTestRebuilder(src, center, NewCountBadge(), Immediate()), discard())

	// No Run loop draining; a burst of requests coalesces into the single
	// buffered slot instead of blocking the callers.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Request()
			s.RequestMode(MorningAt(7))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Request blocked without a running loop")
	}
	assert.Len(t, s.requests, 1)
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	center := newFakeCenter()
	s := NewScheduler(newTestRebuilder(&fakeSource{}, center, NewCountBadge(), Immediate()), discard())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
