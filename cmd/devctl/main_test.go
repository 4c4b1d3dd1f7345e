package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrack/devicetracker/internal/config"
	"github.com/devtrack/devicetracker/internal/db"
	"github.com/devtrack/devicetracker/internal/notify"
)

func stubRebuild(t *testing.T) *int {
	t.Helper()
	orig := rebuildOnce
	t.Cleanup(func() { rebuildOnce = orig })

	calls := 0
	rebuildOnce = func(context.Context, *config.Config, *db.Pool, notify.Mode) error {
		calls++
		return nil
	}
	return &calls
}

func TestAndRebuildFollowsSuccessfulMutation(t *testing.T) {
	rebuilds := stubRebuild(t)

	mutated := false
	fn := andRebuild(func(context.Context, *config.Config, *db.Pool) error {
		mutated = true
		return nil
	})

	require.NoError(t, fn(context.Background(), &config.Config{}, nil))
	assert.True(t, mutated)
	assert.Equal(t, 1, *rebuilds, "every successful mutation requests a rebuild")
}

func TestAndRebuildSkipsRebuildOnFailure(t *testing.T) {
	rebuilds := stubRebuild(t)

	fn := andRebuild(func(context.Context, *config.Config, *db.Pool) error {
		return errors.New("insert failed")
	})

	require.Error(t, fn(context.Background(), &config.Config{}, nil))
	assert.Equal(t, 0, *rebuilds, "a failed mutation leaves the summaries untouched")
}

func TestMutatingCommandsExist(t *testing.T) {
	// The add, maintain, delete, and import commands all route through
	// mutateAndRebuild; this pins the command tree shape.
	devices := devicesCmd()
	names := map[string]bool{}
	for _, c := range devices.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"list", "add", "maintain", "delete"} {
		assert.True(t, names[want], "devices %s", want)
	}

	sess := sessionCmd()
	require.Len(t, sess.Commands(), 1)
	assert.Equal(t, "import", sess.Commands()[0].Name())
}
