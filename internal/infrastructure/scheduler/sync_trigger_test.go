package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/opsdash/backend/internal/domain/order"
)

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) Run(context.Context) (*order.SyncResult, error) {
	r.calls.Add(1)
	if r.err != nil {
		return nil, r.err
	}
	return &order.SyncResult{}, nil
}

func waitForCalls(t *testing.T, runner *countingRunner, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if runner.calls.Load() >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("runner reached %d calls, want at least %d", runner.calls.Load(), want)
}

func TestSyncTrigger(t *testing.T) {
	t.Run("runs on the configured interval", func(t *testing.T) {
		runner := &countingRunner{}
		trigger := NewSyncTrigger(SyncTriggerConfig{Interval: 20 * time.Millisecond}, runner, zap.NewNop())

		trigger.Start(context.Background())
		defer trigger.Stop()

		waitForCalls(t, runner, 2)
	})

	t.Run("failed runs never stop the loop", func(t *testing.T) {
		runner := &countingRunner{err: errors.New("upstream unreachable")}
		trigger := NewSyncTrigger(SyncTriggerConfig{Interval: 20 * time.Millisecond}, runner, zap.NewNop())

		trigger.Start(context.Background())
		defer trigger.Stop()

		waitForCalls(t, runner, 3)
	})

	t.Run("stop halts further runs", func(t *testing.T) {
		runner := &countingRunner{}
		trigger := NewSyncTrigger(SyncTriggerConfig{Interval: 20 * time.Millisecond}, runner, zap.NewNop())

		trigger.Start(context.Background())
		waitForCalls(t, runner, 1)
		trigger.Stop()

		after := runner.calls.Load()
		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, after, runner.calls.Load())
	})

	t.Run("double start and double stop are no-ops", func(t *testing.T) {
		runner := &countingRunner{}
		trigger := NewSyncTrigger(SyncTriggerConfig{Interval: time.Hour}, runner, zap.NewNop())

		trigger.Start(context.Background())
		trigger.Start(context.Background())
		trigger.Stop()
		trigger.Stop()
	})

	t.Run("non-positive interval falls back to default", func(t *testing.T) {
		trigger := NewSyncTrigger(SyncTriggerConfig{}, &countingRunner{}, zap.NewNop())
		assert.Equal(t, DefaultSyncTriggerConfig().Interval, trigger.config.Interval)
	})
}
