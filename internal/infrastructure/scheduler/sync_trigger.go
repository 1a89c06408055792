package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/opsdash/backend/internal/domain/order"
)

// SyncRunner executes one order sync run
type SyncRunner interface {
	Run(ctx context.Context) (*order.SyncResult, error)
}

// SyncTriggerConfig holds configuration for the periodic sync trigger
type SyncTriggerConfig struct {
	// Interval is how often to trigger a sync run
	Interval time.Duration
}

// DefaultSyncTriggerConfig returns default configuration
func DefaultSyncTriggerConfig() SyncTriggerConfig {
	return SyncTriggerConfig{
		Interval: 15 * time.Minute,
	}
}

// SyncTrigger runs the order sync pipeline on a fixed interval. A failing
// run is logged and never stops the loop.
type SyncTrigger struct {
	config SyncTriggerConfig
	runner SyncRunner
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewSyncTrigger creates a new periodic sync trigger
func NewSyncTrigger(config SyncTriggerConfig, runner SyncRunner, logger *zap.Logger) *SyncTrigger {
	if config.Interval <= 0 {
		config.Interval = DefaultSyncTriggerConfig().Interval
	}
	return &SyncTrigger{
		config: config,
		runner: runner,
		logger: logger,
	}
}

// Start starts the trigger loop. Calling Start on a running trigger is a no-op.
func (t *SyncTrigger) Start(ctx context.Context) {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Order sync trigger started",
		zap.Duration("interval", t.config.Interval),
	)
}

// Stop stops the trigger loop and waits for an in-flight run to finish
func (t *SyncTrigger) Stop() {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()

	t.logger.Info("Order sync trigger stopped")
}

func (t *SyncTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runOnce(ctx)
		}
	}
}

func (t *SyncTrigger) runOnce(ctx context.Context) {
	start := time.Now()
	result, err := t.runner.Run(ctx)
	if err != nil {
		t.logger.Error("Scheduled order sync failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}
	t.logger.Info("Scheduled order sync completed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("fetched", result.Fetched),
		zap.Int("upserted", result.Upserted),
	)
}
