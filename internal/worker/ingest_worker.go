package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/may-baker/helpdesk-service/internal/observability"
)

// CycleRunner runs one ingestion cycle.
type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// IngestWorker wakes the ingestion service on a fixed interval. Cycles are
// serialized: a tick that fires while a cycle is still running is skipped
// rather than overlapping it.
type IngestWorker struct {
	runner       CycleRunner
	interval     time.Duration
	cycleTimeout time.Duration
	logger       *zap.Logger
	metrics      *observability.Metrics

	cycleMu sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewIngestWorker constructs the worker.
func NewIngestWorker(runner CycleRunner, interval, cycleTimeout time.Duration, logger *zap.Logger, metrics *observability.Metrics) *IngestWorker {
	return &IngestWorker{
		runner:       runner,
		interval:     interval,
		cycleTimeout: cycleTimeout,
		logger:       logger,
		metrics:      metrics,
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start launches the polling loop. The first cycle runs immediately.
func (w *IngestWorker) Start(ctx context.Context) {
	go func() {
		defer close(w.done)

		w.RunOnce(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.RunOnce(ctx)
			case <-w.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight cycle to finish.
func (w *IngestWorker) Stop() {
	w.once.Do(func() {
		close(w.stop)
	})
	<-w.done
}

// RunOnce runs a single guarded cycle. When another cycle is still in flight
// (a slow mailbox exceeding the poll interval, or a manual trigger racing the
// timer) the call is skipped instead of double-processing the unread set.
func (w *IngestWorker) RunOnce(ctx context.Context) {
	if !w.cycleMu.TryLock() {
		w.metrics.RecordIngest(observability.IngestCyclesSkipped)
		w.logger.Warn("previous ingestion cycle still running; skipping tick")
		return
	}
	defer w.cycleMu.Unlock()

	w.metrics.RecordIngest(observability.IngestCycles)

	cycleCtx, cancel := context.WithTimeout(ctx, w.cycleTimeout)
	defer cancel()

	start := time.Now()
	if err := w.runner.RunCycle(cycleCtx); err != nil {
		w.logger.Error("ingestion cycle failed", zap.Error(err))
		return
	}
	w.logger.Debug("ingestion cycle complete", zap.Duration("elapsed", time.Since(start)))
}
