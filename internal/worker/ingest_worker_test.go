package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/may-baker/helpdesk-service/internal/observability"
)

type blockingRunner struct {
	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (r *blockingRunner) RunCycle(ctx context.Context) error {
	r.mu.Lock()
	r.calls++
	first := r.calls == 1
	r.mu.Unlock()

	if first {
		close(r.started)
		<-r.release
	}
	return nil
}

func (r *blockingRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestRunOnceSkipsWhileCycleInFlight(t *testing.T) {
	runner := newBlockingRunner()
	metrics := observability.NewMetrics()
	w := NewIngestWorker(runner, time.Hour, time.Minute, zap.NewNop(), metrics)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.RunOnce(context.Background())
	}()
	<-runner.started

	// The first cycle is still blocked; this tick must be dropped, not queued.
	w.RunOnce(context.Background())
	require.Equal(t, 1, runner.callCount())
	require.Equal(t, int64(1), metrics.IngestSnapshot()[observability.IngestCyclesSkipped])

	close(runner.release)
	wg.Wait()

	w.RunOnce(context.Background())
	require.Equal(t, 2, runner.callCount())
	require.Equal(t, int64(2), metrics.IngestSnapshot()[observability.IngestCycles])
}

type countingRunner struct {
	mu    sync.Mutex
	calls int
}

func (r *countingRunner) RunCycle(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return nil
}

func (r *countingRunner) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestStartRunsImmediatelyAndStops(t *testing.T) {
	runner := &countingRunner{}
	w := NewIngestWorker(runner, 10*time.Millisecond, time.Minute, zap.NewNop(), observability.NewMetrics())

	w.Start(context.Background())

	require.Eventually(t, func() bool {
		return runner.callCount() >= 2
	}, time.Second, 5*time.Millisecond, "expected the immediate cycle plus at least one tick")

	w.Stop()
	settled := runner.callCount()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, settled, runner.callCount(), "no cycles may run after Stop returns")
}

func TestRunOnceAppliesCycleTimeout(t *testing.T) {
	deadlineSeen := make(chan bool, 1)
	runner := runnerFunc(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		deadlineSeen <- ok
		return nil
	})
	w := NewIngestWorker(runner, time.Hour, time.Minute, zap.NewNop(), observability.NewMetrics())

	w.RunOnce(context.Background())
	require.True(t, <-deadlineSeen, "cycle context must carry the configured timeout")
}

type runnerFunc func(ctx context.Context) error

func (f runnerFunc) RunCycle(ctx context.Context) error { return f(ctx) }
