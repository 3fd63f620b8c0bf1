package workers

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

type countingWorker struct {
	runs    *atomic.Int32
	outcome func(run int32) error
}

func (w *countingWorker) Run(ctx context.Context) error {
	run := w.runs.Add(1)
	return w.outcome(run)
}

func TestSupervisor_RestartsCrashedWorker(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	sup := NewSupervisor(log, 10*time.Millisecond)

	runs := &atomic.Int32{}
	// Given a worker crashing twice before terminating properly
	worker := &countingWorker{runs: runs, outcome: func(run int32) error {
		if run < 3 {
			return fmt.Errorf("crash %d", run)
		}
		return nil
	}}
	sup.Add(worker)

	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		req.Fail("Supervisor did not finish in time")
	}
	req.Equal(int32(3), runs.Load())
}

func TestSupervisor_RecoversPanics(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	sup := NewSupervisor(log, 10*time.Millisecond)

	runs := &atomic.Int32{}
	worker := &countingWorker{runs: runs, outcome: func(run int32) error {
		if run == 1 {
			panic("boom")
		}
		return nil
	}}
	sup.Add(worker)

	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		req.Fail("Supervisor did not finish in time")
	}
	// The panic was recovered and the worker restarted once.
	req.Equal(int32(2), runs.Load())
}

func TestSupervisor_StopCancelsWorkers(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	sup := NewSupervisor(log, 10*time.Millisecond)

	started := make(chan struct{})
	sup.Add(workerFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))

	done := make(chan struct{})
	go func() {
		sup.Run(context.Background())
		close(done)
	}()

	<-started
	sup.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		req.Fail("Supervisor did not stop in time")
	}
}

type workerFunc func(ctx context.Context) error

func (f workerFunc) Run(ctx context.Context) error { return f(ctx) }
