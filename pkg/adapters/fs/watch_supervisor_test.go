package fs

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/core"
)

func TestWatcherSupervisorRestarts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newTestStore(t)
	require.NoError(t, s.EnsureSlot(ctx, "active-notes"))

	events := make(chan core.Event)
	created := make(chan *watchWorker, 2)

	spec := s.watchSpec(events)
	spec.Factory = func() (worker.Worker, error) {
		w := newWatchWorker(s, events)
		created <- w
		return w, nil
	}
	spec.Backoff = supervisor.Backoff{
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
		Multiplier:      1,
		ResetDuration:   50 * time.Millisecond,
		MaxRestarts:     2,
		MaxDuration:     200 * time.Millisecond,
	}

	sup := supervisor.New("test-watcher", supervisor.StrategyOneForOne, spec)
	require.NoError(t, sup.Start(ctx))

	first := waitForWorker(t, created, "first")
	waitForWatcher(t, s, true)

	// Killing the fsnotify watcher makes the worker fail.
	_ = first.watcher.Close()

	second := waitForWorker(t, created, "second")
	require.NotSame(t, first, second, "expected supervisor to restart watcher with a new instance")
	waitForWatcher(t, s, true)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, sup.Stop(stopCtx))
}

func TestWatchWorkerState(t *testing.T) {
	s := newTestStore(t)
	w := newWatchWorker(s, make(chan core.Event))

	state := w.State()
	require.True(t, state.Status == worker.StatusCreated || state.Status == worker.StatusPending,
		"unexpected status %s", state.Status)
	require.Equal(t, s.Dir(), state.Metadata["dir"])
}

func waitForWorker(t *testing.T, ch <-chan *watchWorker, label string) *watchWorker {
	t.Helper()

	select {
	case w := <-ch:
		return w
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %s worker", label)
		return nil
	}
}

func waitForWatcher(t *testing.T, s *Store, expected bool) {
	t.Helper()

	require.Eventually(t, func() bool {
		state, ok := s.State().(StoreState)
		return ok && state.WatcherActive == expected
	}, 2*time.Second, 10*time.Millisecond, "watcher active never became %v", expected)
}
