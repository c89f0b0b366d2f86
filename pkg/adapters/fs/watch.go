package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/jot/pkg/core"
)

// watchStopTimeout bounds how long Watch waits for the watcher to shut down.
const watchStopTimeout = 5 * time.Second

// defaultWatchBackoff restarts a failed watcher a few times before giving up.
var defaultWatchBackoff = supervisor.Backoff{
	InitialInterval: 100 * time.Millisecond,
	MaxInterval:     5 * time.Second,
	Multiplier:      2,
	ResetDuration:   30 * time.Second,
	MaxRestarts:     5,
	MaxDuration:     time.Minute,
}

// Watch reports changes to slot files made by other processes or editors.
// Only files matching Config.WatchPattern are reported; temp files from
// atomic writes are ignored and bursts on one slot are coalesced.
// The watcher runs under a supervisor that restarts it on failure.
// The channel closes when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan core.Event, error) {
	if _, err := doublestar.Match(s.config.WatchPattern, ""); err != nil {
		return nil, fmt.Errorf("invalid watch pattern %q: %w", s.config.WatchPattern, err)
	}
	if info, err := os.Stat(s.config.Dir); err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", s.config.Dir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("failed to watch %s: not a directory", s.config.Dir)
	}

	events := make(chan core.Event)
	sup := supervisor.New("fs-watch", supervisor.StrategyOneForOne, s.watchSpec(events))
	if err := sup.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), watchStopTimeout)
		defer cancel()
		err := sup.Stop(stopCtx)
		close(events)
		return err
	}, lifecycle.WithErrorHandler(func(err error) {
		s.handleWatchError(fmt.Errorf("watcher stopped: %w", err))
	}))

	return events, nil
}

func (s *Store) watchSpec(events chan<- core.Event) supervisor.Spec {
	return supervisor.Spec{
		Name: "fs-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return newWatchWorker(s, events), nil
		},
		Backoff:       defaultWatchBackoff,
		RestartPolicy: supervisor.RestartOnFailure,
	}
}

// mapEvent translates a raw fsnotify event into a slot event.
func (s *Store) mapEvent(event fsnotify.Event) (core.Event, bool) {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return core.Event{}, false
	}
	if ok, _ := doublestar.Match(s.config.WatchPattern, base); !ok {
		return core.Event{}, false
	}

	var eType core.EventType
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		eType = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		eType = core.EventDelete
	default:
		return core.Event{}, false
	}

	return core.Event{
		Type:       eType,
		Collection: core.Collection(strings.TrimSuffix(base, s.config.Extension)),
		Timestamp:  time.Now().Unix(),
	}, true
}

func (s *Store) handleWatchError(err error) {
	s.config.Logger.Error("fsnotify error", "error", err)
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}
