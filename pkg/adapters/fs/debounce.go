package fs

import (
	"sync"
	"time"

	"github.com/aretw0/jot/pkg/core"
)

// debouncer coalesces bursts of events on the same slot. The first event
// for a slot arms a timer; later events before it fires replace the pending
// one, and only the latest is delivered.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[core.Collection]*time.Timer
	pending map[core.Collection]core.Event
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		timers:  make(map[core.Collection]*time.Timer),
		pending: make(map[core.Collection]core.Event),
	}
}

func (d *debouncer) add(e core.Event, deliver func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	key := e.Collection
	d.pending[key] = e
	if _, armed := d.timers[key]; armed {
		return
	}

	d.wg.Add(1)
	d.timers[key] = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.stopped {
			d.mu.Unlock()
			return
		}
		latest := d.pending[key]
		delete(d.pending, key)
		delete(d.timers, key)
		d.mu.Unlock()

		deliver(latest)
	})
}

// stopAndWait drops pending events and waits up to timeout for deliveries
// already in progress. It reports whether they all finished.
func (d *debouncer) stopAndWait(timeout time.Duration) bool {
	d.mu.Lock()
	d.stopped = true
	for key, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, key)
		delete(d.pending, key)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
