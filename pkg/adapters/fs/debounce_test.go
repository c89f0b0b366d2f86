package fs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/core"
)

type collector struct {
	mu  sync.Mutex
	got []core.Event
}

func (c *collector) deliver(e core.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.got = append(c.got, e)
}

func (c *collector) events() []core.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Event(nil), c.got...)
}

func TestDebouncer_CoalescesPerSlot(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	c := &collector{}

	d.add(core.Event{Type: core.EventModify, Collection: core.Active}, c.deliver)
	d.add(core.Event{Type: core.EventDelete, Collection: core.Active}, c.deliver)
	d.add(core.Event{Type: core.EventModify, Collection: core.Archive}, c.deliver)

	require.Eventually(t, func() bool { return len(c.events()) == 2 }, time.Second, 5*time.Millisecond)
	require.True(t, d.stopAndWait(time.Second))

	byCollection := map[core.Collection]core.EventType{}
	for _, e := range c.events() {
		byCollection[e.Collection] = e.Type
	}
	assert.Equal(t, core.EventDelete, byCollection[core.Active], "latest event wins")
	assert.Equal(t, core.EventModify, byCollection[core.Archive])
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	d := newDebouncer(time.Hour)
	c := &collector{}

	d.add(core.Event{Type: core.EventModify, Collection: core.Active}, c.deliver)
	assert.True(t, d.stopAndWait(time.Second))

	d.add(core.Event{Type: core.EventModify, Collection: core.Active}, c.deliver)
	assert.Empty(t, c.events())
}
