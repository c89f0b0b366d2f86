package core

import (
	"fmt"
	"time"
)

// EventType represents the kind of change applied to a collection.
type EventType string

const (
	EventCreate   EventType = "CREATE"
	EventDelete   EventType = "DELETE"
	EventComplete EventType = "COMPLETE"
	EventRestore  EventType = "RESTORE"
	// EventModify is emitted by storage watchers when a slot changes outside this process.
	EventModify EventType = "MODIFY"
)

// Event represents a change in one of the collections.
// NoteID is empty for slot-level events.
type Event struct {
	Type       EventType
	Collection Collection
	NoteID     string
	Timestamp  int64 // Unix timestamp
}

func newEvent(t EventType, c Collection, id string) Event {
	return Event{Type: t, Collection: c, NoteID: id, Timestamp: time.Now().Unix()}
}

// String implements fmt.Stringer.
func (e Event) String() string {
	if e.NoteID == "" {
		return fmt.Sprintf("%s %s", e.Type, e.Collection)
	}
	return fmt.Sprintf("%s %s %s", e.Type, e.Collection, e.NoteID)
}
