package core

import (
	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	ActiveLoaded    bool   `json:"active_loaded"`
	ArchiveLoaded   bool   `json:"archive_loaded"`
	ActiveCount     int    `json:"active_count"`
	ArchiveCount    int    `json:"archive_count"`
	Subscribers     int    `json:"subscribers"`
	EventBufferSize int    `json:"event_buffer_size"`
	StoreType       string `json:"store_type"`
}

// State implements introspection.Introspectable.
func (r *NoteRepository) State() any {
	r.mu.Lock()
	state := RepositoryState{
		ActiveLoaded:    r.active.loaded,
		ArchiveLoaded:   r.archive.loaded,
		ActiveCount:     len(r.active.notes),
		ArchiveCount:    len(r.archive.notes),
		EventBufferSize: r.eventBuffer,
		StoreType:       "unknown",
	}
	r.mu.Unlock()

	r.subsMu.Lock()
	state.Subscribers = len(r.subs)
	r.subsMu.Unlock()

	if comp, ok := r.store.(introspection.Component); ok {
		state.StoreType = comp.ComponentType()
	}
	return state
}

// ComponentType implements introspection.Component.
func (r *NoteRepository) ComponentType() string {
	return "repository"
}

var _ introspection.Introspectable = (*NoteRepository)(nil)
var _ introspection.Component = (*NoteRepository)(nil)
