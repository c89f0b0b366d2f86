package fs

import (
	"slices"
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Dir           string     `json:"dir"`
	Extension     string     `json:"extension"`
	Slots         []string   `json:"slots"`
	WatcherActive bool       `json:"watcher_active"`
	LastWrite     *time.Time `json:"last_write,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	slots := s.knownSlots()
	slices.Sort(slots)

	s.mu.RLock()
	defer s.mu.RUnlock()

	return StoreState{
		Dir:           s.config.Dir,
		Extension:     s.config.Extension,
		Slots:         slots,
		WatcherActive: s.watcherActive,
		LastWrite:     s.lastWrite,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
