package tui

import (
	"context"

	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/presenter"
)

// lister is the presenter behaviour a screen drives.
type lister interface {
	Load(ctx context.Context)
	Delete(ctx context.Context, index int)
	Toggle(ctx context.Context, index int)
	Count() int
	NoteAt(index int) (core.Note, bool)
}

// screen is the View of one tab. It owns the cursor and the last error
// and applies the row deltas reported by its presenter.
type screen struct {
	name       string
	collection core.Collection
	list       lister

	cursor  int
	loading bool
	err     string
}

var _ presenter.View = (*screen)(nil)

func (s *screen) ShowLoading() { s.loading = true }
func (s *screen) HideLoading() { s.loading = false }

func (s *screen) ReloadData() { s.clamp() }

func (s *screen) DidInsertRow(index int) {
	s.cursor = index
}

func (s *screen) DidDeleteRow(index int) {
	if s.cursor > index {
		s.cursor--
	}
	s.clamp()
}

func (s *screen) ShowError(title, message string) {
	s.err = title + ": " + message
}

func (s *screen) clamp() {
	if n := s.list.Count(); s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *screen) move(delta int) {
	s.cursor += delta
	s.clamp()
}
