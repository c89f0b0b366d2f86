package main

import (
	"context"

	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/presenter"
)

// screen is the behaviour shared by the note and story presenters.
type screen interface {
	rows
	Load(ctx context.Context)
	Delete(ctx context.Context, index int)
	Toggle(ctx context.Context, index int)
	NoteAt(index int) (core.Note, bool)
	Notes() []core.Note
}

func newScreen(view presenter.View, repo presenter.Repository, story bool) screen {
	if story {
		return presenter.NewStoryPresenter(view, repo)
	}
	return presenter.NewNotePresenter(view, repo)
}
