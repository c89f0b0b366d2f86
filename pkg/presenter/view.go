// Package presenter holds the per-screen read models over the note repository.
//
// A presenter keeps a display-ordered copy of one collection and reports
// every change to its View as row-level deltas. It holds no durable state.
package presenter

import (
	"context"

	"github.com/aretw0/jot/pkg/core"
)

// View is the presentation surface a presenter drives.
// Presenters keep a plain interface reference and never manage its lifetime.
type View interface {
	ShowLoading()
	HideLoading()
	ReloadData()
	DidInsertRow(index int)
	DidDeleteRow(index int)
	ShowError(title, message string)
}

// Repository is the subset of core.NoteRepository presenters depend on.
type Repository interface {
	Load(ctx context.Context, c core.Collection) ([]core.Note, error)
	Create(ctx context.Context, note core.Note) error
	Delete(ctx context.Context, c core.Collection, id string) error
	ToggleComplete(ctx context.Context, id string) (core.Note, error)
}

var _ Repository = (*core.NoteRepository)(nil)

// ErrorTitle is the title used for every error shown by a presenter.
const ErrorTitle = "Error"

const (
	iconComplete   = "✔"
	iconIncomplete = "○"
)

// Icon returns the glyph rendered next to a note.
func Icon(complete bool) string {
	if complete {
		return iconComplete
	}
	return iconIncomplete
}
