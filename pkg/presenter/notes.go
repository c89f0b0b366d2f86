package presenter

import (
	"context"

	"github.com/aretw0/jot/pkg/core"
)

// NotePresenter drives the screen listing active notes.
type NotePresenter struct {
	*list
}

// NewNotePresenter creates a presenter for the active collection.
func NewNotePresenter(view View, repo Repository) *NotePresenter {
	return &NotePresenter{list: newList(view, repo, core.Active)}
}

// Add creates a note from the collected title and body and shows it as the
// first row.
func (p *NotePresenter) Add(ctx context.Context, title, body string) {
	p.view.ShowLoading()
	defer p.view.HideLoading()

	note := core.NewNote(title, body)
	if err := p.repo.Create(ctx, note); err != nil {
		p.fail(err)
		return
	}

	// Newest timestamp, so it belongs on top.
	p.notes = append([]core.Note{note}, p.notes...)
	p.view.DidInsertRow(0)
}
