package presenter

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/jot/pkg/core"
)

// list implements the behaviour shared by both screens over one collection.
type list struct {
	view       View
	repo       Repository
	collection core.Collection
	notes      []core.Note
}

func newList(view View, repo Repository, c core.Collection) *list {
	return &list{view: view, repo: repo, collection: c}
}

// Load refreshes the displayed rows from the repository.
func (l *list) Load(ctx context.Context) {
	l.view.ShowLoading()
	defer l.view.HideLoading()

	notes, err := l.repo.Load(ctx, l.collection)
	if err != nil {
		l.fail(err)
		return
	}

	sortForDisplay(notes)
	l.notes = notes
	l.view.ReloadData()
}

// Delete removes the note displayed at index.
func (l *list) Delete(ctx context.Context, index int) {
	note, ok := l.at(index)
	if !ok {
		return
	}

	if err := l.repo.Delete(ctx, l.collection, note.ID); err != nil {
		l.fail(err)
		return
	}
	l.removeRow(note.ID)
}

// Toggle moves the note displayed at index to the other collection.
// Its row disappears from this screen; the sibling screen picks the note up
// on its next Load.
func (l *list) Toggle(ctx context.Context, index int) {
	note, ok := l.at(index)
	if !ok {
		return
	}

	if _, err := l.repo.ToggleComplete(ctx, note.ID); err != nil {
		l.fail(err)
		return
	}
	l.removeRow(note.ID)
}

// Count returns the number of displayed rows.
func (l *list) Count() int {
	return len(l.notes)
}

// NoteAt returns the note displayed at index.
func (l *list) NoteAt(index int) (core.Note, bool) {
	if index < 0 || index >= len(l.notes) {
		return core.Note{}, false
	}
	return l.notes[index], true
}

// Notes returns a copy of the displayed rows in display order.
func (l *list) Notes() []core.Note {
	return slices.Clone(l.notes)
}

// Find returns the display index of the note whose id equals ref or starts
// with it. A prefix matching several notes is ambiguous and not found.
func (l *list) Find(ref string) (int, bool) {
	if ref == "" {
		return -1, false
	}
	found := -1
	for i, n := range l.notes {
		if n.ID == ref {
			return i, true
		}
		if strings.HasPrefix(n.ID, ref) {
			if found >= 0 {
				return -1, false
			}
			found = i
		}
	}
	return found, found >= 0
}

func (l *list) at(index int) (core.Note, bool) {
	note, ok := l.NoteAt(index)
	if !ok {
		l.view.ShowError(ErrorTitle, fmt.Sprintf("no note at row %d", index))
	}
	return note, ok
}

// removeRow drops the row by id, since the index may have shifted.
func (l *list) removeRow(id string) {
	idx := slices.IndexFunc(l.notes, func(n core.Note) bool { return n.ID == id })
	if idx < 0 {
		return
	}
	l.notes = slices.Delete(l.notes, idx, idx+1)
	l.view.DidDeleteRow(idx)
}

func (l *list) fail(err error) {
	l.view.ShowError(ErrorTitle, err.Error())
}

// sortForDisplay orders notes newest first; ties fall back to id.
func sortForDisplay(notes []core.Note) {
	slices.SortStableFunc(notes, func(a, b core.Note) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}
