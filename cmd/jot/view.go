package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/jot/pkg/core"
	"github.com/aretw0/jot/pkg/presenter"
)

// consoleView records presenter callbacks for one-shot commands.
type consoleView struct {
	errs     []string
	inserted []int
	deleted  []int
}

var _ presenter.View = (*consoleView)(nil)

func (v *consoleView) ShowLoading()                {}
func (v *consoleView) HideLoading()                {}
func (v *consoleView) ReloadData()                 {}
func (v *consoleView) DidInsertRow(index int)      { v.inserted = append(v.inserted, index) }
func (v *consoleView) DidDeleteRow(index int)      { v.deleted = append(v.deleted, index) }
func (v *consoleView) ShowError(title, msg string) { v.errs = append(v.errs, title+": "+msg) }

// Err returns the errors shown so far, or nil.
func (v *consoleView) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return errors.New(strings.Join(v.errs, "; "))
}

// rows is the part of a presenter used to resolve row references.
type rows interface {
	Count() int
	Find(ref string) (int, bool)
}

// resolveRow maps a 1-based row number or an id (prefix) to a display index.
func resolveRow(r rows, ref string) (int, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > r.Count() {
			return -1, fmt.Errorf("no note at row %d", n)
		}
		return n - 1, nil
	}
	if i, ok := r.Find(ref); ok {
		return i, nil
	}
	return -1, fmt.Errorf("%q: %w", ref, core.ErrNotFound)
}

const shortIDLen = 8

func shortID(id string) string {
	if len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}

// printNotes writes one numbered line per note, followed by its body indented.
func printNotes(w io.Writer, notes []core.Note) {
	for i, n := range notes {
		fmt.Fprintf(w, "%3d. %s %s  %s\n", i+1, presenter.Icon(n.Complete), shortID(n.ID), n.Title)
		if n.Body != "" {
			for _, line := range strings.Split(n.Body, "\n") {
				fmt.Fprintf(w, "       %s\n", line)
			}
		}
	}
}
