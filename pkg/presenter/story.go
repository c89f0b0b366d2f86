package presenter

import "github.com/aretw0/jot/pkg/core"

// StoryPresenter drives the screen listing completed notes.
type StoryPresenter struct {
	*list
}

// NewStoryPresenter creates a presenter for the archive collection.
func NewStoryPresenter(view View, repo Repository) *StoryPresenter {
	return &StoryPresenter{list: newList(view, repo, core.Archive)}
}
