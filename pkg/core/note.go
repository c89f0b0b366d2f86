package core

import (
	"time"

	"github.com/google/uuid"
)

// Collection names one of the two note collections and doubles as the
// name of the storage slot that persists it.
type Collection string

const (
	// Active holds notes that are not yet completed.
	Active Collection = "active-notes"
	// Archive holds completed notes (the "story").
	Archive Collection = "archive-notes"
)

// Collections lists both collections in a stable order.
var Collections = []Collection{Active, Archive}

// Other returns the opposite collection.
func (c Collection) Other() Collection {
	if c == Archive {
		return Active
	}
	return Archive
}

// Valid reports whether c names a known collection.
func (c Collection) Valid() bool {
	return c == Active || c == Archive
}

func (c Collection) String() string {
	return string(c)
}

// Note is the central entity of the domain.
// It is identified by ID alone; two notes with the same ID are the same note.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Body      string    `json:"body" yaml:"body"`
	Complete  bool      `json:"is_complete" yaml:"is_complete"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// NewNote builds an incomplete note with a fresh ID and creation time.
func NewNote(title, body string) Note {
	return Note{
		ID:        uuid.NewString(),
		Title:     title,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}

// Same reports whether n and other refer to the same note.
func (n Note) Same(other Note) bool {
	return n.ID == other.ID
}
