package core

import "context"

// ByteStore defines the contract for durable storage of named byte blobs (slots).
// It knows nothing about notes; NoteRepository is its only writer.
type ByteStore interface {
	// EnsureSlot creates an empty blob under name if none exists. Idempotent.
	EnsureSlot(ctx context.Context, name string) error

	// Read returns the full current contents of the slot, possibly empty.
	Read(ctx context.Context, name string) ([]byte, error)

	// Write atomically replaces the slot's contents. On failure the previous
	// contents must remain readable.
	Write(ctx context.Context, name string, data []byte) error
}

// Codec converts an ordered sequence of notes to bytes and back.
// Decode(Encode(notes)) must equal notes, order included.
type Codec interface {
	Encode(notes []Note) ([]byte, error)

	// Decode treats empty input as an empty sequence.
	Decode(data []byte) ([]Note, error)
}

// Watchable is implemented by stores that can report changes made to their
// slots from outside the current process.
type Watchable interface {
	Watch(ctx context.Context) (<-chan Event, error)
}
