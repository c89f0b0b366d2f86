package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	// ErrIO reports that the storage medium could not be read or written.
	ErrIO = errors.New("storage i/o failure")
	// ErrDecode reports stored bytes that do not form a valid note sequence.
	ErrDecode = errors.New("malformed note data")
	// ErrEncode reports a note that cannot be represented in the storage format.
	ErrEncode = errors.New("note not representable")
	// ErrNotFound reports an id absent from the targeted collection(s).
	ErrNotFound = errors.New("note not found")
	// ErrDuplicate reports an attempt to create a note whose id already exists.
	ErrDuplicate = errors.New("note already exists")

	// ErrReadFailure marks a repository operation that failed while loading a slot.
	ErrReadFailure = errors.New("read failure")
	// ErrWriteFailure marks a repository operation that failed while persisting a slot.
	ErrWriteFailure = errors.New("write failure")
)

// OpError is returned by NoteRepository when storage or encoding fails.
// Both Kind (ErrReadFailure or ErrWriteFailure) and the underlying cause
// are visible to errors.Is.
type OpError struct {
	Op   string
	Slot Collection
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Slot, e.Kind, e.Err)
}

func (e *OpError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func readFailure(op string, slot Collection, err error) error {
	return &OpError{Op: op, Slot: slot, Kind: ErrReadFailure, Err: err}
}

func writeFailure(op string, slot Collection, err error) error {
	return &OpError{Op: op, Slot: slot, Kind: ErrWriteFailure, Err: err}
}
