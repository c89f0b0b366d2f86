// Package memory provides an in-memory core.ByteStore with failure injection,
// used for deterministic tests of the repository and presenters.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/jot/pkg/core"
)

// Store keeps slots in a map. It is safe for concurrent use.
type Store struct {
	mu         sync.Mutex
	slots      map[string][]byte
	readErrs   map[string]error
	writeErrs  map[string]error
	readCount  map[string]int
	writeCount map[string]int
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		slots:      make(map[string][]byte),
		readErrs:   make(map[string]error),
		writeErrs:  make(map[string]error),
		readCount:  make(map[string]int),
		writeCount: make(map[string]int),
	}
}

func (s *Store) EnsureSlot(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[name]; !ok {
		s.slots[name] = []byte{}
	}
	return nil
}

func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readCount[name]++
	if err := s.readErrs[name]; err != nil {
		return nil, fmt.Errorf("%w: read slot %s: %w", core.ErrIO, name, err)
	}
	return append([]byte{}, s.slots[name]...), nil
}

func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeErrs[name]; err != nil {
		return fmt.Errorf("%w: write slot %s: %w", core.ErrIO, name, err)
	}
	s.writeCount[name]++
	s.slots[name] = append([]byte{}, data...)
	return nil
}

// FailReads makes every Read of name fail with err until cleared with a nil err.
func (s *Store) FailReads(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErrs[name] = err
}

// FailWrites makes every Write to name fail with err until cleared with a nil err.
// The slot contents are left untouched by failed writes.
func (s *Store) FailWrites(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeErrs[name] = err
}

// Reads returns how many times name has been read.
func (s *Store) Reads(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCount[name]
}

// Writes returns how many successful writes name has received.
func (s *Store) Writes(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeCount[name]
}

// Raw returns a copy of the bytes stored under name and whether the slot exists.
func (s *Store) Raw(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.slots[name]
	return append([]byte{}, data...), ok
}

// Set replaces the bytes stored under name, bypassing failure injection.
func (s *Store) Set(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[name] = append([]byte{}, data...)
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}

var _ core.ByteStore = (*Store)(nil)
