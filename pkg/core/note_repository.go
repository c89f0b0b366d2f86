package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/lifecycle"
)

const defaultEventBuffer = 100

// collectionCache mirrors one slot's decoded contents.
// Once loaded it is authoritative until the process exits.
type collectionCache struct {
	notes  []Note
	loaded bool
}

// NoteRepository is the sole authority over note state. It owns the active
// and archive collections and is the only writer of their storage slots.
//
// Every mutation is computed on a copy of the affected collection and only
// committed to memory after the slot write succeeds, so the caches never
// hold state that is not durable.
type NoteRepository struct {
	store  ByteStore
	codec  Codec
	logger *slog.Logger

	mu      sync.Mutex
	active  collectionCache
	archive collectionCache

	subsMu      sync.Mutex
	subs        map[int]chan Event
	nextSub     int
	eventBuffer int
}

// RepositoryOption configures a NoteRepository.
type RepositoryOption func(*NoteRepository)

// WithLogger sets the logger used by the repository.
func WithLogger(logger *slog.Logger) RepositoryOption {
	return func(r *NoteRepository) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithEventBuffer sets the per-subscriber buffer of Watch channels.
// Zero or negative means default (100).
func WithEventBuffer(size int) RepositoryOption {
	return func(r *NoteRepository) {
		if size > 0 {
			r.eventBuffer = size
		}
	}
}

// NewNoteRepository creates a repository over store and codec and ensures
// both slots exist. Collections are loaded lazily on first use.
func NewNoteRepository(ctx context.Context, store ByteStore, codec Codec, opts ...RepositoryOption) (*NoteRepository, error) {
	if store == nil {
		return nil, errors.New("note repository requires a byte store")
	}
	if codec == nil {
		return nil, errors.New("note repository requires a codec")
	}

	r := &NoteRepository{
		store:       store,
		codec:       codec,
		logger:      slog.New(slog.DiscardHandler),
		subs:        make(map[int]chan Event),
		eventBuffer: defaultEventBuffer,
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, c := range Collections {
		if err := store.EnsureSlot(ctx, string(c)); err != nil {
			return nil, fmt.Errorf("failed to ensure slot %s: %w", c, err)
		}
	}

	return r, nil
}

// Load returns the current members of collection c.
// The first call per collection reads and decodes the slot; later calls are
// answered from memory without touching storage.
func (r *NoteRepository) Load(ctx context.Context, c Collection) ([]Note, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("unknown collection %q", c)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cc, err := r.ensureLoaded(ctx, "load", c)
	if err != nil {
		return nil, err
	}
	return clone(cc.notes), nil
}

// Create appends note to the active collection and persists it.
// The note is stored incomplete regardless of its Complete field.
// Only the active slot must be readable; the archive is checked for a
// duplicate id when it can be loaded.
func (r *NoteRepository) Create(ctx context.Context, note Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.ensureLoaded(ctx, "create", Active); err != nil {
		return err
	}
	if _, err := r.ensureLoaded(ctx, "create", Archive); err != nil {
		r.logger.Warn("archive unavailable, skipping duplicate check", "error", err)
	}
	if _, _, found := r.locate(note.ID); found {
		return fmt.Errorf("create %s: %w", note.ID, ErrDuplicate)
	}

	note.Complete = false
	next := append(clone(r.active.notes), note)
	if err := r.persist(ctx, "create", Active, next); err != nil {
		return err
	}
	r.active.notes = next

	r.logger.Debug("note created", "id", note.ID)
	r.publish(newEvent(EventCreate, Active, note.ID))
	return nil
}

// Delete removes the note with id from collection c and persists the rest.
// It returns ErrNotFound, leaving both collections untouched, when c does
// not hold id.
func (r *NoteRepository) Delete(ctx context.Context, c Collection, id string) error {
	if !c.Valid() {
		return fmt.Errorf("unknown collection %q", c)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cc, err := r.ensureLoaded(ctx, "delete", c)
	if err != nil {
		return err
	}

	idx := indexOf(cc.notes, id)
	if idx < 0 {
		return fmt.Errorf("delete %s from %s: %w", id, c, ErrNotFound)
	}

	next := slices.Delete(clone(cc.notes), idx, idx+1)
	if err := r.persist(ctx, "delete", c, next); err != nil {
		return err
	}
	cc.notes = next

	r.logger.Debug("note deleted", "id", id, "collection", c)
	r.publish(newEvent(EventDelete, c, id))
	return nil
}

// ToggleComplete moves the note with id to the opposite collection,
// flipping its completion flag, and returns the moved note.
//
// Both slots are rewritten. The destination is written first; if the source
// write then fails the destination is restored to its previous contents.
// On any failure memory and storage keep their pre-call membership.
func (r *NoteRepository) ToggleComplete(ctx context.Context, id string) (Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureAll(ctx, "toggle"); err != nil {
		return Note{}, err
	}

	src, idx, found := r.locate(id)
	if !found {
		return Note{}, fmt.Errorf("toggle %s: %w", id, ErrNotFound)
	}
	dst := src.Other()
	srcCache, dstCache := r.cacheFor(src), r.cacheFor(dst)

	note := srcCache.notes[idx]
	note.Complete = dst == Archive

	nextSrc := slices.Delete(clone(srcCache.notes), idx, idx+1)
	nextDst := append(clone(dstCache.notes), note)

	if err := r.persist(ctx, "toggle", dst, nextDst); err != nil {
		return Note{}, err
	}
	if err := r.persist(ctx, "toggle", src, nextSrc); err != nil {
		restoreCtx := context.WithoutCancel(ctx)
		if rerr := r.persist(restoreCtx, "restore", dst, dstCache.notes); rerr != nil {
			// Storage now holds the note in both slots; force a re-read.
			r.logger.Error("failed to restore slot after partial toggle",
				"id", id, "slot", dst, "error", rerr)
			srcCache.loaded, srcCache.notes = false, nil
			dstCache.loaded, dstCache.notes = false, nil
			return Note{}, errors.Join(err, rerr)
		}
		return Note{}, err
	}

	srcCache.notes = nextSrc
	dstCache.notes = nextDst

	eventType := EventRestore
	if note.Complete {
		eventType = EventComplete
	}
	r.logger.Debug("note toggled", "id", id, "from", src, "to", dst)
	r.publish(newEvent(eventType, dst, id))
	return note, nil
}

// Get returns the note with id together with the collection holding it.
func (r *NoteRepository) Get(ctx context.Context, id string) (Note, Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureAll(ctx, "get"); err != nil {
		return Note{}, "", err
	}

	c, idx, found := r.locate(id)
	if !found {
		return Note{}, "", fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	return r.cacheFor(c).notes[idx], c, nil
}

// Watch returns a channel receiving an Event after every successful mutation.
// The channel is closed when ctx is done. Events are dropped for a
// subscriber whose buffer is full.
func (r *NoteRepository) Watch(ctx context.Context) (<-chan Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan Event, r.eventBuffer)

	r.subsMu.Lock()
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch
	r.subsMu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		r.subsMu.Lock()
		delete(r.subs, id)
		close(ch)
		r.subsMu.Unlock()
		return nil
	})

	return ch, nil
}

func (r *NoteRepository) publish(e Event) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()

	for id, ch := range r.subs {
		select {
		case ch <- e:
		default:
			r.logger.Debug("dropping event for slow subscriber", "subscriber", id, "event", e.String())
		}
	}
}

func (r *NoteRepository) cacheFor(c Collection) *collectionCache {
	if c == Archive {
		return &r.archive
	}
	return &r.active
}

func (r *NoteRepository) ensureLoaded(ctx context.Context, op string, c Collection) (*collectionCache, error) {
	cc := r.cacheFor(c)
	if cc.loaded {
		return cc, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, readFailure(op, c, err)
	}

	data, err := r.store.Read(ctx, string(c))
	if err != nil {
		return nil, readFailure(op, c, err)
	}
	notes, err := r.codec.Decode(data)
	if err != nil {
		r.logger.Warn("failed to decode slot", "slot", c, "error", err)
		return nil, readFailure(op, c, err)
	}

	cc.notes = notes
	cc.loaded = true
	r.logger.Debug("collection loaded", "collection", c, "count", len(notes))
	return cc, nil
}

func (r *NoteRepository) ensureAll(ctx context.Context, op string) error {
	for _, c := range Collections {
		if _, err := r.ensureLoaded(ctx, op, c); err != nil {
			return err
		}
	}
	return nil
}

func (r *NoteRepository) persist(ctx context.Context, op string, c Collection, notes []Note) error {
	data, err := r.codec.Encode(notes)
	if err != nil {
		return writeFailure(op, c, err)
	}
	if err := ctx.Err(); err != nil {
		return writeFailure(op, c, err)
	}
	if err := r.store.Write(ctx, string(c), data); err != nil {
		r.logger.Warn("failed to write slot", "op", op, "slot", c, "error", err)
		return writeFailure(op, c, err)
	}
	return nil
}

// locate searches both loaded collections for id.
func (r *NoteRepository) locate(id string) (Collection, int, bool) {
	for _, c := range Collections {
		if idx := indexOf(r.cacheFor(c).notes, id); idx >= 0 {
			return c, idx, true
		}
	}
	return "", -1, false
}

func indexOf(notes []Note, id string) int {
	return slices.IndexFunc(notes, func(n Note) bool { return n.ID == id })
}

func clone(notes []Note) []Note {
	out := make([]Note, len(notes), len(notes)+1)
	copy(out, notes)
	return out
}
