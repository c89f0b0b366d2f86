package core_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/jot/pkg/adapters/memory"
	"github.com/aretw0/jot/pkg/codec"
	"github.com/aretw0/jot/pkg/core"
)

var errDisk = errors.New("disk unavailable")

func newRepo(t *testing.T, store core.ByteStore) *core.NoteRepository {
	t.Helper()
	repo, err := core.NewNoteRepository(context.Background(), store, codec.NewJSON())
	require.NoError(t, err)
	return repo
}

func note(id string, minute int) core.Note {
	return core.Note{
		ID:        id,
		Title:     "note " + id,
		CreatedAt: time.Date(2024, 1, 1, 12, minute, 0, 0, time.UTC),
	}
}

func ids(notes []core.Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.ID)
	}
	return out
}

// stored decodes what is durably held in a slot.
func stored(t *testing.T, store *memory.Store, c core.Collection) []core.Note {
	t.Helper()
	raw, ok := store.Raw(string(c))
	require.True(t, ok, "slot %s missing", c)
	notes, err := codec.NewJSON().Decode(raw)
	require.NoError(t, err)
	return notes
}

// requireConsistent checks disjointness and that memory mirrors storage.
func requireConsistent(t *testing.T, repo *core.NoteRepository, store *memory.Store) {
	t.Helper()
	ctx := context.Background()

	seen := map[string]core.Collection{}
	for _, c := range core.Collections {
		loaded, err := repo.Load(ctx, c)
		require.NoError(t, err)
		assert.ElementsMatch(t, ids(stored(t, store, c)), ids(loaded), "memory and storage disagree for %s", c)

		for _, n := range loaded {
			prev, dup := seen[n.ID]
			require.False(t, dup, "note %s in both %s and %s", n.ID, prev, c)
			seen[n.ID] = c
			assert.Equal(t, c == core.Archive, n.Complete, "note %s completion flag mismatches %s", n.ID, c)
		}
	}
}

func TestNewNoteRepository(t *testing.T) {
	store := memory.NewStore()
	_ = newRepo(t, store)

	for _, c := range core.Collections {
		raw, ok := store.Raw(string(c))
		assert.True(t, ok, "slot %s not ensured", c)
		assert.Empty(t, raw)
	}

	_, err := core.NewNoteRepository(context.Background(), nil, codec.NewJSON())
	assert.Error(t, err)
	_, err = core.NewNoteRepository(context.Background(), store, nil)
	assert.Error(t, err)
}

func TestCreateThenLoad(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)

	a := note("a", 0)
	require.NoError(t, repo.Create(ctx, a))

	active, err := repo.Load(ctx, core.Active)
	require.NoError(t, err)
	assert.Equal(t, []core.Note{a}, active)

	archive, err := repo.Load(ctx, core.Archive)
	require.NoError(t, err)
	assert.NotNil(t, archive)
	assert.Empty(t, archive)

	requireConsistent(t, repo, store)
}

func TestCreate_KeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, memory.NewStore())

	require.NoError(t, repo.Create(ctx, note("a", 0)))
	require.NoError(t, repo.Create(ctx, note("b", 1)))

	active, err := repo.Load(ctx, core.Active)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(active))
}

func TestCreate_ForcesIncomplete(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, memory.NewStore())

	n := note("a", 0)
	n.Complete = true
	require.NoError(t, repo.Create(ctx, n))

	active, err := repo.Load(ctx, core.Active)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.False(t, active[0].Complete)
}

func TestCreate_Duplicate(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)

	require.NoError(t, repo.Create(ctx, note("a", 0)))
	_, err := repo.ToggleComplete(ctx, "a")
	require.NoError(t, err)

	err = repo.Create(ctx, note("a", 5))
	assert.ErrorIs(t, err, core.ErrDuplicate)
	requireConsistent(t, repo, store)
}

func TestCreate_UnreadableArchive(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)
	store.Set(string(core.Archive), []byte("{garbage"))

	require.NoError(t, repo.Create(ctx, note("a", 0)))
	assert.Equal(t, []string{"a"}, ids(stored(t, store, core.Active)))

	_, err := repo.Load(ctx, core.Archive)
	assert.ErrorIs(t, err, core.ErrDecode)
	raw, _ := store.Raw(string(core.Archive))
	assert.Equal(t, "{garbage", string(raw))
}

func TestCreate_WriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)
	require.NoError(t, repo.Create(ctx, note("a", 0)))

	store.FailWrites(string(core.Active), errDisk)
	err := repo.Create(ctx, note("c", 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrWriteFailure)
	assert.ErrorIs(t, err, core.ErrIO)
	assert.ErrorIs(t, err, errDisk)

	var opErr *core.OpError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "create", opErr.Op)
	assert.Equal(t, core.Active, opErr.Slot)

	store.FailWrites(string(core.Active), nil)
	active, err := repo.Load(ctx, core.Active)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(active))
	requireConsistent(t, repo, store)
}

func TestCreate_EncodeFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)

	err := repo.Create(ctx, core.Note{Title: "missing id"})
	assert.ErrorIs(t, err, core.ErrWriteFailure)
	assert.ErrorIs(t, err, core.ErrEncode)

	active, err := repo.Load(ctx, core.Active)
	require.NoError(t, err)
	assert.Empty(t, active)
	assert.Zero(t, store.Writes(string(core.Active)))
}

func TestLoad_ServedFromCache(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.EnsureSlot(ctx, string(core.Active)))
	data, err := codec.NewJSON().Encode([]core.Note{note("a", 0)})
	require.NoError(t, err)
	store.Set(string(core.Active), data)

	repo := newRepo(t, store)

	for i := 0; i < 3; i++ {
		active, err := repo.Load(ctx, core.Active)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, ids(active))
	}
	assert.Equal(t, 1, store.Reads(string(core.Active)))

	// Known-empty collections are cached too.
	for i := 0; i < 3; i++ {
		archive, err := repo.Load(ctx, core.Archive)
		require.NoError(t, err)
		assert.Empty(t, archive)
	}
	assert.Equal(t, 1, store.Reads(string(core.Archive)))
}

func TestLoad_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, memory.NewStore())
	require.NoError(t, repo.Create(ctx, note("a", 0)))

	active, err := repo.Load(ctx, core.Active)
	require.NoError(t, err)
	active[0].Title = "mutated"
	_ = append(active, note("x", 9))

	again, err := repo.Load(ctx, core.Active)
	require.NoError(t, err)
	assert.Equal(t, "note a", again[0].Title)
	assert.Len(t, again, 1)
}

func TestLoad_ReadFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)

	store.FailReads(string(core.Archive), errDisk)
	_, err := repo.Load(ctx, core.Archive)
	assert.ErrorIs(t, err, core.ErrReadFailure)
	assert.ErrorIs(t, err, core.ErrIO)

	state := repo.State().(core.RepositoryState)
	assert.False(t, state.ArchiveLoaded)

	store.FailReads(string(core.Archive), nil)
	archive, err := repo.Load(ctx, core.Archive)
	require.NoError(t, err)
	assert.Empty(t, archive)
	assert.Equal(t, 2, store.Reads(string(core.Archive)))
}

func TestLoad_DecodeFailure(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)
	store.Set(string(core.Active), []byte("{corrupt"))

	_, err := repo.Load(ctx, core.Active)
	assert.ErrorIs(t, err, core.ErrReadFailure)
	assert.ErrorIs(t, err, core.ErrDecode)

	// Mutations need a trustworthy cache and must not overwrite the slot.
	err = repo.Create(ctx, note("a", 0))
	assert.ErrorIs(t, err, core.ErrReadFailure)
	raw, _ := store.Raw(string(core.Active))
	assert.Equal(t, "{corrupt", string(raw))
}

func TestLoad_UnknownCollection(t *testing.T) {
	repo := newRepo(t, memory.NewStore())

	_, err := repo.Load(context.Background(), core.Collection("trash"))
	assert.Error(t, err)
	assert.Error(t, repo.Delete(context.Background(), core.Collection("trash"), "a"))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)
	require.NoError(t, repo.Create(ctx, note("a", 0)))
	require.NoError(t, repo.Create(ctx, note("b", 1)))

	require.NoError(t, repo.Delete(ctx, core.Active, "a"))

	active, err := repo.Load(ctx, core.Active)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(active))
	requireConsistent(t, repo, store)
}

func TestDelete_FromArchive(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)
	require.NoError(t, repo.Create(ctx, note("a", 0)))
	_, err := repo.ToggleComplete(ctx, "a")
	require.NoError(t, err)

	// Active does not hold it any more.
	assert.ErrorIs(t, repo.Delete(ctx, core.Active, "a"), core.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, core.Archive, "a"))
	archive, err := repo.Load(ctx, core.Archive)
	require.NoError(t, err)
	assert.Empty(t, archive)
	requireConsistent(t, repo, store)
}

func TestDelete_NotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)
	require.NoError(t, repo.Create(ctx, note("a", 0)))
	before, err := repo.Load(ctx, core.Active)
	require.NoError(t, err)
	writes := store.Writes(string(core.Active))

	err = repo.Delete(ctx, core.Active, "unknown-id")
	assert.ErrorIs(t, err, core.ErrNotFound)

	after, err := repo.Load(ctx, core.Active)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, writes, store.Writes(string(core.Active)))
}

func TestDelete_WriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)
	require.NoError(t, repo.Create(ctx, note("a", 0)))

	store.FailWrites(string(core.Active), errDisk)
	err := repo.Delete(ctx, core.Active, "a")
	assert.ErrorIs(t, err, core.ErrWriteFailure)

	store.FailWrites(string(core.Active), nil)
	active, err := repo.Load(ctx, core.Active)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(active))
	requireConsistent(t, repo, store)
}

func TestToggleComplete(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)
	a := note("a", 0)
	require.NoError(t, repo.Create(ctx, a))

	moved, err := repo.ToggleComplete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, moved.Complete)

	active, err := repo.Load(ctx, core.Active)
	require.NoError(t, err)
	assert.Empty(t, active)

	archive, err := repo.Load(ctx, core.Archive)
	require.NoError(t, err)
	require.Len(t, archive, 1)
	assert.Equal(t, "a", archive[0].ID)
	assert.True(t, archive[0].Complete)
	assert.Equal(t, a.Title, archive[0].Title)
	assert.Equal(t, a.CreatedAt, archive[0].CreatedAt)
	requireConsistent(t, repo, store)

	t.Run("Back To Active", func(t *testing.T) {
		restored, err := repo.ToggleComplete(ctx, "a")
		require.NoError(t, err)
		assert.False(t, restored.Complete)

		active, err := repo.Load(ctx, core.Active)
		require.NoError(t, err)
		assert.Equal(t, []core.Note{a}, active)

		archive, err := repo.Load(ctx, core.Archive)
		require.NoError(t, err)
		assert.Empty(t, archive)
		requireConsistent(t, repo, store)
	})
}

func TestToggleComplete_NotFound(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)
	require.NoError(t, repo.Create(ctx, note("a", 0)))

	_, err := repo.ToggleComplete(ctx, "ghost")
	assert.ErrorIs(t, err, core.ErrNotFound)
	requireConsistent(t, repo, store)
}

func TestToggleComplete_Atomic(t *testing.T) {
	tests := []struct {
		name     string
		complete bool // toggle from archive back to active when true
		failSlot core.Collection
	}{
		{"complete, destination write fails", false, core.Archive},
		{"complete, source write fails", false, core.Active},
		{"restore, destination write fails", true, core.Active},
		{"restore, source write fails", true, core.Archive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := memory.NewStore()
			repo := newRepo(t, store)
			require.NoError(t, repo.Create(ctx, note("a", 0)))
			require.NoError(t, repo.Create(ctx, note("b", 1)))
			require.NoError(t, repo.Create(ctx, note("c", 2)))
			if tt.complete {
				_, err := repo.ToggleComplete(ctx, "b")
				require.NoError(t, err)
			}

			beforeActive := stored(t, store, core.Active)
			beforeArchive := stored(t, store, core.Archive)

			store.FailWrites(string(tt.failSlot), errDisk)
			_, err := repo.ToggleComplete(ctx, "b")
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrWriteFailure)
			store.FailWrites(string(tt.failSlot), nil)

			assert.Equal(t, beforeActive, stored(t, store, core.Active))
			assert.Equal(t, beforeArchive, stored(t, store, core.Archive))

			active, err := repo.Load(ctx, core.Active)
			require.NoError(t, err)
			archive, err := repo.Load(ctx, core.Archive)
			require.NoError(t, err)
			assert.Equal(t, beforeActive, active)
			assert.Equal(t, beforeArchive, archive)
			requireConsistent(t, repo, store)
		})
	}
}

// flakyStore fails writes to one slot after a number of successful ones.
type flakyStore struct {
	*memory.Store
	slot      string
	remaining int
}

func (f *flakyStore) Write(ctx context.Context, name string, data []byte) error {
	if name == f.slot {
		if f.remaining == 0 {
			return fmt.Errorf("%w: %w", core.ErrIO, errDisk)
		}
		f.remaining--
	}
	return f.Store.Write(ctx, name, data)
}

func TestToggleComplete_RestoreFailureForcesReload(t *testing.T) {
	ctx := context.Background()
	inner := memory.NewStore()
	store := &flakyStore{Store: inner, slot: string(core.Archive), remaining: -1}
	repo := newRepo(t, store)
	require.NoError(t, repo.Create(ctx, note("a", 0)))

	// Archive accepts the move but not the restore; active rejects its write.
	store.remaining = 1
	inner.FailWrites(string(core.Active), errDisk)

	_, err := repo.ToggleComplete(ctx, "a")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrWriteFailure)

	state := repo.State().(core.RepositoryState)
	assert.False(t, state.ActiveLoaded)
	assert.False(t, state.ArchiveLoaded)

	// The next load reflects storage rather than a stale cache.
	inner.FailWrites(string(core.Active), nil)
	archive, err := repo.Load(ctx, core.Archive)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(archive))
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, memory.NewStore())
	require.NoError(t, repo.Create(ctx, note("a", 0)))
	require.NoError(t, repo.Create(ctx, note("b", 1)))
	_, err := repo.ToggleComplete(ctx, "b")
	require.NoError(t, err)

	n, c, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", n.ID)
	assert.Equal(t, core.Active, c)

	n, c, err = repo.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, n.Complete)
	assert.Equal(t, core.Archive, c)

	_, _, err = repo.Get(ctx, "zzz")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestDurableAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)
	require.NoError(t, repo.Create(ctx, note("a", 0)))
	require.NoError(t, repo.Create(ctx, note("b", 1)))
	_, err := repo.ToggleComplete(ctx, "a")
	require.NoError(t, err)

	reopened := newRepo(t, store)
	active, err := reopened.Load(ctx, core.Active)
	require.NoError(t, err)
	archive, err := reopened.Load(ctx, core.Archive)
	require.NoError(t, err)

	assert.Equal(t, []string{"b"}, ids(active))
	assert.Equal(t, []string{"a"}, ids(archive))
	assert.True(t, archive[0].Complete)
}

func TestRandomOperationsKeepInvariant(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repo := newRepo(t, store)
	rng := rand.New(rand.NewPCG(7, 42))

	var known []string
	for i := 0; i < 200; i++ {
		// Occasionally make one slot unwritable.
		failing := ""
		if rng.IntN(5) == 0 {
			failing = string(core.Collections[rng.IntN(2)])
			store.FailWrites(failing, errDisk)
		}

		switch op := rng.IntN(4); {
		case op == 0 || len(known) == 0:
			id := fmt.Sprintf("n%d", i)
			if err := repo.Create(ctx, note(id, i%60)); err == nil {
				known = append(known, id)
			}
		case op == 1:
			_, _ = repo.ToggleComplete(ctx, known[rng.IntN(len(known))])
		case op == 2:
			_ = repo.Delete(ctx, core.Collections[rng.IntN(2)], known[rng.IntN(len(known))])
		default:
			_, _ = repo.ToggleComplete(ctx, "missing")
		}

		if failing != "" {
			store.FailWrites(failing, nil)
		}
		requireConsistent(t, repo, store)
	}
}

func TestWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := newRepo(t, memory.NewStore())

	events, err := repo.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, note("a", 0)))
	_, err = repo.ToggleComplete(ctx, "a")
	require.NoError(t, err)
	_, err = repo.ToggleComplete(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, core.Active, "a"))
	assert.ErrorIs(t, repo.Delete(ctx, core.Active, "a"), core.ErrNotFound)

	want := []struct {
		typ core.EventType
		c   core.Collection
	}{
		{core.EventCreate, core.Active},
		{core.EventComplete, core.Archive},
		{core.EventRestore, core.Active},
		{core.EventDelete, core.Active},
	}
	for _, w := range want {
		select {
		case e := <-events:
			assert.Equal(t, w.typ, e.Type)
			assert.Equal(t, w.c, e.Collection)
			assert.Equal(t, "a", e.NoteID)
		case <-time.After(time.Second):
			t.Fatalf("missing %s event", w.typ)
		}
	}

	assert.Equal(t, 1, repo.State().(core.RepositoryState).Subscribers)

	cancel()
	require.Eventually(t, func() bool {
		_, open := <-events
		return !open
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, repo.State().(core.RepositoryState).Subscribers)
}

func TestWatch_SlowSubscriberDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo, err := core.NewNoteRepository(ctx, memory.NewStore(), codec.NewJSON(), core.WithEventBuffer(1))
	require.NoError(t, err)

	events, err := repo.Watch(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, note(fmt.Sprintf("n%d", i), i)))
	}

	e := <-events
	assert.Equal(t, "n0", e.NoteID)
}

func TestState(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t, memory.NewStore())

	state := repo.State().(core.RepositoryState)
	assert.False(t, state.ActiveLoaded)
	assert.Equal(t, "memory", state.StoreType)
	assert.Equal(t, "repository", repo.ComponentType())

	require.NoError(t, repo.Create(ctx, note("a", 0)))
	state = repo.State().(core.RepositoryState)
	assert.True(t, state.ActiveLoaded)
	assert.True(t, state.ArchiveLoaded)
	assert.Equal(t, 1, state.ActiveCount)
}
