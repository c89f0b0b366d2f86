package platform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/jot/pkg/adapters/fs"
	"github.com/aretw0/jot/pkg/adapters/memory"
	"github.com/aretw0/jot/pkg/adapters/sqlite"
	"github.com/aretw0/jot/pkg/codec"
	"github.com/aretw0/jot/pkg/core"
)

// SQLiteFile is the database file name used by the sqlite backend.
const SQLiteFile = "jot.db"

// Notebook is an opened note repository together with the storage behind it.
type Notebook struct {
	Repository *core.NoteRepository
	Store      core.ByteStore
	// Dir is the resolved data directory. Empty when the store was injected
	// or the backend is in-memory.
	Dir string

	closers []func() error
}

// Close releases the backing storage.
func (n *Notebook) Close() error {
	var errs []error
	for _, c := range n.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// Open builds the store, codec and repository for the data directory dir.
//
//	nb, err := platform.Open(ctx, "~/.jot", platform.WithBackend("sqlite"))
func Open(ctx context.Context, dir string, opts ...Option) (*Notebook, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cdc := o.codec
	if cdc == nil {
		c, err := codec.New(o.format)
		if err != nil {
			return nil, err
		}
		cdc = c
	}

	nb := &Notebook{Store: o.store}
	if nb.Store == nil {
		if err := openStore(nb, dir, o, logger); err != nil {
			return nil, err
		}
	}

	repo, err := core.NewNoteRepository(ctx, nb.Store, cdc,
		core.WithLogger(logger),
		core.WithEventBuffer(o.eventBuffer),
	)
	if err != nil {
		return nil, errors.Join(err, nb.Close())
	}
	nb.Repository = repo

	logger.Debug("notebook opened", "dir", nb.Dir, "backend", o.backend, "format", o.format)
	return nb, nil
}

func openStore(nb *Notebook, dir string, o *options, logger *slog.Logger) error {
	if o.backend == BackendMemory {
		nb.Store = memory.NewStore()
		return nil
	}

	forceTemp := o.forceTemp || (o.devSafety && IsDevRun())
	path := ResolveDataDir(dir, forceTemp)
	if path != dir {
		logger.Warn("using temporary data directory", "requested", dir, "path", path)
	}

	if o.mustExist {
		if !isDir(path) {
			return fmt.Errorf("data directory %s does not exist", path)
		}
	} else if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory %s: %w", path, err)
	}
	nb.Dir = path

	switch o.backend {
	case BackendFS:
		nb.Store = fs.NewStore(fs.Config{
			Dir:          path,
			Extension:    o.format.Extension(),
			Logger:       logger,
			ErrorHandler: o.watchHandler,
		})
	case BackendSQLite:
		store, err := sqlite.NewStore(filepath.Join(path, SQLiteFile))
		if err != nil {
			return err
		}
		nb.Store = store
		nb.closers = append(nb.closers, store.Close)
	default:
		return fmt.Errorf("unknown backend: %s", o.backend)
	}
	return nil
}
