package jot

import (
	"context"
	"log/slog"

	"github.com/aretw0/jot/internal/platform"
	"github.com/aretw0/jot/pkg/codec"
	"github.com/aretw0/jot/pkg/core"
)

// --- Types ---

// Note is a public alias for the core note model.
type Note = core.Note

// Collection is a public alias for the core collection name.
type Collection = core.Collection

// Notebook is an opened repository together with its storage.
type Notebook = platform.Notebook

// Config is the optional TOML configuration file.
type Config = platform.Config

// The two collections.
const (
	Active  = core.Active
	Archive = core.Archive
)

// NewNote returns an incomplete note with a fresh id.
func NewNote(title, body string) Note {
	return core.NewNote(title, body)
}

// --- Configuration ---

// Option defines a functional option for configuring a Notebook.
type Option = platform.Option

// WithLogger sets the logger for the store and the repository.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithBackend selects the storage backend ("fs", "sqlite" or "memory").
func WithBackend(name string) Option {
	return platform.WithBackend(name)
}

// WithFormat selects the slot encoding ("json" or "yaml").
func WithFormat(format string) Option {
	return platform.WithFormat(codec.Format(format))
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls re-rooting of the data directory under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithMustExist ensures the data directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithEventBuffer sets the per-subscriber buffer of Watch channels.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithStore injects a custom storage adapter.
func WithStore(store core.ByteStore) Option {
	return platform.WithStore(store)
}

// WithCodec injects a custom codec.
func WithCodec(c core.Codec) Option {
	return platform.WithCodec(c)
}

// WithWatcherErrorHandler registers a callback for filesystem watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// Open opens the notebook stored in dir.
func Open(ctx context.Context, dir string, opts ...Option) (*Notebook, error) {
	return platform.Open(ctx, dir, opts...)
}

// LoadConfig reads a TOML config file. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	return platform.LoadConfig(path)
}

// --- Safety & Utils ---

// ResolveDir picks the data directory from a flag value, $JOT_DIR, a
// project-local .jot directory, the config and ~/.jot, in that order.
func ResolveDir(flagDir string, cfg Config) (string, error) {
	return platform.ResolveDir(flagDir, cfg)
}

// ResolveDataDir applies the dev safety rules to a data directory.
func ResolveDataDir(userPath string, forceTemp bool) string {
	return platform.ResolveDataDir(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards for a directory holding a .jot notebook.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
