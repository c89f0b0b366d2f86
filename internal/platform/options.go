package platform

import (
	"log/slog"

	"github.com/aretw0/jot/pkg/codec"
	"github.com/aretw0/jot/pkg/core"
)

// Storage backends understood by Open.
const (
	BackendFS     = "fs"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// options holds the internal configuration for opening a notebook.
type options struct {
	logger       *slog.Logger
	backend      string
	format       codec.Format
	forceTemp    bool
	devSafety    bool
	mustExist    bool
	eventBuffer  int
	store        core.ByteStore
	codec        core.Codec
	watchHandler func(error)
}

// Option defines a functional option for configuring a notebook.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		backend:   BackendFS,
		format:    codec.FormatJSON,
		devSafety: true,
	}
}

// WithLogger sets the logger handed to the store and the repository.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBackend selects the storage backend by name ("fs", "sqlite" or "memory").
// Defaults to "fs". An empty name keeps the default.
func WithBackend(name string) Option {
	return func(o *options) {
		if name != "" {
			o.backend = name
		}
	}
}

// WithFormat selects the slot encoding. Defaults to JSON.
func WithFormat(format codec.Format) Option {
	return func(o *options) {
		if format != "" {
			o.format = format
		}
	}
}

// WithForceTemp forces the data directory into the temporary directory.
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.forceTemp = force
	}
}

// WithDevSafety controls re-rooting of the data directory when running via
// `go run` or `go test`. Enabled by default.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}

// WithMustExist makes Open fail when the data directory does not exist
// instead of creating it.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithEventBuffer sets the per-subscriber buffer of repository Watch channels.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.eventBuffer = size
	}
}

// WithStore injects a byte store, skipping data directory resolution and
// backend selection entirely.
func WithStore(store core.ByteStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithCodec injects a codec, overriding WithFormat.
func WithCodec(c core.Codec) Option {
	return func(o *options) {
		o.codec = c
	}
}

// WithWatcherErrorHandler registers a callback for runtime failures of the
// filesystem watcher, which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.watchHandler = fn
	}
}
