// Package fs implements core.ByteStore on a local directory, one file per slot.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/jot/pkg/core"
)

// Config holds the configuration for the filesystem store.
type Config struct {
	Dir       string
	Extension string      // Slot file extension, e.g. ".json". Defaults to ".json".
	Perm      os.FileMode // Slot file permissions. Defaults to 0644.
	Logger    *slog.Logger
	// WatchPattern filters watched file names (doublestar syntax, matched
	// against the base name). Defaults to "*" + Extension.
	WatchPattern string
	ErrorHandler func(error)
}

// Store is a core.ByteStore backed by files in Config.Dir.
// Each slot lives at Dir/<name><Extension> and is replaced atomically on write.
type Store struct {
	config Config

	mu            sync.RWMutex
	slots         map[string]struct{}
	watcherActive bool
	lastWrite     *time.Time
}

// NewStore creates a filesystem store. The directory is created lazily by EnsureSlot.
func NewStore(config Config) *Store {
	if config.Extension == "" {
		config.Extension = ".json"
	}
	if !strings.HasPrefix(config.Extension, ".") {
		config.Extension = "." + config.Extension
	}
	if config.Perm == 0 {
		config.Perm = 0644
	}
	if config.WatchPattern == "" {
		config.WatchPattern = "*" + config.Extension
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		config: config,
		slots:  make(map[string]struct{}),
	}
}

// Dir returns the directory holding the slot files.
func (s *Store) Dir() string {
	return s.config.Dir
}

// Path returns the file backing slot name.
func (s *Store) Path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid slot name %q", name)
	}
	return filepath.Join(s.config.Dir, name+s.config.Extension), nil
}

// EnsureSlot creates the directory and an empty slot file if missing.
func (s *Store) EnsureSlot(ctx context.Context, name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.config.Dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create data directory: %w", core.ErrIO, err)
	}

	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		return fmt.Errorf("%w: slot path %s is a directory", core.ErrIO, path)
	case err == nil:
		// already present
	case errors.Is(err, os.ErrNotExist):
		if err := writeFileAtomic(path, nil, s.config.Perm); err != nil {
			return fmt.Errorf("%w: failed to create slot %s: %w", core.ErrIO, name, err)
		}
		s.config.Logger.Debug("slot created", "slot", name, "path", path)
	default:
		return fmt.Errorf("%w: failed to stat slot %s: %w", core.ErrIO, name, err)
	}

	s.mu.Lock()
	s.slots[name] = struct{}{}
	s.mu.Unlock()
	return nil
}

// Read returns the slot contents. A missing file reads as empty.
func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return []byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read slot %s: %w", core.ErrIO, name, err)
	}
	return data, nil
}

// Write replaces the slot contents atomically.
func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(path, data, s.config.Perm); err != nil {
		return fmt.Errorf("%w: failed to write slot %s: %w", core.ErrIO, name, err)
	}

	now := time.Now()
	s.mu.Lock()
	s.lastWrite = &now
	s.mu.Unlock()
	return nil
}

func (s *Store) knownSlots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.slots))
	for name := range s.slots {
		names = append(names, name)
	}
	return names
}

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

var _ core.ByteStore = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
