// Package sqlite implements core.ByteStore on a single SQLite database file,
// one row per slot.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/introspection"

	"github.com/aretw0/jot/pkg/core"
)

// Store is a core.ByteStore backed by a SQLite table.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates a SQLite database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create db dir: %w", core.ErrIO, err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: open db: %w", core.ErrIO, err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: migrate: %w", core.ErrIO, err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS slots (
		name       TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);`)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) EnsureSlot(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("invalid slot name %q", name)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO slots (name, data, updated_at) VALUES (?, zeroblob(0), ?)`,
		name, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("%w: ensure slot %s: %w", core.ErrIO, name, err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM slots WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return []byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read slot %s: %w", core.ErrIO, name, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// Write replaces the slot inside a transaction; a failed write leaves the
// previous row intact.
func (s *Store) Write(ctx context.Context, name string, data []byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin write %s: %w", core.ErrIO, name, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO slots (name, data, updated_at) VALUES (?, COALESCE(?, zeroblob(0)), ?)
		 ON CONFLICT(name) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		name, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("%w: write slot %s: %w", core.ErrIO, name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit slot %s: %w", core.ErrIO, name, err)
	}
	return nil
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Path  string         `json:"path"`
	Slots map[string]int `json:"slot_sizes"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	state := StoreState{Path: s.path, Slots: make(map[string]int)}

	rows, err := s.db.Query(`SELECT name, length(data) FROM slots`)
	if err != nil {
		return state
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var size int
		if err := rows.Scan(&name, &size); err == nil {
			state.Slots[name] = size
		}
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "sqlite"
}

var _ core.ByteStore = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
