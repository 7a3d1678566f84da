// Package state persists per-repository workspace state in SQLite.
//
// Each repository gets its own database file under the state directory,
// named by [RepoKey]. The store holds recently used worktree paths, custom
// worktree templates and the worktree event timeline.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cespare/xxhash/v2"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

const schema = `
CREATE TABLE IF NOT EXISTS recent (
	path     TEXT PRIMARY KEY,
	position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS templates (
	id       TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	json     BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	id     TEXT PRIMARY KEY,
	type   TEXT NOT NULL,
	path   TEXT NOT NULL,
	branch TEXT NOT NULL,
	ts     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS events_ts ON events (ts);
`

// Store is a handle to one repository's state database.
type Store struct {
	db   *sql.DB
	path string
}

// RepoKey names the database file for the repository whose main worktree is
// root: the directory base name plus a short hash of the full path.
func RepoKey(root string) string {
	return fmt.Sprintf("%s-%08x", filepath.Base(root), uint32(xxhash.Sum64String(filepath.Clean(root))))
}

// Open opens (creating if needed) the state database for root inside dir.
func Open(ctx context.Context, dir, root string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return OpenPath(ctx, filepath.Join(dir, RepoKey(root)+".db"))
}

// OpenPath opens (creating if needed) the state database at path.
func OpenPath(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	// One connection serialises writers and avoids FD leaks
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(time.Minute)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state db %s: %w", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn in a transaction, committing when fn returns nil.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
