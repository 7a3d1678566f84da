package state

import (
	"context"
	"database/sql"
	"fmt"
)

// MaxRecent is how many recently used worktree paths are kept.
const MaxRecent = 5

// RecentPaths returns recently used worktree paths, most recent first.
func (s *Store) RecentPaths(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path FROM recent ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load recent paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// TrackRecent moves path to the front of the recent list, keeping MaxRecent.
func (s *Store) TrackRecent(ctx context.Context, path string) error {
	current, err := s.RecentPaths(ctx)
	if err != nil {
		return err
	}

	next := []string{path}
	for _, p := range current {
		if p != path && len(next) < MaxRecent {
			next = append(next, p)
		}
	}
	return s.writeRecent(ctx, next)
}

// RemoveRecent drops path from the recent list.
func (s *Store) RemoveRecent(ctx context.Context, path string) error {
	current, err := s.RecentPaths(ctx)
	if err != nil {
		return err
	}
	next := current[:0]
	for _, p := range current {
		if p != path {
			next = append(next, p)
		}
	}
	return s.writeRecent(ctx, next)
}

func (s *Store) writeRecent(ctx context.Context, paths []string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM recent`); err != nil {
			return err
		}
		for i, p := range paths {
			if _, err := tx.ExecContext(ctx, `INSERT INTO recent (path, position) VALUES (?, ?)`, p, i); err != nil {
				return fmt.Errorf("save recent path: %w", err)
			}
		}
		return nil
	})
}
