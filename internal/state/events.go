package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EventRow is one stored timeline event.
type EventRow struct {
	ID        string
	Type      string
	Path      string
	Branch    string
	Timestamp time.Time
}

// Events returns stored events, newest first.
func (s *Store) Events(ctx context.Context) ([]EventRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, type, path, branch, ts FROM events ORDER BY ts DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	defer rows.Close()

	var out []EventRow
	for rows.Next() {
		var e EventRow
		var ts int64
		if err := rows.Scan(&e.ID, &e.Type, &e.Path, &e.Branch, &ts); err != nil {
			return nil, err
		}
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

// AppendEvent stores e and trims the table to the newest limit events.
// A limit <= 0 disables trimming.
func (s *Store) AppendEvent(ctx context.Context, e EventRow, limit int) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, type, path, branch, ts) VALUES (?, ?, ?, ?, ?)`,
			e.ID, e.Type, e.Path, e.Branch, e.Timestamp.UnixMilli())
		if err != nil {
			return fmt.Errorf("append event: %w", err)
		}
		if limit <= 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx,
			`DELETE FROM events WHERE rowid NOT IN (
				SELECT rowid FROM events ORDER BY ts DESC, rowid DESC LIMIT ?)`, limit)
		if err != nil {
			return fmt.Errorf("trim events: %w", err)
		}
		return nil
	})
}

// ClearEvents removes every stored event.
func (s *Store) ClearEvents(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM events`)
	return err
}
