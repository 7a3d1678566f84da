package state

import (
	"context"
	"database/sql"
	"fmt"
)

// TemplateRow is a stored custom template; Data is its JSON encoding.
type TemplateRow struct {
	ID   string
	Data []byte
}

// Templates returns stored templates in insertion order.
func (s *Store) Templates(ctx context.Context) ([]TemplateRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, json FROM templates ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	defer rows.Close()

	var out []TemplateRow
	for rows.Next() {
		var r TemplateRow
		if err := rows.Scan(&r.ID, &r.Data); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SaveTemplate inserts or replaces a template. A replaced template keeps its
// position; a new one is appended.
func (s *Store) SaveTemplate(ctx context.Context, id string, data []byte) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `UPDATE templates SET json = ? WHERE id = ?`, data, id)
		if err != nil {
			return fmt.Errorf("save template: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO templates (id, position, json)
			 VALUES (?, (SELECT COALESCE(MAX(position), -1) + 1 FROM templates), ?)`, id, data)
		if err != nil {
			return fmt.Errorf("save template: %w", err)
		}
		return nil
	})
}

// DeleteTemplate removes a template. Returns ErrNotFound if id is unknown.
func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("template %q: %w", id, ErrNotFound)
	}
	return nil
}
