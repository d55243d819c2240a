package sqlite

import (
	"context"
	"fmt"

	"github.com/smokyabdulrahman/salah-times/internal/adhkar"
)

// ListAdhkar implements adhkar.Store.
func (s *Store) ListAdhkar(ctx context.Context, t adhkar.Type) ([]adhkar.Item, error) {
	items := []adhkar.Item{}
	err := s.db.SelectContext(ctx, &items,
		"SELECT id, type, text, position FROM adhkar WHERE type = ? ORDER BY position, id", string(t))
	if err != nil {
		return nil, fmt.Errorf("list %s adhkar: %w", t, err)
	}
	return items, nil
}

// InsertAdhkar implements adhkar.Store.
func (s *Store) InsertAdhkar(ctx context.Context, it adhkar.Item) (adhkar.Item, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO adhkar (type, text, position, updated_at) VALUES (?, ?, ?, ?)",
		string(it.Type), it.Text, it.Position, s.timestamp())
	if err != nil {
		return adhkar.Item{}, fmt.Errorf("insert %s adhkar: %w", it.Type, err)
	}
	if it.ID, err = res.LastInsertId(); err != nil {
		return adhkar.Item{}, fmt.Errorf("insert %s adhkar: %w", it.Type, err)
	}
	return it, nil
}

// SaveAdhkar implements adhkar.Store. The list of t is rewritten in one
// transaction; IDs are kept and never reused.
func (s *Store) SaveAdhkar(ctx context.Context, t adhkar.Type, items []adhkar.Item) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s adhkar: %w", t, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM adhkar WHERE type = ?", string(t)); err != nil {
		return fmt.Errorf("save %s adhkar: %w", t, err)
	}
	now := s.timestamp()
	for _, it := range items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO adhkar (id, type, text, position, updated_at) VALUES (?, ?, ?, ?, ?)",
			it.ID, string(t), it.Text, it.Position, now)
		if err != nil {
			return fmt.Errorf("save %s adhkar #%d: %w", t, it.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s adhkar: %w", t, err)
	}
	return nil
}
