package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/repository"
)

// COMPILE-TIME INTERFACE CHECK:
// `var _ X = (*Y)(nil)` fails the build if *Y stops implementing X.
var _ repository.ItemStore = (*ItemDB)(nil)

// ItemDB is the durable item collection.
type ItemDB struct {
	conn *sql.DB
}

// Create inserts an item whose id is the row count plus one.
//
// Counting and inserting happen in one statement so the count can't move
// between the two.
func (s *ItemDB) Create(ctx context.Context, in model.NewItem) (*model.Item, error) {
	it := model.Item{Name: in.Name, Description: in.Description}

	err := s.conn.QueryRowContext(ctx,
		`INSERT INTO items (id, name, description)
		 SELECT COUNT(*) + 1, ?, ? FROM items
		 RETURNING id`,
		it.Name,
		it.Description,
	).Scan(&it.ID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: inserting item: %w", err)
	}

	return &it, nil
}

func (s *ItemDB) FindAll(ctx context.Context) ([]model.Item, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, description FROM items ORDER BY seq`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing items: %w", err)
	}
	// CRITICAL: an unclosed sql.Rows never returns its connection to the pool.
	defer rows.Close()

	items := make([]model.Item, 0)
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description); err != nil {
			return nil, fmt.Errorf("sqlite: scanning item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating items: %w", err)
	}

	return items, nil
}

// FindOne returns the oldest item with the given id, or nil.
func (s *ItemDB) FindOne(ctx context.Context, id int) (*model.Item, error) {
	var it model.Item
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, name, description FROM items
		 WHERE id = ? ORDER BY seq LIMIT 1`,
		id,
	).Scan(&it.ID, &it.Name, &it.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: getting item %d: %w", id, err)
	}
	return &it, nil
}

// Update merges patch into the oldest item with the given id.
//
// The read and the write run in one transaction so a concurrent update of
// the same row can't be lost between them.
func (s *ItemDB) Update(ctx context.Context, id int, patch model.ItemPatch) (*model.Item, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin item update: %w", err)
	}
	// Rollback after Commit is a no-op, so this is safe on every path.
	defer tx.Rollback()

	var (
		seq int64
		it  model.Item
	)
	err = tx.QueryRowContext(ctx,
		`SELECT seq, id, name, description FROM items
		 WHERE id = ? ORDER BY seq LIMIT 1`,
		id,
	).Scan(&seq, &it.ID, &it.Name, &it.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading item %d: %w", id, err)
	}

	it = patch.Apply(it)
	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ? WHERE seq = ?`,
		it.Name, it.Description, seq,
	); err != nil {
		return nil, fmt.Errorf("sqlite: updating item %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit item update: %w", err)
	}
	return &it, nil
}

// Delete removes every item with the given id.
func (s *ItemDB) Delete(ctx context.Context, id int) (bool, error) {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("sqlite: deleting item %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	return n > 0, nil
}
