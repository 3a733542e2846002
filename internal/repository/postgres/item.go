package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/repository"
)

var _ repository.ItemStore = (*ItemRepository)(nil)

// ItemRepository keeps the item collection in the items table. seq orders
// rows by insertion; id is the public, possibly repeated, identifier.
type ItemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) Create(ctx context.Context, in model.NewItem) (*model.Item, error) {
	query :=
		`INSERT INTO items (id, name, description)
		 SELECT COUNT(*) + 1, $1, $2 FROM items
		 RETURNING id`

	it := model.Item{Name: in.Name, Description: in.Description}
	if err := r.db.QueryRowContext(ctx, query, it.Name, it.Description).Scan(&it.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &it, nil
}

func (r *ItemRepository) FindAll(ctx context.Context) ([]model.Item, error) {
	query := `SELECT id, name, description FROM items ORDER BY seq`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	items := make([]model.Item, 0)
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) FindOne(ctx context.Context, id int) (*model.Item, error) {
	query :=
		`SELECT id, name, description FROM items
		 WHERE id = $1 ORDER BY seq LIMIT 1`

	var it model.Item
	err := r.db.QueryRowContext(ctx, query, id).Scan(&it.ID, &it.Name, &it.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &it, nil
}

// Update locks the oldest matching row, merges the patch and writes it back.
func (r *ItemRepository) Update(ctx context.Context, id int, patch model.ItemPatch) (*model.Item, error) {
	var out *model.Item

	err := withTx(ctx, r.db, func(tx DBTX) error {
		var (
			seq int64
			it  model.Item
		)
		err := tx.QueryRowContext(ctx,
			`SELECT seq, id, name, description FROM items
			 WHERE id = $1 ORDER BY seq LIMIT 1 FOR UPDATE`,
			id,
		).Scan(&seq, &it.ID, &it.Name, &it.Description)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		it = patch.Apply(it)
		if _, err := tx.ExecContext(ctx,
			`UPDATE items SET name = $1, description = $2 WHERE seq = $3`,
			it.Name, it.Description, seq,
		); err != nil {
			return err
		}
		out = &it
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *ItemRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
