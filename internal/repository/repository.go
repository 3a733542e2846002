// Package repository declares the storage contracts. Services depend on
// these interfaces only; memory, sqlite and postgres provide the
// implementations and are picked in one place at startup.
package repository

import (
	"context"

	"github.com/sakif/crudauth/internal/model"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListOptions is offset pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// Normalize clamps the limit to (0, MaxPageSize] and the offset to >= 0.
// A zero limit means DefaultPageSize.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultPageSize
	}
	if o.Limit > MaxPageSize {
		o.Limit = MaxPageSize
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}

// ItemStore is the item collection.
//
// Absence is not an error: FindOne and Update return (nil, nil) for an
// unknown id and Delete returns (false, nil). A non-nil error always means
// the backend itself failed.
//
// Identifiers are assigned as "current size + 1". After a delete that can
// hand out an id that is still in use, so several items may share an id;
// FindOne and Update act on the first match in insertion order and Delete
// removes every match.
type ItemStore interface {
	Create(ctx context.Context, in model.NewItem) (*model.Item, error)
	FindAll(ctx context.Context) ([]model.Item, error)
	FindOne(ctx context.Context, id int) (*model.Item, error)
	Update(ctx context.Context, id int, patch model.ItemPatch) (*model.Item, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// UserRepository stores credential records. Create returns an
// apperror.Conflict for a taken username; lookups return apperror.NotFound.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

// BookRepository stores books. Missing ids surface as apperror.NotFound.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id string) (*model.Book, error)
	List(ctx context.Context, opts ListOptions) ([]model.Book, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id string) error
}
