package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/crudauth/internal/apperror"
	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/repository"
)

var _ repository.BookRepository = (*BookRepository)(nil)

type BookRepository struct {
	db DBTX
}

func NewBookRepository(db DBTX) *BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Create(ctx context.Context, book *model.Book) error {
	query :=
		`INSERT INTO books (id, title, author, year, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	now := time.Now().UTC()
	book.ID = uuid.NewString()
	book.CreatedAt = now
	book.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, query,
		book.ID, book.Title, book.Author, book.Year, book.CreatedAt, book.UpdatedAt,
	); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *BookRepository) GetByID(ctx context.Context, id string) (*model.Book, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperror.NotFound("book", id)
	}

	query :=
		`SELECT id, title, author, year, created_at, updated_at FROM books
		 WHERE id = $1`

	b := &model.Book{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("book", id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *BookRepository) List(ctx context.Context, opts repository.ListOptions) ([]model.Book, error) {
	opts = opts.Normalize()

	query :=
		`SELECT id, title, author, year, created_at, updated_at FROM books
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, opts.Limit)
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return books, nil
}

func (r *BookRepository) Update(ctx context.Context, book *model.Book) error {
	if _, err := uuid.Parse(book.ID); err != nil {
		return apperror.NotFound("book", book.ID)
	}

	query :=
		`UPDATE books SET title = $1, author = $2, year = $3, updated_at = $4
		 WHERE id = $5`

	book.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, book.Title, book.Author, book.Year, book.UpdatedAt, book.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, "book", book.ID)
}

func (r *BookRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NotFound("book", id)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res, "book", id)
}

func expectOne(res sql.Result, resource, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
