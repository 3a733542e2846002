package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/crudauth/internal/apperror"
	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/repository"
)

var _ repository.BookRepository = (*BookDB)(nil)

// BookDB stores books.
type BookDB struct {
	conn *sql.DB
}

// Create inserts a book and fills in its ID and timestamps.
//
// ID GENERATION WITH xid:
// 20 chars, URL-safe, sortable by creation time ("cv37rs3pp9olc6atsptg").
// A UUID is 36 chars with dashes and carries no ordering.
func (s *BookDB) Create(ctx context.Context, book *model.Book) error {
	now := time.Now()
	book.ID = xid.New().String()
	book.CreatedAt = now
	book.UpdatedAt = now

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO books (id, title, author, year, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		book.ID,
		book.Title,
		book.Author,
		book.Year,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting book: %w", err)
	}
	return nil
}

// GetByID translates sql.ErrNoRows into apperror.NotFound so the handler
// knows to answer 404.
func (s *BookDB) GetByID(ctx context.Context, id string) (*model.Book, error) {
	var b model.Book
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, title, author, year, created_at, updated_at
		 FROM books WHERE id = ?`,
		id,
	).Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("book", id)
		}
		return nil, fmt.Errorf("sqlite: getting book %s: %w", id, err)
	}
	return &b, nil
}

// List returns books newest first.
//
// LIMIT/OFFSET pagination is simple but gets slow on deep pages; fine at
// this scale.
func (s *BookDB) List(ctx context.Context, opts repository.ListOptions) ([]model.Book, error) {
	opts = opts.Normalize()

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, author, year, created_at, updated_at
		 FROM books
		 ORDER BY created_at DESC, id DESC
		 LIMIT ? OFFSET ?`,
		opts.Limit,
		opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, opts.Limit)
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Year, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning book row: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating books: %w", err)
	}

	return books, nil
}

// Update overwrites title, author and year. id and created_at are immutable.
// Zero rows affected means the book doesn't exist.
func (s *BookDB) Update(ctx context.Context, book *model.Book) error {
	book.UpdatedAt = time.Now()

	result, err := s.conn.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, year = ?, updated_at = ?
		 WHERE id = ?`,
		book.Title,
		book.Author,
		book.Year,
		book.UpdatedAt,
		book.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating book %s: %w", book.ID, err)
	}
	return mustAffect(result, "book", book.ID)
}

func (s *BookDB) Delete(ctx context.Context, id string) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting book %s: %w", id, err)
	}
	return mustAffect(result, "book", id)
}

func mustAffect(result sql.Result, resource, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if n == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
