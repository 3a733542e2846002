package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/crudauth/internal/apperror"
	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/repository"
)

var _ repository.BookRepository = (*Books)(nil)

// Books is a map-backed BookRepository. List orders by creation time,
// newest first, to match the SQL implementations.
type Books struct {
	mu    sync.RWMutex
	books map[string]model.Book
}

func NewBooks() *Books {
	return &Books{books: make(map[string]model.Book)}
}

func (s *Books) Create(_ context.Context, book *model.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	book.ID = xid.New().String()
	book.CreatedAt = now
	book.UpdatedAt = now
	s.books[book.ID] = *book
	return nil
}

func (s *Books) GetByID(_ context.Context, id string) (*model.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return nil, apperror.NotFound("book", id)
	}
	return &b, nil
}

func (s *Books) List(_ context.Context, opts repository.ListOptions) ([]model.Book, error) {
	s.mu.RLock()
	all := make([]model.Book, 0, len(s.books))
	for _, b := range s.books {
		all = append(all, b)
	}
	s.mu.RUnlock()

	// xids sort by creation time, so they break CreatedAt ties deterministically
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	opts = opts.Normalize()
	if opts.Offset >= len(all) {
		return []model.Book{}, nil
	}
	all = all[opts.Offset:]
	if opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all, nil
}

func (s *Books) Update(_ context.Context, book *model.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.books[book.ID]
	if !ok {
		return apperror.NotFound("book", book.ID)
	}
	book.CreatedAt = old.CreatedAt
	book.UpdatedAt = time.Now()
	s.books[book.ID] = *book
	return nil
}

func (s *Books) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return apperror.NotFound("book", id)
	}
	delete(s.books, id)
	return nil
}
