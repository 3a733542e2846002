package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sakif/crudauth/internal/apperror"
	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/repository"
)

func createTestBook(t *testing.T, s *BookDB, title string) *model.Book {
	t.Helper()
	b := &model.Book{Title: title, Author: "anon", Year: 2000}
	if err := s.Create(context.Background(), b); err != nil {
		t.Fatalf("failed to create test book: %v", err)
	}
	return b
}

func TestBookCreateAndGet(t *testing.T) {
	s := newTestDB(t).Books()

	b := createTestBook(t, s, "Dune")
	if b.ID == "" || b.CreatedAt.IsZero() {
		t.Fatalf("Create() did not fill ID/timestamps: %+v", b)
	}

	got, err := s.GetByID(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "Dune" || got.Year != 2000 {
		t.Errorf("GetByID() = %+v", got)
	}
}

func TestBookGetByID_NotFound(t *testing.T) {
	s := newTestDB(t).Books()

	_, err := s.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByID() error = %v, want ErrNotFound", err)
	}
}

func TestBookList_Pagination(t *testing.T) {
	s := newTestDB(t).Books()
	ctx := context.Background()

	for i := range 5 {
		createTestBook(t, s, fmt.Sprintf("b%d", i))
	}

	page, err := s.List(ctx, repository.ListOptions{Limit: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 || page[0].Title != "b4" {
		t.Errorf("first page = %+v, want newest two", page)
	}

	rest, err := s.List(ctx, repository.ListOptions{Limit: 10, Offset: 2})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(rest) != 3 {
		t.Errorf("second page has %d books, want 3", len(rest))
	}
}

func TestBookUpdateAndDelete(t *testing.T) {
	s := newTestDB(t).Books()
	ctx := context.Background()
	b := createTestBook(t, s, "Old")

	b.Title = "New"
	if err := s.Update(ctx, b); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := s.GetByID(ctx, b.ID)
	if got.Title != "New" {
		t.Errorf("Title after update = %q", got.Title)
	}

	if err := s.Delete(ctx, b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := s.Delete(ctx, b.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
	if err := s.Update(ctx, b); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() on deleted book error = %v, want ErrNotFound", err)
	}
}
