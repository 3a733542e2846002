package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/crudauth/internal/apperror"
	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/repository"
)

// BookService handles business logic for books.
type BookService struct {
	repo   repository.BookRepository
	logger *slog.Logger
}

func NewBookService(repo repository.BookRepository, logger *slog.Logger) *BookService {
	return &BookService{repo: repo, logger: logger}
}

// Create stores a new book. Title and author are trimmed; a title that is
// only whitespace is rejected even though it passed the schema.
func (s *BookService) Create(ctx context.Context, in model.Book) (*model.Book, error) {
	book := &model.Book{
		Title:  strings.TrimSpace(in.Title),
		Author: strings.TrimSpace(in.Author),
		Year:   in.Year,
	}
	if book.Title == "" {
		return nil, apperror.ValidationFailed("title", "title should not be empty")
	}

	if err := s.repo.Create(ctx, book); err != nil {
		s.logger.Error("failed to create book", slog.String("title", book.Title), slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating book: %w", err)
	}

	s.logger.Info("book created", slog.String("id", book.ID), slog.String("title", book.Title))
	return book, nil
}

func (s *BookService) Get(ctx context.Context, id string) (*model.Book, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "book ID is required")
	}
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// NotFound passes through unchanged so errors.Is still matches.
		return nil, err
	}
	return book, nil
}

func (s *BookService) List(ctx context.Context, limit, offset int) ([]model.Book, error) {
	books, err := s.repo.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	return books, nil
}

// Update is fetch → merge → save.
func (s *BookService) Update(ctx context.Context, id string, patch model.BookPatch) (*model.Book, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, apperror.ValidationFailed("title", "title should not be empty")
		}
		patch.Title = &t
	}
	merged := patch.Apply(*book)

	if err := s.repo.Update(ctx, &merged); err != nil {
		return nil, err
	}

	s.logger.Info("book updated", slog.String("id", id))
	return &merged, nil
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperror.ValidationFailed("id", "book ID is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("book deleted", slog.String("id", id))
	return nil
}
