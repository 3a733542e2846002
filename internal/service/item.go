package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/sakif/crudauth/internal/apperror"
	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/repository"
)

// ItemService is the item collection's business layer. It turns store-level
// absence into apperror.NotFound so the handler can answer 404.
type ItemService struct {
	store  repository.ItemStore
	logger *slog.Logger
}

func NewItemService(store repository.ItemStore, logger *slog.Logger) *ItemService {
	return &ItemService{store: store, logger: logger}
}

func (s *ItemService) Create(ctx context.Context, in model.NewItem) (*model.Item, error) {
	it, err := s.store.Create(ctx, in)
	if err != nil {
		s.logger.Error("failed to create item", slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating item: %w", err)
	}

	s.logger.Info("item created", slog.Int("id", it.ID), slog.String("name", it.Name))
	return it, nil
}

func (s *ItemService) List(ctx context.Context) ([]model.Item, error) {
	items, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

func (s *ItemService) Get(ctx context.Context, id int) (*model.Item, error) {
	it, err := s.store.FindOne(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	if it == nil {
		return nil, apperror.NotFound("item", strconv.Itoa(id))
	}
	return it, nil
}

// Update applies a partial update. Fields left nil in patch keep their
// current value.
func (s *ItemService) Update(ctx context.Context, id int, patch model.ItemPatch) (*model.Item, error) {
	it, err := s.store.Update(ctx, id, patch)
	if err != nil {
		s.logger.Error("failed to update item", slog.Int("id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("updating item: %w", err)
	}
	if it == nil {
		return nil, apperror.NotFound("item", strconv.Itoa(id))
	}

	s.logger.Info("item updated", slog.Int("id", id))
	return it, nil
}

// Delete reports whether anything was removed. Deleting an unknown id is
// not an error.
func (s *ItemService) Delete(ctx context.Context, id int) (bool, error) {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	if ok {
		s.logger.Info("item deleted", slog.Int("id", id))
	}
	return ok, nil
}
