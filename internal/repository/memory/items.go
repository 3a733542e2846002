// Package memory implements the repository interfaces on plain Go slices
// and maps. Data lives for the lifetime of the process only.
package memory

import (
	"context"

	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/repository"
)

var _ repository.ItemStore = (*Items)(nil)

// Items is the in-memory item collection: an ordered slice, scanned
// linearly.
//
// CONCURRENCY:
// Items has no lock. Concurrent Create/Update/Delete calls can interleave
// arbitrarily and corrupt the slice. Use the sqlite or postgres store when
// the server takes concurrent writes.
type Items struct {
	items []model.Item
}

// NewItems returns an empty collection.
func NewItems() *Items {
	return &Items{}
}

// Create assigns id = len+1 and appends.
func (s *Items) Create(_ context.Context, in model.NewItem) (*model.Item, error) {
	it := model.Item{
		ID:          len(s.items) + 1,
		Name:        in.Name,
		Description: in.Description,
	}
	s.items = append(s.items, it)
	return &it, nil
}

// FindAll returns a copy of the collection in insertion order.
func (s *Items) FindAll(_ context.Context) ([]model.Item, error) {
	out := make([]model.Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Items) FindOne(_ context.Context, id int) (*model.Item, error) {
	for _, it := range s.items {
		if it.ID == id {
			return &it, nil
		}
	}
	return nil, nil
}

// Update merges patch over the first item with the given id, in place.
func (s *Items) Update(_ context.Context, id int, patch model.ItemPatch) (*model.Item, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = patch.Apply(s.items[i])
			it := s.items[i]
			return &it, nil
		}
	}
	return nil, nil
}

// Delete removes every item with the given id and reports whether the
// collection shrank.
func (s *Items) Delete(_ context.Context, id int) (bool, error) {
	before := len(s.items)
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return len(s.items) < before, nil
}
