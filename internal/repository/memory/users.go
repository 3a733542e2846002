package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/crudauth/internal/apperror"
	"github.com/sakif/crudauth/internal/model"
	"github.com/sakif/crudauth/internal/repository"
)

var _ repository.UserRepository = (*Users)(nil)

// Users keeps credential records in two maps guarded by a mutex.
type Users struct {
	mu         sync.RWMutex
	byID       map[string]model.User
	byUsername map[string]string // username → id
}

func NewUsers() *Users {
	return &Users{
		byID:       make(map[string]model.User),
		byUsername: make(map[string]string),
	}
}

func (s *Users) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byUsername[user.Username]; taken {
		return apperror.Conflict("username", user.Username)
	}

	user.ID = xid.New().String()
	user.CreatedAt = time.Now()
	s.byID[user.ID] = *user
	s.byUsername[user.Username] = user.ID
	return nil
}

func (s *Users) GetByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	return &u, nil
}

func (s *Users) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[username]
	if !ok {
		return nil, apperror.NotFound("user", username)
	}
	u := s.byID[id]
	return &u, nil
}
