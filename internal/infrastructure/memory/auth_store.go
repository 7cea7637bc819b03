package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/leadpop/popup-service/internal/core/domain"
)

// AuthStore is an in-memory admin user store.
type AuthStore struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewAuthStore() *AuthStore {
	return &AuthStore{users: make(map[string]*domain.User)}
}

func (s *AuthStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *AuthStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	clone := *user
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	s.users[user.Username] = &clone
	out := clone
	return &out, nil
}
