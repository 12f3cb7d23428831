package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fooddemand/api/internal/domain"
)

// UserStore is the in-process account registry. Email is the unique key,
// already normalized (trimmed, lowercased) by the account service.
type UserStore struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string // email -> userID
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (s *UserStore) Put(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.byID[u.UserID]; ok && prev.Email != u.Email {
		delete(s.byEmail, prev.Email)
	}
	s.byID[u.UserID] = *u
	s.byEmail[u.Email] = u.UserID
	return nil
}

func (s *UserStore) Get(_ context.Context, userID string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[userID]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	u := s.byID[id]
	return &u, nil
}

func (s *UserStore) GetByPhone(_ context.Context, phone string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.PhoneNumber != nil && *u.PhoneNumber == phone {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", domain.ErrNotFound)
}
