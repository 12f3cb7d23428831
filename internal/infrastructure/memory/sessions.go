package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fooddemand/api/internal/domain"
)

// SessionStore is the in-process login session map.
type SessionStore struct {
	mu      sync.Mutex
	byID    map[string]domain.Session
	byToken map[string]string // token -> sessionID
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		byID:    make(map[string]domain.Session),
		byToken: make(map[string]string),
	}
}

func (s *SessionStore) Put(_ context.Context, sess *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[sess.SessionID] = *sess
	s.byToken[sess.Token] = sess.SessionID
	return nil
}

func (s *SessionStore) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	return &sess, nil
}

func (s *SessionStore) GetByToken(_ context.Context, token string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byToken[token]
	if !ok {
		return nil, fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	sess := s.byID[id]
	return &sess, nil
}

func (s *SessionStore) Disable(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byID[sessionID]
	if !ok {
		return fmt.Errorf("session not found: %w", domain.ErrNotFound)
	}
	sess.Enable = false
	sess.UpdatedAt = time.Now().UTC()
	s.byID[sessionID] = sess
	return nil
}

// DisableByUser revokes every session belonging to userID. Login calls this
// first so a fresh login always clears earlier ones.
func (s *SessionStore) DisableByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	for id, sess := range s.byID {
		if sess.UserID == userID && sess.Enable {
			sess.Enable = false
			sess.UpdatedAt = now
			s.byID[id] = sess
		}
	}
	return nil
}
