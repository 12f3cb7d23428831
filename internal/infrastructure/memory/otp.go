package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fooddemand/api/internal/domain"
)

// OtpStore is the in-process OTP session map. Handlers run concurrently, so
// unlike the single-threaded relay this replaces, access is mutex-guarded.
type OtpStore struct {
	mu       sync.Mutex
	sessions map[string]domain.OtpSession
}

func NewOtpStore() *OtpStore {
	return &OtpStore{sessions: make(map[string]domain.OtpSession)}
}

func (s *OtpStore) Put(_ context.Context, sess *domain.OtpSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.SessionID] = *sess
	return nil
}

func (s *OtpStore) Get(_ context.Context, sessionID string) (*domain.OtpSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("otp session not found: %w", domain.ErrNotFound)
	}
	return &sess, nil
}

func (s *OtpStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// DeleteExpired drops sessions past their TTL. Called by the sweeper; the
// verify path performs its own lazy check, so correctness does not depend on
// this running.
func (s *OtpStore) DeleteExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
