package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fooddemand/api/internal/domain"
)

// VerificationStore holds verified-identity records awaiting consumption.
type VerificationStore struct {
	mu      sync.Mutex
	records map[string]domain.VerifiedIdentityRecord
}

func NewVerificationStore() *VerificationStore {
	return &VerificationStore{records: make(map[string]domain.VerifiedIdentityRecord)}
}

func (s *VerificationStore) Put(_ context.Context, rec *domain.VerifiedIdentityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.VerificationID] = *rec
	return nil
}

func (s *VerificationStore) Get(_ context.Context, verificationID string) (*domain.VerifiedIdentityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[verificationID]
	if !ok {
		return nil, fmt.Errorf("verification not found: %w", domain.ErrNotFound)
	}
	return &rec, nil
}

func (s *VerificationStore) Delete(_ context.Context, verificationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, verificationID)
	return nil
}

// DeleteExpired drops unconsumed records past their TTL.
func (s *VerificationStore) DeleteExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, rec := range s.records {
		if rec.Expired(now) {
			delete(s.records, id)
			removed++
		}
	}
	return removed
}
