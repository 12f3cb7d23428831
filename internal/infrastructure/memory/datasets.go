package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/fooddemand/api/internal/domain"
)

// uploadHistoryLimit caps per-user upload-history entries, newest first.
const uploadHistoryLimit = 20

// DatasetStore holds one working dataset and an upload history per user.
type DatasetStore struct {
	mu       sync.Mutex
	datasets map[string]domain.Dataset        // userID -> dataset
	history  map[string][]domain.UploadRecord // userID -> newest-first records
}

func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		datasets: make(map[string]domain.Dataset),
		history:  make(map[string][]domain.UploadRecord),
	}
}

func (s *DatasetStore) PutDataset(_ context.Context, ds *domain.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[ds.UserID] = *ds
	return nil
}

func (s *DatasetStore) GetDataset(_ context.Context, userID string) (*domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ds, ok := s.datasets[userID]
	if !ok {
		return nil, fmt.Errorf("dataset not found: %w", domain.ErrNotFound)
	}
	return &ds, nil
}

func (s *DatasetStore) DeleteDataset(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datasets, userID)
	return nil
}

func (s *DatasetStore) AppendUpload(_ context.Context, rec *domain.UploadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.history[rec.UserID]
	next := append([]domain.UploadRecord{*rec}, current...)
	if len(next) > uploadHistoryLimit {
		next = next[:uploadHistoryLimit]
	}
	s.history[rec.UserID] = next
	return nil
}

func (s *DatasetStore) ListUploads(_ context.Context, userID string) ([]domain.UploadRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.UploadRecord(nil), s.history[userID]...), nil
}

func (s *DatasetStore) RemoveUploads(_ context.Context, userID string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	current := s.history[userID]
	kept := current[:0]
	for _, rec := range current {
		if !drop[rec.ID] {
			kept = append(kept, rec)
		}
	}
	s.history[userID] = kept
	return nil
}
