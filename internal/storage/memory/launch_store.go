package memory

import (
	"context"
	"sync"
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/storage"
)

// LaunchStore is an in-memory implementation of storage.LaunchStore.
type LaunchStore struct {
	mu     sync.RWMutex
	data   []*domain.LaunchRecord // append order
	nextID int64
}

// NewLaunchStore creates a new in-memory launch store.
func NewLaunchStore() *LaunchStore {
	return &LaunchStore{nextID: 1}
}

// Compile-time interface check.
var _ storage.LaunchStore = (*LaunchStore)(nil)

// Insert appends a launch record and assigns its ID.
func (s *LaunchStore) Insert(_ context.Context, r *domain.LaunchRecord) error {
	if r == nil {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recordCopy := *r
	recordCopy.ID = s.nextID
	if recordCopy.CreatedAt == 0 {
		recordCopy.CreatedAt = time.Now().UnixMilli()
	}
	s.nextID++
	s.data = append(s.data, &recordCopy)
	r.ID = recordCopy.ID
	return nil
}

// GetRecent retrieves the most recent records, newest first.
func (s *LaunchStore) GetRecent(_ context.Context, limit int) ([]*domain.LaunchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.data) {
		limit = len(s.data)
	}

	result := make([]*domain.LaunchRecord, 0, limit)
	for i := len(s.data) - 1; i >= 0 && len(result) < limit; i-- {
		recordCopy := *s.data[i]
		result = append(result, &recordCopy)
	}
	return result, nil
}

// GetAll retrieves all records, newest first.
func (s *LaunchStore) GetAll(ctx context.Context) ([]*domain.LaunchRecord, error) {
	return s.GetRecent(ctx, 0)
}

// Count returns the total number of launch attempts recorded.
func (s *LaunchStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}
