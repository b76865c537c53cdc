package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/storage"
)

// WalletStore is an in-memory implementation of storage.WalletStore.
type WalletStore struct {
	mu     sync.RWMutex
	data   map[string]*domain.WalletRecord // keyed by address
	cursor int
}

// NewWalletStore creates a new in-memory wallet store.
func NewWalletStore() *WalletStore {
	return &WalletStore{
		data: make(map[string]*domain.WalletRecord),
	}
}

// Compile-time interface check.
var _ storage.WalletStore = (*WalletStore)(nil)

// Insert adds a new wallet. Returns ErrDuplicateKey if the address exists.
func (s *WalletStore) Insert(_ context.Context, w *domain.WalletRecord) error {
	if w == nil || w.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[w.Address]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	walletCopy := *w
	if walletCopy.CreatedAt == 0 {
		walletCopy.CreatedAt = time.Now().UnixMilli()
	}
	s.data[w.Address] = &walletCopy
	return nil
}

// UpdateLaunchCount sets the launch count for a wallet.
func (s *WalletStore) UpdateLaunchCount(_ context.Context, address string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, exists := s.data[address]
	if !exists {
		return storage.ErrNotFound
	}
	w.LaunchCount = count
	return nil
}

// GetByAddress retrieves a wallet. Returns ErrNotFound if not exists.
func (s *WalletStore) GetByAddress(_ context.Context, address string) (*domain.WalletRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, exists := s.data[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	walletCopy := *w
	return &walletCopy, nil
}

// GetAll retrieves all wallets ordered by creation time ASC.
func (s *WalletStore) GetAll(_ context.Context) ([]*domain.WalletRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.WalletRecord, 0, len(s.data))
	for _, w := range s.data {
		walletCopy := *w
		result = append(result, &walletCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt == result[j].CreatedAt {
			return result[i].Address < result[j].Address
		}
		return result[i].CreatedAt < result[j].CreatedAt
	})

	return result, nil
}

// GetCursor retrieves the persisted rotation cursor.
func (s *WalletStore) GetCursor(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor, nil
}

// SetCursor persists the rotation cursor.
func (s *WalletStore) SetCursor(_ context.Context, cursor int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = cursor
	return nil
}
