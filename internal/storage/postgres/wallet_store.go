package postgres

import (
	"context"
	"fmt"
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/storage"
)

// WalletStore implements storage.WalletStore using PostgreSQL.
type WalletStore struct {
	pool *Pool
}

// NewWalletStore creates a new WalletStore.
func NewWalletStore(pool *Pool) *WalletStore {
	return &WalletStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WalletStore = (*WalletStore)(nil)

// Insert adds a new wallet. Returns ErrDuplicateKey if the address exists.
func (s *WalletStore) Insert(ctx context.Context, w *domain.WalletRecord) error {
	if w == nil || w.Address == "" {
		return storage.ErrInvalidInput
	}

	createdAt := w.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().UnixMilli()
	}

	query := `
		INSERT INTO wallets (address, secret_key, launch_count, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.pool.Exec(ctx, query, w.Address, w.SecretKey, w.LaunchCount, createdAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// UpdateLaunchCount sets the launch count for a wallet.
func (s *WalletStore) UpdateLaunchCount(ctx context.Context, address string, count int) error {
	query := `UPDATE wallets SET launch_count = $2 WHERE address = $1`

	tag, err := s.pool.Exec(ctx, query, address, count)
	if err != nil {
		return fmt.Errorf("update wallet launch count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetByAddress retrieves a wallet. Returns ErrNotFound if not exists.
func (s *WalletStore) GetByAddress(ctx context.Context, address string) (*domain.WalletRecord, error) {
	query := `
		SELECT address, secret_key, launch_count, created_at
		FROM wallets
		WHERE address = $1
	`

	var w domain.WalletRecord
	err := s.pool.QueryRow(ctx, query, address).Scan(
		&w.Address, &w.SecretKey, &w.LaunchCount, &w.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get wallet by address: %w", err)
	}
	return &w, nil
}

// GetAll retrieves all wallets ordered by creation time ASC.
func (s *WalletStore) GetAll(ctx context.Context) ([]*domain.WalletRecord, error) {
	query := `
		SELECT address, secret_key, launch_count, created_at
		FROM wallets
		ORDER BY created_at ASC, address ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all wallets: %w", err)
	}
	defer rows.Close()

	var result []*domain.WalletRecord
	for rows.Next() {
		var w domain.WalletRecord
		if err := rows.Scan(&w.Address, &w.SecretKey, &w.LaunchCount, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		result = append(result, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wallets: %w", err)
	}
	return result, nil
}

// GetCursor retrieves the persisted rotation cursor (0 if never set).
func (s *WalletStore) GetCursor(ctx context.Context) (int, error) {
	query := `SELECT cursor FROM wallet_pool_state WHERE id = 1`

	var cursor int
	err := s.pool.QueryRow(ctx, query).Scan(&cursor)
	if err != nil {
		if isNotFoundError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("get rotation cursor: %w", err)
	}
	return cursor, nil
}

// SetCursor persists the rotation cursor.
func (s *WalletStore) SetCursor(ctx context.Context, cursor int) error {
	query := `
		INSERT INTO wallet_pool_state (id, cursor) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET cursor = EXCLUDED.cursor
	`

	if _, err := s.pool.Exec(ctx, query, cursor); err != nil {
		return fmt.Errorf("set rotation cursor: %w", err)
	}
	return nil
}
