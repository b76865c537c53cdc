package storage

import (
	"context"

	"solana-launch-trigger/internal/domain"
)

// WalletStore provides access to wallet pool persistence.
// Wallet records are never deleted; the rotation cursor is persisted so
// rotation order survives process restarts.
type WalletStore interface {
	// Insert adds a new wallet. Returns ErrDuplicateKey if the address exists.
	Insert(ctx context.Context, w *domain.WalletRecord) error

	// UpdateLaunchCount sets the launch count for a wallet.
	// Returns ErrNotFound if the address does not exist.
	UpdateLaunchCount(ctx context.Context, address string, count int) error

	// GetByAddress retrieves a wallet. Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, address string) (*domain.WalletRecord, error)

	// GetAll retrieves all wallets ordered by creation time ASC.
	GetAll(ctx context.Context) ([]*domain.WalletRecord, error)

	// GetCursor retrieves the persisted rotation cursor (0 if never set).
	GetCursor(ctx context.Context) (int, error)

	// SetCursor persists the rotation cursor.
	SetCursor(ctx context.Context, cursor int) error
}

// LaunchStore provides access to launch history. Append-only.
type LaunchStore interface {
	// Insert appends a launch record and assigns its ID.
	Insert(ctx context.Context, r *domain.LaunchRecord) error

	// GetRecent retrieves the most recent records, newest first.
	GetRecent(ctx context.Context, limit int) ([]*domain.LaunchRecord, error)

	// GetAll retrieves all records, newest first.
	GetAll(ctx context.Context) ([]*domain.LaunchRecord, error)

	// Count returns the total number of launch attempts recorded.
	Count(ctx context.Context) (int64, error)
}

// DecisionLogStore archives trigger decisions for offline analysis.
// Best-effort: callers log and continue on error.
type DecisionLogStore interface {
	// InsertBulk appends a batch of decision records.
	InsertBulk(ctx context.Context, records []*domain.DecisionRecord) error
}
