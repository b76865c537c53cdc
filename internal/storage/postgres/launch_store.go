package postgres

import (
	"context"
	"fmt"
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/storage"
)

// LaunchStore implements storage.LaunchStore using PostgreSQL.
type LaunchStore struct {
	pool *Pool
}

// NewLaunchStore creates a new LaunchStore.
func NewLaunchStore(pool *Pool) *LaunchStore {
	return &LaunchStore{pool: pool}
}

// Compile-time interface check.
var _ storage.LaunchStore = (*LaunchStore)(nil)

// Insert appends a launch record and assigns its ID.
func (s *LaunchStore) Insert(ctx context.Context, r *domain.LaunchRecord) error {
	if r == nil {
		return storage.ErrInvalidInput
	}

	createdAt := r.CreatedAt
	if createdAt == 0 {
		createdAt = time.Now().UnixMilli()
	}

	query := `
		INSERT INTO launches (
			success, tx_signature, token_mint, name, symbol,
			wallet_address, trigger_signature, trigger_amount_sol, error, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	err := s.pool.QueryRow(ctx, query,
		r.Success, r.TxSignature, r.TokenMint, r.Name, r.Symbol,
		r.WalletAddress, r.TriggerSignature, r.TriggerAmountSOL, r.Error, createdAt,
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("insert launch record: %w", err)
	}
	return nil
}

// GetRecent retrieves the most recent records, newest first.
func (s *LaunchStore) GetRecent(ctx context.Context, limit int) ([]*domain.LaunchRecord, error) {
	query := `
		SELECT id, success, tx_signature, token_mint, name, symbol,
			wallet_address, trigger_signature, trigger_amount_sol, error, created_at
		FROM launches
		ORDER BY id DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get recent launches: %w", err)
	}
	defer rows.Close()

	var result []*domain.LaunchRecord
	for rows.Next() {
		var r domain.LaunchRecord
		if err := rows.Scan(
			&r.ID, &r.Success, &r.TxSignature, &r.TokenMint, &r.Name, &r.Symbol,
			&r.WalletAddress, &r.TriggerSignature, &r.TriggerAmountSOL, &r.Error, &r.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan launch record: %w", err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate launches: %w", err)
	}
	return result, nil
}

// GetAll retrieves all records, newest first.
func (s *LaunchStore) GetAll(ctx context.Context) ([]*domain.LaunchRecord, error) {
	return s.GetRecent(ctx, 0)
}

// Count returns the total number of launch attempts recorded.
func (s *LaunchStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM launches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count launches: %w", err)
	}
	return count, nil
}
