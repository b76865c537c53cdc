package clickhouse

import (
	"context"
	"fmt"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/storage"
)

// DecisionLogStore implements storage.DecisionLogStore using ClickHouse.
// The archive is analytical: duplicate signatures across batches are
// tolerated (the trigger filter already dedupes the live path).
type DecisionLogStore struct {
	conn *Conn
}

// NewDecisionLogStore creates a new DecisionLogStore.
func NewDecisionLogStore(conn *Conn) *DecisionLogStore {
	return &DecisionLogStore{conn: conn}
}

// Compile-time interface check.
var _ storage.DecisionLogStore = (*DecisionLogStore)(nil)

// InsertBulk appends a batch of decision records.
func (s *DecisionLogStore) InsertBulk(ctx context.Context, records []*domain.DecisionRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trigger_decisions (
			tx_signature, outcome, amount_sol, source, slot, observed_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range records {
		err = batch.Append(
			r.TxSignature, string(r.Outcome), r.AmountSOL,
			r.Source, uint64(r.Slot), uint64(r.ObservedAt),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByOutcome retrieves archived decisions with the given outcome,
// newest first, up to limit.
func (s *DecisionLogStore) GetByOutcome(ctx context.Context, outcome domain.Decision, limit int) ([]*domain.DecisionRecord, error) {
	query := `
		SELECT tx_signature, outcome, amount_sol, source, slot, observed_at
		FROM trigger_decisions
		WHERE outcome = ?
		ORDER BY observed_at DESC
		LIMIT ?
	`

	rows, err := s.conn.Query(ctx, query, string(outcome), limit)
	if err != nil {
		return nil, fmt.Errorf("query decisions by outcome: %w", err)
	}
	defer rows.Close()

	var result []*domain.DecisionRecord
	for rows.Next() {
		var (
			r          domain.DecisionRecord
			outcomeStr string
			slot       uint64
			observedAt uint64
		)
		if err := rows.Scan(&r.TxSignature, &outcomeStr, &r.AmountSOL, &r.Source, &slot, &observedAt); err != nil {
			return nil, fmt.Errorf("scan decision record: %w", err)
		}
		r.Outcome = domain.Decision(outcomeStr)
		r.Slot = int64(slot)
		r.ObservedAt = int64(observedAt)
		result = append(result, &r)
	}

	return result, rows.Err()
}
