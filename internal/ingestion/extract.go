package ingestion

import (
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/solana"
)

// extractEvent adapts a fetched transaction into a TriggerEvent. The
// buy size is the largest SOL outflow across the transaction's
// accounts, with the fee subtracted from the fee payer's delta so a
// failed or tiny trade is not inflated by its own fee. Returns nil for
// transactions that cannot be interpreted; callers drop those silently.
func extractEvent(mint string, signature string, slot int64, tx *solana.Transaction) *domain.TriggerEvent {
	if tx == nil || tx.Meta == nil || tx.Message == nil {
		return nil
	}
	if tx.Meta.Err != nil {
		return nil
	}

	pre := tx.Meta.PreBalances
	post := tx.Meta.PostBalances
	keys := tx.Message.AccountKeys
	if len(pre) != len(post) || len(pre) != len(keys) || len(pre) == 0 {
		return nil
	}

	var (
		maxOutflow int64
		maxIdx     = -1
	)
	for i := range keys {
		if keys[i] == mint {
			continue
		}

		delta := int64(pre[i]) - int64(post[i])
		if i == 0 {
			// The fee payer always loses the fee; only the remainder
			// is trade spend.
			delta -= int64(tx.Meta.Fee)
		}
		if delta > maxOutflow {
			maxOutflow = delta
			maxIdx = i
		}
	}

	// In a buy the dominant outflow comes from the fee payer funding
	// its own trade. A dominant outflow elsewhere is the pool side of a
	// sell and carries no buy value.
	kind := domain.TradeKindBuy
	counterparty := ""
	if maxIdx != 0 || maxOutflow <= 0 {
		kind = domain.TradeKindSell
		maxOutflow = 0
	} else {
		counterparty = keys[0]
	}

	observedAt := time.Now().UnixMilli()
	if tx.BlockTime > 0 {
		observedAt = tx.BlockTime * 1000
	}

	return &domain.TriggerEvent{
		TxSignature:  signature,
		Mint:         mint,
		Kind:         kind,
		AmountSOL:    float64(maxOutflow) / solana.LamportsPerSOL,
		Counterparty: counterparty,
		Slot:         slot,
		ObservedAt:   observedAt,
	}
}
