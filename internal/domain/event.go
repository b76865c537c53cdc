package domain

// TradeKind classifies an observed transaction on the watched address.
type TradeKind string

const (
	TradeKindBuy     TradeKind = "buy"
	TradeKindSell    TradeKind = "sell"
	TradeKindUnknown TradeKind = "unknown"
)

// TriggerEvent is a normalized notification about activity on the
// watched address. Ephemeral: constructed per incoming notification by
// an ingestion adapter, never persisted. Each TxSignature is processed
// at most once system-wide; the trigger filter enforces that.
type TriggerEvent struct {
	TxSignature  string    // unique transaction signature
	Mint         string    // watched token address
	Kind         TradeKind // buy | sell | unknown
	AmountSOL    float64   // extracted buy value; 0 if extraction failed
	Counterparty string    // buyer address when known
	Source       string    // "ws" | "poll"
	Slot         int64     // Solana slot number
	ObservedAt   int64     // Unix timestamp in milliseconds
}
