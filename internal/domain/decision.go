package domain

// Decision is the terminal outcome of trigger evaluation for one event.
type Decision string

const (
	DecisionApproved       Decision = "APPROVED"
	DecisionDuplicate      Decision = "DUPLICATE"
	DecisionBelowThreshold Decision = "BELOW_THRESHOLD"
	DecisionCooldown       Decision = "COOLDOWN"
)

// DecisionRecord archives one trigger evaluation for offline analysis.
// Corresponds to trigger_decisions table in ClickHouse.
type DecisionRecord struct {
	TxSignature string   `json:"tx_signature"`
	Outcome     Decision `json:"outcome"`
	AmountSOL   float64  `json:"amount_sol"`
	Source      string   `json:"source"` // "ws" | "poll"
	Slot        int64    `json:"slot"`
	ObservedAt  int64    `json:"observed_at"` // Unix timestamp in milliseconds
}
