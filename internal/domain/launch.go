package domain

// LaunchRecord represents one token launch attempt, successful or not.
// Corresponds to launches table in PostgreSQL. Immutable once created.
type LaunchRecord struct {
	ID               int64   `json:"-"` // assigned by storage
	Success          bool    `json:"success"`
	TxSignature      string  `json:"signature,omitempty"`  // submission signature, empty on failure
	TokenMint        string  `json:"token_mint,omitempty"` // new token address, empty on failure
	Name             string  `json:"name"`
	Symbol           string  `json:"symbol"`
	WalletAddress    string  `json:"wallet"` // funding wallet used, empty if none acquired
	TriggerSignature string  `json:"trigger_signature"`
	TriggerAmountSOL float64 `json:"trigger_amount_sol"`
	Error            string  `json:"error,omitempty"` // failure reason, empty on success
	CreatedAt        int64   `json:"created_at"`      // Unix timestamp in milliseconds
}
