package domain

// WalletRecord represents a funding wallet owned by the rotation pool.
// Corresponds to wallets table in PostgreSQL. Records are never deleted,
// only superseded by new records once exhausted.
type WalletRecord struct {
	Address     string // base58 public key, PRIMARY KEY
	SecretKey   string // base58-encoded 64-byte ed25519 secret
	LaunchCount int    // launches charged against this wallet
	CreatedAt   int64  // Unix timestamp in milliseconds
}

// WalletStatus is a point-in-time view of one pool wallet for reporting.
// BalanceSOL is read live from the chain; a negative value means the
// balance read failed.
type WalletStatus struct {
	Address     string  `json:"address"`
	BalanceSOL  float64 `json:"balance_sol"`
	LaunchCount int     `json:"launch_count"`
}
