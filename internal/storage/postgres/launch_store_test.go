package postgres

import (
	"context"
	"testing"

	"solana-launch-trigger/internal/domain"
)

func insertLaunch(t *testing.T, store *LaunchStore, triggerSig string, success bool) *domain.LaunchRecord {
	t.Helper()
	r := &domain.LaunchRecord{
		Success:          success,
		TxSignature:      "tx-" + triggerSig,
		TokenMint:        "Mint-" + triggerSig,
		Name:             "Token",
		Symbol:           "TKN",
		WalletAddress:    "Wallet1",
		TriggerSignature: triggerSig,
		TriggerAmountSOL: 0.25,
	}
	if !success {
		r.Error = "upload metadata: status 500"
		r.TxSignature = ""
	}
	if err := store.Insert(context.Background(), r); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	return r
}

func TestLaunchStore_InsertAssignsID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewLaunchStore(pool)

	r1 := insertLaunch(t, store, "sig1", true)
	r2 := insertLaunch(t, store, "sig2", false)

	if r1.ID == 0 || r2.ID == 0 {
		t.Fatalf("IDs not assigned: %d, %d", r1.ID, r2.ID)
	}
	if r2.ID <= r1.ID {
		t.Errorf("IDs not increasing: %d then %d", r1.ID, r2.ID)
	}
}

func TestLaunchStore_GetRecentNewestFirst(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewLaunchStore(pool)
	ctx := context.Background()

	insertLaunch(t, store, "sig1", true)
	insertLaunch(t, store, "sig2", true)
	insertLaunch(t, store, "sig3", false)

	got, err := store.GetRecent(ctx, 2)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(got))
	}
	if got[0].TriggerSignature != "sig3" || got[1].TriggerSignature != "sig2" {
		t.Errorf("Wrong order: %s, %s", got[0].TriggerSignature, got[1].TriggerSignature)
	}
	if got[0].Success {
		t.Errorf("Expected failed record first")
	}
	if got[0].Error == "" {
		t.Errorf("Failed record missing error message")
	}
}

func TestLaunchStore_GetAllAndCount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewLaunchStore(pool)
	ctx := context.Background()

	for i, sig := range []string{"a", "b", "c"} {
		insertLaunch(t, store, sig, i%2 == 0)
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Expected 3 records, got %d", len(all))
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("Count: got %d, want 3", count)
	}
}

func TestLaunchStore_EmptyHistory(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewLaunchStore(pool)
	ctx := context.Background()

	got, err := store.GetRecent(ctx, 10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty history, got %d records", len(got))
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Count: got %d, want 0", count)
	}
}
