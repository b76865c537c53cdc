package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/storage"
)

func TestWalletStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)
	ctx := context.Background()

	w := &domain.WalletRecord{
		Address:     "Wallet1111111111111111111111111111111111111",
		SecretKey:   "secret-base58",
		LaunchCount: 2,
		CreatedAt:   time.Now().UnixMilli(),
	}

	if err := store.Insert(ctx, w); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByAddress(ctx, w.Address)
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if got.SecretKey != w.SecretKey {
		t.Errorf("SecretKey mismatch: got %q", got.SecretKey)
	}
	if got.LaunchCount != 2 {
		t.Errorf("LaunchCount mismatch: got %d", got.LaunchCount)
	}
}

func TestWalletStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)
	ctx := context.Background()

	w := &domain.WalletRecord{Address: "WalletDup", SecretKey: "s"}
	if err := store.Insert(ctx, w); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, w)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestWalletStore_UpdateLaunchCount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)
	ctx := context.Background()

	w := &domain.WalletRecord{Address: "WalletA", SecretKey: "s"}
	if err := store.Insert(ctx, w); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := store.UpdateLaunchCount(ctx, "WalletA", 5); err != nil {
		t.Fatalf("UpdateLaunchCount failed: %v", err)
	}

	got, err := store.GetByAddress(ctx, "WalletA")
	if err != nil {
		t.Fatalf("GetByAddress failed: %v", err)
	}
	if got.LaunchCount != 5 {
		t.Errorf("LaunchCount mismatch: got %d, want 5", got.LaunchCount)
	}

	err = store.UpdateLaunchCount(ctx, "missing", 1)
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestWalletStore_GetAllOrdered(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)
	ctx := context.Background()

	base := time.Now().UnixMilli()
	wallets := []*domain.WalletRecord{
		{Address: "WalletC", SecretKey: "s", CreatedAt: base + 2000},
		{Address: "WalletA", SecretKey: "s", CreatedAt: base},
		{Address: "WalletB", SecretKey: "s", CreatedAt: base + 1000},
	}
	for _, w := range wallets {
		if err := store.Insert(ctx, w); err != nil {
			t.Fatalf("Insert %s failed: %v", w.Address, err)
		}
	}

	got, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 wallets, got %d", len(got))
	}
	want := []string{"WalletA", "WalletB", "WalletC"}
	for i, addr := range want {
		if got[i].Address != addr {
			t.Errorf("Position %d: got %s, want %s", i, got[i].Address, addr)
		}
	}
}

func TestWalletStore_Cursor(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)
	ctx := context.Background()

	cursor, err := store.GetCursor(ctx)
	if err != nil {
		t.Fatalf("GetCursor failed: %v", err)
	}
	if cursor != 0 {
		t.Errorf("Fresh cursor: got %d, want 0", cursor)
	}

	if err := store.SetCursor(ctx, 3); err != nil {
		t.Fatalf("SetCursor failed: %v", err)
	}
	if err := store.SetCursor(ctx, 7); err != nil {
		t.Fatalf("Second SetCursor failed: %v", err)
	}

	cursor, err = store.GetCursor(ctx)
	if err != nil {
		t.Fatalf("GetCursor failed: %v", err)
	}
	if cursor != 7 {
		t.Errorf("Cursor: got %d, want 7", cursor)
	}
}

func TestWalletStore_GetByAddressNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWalletStore(pool)

	_, err := store.GetByAddress(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
