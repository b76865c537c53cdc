package memory

import (
	"context"
	"errors"
	"testing"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/storage"
)

func TestLaunchStore_InsertAssignsID(t *testing.T) {
	store := NewLaunchStore()
	ctx := context.Background()

	r1 := &domain.LaunchRecord{TriggerSignature: "sig1", Success: true}
	r2 := &domain.LaunchRecord{TriggerSignature: "sig2", Success: false, Error: "pool exhausted"}

	if err := store.Insert(ctx, r1); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Insert(ctx, r2); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if r1.ID != 1 || r2.ID != 2 {
		t.Errorf("IDs: got %d, %d; want 1, 2", r1.ID, r2.ID)
	}
}

func TestLaunchStore_InvalidInput(t *testing.T) {
	store := NewLaunchStore()

	if err := store.Insert(context.Background(), nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
}

func TestLaunchStore_GetRecentNewestFirst(t *testing.T) {
	store := NewLaunchStore()
	ctx := context.Background()

	for _, sig := range []string{"sig1", "sig2", "sig3"} {
		if err := store.Insert(ctx, &domain.LaunchRecord{TriggerSignature: sig}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

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
}

func TestLaunchStore_GetRecentLimitLargerThanData(t *testing.T) {
	store := NewLaunchStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.LaunchRecord{TriggerSignature: "sig1"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetRecent(ctx, 25)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Expected 1 record, got %d", len(got))
	}
}

func TestLaunchStore_Count(t *testing.T) {
	store := NewLaunchStore()
	ctx := context.Background()

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Empty count: got %d", count)
	}

	for i := 0; i < 3; i++ {
		if err := store.Insert(ctx, &domain.LaunchRecord{}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	count, _ = store.Count(ctx)
	if count != 3 {
		t.Errorf("Count: got %d, want 3", count)
	}
}

func TestLaunchStore_CopyOnRead(t *testing.T) {
	store := NewLaunchStore()
	ctx := context.Background()

	if err := store.Insert(ctx, &domain.LaunchRecord{TriggerSignature: "sig1"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, _ := store.GetRecent(ctx, 1)
	got[0].Error = "mutated"

	fresh, _ := store.GetRecent(ctx, 1)
	if fresh[0].Error != "" {
		t.Errorf("Mutation leaked into store: %q", fresh[0].Error)
	}
}
