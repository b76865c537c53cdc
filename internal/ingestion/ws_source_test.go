package ingestion

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/solana"
)

var testLogger = log.New(os.Stderr, "", log.LstdFlags)

type fakeWS struct {
	ch chan solana.LogNotification
}

func newFakeWS() *fakeWS {
	return &fakeWS{ch: make(chan solana.LogNotification, 10)}
}

func (f *fakeWS) SubscribeLogs(context.Context, solana.LogsFilter) (<-chan solana.LogNotification, error) {
	return f.ch, nil
}

func (f *fakeWS) Close() error { return nil }

type fakeTxRPC struct {
	mu  sync.Mutex
	txs map[string]*solana.Transaction
	// sigPages serves one page per GetSignaturesForAddress call.
	sigPages [][]solana.SignatureInfo
	sigCalls int
}

func (f *fakeTxRPC) GetBalance(context.Context, string) (uint64, error) { return 0, nil }

func (f *fakeTxRPC) GetTransaction(_ context.Context, signature string) (*solana.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.txs[signature], nil
}

func (f *fakeTxRPC) GetSignaturesForAddress(context.Context, string, *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sigCalls >= len(f.sigPages) {
		return nil, nil
	}
	page := f.sigPages[f.sigCalls]
	f.sigCalls++
	return page, nil
}

func (f *fakeTxRPC) GetLatestBlockhash(context.Context) (string, error) { return "", nil }

func (f *fakeTxRPC) SendTransaction(context.Context, string) (string, error) { return "", nil }

func TestWSEventSource_AdaptsNotifications(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ws := newFakeWS()
	rpc := &fakeTxRPC{txs: map[string]*solana.Transaction{
		"sig1": buyTransaction("Buyer11111111111111111111111111111111111111", 200_000_000, 5_000),
	}}

	source := NewWSEventSource(ws, rpc, watchedMint, testLogger)
	events, err := source.Subscribe(ctx)
	require.NoError(t, err)

	ws.ch <- solana.LogNotification{Signature: "sig1", Slot: 1000}

	select {
	case ev := <-events:
		assert.Equal(t, "sig1", ev.TxSignature)
		assert.Equal(t, "ws", ev.Source)
		assert.Equal(t, domain.TradeKindBuy, ev.Kind)
		assert.Equal(t, 0.2, ev.AmountSOL)
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
	}
}

func TestWSEventSource_SkipsFailedTransactions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ws := newFakeWS()
	rpc := &fakeTxRPC{txs: map[string]*solana.Transaction{
		"good": buyTransaction("Buyer11111111111111111111111111111111111111", 200_000_000, 5_000),
	}}

	source := NewWSEventSource(ws, rpc, watchedMint, testLogger)
	events, err := source.Subscribe(ctx)
	require.NoError(t, err)

	// Failed transaction notifications are dropped before any fetch.
	ws.ch <- solana.LogNotification{Signature: "failed", Slot: 999, Err: map[string]interface{}{"x": 1}}
	ws.ch <- solana.LogNotification{Signature: "good", Slot: 1000}

	select {
	case ev := <-events:
		assert.Equal(t, "good", ev.TxSignature)
	case <-time.After(2 * time.Second):
		t.Fatal("no event delivered")
	}
}

func TestWSEventSource_ChannelClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	source := NewWSEventSource(newFakeWS(), &fakeTxRPC{}, watchedMint, testLogger)
	events, err := source.Subscribe(ctx)
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
