package ingestion

import (
	"context"
	"log"
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/observability"
	"solana-launch-trigger/internal/solana"
)

const (
	maxFetchRetries = 3
	baseRetryDelay  = 500 * time.Millisecond
)

// retryGetTransaction fetches a transaction with exponential backoff.
// A notification can arrive before the transaction is queryable, so the
// first miss is usually just propagation lag.
func retryGetTransaction(ctx context.Context, rpc solana.RPCClient, signature string) (*solana.Transaction, error) {
	var lastErr error
	for attempt := 0; attempt < maxFetchRetries; attempt++ {
		start := time.Now()
		tx, err := rpc.GetTransaction(ctx, signature)
		observability.RecordRPCLatency("getTransaction", time.Since(start).Seconds())
		if err == nil && tx != nil {
			return tx, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		delay := baseRetryDelay * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// WSEventSource delivers trade events from a logsSubscribe push feed.
// Each notification mentioning the watched mint is resolved to a full
// transaction over RPC and adapted to a TriggerEvent.
type WSEventSource struct {
	ws     solana.WSClient
	rpc    solana.RPCClient
	mint   string
	logger *log.Logger
}

func NewWSEventSource(ws solana.WSClient, rpc solana.RPCClient, mint string, logger *log.Logger) *WSEventSource {
	return &WSEventSource{
		ws:     ws,
		rpc:    rpc,
		mint:   mint,
		logger: logger,
	}
}

var _ EventSource = (*WSEventSource)(nil)

// Subscribe starts the push feed. Reconnects are handled inside the WS
// client; this channel stays open until ctx is cancelled.
func (s *WSEventSource) Subscribe(ctx context.Context) (<-chan *domain.TriggerEvent, error) {
	logsCh, err := s.ws.SubscribeLogs(ctx, solana.LogsFilter{
		Mentions: []string{s.mint},
	})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("[ws-source] subscribed to logs mentioning %s", s.mint)

	eventsCh := make(chan *domain.TriggerEvent, 100)

	go func() {
		defer close(eventsCh)
		for {
			select {
			case <-ctx.Done():
				return
			case notif, ok := <-logsCh:
				if !ok {
					s.logger.Printf("[ws-source] log channel closed")
					return
				}
				s.processNotification(ctx, eventsCh, notif)
			}
		}
	}()

	return eventsCh, nil
}

func (s *WSEventSource) processNotification(ctx context.Context, eventsCh chan<- *domain.TriggerEvent, notif solana.LogNotification) {
	// Failed transactions never moved funds.
	if notif.Err != nil {
		return
	}

	tx, err := retryGetTransaction(ctx, s.rpc, notif.Signature)
	if err != nil || tx == nil {
		s.logger.Printf("[ws-source] fetch failed for %s after %d retries, dropping: %v",
			notif.Signature, maxFetchRetries, err)
		return
	}

	event := extractEvent(s.mint, notif.Signature, notif.Slot, tx)
	if event == nil {
		return
	}
	event.Source = "ws"

	select {
	case eventsCh <- event:
	case <-ctx.Done():
	}
}
