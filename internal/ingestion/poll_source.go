package ingestion

import (
	"context"
	"log"
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/observability"
	"solana-launch-trigger/internal/solana"
)

const defaultPollInterval = 5 * time.Second

// PollEventSource periodically lists signatures for the watched mint
// and adapts anything new to TriggerEvents. It deliberately overlaps
// with the push feed: the trigger filter converges the duplicates, and
// the poller catches whatever the socket dropped while reconnecting.
type PollEventSource struct {
	rpc      solana.RPCClient
	mint     string
	interval time.Duration
	logger   *log.Logger

	// lastSeen is the newest signature delivered so far; polling stops
	// walking backwards when it reappears.
	lastSeen string
}

func NewPollEventSource(rpc solana.RPCClient, mint string, interval time.Duration, logger *log.Logger) *PollEventSource {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &PollEventSource{
		rpc:      rpc,
		mint:     mint,
		interval: interval,
		logger:   logger,
	}
}

var _ EventSource = (*PollEventSource)(nil)

// Subscribe starts the polling loop. Poll errors are logged and retried
// on the next tick; the channel closes only on ctx cancellation.
func (s *PollEventSource) Subscribe(ctx context.Context) (<-chan *domain.TriggerEvent, error) {
	// Establish the high-water mark first so old history does not
	// replay as fresh events on startup.
	if err := s.prime(ctx); err != nil {
		return nil, err
	}

	eventsCh := make(chan *domain.TriggerEvent, 100)

	go func() {
		defer close(eventsCh)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.poll(ctx, eventsCh); err != nil {
					if ctx.Err() != nil {
						return
					}
					observability.RecordPollError()
					s.logger.Printf("[poll-source] poll failed, retrying next tick: %v", err)
				}
			}
		}
	}()

	return eventsCh, nil
}

func (s *PollEventSource) prime(ctx context.Context) error {
	sigs, err := s.rpc.GetSignaturesForAddress(ctx, s.mint, &solana.SignaturesOpts{Limit: 1})
	if err != nil {
		return err
	}
	if len(sigs) > 0 {
		s.lastSeen = sigs[0].Signature
	}
	return nil
}

func (s *PollEventSource) poll(ctx context.Context, eventsCh chan<- *domain.TriggerEvent) error {
	start := time.Now()
	sigs, err := s.rpc.GetSignaturesForAddress(ctx, s.mint, &solana.SignaturesOpts{
		Until: s.lastSeen,
		Limit: 100,
	})
	observability.RecordRPCLatency("getSignaturesForAddress", time.Since(start).Seconds())
	if err != nil {
		return err
	}
	if len(sigs) == 0 {
		return nil
	}

	// Results are newest first; deliver oldest first so event order
	// matches chain order.
	for i := len(sigs) - 1; i >= 0; i-- {
		info := sigs[i]
		if info.Err != nil {
			continue
		}

		tx, err := s.rpc.GetTransaction(ctx, info.Signature)
		if err != nil || tx == nil {
			s.logger.Printf("[poll-source] fetch failed for %s, dropping: %v", info.Signature, err)
			continue
		}

		event := extractEvent(s.mint, info.Signature, info.Slot, tx)
		if event == nil {
			continue
		}
		event.Source = "poll"

		select {
		case eventsCh <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.lastSeen = sigs[0].Signature
	return nil
}
