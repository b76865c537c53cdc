package monitor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/ingestion"
	"solana-launch-trigger/internal/launcher"
	"solana-launch-trigger/internal/observability"
	"solana-launch-trigger/internal/storage"
	"solana-launch-trigger/internal/trigger"
	"solana-launch-trigger/internal/wallet"
)

// Monitor ties the event sources, trigger filter, wallet pool and
// launch coordinator together. All of its state is owned by this
// object: construct one per process, run it, stop it with the context.
//
// Events from every source drain into one loop goroutine. Evaluation
// and the launch itself run inline on that goroutine, so a second event
// cannot slip between a gate check and its update.
type Monitor struct {
	target      string
	filter      *trigger.Filter
	coordinator *launcher.Coordinator
	pool        *wallet.Pool
	sources     []ingestion.EventSource
	launches    storage.LaunchStore
	decisions   storage.DecisionLogStore // optional
	logger      *log.Logger

	running atomic.Bool
}

// Options holds the monitor's collaborators. Decisions may be nil; the
// archive is best-effort either way.
type Options struct {
	TargetMint  string
	Filter      *trigger.Filter
	Coordinator *launcher.Coordinator
	Pool        *wallet.Pool
	Sources     []ingestion.EventSource
	Launches    storage.LaunchStore
	Decisions   storage.DecisionLogStore
	Logger      *log.Logger
}

func New(opts Options) *Monitor {
	return &Monitor{
		target:      opts.TargetMint,
		filter:      opts.Filter,
		coordinator: opts.Coordinator,
		pool:        opts.Pool,
		sources:     opts.Sources,
		launches:    opts.Launches,
		decisions:   opts.Decisions,
		logger:      opts.Logger,
	}
}

// Run subscribes every source and processes events until ctx is
// cancelled. Returns the subscription error if any source fails to
// start; after that, source failures are absorbed by the sources
// themselves.
func (m *Monitor) Run(ctx context.Context) error {
	merged := make(chan *domain.TriggerEvent, 200)

	var wg sync.WaitGroup
	for _, src := range m.sources {
		ch, err := src.Subscribe(ctx)
		if err != nil {
			return fmt.Errorf("subscribe source: %w", err)
		}

		wg.Add(1)
		go func(events <-chan *domain.TriggerEvent) {
			defer wg.Done()
			for ev := range events {
				select {
				case merged <- ev:
				case <-ctx.Done():
					return
				}
			}
		}(ch)
	}

	go func() {
		wg.Wait()
		close(merged)
	}()

	m.running.Store(true)
	defer m.running.Store(false)
	m.logger.Printf("[monitor] watching %s with %d sources", m.target, len(m.sources))

	for ev := range merged {
		m.handleEvent(ctx, ev)
	}
	return nil
}

func (m *Monitor) handleEvent(ctx context.Context, ev *domain.TriggerEvent) {
	observability.RecordEventReceived(ev.Source)

	decision := m.filter.Evaluate(ev)
	observability.RecordDecision(string(decision))
	m.archiveDecision(ctx, ev, decision)

	if decision != domain.DecisionApproved {
		return
	}

	m.logger.Printf("[monitor] trigger approved: %.4f SOL buy %s (source %s)",
		ev.AmountSOL, ev.TxSignature, ev.Source)

	start := time.Now()
	record := m.coordinator.Launch(ctx, ev.TxSignature, ev.AmountSOL)
	observability.RecordLaunch(record.Success, time.Since(start).Seconds())
	if strings.Contains(record.Error, wallet.ErrPoolExhausted.Error()) {
		observability.RecordPoolExhausted()
	}

	if err := m.launches.Insert(ctx, record); err != nil {
		m.logger.Printf("[monitor] persist launch record: %v", err)
	}
}

// archiveDecision appends one decision to the analytics store. Failures
// are logged and never block the loop.
func (m *Monitor) archiveDecision(ctx context.Context, ev *domain.TriggerEvent, decision domain.Decision) {
	if m.decisions == nil {
		return
	}

	rec := &domain.DecisionRecord{
		TxSignature: ev.TxSignature,
		Outcome:     decision,
		AmountSOL:   ev.AmountSOL,
		Source:      ev.Source,
		Slot:        ev.Slot,
		ObservedAt:  ev.ObservedAt,
	}
	if err := m.decisions.InsertBulk(ctx, []*domain.DecisionRecord{rec}); err != nil {
		m.logger.Printf("[monitor] archive decision for %s: %v", ev.TxSignature, err)
	}
}
