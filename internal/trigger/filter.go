package trigger

import (
	"sync"
	"time"

	"solana-launch-trigger/internal/domain"
)

const (
	dedupeHighWater = 1000
	dedupeKeep      = 500
)

// Filter decides whether an observed trade should fire a token launch.
// It deduplicates transaction signatures across both event sources,
// gates on a minimum buy size, and enforces a cooldown between
// consecutive launches.
//
// Evaluate never blocks on I/O, so callers can run it inline on the
// event loop without racing a second copy of the same signature.
type Filter struct {
	mu         sync.Mutex
	seen       *seenWindow
	minBuySOL  float64
	cooldown   time.Duration
	lastLaunch time.Time
	now        func() time.Time
}

// NewFilter creates a filter with the given minimum buy size in SOL and
// cooldown between approvals.
func NewFilter(minBuySOL float64, cooldown time.Duration) *Filter {
	return &Filter{
		seen:      newSeenWindow(dedupeHighWater, dedupeKeep),
		minBuySOL: minBuySOL,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (f *Filter) WithClock(now func() time.Time) *Filter {
	f.now = now
	return f
}

// Evaluate runs the decision chain for one observed event. The
// signature is recorded as seen before any other check runs, so a
// rejected event still suppresses its duplicate from the other source.
func (f *Filter) Evaluate(ev *domain.TriggerEvent) domain.Decision {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.Add(ev.TxSignature) {
		return domain.DecisionDuplicate
	}

	// Failed or impossible extraction yields a zero amount, which
	// never clears a positive threshold.
	if ev.AmountSOL <= 0 || ev.AmountSOL < f.minBuySOL {
		return domain.DecisionBelowThreshold
	}

	now := f.now()
	if !f.lastLaunch.IsZero() && now.Sub(f.lastLaunch) < f.cooldown {
		return domain.DecisionCooldown
	}

	f.lastLaunch = now
	return domain.DecisionApproved
}

// LastLaunch returns the time of the most recent approval, or the zero
// time if nothing has been approved yet.
func (f *Filter) LastLaunch() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastLaunch
}

// MinBuySOL returns the configured threshold.
func (f *Filter) MinBuySOL() float64 { return f.minBuySOL }

// Cooldown returns the configured cooldown.
func (f *Filter) Cooldown() time.Duration { return f.cooldown }

// SeenCount returns the number of signatures currently tracked by the
// dedupe window.
func (f *Filter) SeenCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Len()
}
