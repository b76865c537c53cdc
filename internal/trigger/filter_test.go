package trigger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"solana-launch-trigger/internal/domain"
)

func buyEvent(sig string, amount float64) *domain.TriggerEvent {
	return &domain.TriggerEvent{
		TxSignature: sig,
		Mint:        "MintAddr111111111111111111111111111111111111",
		Kind:        domain.TradeKindBuy,
		AmountSOL:   amount,
		ObservedAt:  time.Now().UnixMilli(),
	}
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestFilter_DecisionChain(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	f := NewFilter(0.15, 30*time.Second).WithClock(clock.Now)

	// Large buy fires immediately.
	assert.Equal(t, domain.DecisionApproved, f.Evaluate(buyEvent("sigA", 0.2)))

	// Same signature from the second source is suppressed even though
	// it would otherwise only hit the cooldown.
	assert.Equal(t, domain.DecisionDuplicate, f.Evaluate(buyEvent("sigA", 0.2)))

	// Small buy gets rejected before the cooldown check.
	assert.Equal(t, domain.DecisionBelowThreshold, f.Evaluate(buyEvent("sigB", 0.1)))

	// Qualifying buy inside the cooldown window is rejected.
	clock.Advance(15 * time.Second)
	assert.Equal(t, domain.DecisionCooldown, f.Evaluate(buyEvent("sigC", 0.2)))

	// After the window expires the next qualifying buy fires again.
	clock.Advance(16 * time.Second)
	assert.Equal(t, domain.DecisionApproved, f.Evaluate(buyEvent("sigD", 0.2)))
}

func TestFilter_ThresholdInclusive(t *testing.T) {
	f := NewFilter(0.15, 0)

	assert.Equal(t, domain.DecisionApproved, f.Evaluate(buyEvent("exact", 0.15)))
	assert.Equal(t, domain.DecisionBelowThreshold, f.Evaluate(buyEvent("under", 0.1499)))
}

func TestFilter_ZeroAmountNeverApproves(t *testing.T) {
	f := NewFilter(0, 0)

	assert.Equal(t, domain.DecisionBelowThreshold, f.Evaluate(buyEvent("zero", 0)))
	assert.Equal(t, domain.DecisionBelowThreshold, f.Evaluate(buyEvent("neg", -0.5)))
}

func TestFilter_RejectedEventStillDeduped(t *testing.T) {
	f := NewFilter(0.15, time.Minute)

	assert.Equal(t, domain.DecisionBelowThreshold, f.Evaluate(buyEvent("small", 0.01)))
	assert.Equal(t, domain.DecisionDuplicate, f.Evaluate(buyEvent("small", 0.01)))
}

func TestFilter_CooldownSetOnlyOnApproval(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	f := NewFilter(0.15, 30*time.Second).WithClock(clock.Now)

	f.Evaluate(buyEvent("small", 0.01))
	assert.True(t, f.LastLaunch().IsZero())

	f.Evaluate(buyEvent("big", 1.0))
	assert.Equal(t, clock.Now(), f.LastLaunch())

	// A cooldown rejection must not refresh the window.
	clock.Advance(20 * time.Second)
	f.Evaluate(buyEvent("big2", 1.0))
	clock.Advance(11 * time.Second)
	assert.Equal(t, domain.DecisionApproved, f.Evaluate(buyEvent("big3", 1.0)))
}

func TestSeenWindow_TrimsToKeep(t *testing.T) {
	w := newSeenWindow(1000, 500)

	for i := 0; i < 1001; i++ {
		w.Add(fmt.Sprintf("sig-%d", i))
	}

	assert.Equal(t, 500, w.Len())
	// The newest entries survive the trim, the oldest do not.
	assert.True(t, w.Add("sig-1000"))
	assert.False(t, w.Add("sig-0"))
}
