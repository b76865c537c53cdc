package monitor

import (
	"context"
	"fmt"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/observability"
)

const recentLaunchLimit = 25

// StatusReport is the JSON shape served by the status endpoint.
type StatusReport struct {
	IsMonitoring   bool                   `json:"isMonitoring"`
	TargetMint     string                 `json:"targetMint"`
	TotalLaunches  int64                  `json:"totalLaunches"`
	RecentLaunches []*domain.LaunchRecord `json:"recentLaunches"`
	ThresholdSOL   float64                `json:"thresholdSol"`
	CooldownMs     int64                  `json:"cooldownMs"`
	LastLaunchAt   int64                  `json:"lastLaunchAt"` // Unix ms, 0 if never
	Wallets        []*domain.WalletStatus `json:"wallets"`
}

// HistoryReport is the JSON shape served by the launches endpoint.
type HistoryReport struct {
	Launches      []*domain.LaunchRecord `json:"launches"`
	TotalLaunches int64                  `json:"totalLaunches"`
}

// Status assembles the current system state, including live wallet
// balances. Safe to call from the HTTP goroutine while the loop runs.
func (m *Monitor) Status(ctx context.Context) (*StatusReport, error) {
	total, err := m.launches.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count launches: %w", err)
	}

	recent, err := m.launches.GetRecent(ctx, recentLaunchLimit)
	if err != nil {
		return nil, fmt.Errorf("recent launches: %w", err)
	}

	wallets, err := m.pool.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("wallet stats: %w", err)
	}
	observability.UpdatePoolSize(len(wallets))

	var lastLaunch int64
	if t := m.filter.LastLaunch(); !t.IsZero() {
		lastLaunch = t.UnixMilli()
	}

	return &StatusReport{
		IsMonitoring:   m.running.Load(),
		TargetMint:     m.target,
		TotalLaunches:  total,
		RecentLaunches: recent,
		ThresholdSOL:   m.filter.MinBuySOL(),
		CooldownMs:     m.filter.Cooldown().Milliseconds(),
		LastLaunchAt:   lastLaunch,
		Wallets:        wallets,
	}, nil
}

// History returns the full launch history, newest first.
func (m *Monitor) History(ctx context.Context) (*HistoryReport, error) {
	launches, err := m.launches.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load launches: %w", err)
	}

	return &HistoryReport{
		Launches:      launches,
		TotalLaunches: int64(len(launches)),
	}, nil
}
