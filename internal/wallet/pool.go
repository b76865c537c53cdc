package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/observability"
	"solana-launch-trigger/internal/solana"
	"solana-launch-trigger/internal/storage"
)

var (
	// ErrPoolExhausted is returned by Acquire when no wallet is eligible
	// and the pool cannot provision a new one.
	ErrPoolExhausted = errors.New("wallet pool exhausted")

	// ErrInsufficientMasterBalance is returned when the master wallet
	// cannot fund a new wallet without dipping below its reserve.
	ErrInsufficientMasterBalance = errors.New("insufficient master wallet balance")
)

// Config controls wallet eligibility and replenishment.
type Config struct {
	// MaxLaunchesPerWallet retires a wallet from rotation once it has
	// performed this many launches.
	MaxLaunchesPerWallet int

	// MinOperableSOL is the minimum live balance a wallet needs to be
	// handed out for a launch.
	MinOperableSOL float64

	// Master funds replacement wallets. Nil runs the pool in fixed
	// mode: when every wallet is retired or underfunded, Acquire
	// returns ErrPoolExhausted instead of provisioning.
	Master *solana.Keypair

	// FundAmountSOL is transferred from the master to each newly
	// provisioned wallet.
	FundAmountSOL float64

	// MasterReserveSOL must remain on the master after funding a new
	// wallet.
	MasterReserveSOL float64
}

// Pool rotates launches across a persisted set of wallets. Rotation is
// round-robin from a persisted cursor, so restarts resume where the
// previous process left off instead of hammering the first wallet.
type Pool struct {
	mu     sync.Mutex
	store  storage.WalletStore
	rpc    solana.RPCClient
	cfg    Config
	logger *log.Logger
}

func NewPool(store storage.WalletStore, rpc solana.RPCClient, cfg Config, logger *log.Logger) *Pool {
	return &Pool{
		store:  store,
		rpc:    rpc,
		cfg:    cfg,
		logger: logger,
	}
}

// Acquire picks the next eligible wallet, starting from the persisted
// cursor and scanning each wallet at most once. A wallet is eligible
// when its launch count is under the cap and its live balance covers
// MinOperableSOL. Wallets whose balance lookup fails are skipped, not
// rejected permanently.
//
// When no wallet qualifies, a master-funded pool provisions and funds a
// fresh wallet; a fixed pool returns ErrPoolExhausted.
func (p *Pool) Acquire(ctx context.Context) (*domain.WalletRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	wallets, err := p.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load wallets: %w", err)
	}

	cursor, err := p.store.GetCursor(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cursor: %w", err)
	}

	n := len(wallets)
	for i := 0; i < n; i++ {
		idx := (cursor + i) % n
		w := wallets[idx]

		if w.LaunchCount >= p.cfg.MaxLaunchesPerWallet {
			continue
		}

		lamports, err := p.rpc.GetBalance(ctx, w.Address)
		if err != nil {
			p.logger.Printf("[wallet] balance check failed for %s, skipping: %v", w.Address, err)
			continue
		}

		if float64(lamports)/solana.LamportsPerSOL < p.cfg.MinOperableSOL {
			continue
		}

		if err := p.store.SetCursor(ctx, (idx+1)%n); err != nil {
			return nil, fmt.Errorf("advance cursor: %w", err)
		}

		return w, nil
	}

	if p.cfg.Master == nil {
		return nil, ErrPoolExhausted
	}

	return p.provision(ctx, n)
}

// provision creates a new keypair, funds it from the master wallet and
// persists it. The master balance is checked against the reserve before
// any transfer goes out.
func (p *Pool) provision(ctx context.Context, poolSize int) (*domain.WalletRecord, error) {
	masterAddr := p.cfg.Master.Address()

	masterLamports, err := p.rpc.GetBalance(ctx, masterAddr)
	if err != nil {
		return nil, fmt.Errorf("master balance check: %w", err)
	}

	fundLamports := uint64(p.cfg.FundAmountSOL * solana.LamportsPerSOL)
	reserveLamports := uint64(p.cfg.MasterReserveSOL * solana.LamportsPerSOL)
	if masterLamports < fundLamports+reserveLamports {
		return nil, fmt.Errorf("%w: have %d lamports, need %d plus %d reserve",
			ErrInsufficientMasterBalance, masterLamports, fundLamports, reserveLamports)
	}

	kp, err := solana.NewKeypair()
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}

	blockhash, err := p.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("get blockhash: %w", err)
	}

	txBase64, err := solana.BuildTransfer(p.cfg.Master, kp.Address(), fundLamports, blockhash)
	if err != nil {
		return nil, fmt.Errorf("build funding transfer: %w", err)
	}

	sig, err := p.rpc.SendTransaction(ctx, txBase64)
	if err != nil {
		return nil, fmt.Errorf("send funding transfer: %w", err)
	}

	record := &domain.WalletRecord{
		Address:   kp.Address(),
		SecretKey: kp.SecretBase58(),
	}
	if err := p.store.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("persist wallet %s: %w", kp.Address(), err)
	}

	// The new wallet sits at the end of rotation order and is being
	// handed out now, so the cursor wraps back to the front.
	if err := p.store.SetCursor(ctx, 0); err != nil {
		return nil, fmt.Errorf("advance cursor: %w", err)
	}

	observability.RecordWalletFunded()
	p.logger.Printf("[wallet] provisioned %s funded with %.4f SOL from master (tx %s), pool size now %d",
		kp.Address(), p.cfg.FundAmountSOL, sig, poolSize+1)

	return record, nil
}

// RecordLaunch increments the launch count for a wallet and persists it.
func (p *Pool) RecordLaunch(ctx context.Context, address string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, err := p.store.GetByAddress(ctx, address)
	if err != nil {
		return fmt.Errorf("load wallet %s: %w", address, err)
	}

	if err := p.store.UpdateLaunchCount(ctx, address, w.LaunchCount+1); err != nil {
		return fmt.Errorf("update launch count for %s: %w", address, err)
	}

	return nil
}

// Stats returns per-wallet status with live balances. A failed balance
// lookup reports -1 for that wallet rather than failing the whole call.
func (p *Pool) Stats(ctx context.Context) ([]*domain.WalletStatus, error) {
	wallets, err := p.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load wallets: %w", err)
	}

	statuses := make([]*domain.WalletStatus, 0, len(wallets))
	for _, w := range wallets {
		status := &domain.WalletStatus{
			Address:     w.Address,
			BalanceSOL:  -1,
			LaunchCount: w.LaunchCount,
		}

		lamports, err := p.rpc.GetBalance(ctx, w.Address)
		if err != nil {
			p.logger.Printf("[wallet] balance check failed for %s: %v", w.Address, err)
		} else {
			status.BalanceSOL = float64(lamports) / solana.LamportsPerSOL
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}
