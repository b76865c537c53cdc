package launcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/platform"
	"solana-launch-trigger/internal/solana"
	"solana-launch-trigger/internal/wallet"
)

// PlatformClient is the launch-platform surface the coordinator needs.
type PlatformClient interface {
	UploadMetadata(ctx context.Context, meta *platform.TokenMetadata) (*platform.UploadResult, error)
	CreateTransaction(ctx context.Context, params *platform.CreateParams) (string, error)
}

// Config holds the per-launch trade parameters.
type Config struct {
	// DevBuySOL is the initial buy the funding wallet places on its own token.
	DevBuySOL float64

	// SlippagePercent bounds the dev-buy price movement.
	SlippagePercent float64

	// PriorityFeeSOL is the compute priority fee attached to the create.
	PriorityFeeSOL float64
}

// Coordinator runs the full launch sequence for one approved trigger:
// wallet acquisition, mint keypair and metadata generation, platform
// upload, co-signing and chain submission. Every failure along the way
// is converted into a failed LaunchRecord rather than an error, so the
// caller always gets one record per attempt.
type Coordinator struct {
	pool     *wallet.Pool
	platform PlatformClient
	rpc      solana.RPCClient
	meta     *MetadataGenerator
	cfg      Config
	logger   *log.Logger
}

func NewCoordinator(pool *wallet.Pool, pc PlatformClient, rpc solana.RPCClient, meta *MetadataGenerator, cfg Config, logger *log.Logger) *Coordinator {
	return &Coordinator{
		pool:     pool,
		platform: pc,
		rpc:      rpc,
		meta:     meta,
		cfg:      cfg,
		logger:   logger,
	}
}

// Launch attempts one token launch for the given trigger and returns
// its record. Never returns an error: failures are recorded in the
// returned LaunchRecord.
func (c *Coordinator) Launch(ctx context.Context, triggerSig string, amountSOL float64) *domain.LaunchRecord {
	record := &domain.LaunchRecord{
		TriggerSignature: triggerSig,
		TriggerAmountSOL: amountSOL,
		CreatedAt:        time.Now().UnixMilli(),
	}

	if err := c.launch(ctx, record); err != nil {
		record.Success = false
		record.Error = err.Error()
		c.logger.Printf("[launcher] launch failed for trigger %s: %v", triggerSig, err)
	}

	return record
}

func (c *Coordinator) launch(ctx context.Context, record *domain.LaunchRecord) error {
	w, err := c.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire wallet: %w", err)
	}
	record.WalletAddress = w.Address

	walletKp, err := solana.KeypairFromBase58(w.SecretKey)
	if err != nil {
		return fmt.Errorf("decode wallet key for %s: %w", w.Address, err)
	}

	mint, err := solana.NewKeypair()
	if err != nil {
		return fmt.Errorf("generate mint keypair: %w", err)
	}
	record.TokenMint = mint.Address()

	meta := c.meta.Generate()
	record.Name = meta.Name
	record.Symbol = meta.Symbol

	upload, err := c.platform.UploadMetadata(ctx, meta)
	if err != nil {
		return fmt.Errorf("upload metadata: %w", err)
	}

	txBase64, err := c.platform.CreateTransaction(ctx, &platform.CreateParams{
		FunderPublicKey: w.Address,
		MintPublicKey:   mint.Address(),
		MetadataURI:     upload.MetadataURI,
		Name:            meta.Name,
		Symbol:          meta.Symbol,
		DevBuySOL:       c.cfg.DevBuySOL,
		SlippagePercent: c.cfg.SlippagePercent,
		PriorityFeeSOL:  c.cfg.PriorityFeeSOL,
	})
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	signed, err := solana.CoSign(txBase64, mint, walletKp)
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}

	sig, err := c.rpc.SendTransaction(ctx, signed)
	if err != nil {
		return fmt.Errorf("submit transaction: %w", err)
	}
	record.TxSignature = sig
	record.Success = true

	// The wallet is charged only once a submission signature exists.
	// Failing to persist the count must not fail the launch itself.
	if err := c.pool.RecordLaunch(ctx, w.Address); err != nil {
		c.logger.Printf("[launcher] record launch count for %s: %v", w.Address, err)
	}

	c.logger.Printf("[launcher] launched %s (%s) mint=%s wallet=%s tx=%s",
		meta.Name, meta.Symbol, record.TokenMint, w.Address, sig)

	return nil
}
