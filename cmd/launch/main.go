// Package main performs a single manual token launch, bypassing the
// trigger monitor. Useful for verifying platform credentials and trade
// parameters before running the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/launcher"
	"solana-launch-trigger/internal/platform"
	"solana-launch-trigger/internal/solana"
	"solana-launch-trigger/internal/storage/memory"
	"solana-launch-trigger/internal/wallet"
)

func main() {
	loadEnvFile()

	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	walletKey := flag.String("wallet-key", os.Getenv("WALLET_KEY"), "Base58 secret of the funding wallet")
	devBuySOL := flag.Float64("dev-buy-sol", 0.1, "Initial buy on the launched token")
	slippage := flag.Float64("slippage", 10, "Dev-buy slippage percent")
	priorityFeeSOL := flag.Float64("priority-fee-sol", 0.0005, "Priority fee for the launch transaction")
	tokenName := flag.String("token-name", "", "Fixed token name (random if empty)")
	tokenSymbol := flag.String("token-symbol", "", "Fixed token symbol (random if empty)")
	tokenDescription := flag.String("token-description", "", "Token description")
	tokenImage := flag.String("token-image", "", "Path to token image file")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall launch timeout")

	flag.Parse()

	logger := log.New(os.Stdout, "[launch] ", log.LstdFlags)

	if *rpcEndpoint == "" {
		logger.Fatal("--rpc-endpoint is required")
	}
	if *walletKey == "" {
		logger.Fatal("--wallet-key is required")
	}

	kp, err := solana.KeypairFromBase58(*walletKey)
	if err != nil {
		logger.Fatalf("Invalid --wallet-key: %v", err)
	}

	var image []byte
	if *tokenImage != "" {
		image, err = os.ReadFile(*tokenImage)
		if err != nil {
			logger.Fatalf("Failed to read --token-image: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	rpc := solana.NewHTTPClient(*rpcEndpoint)

	// A one-wallet in-memory pool: no rotation, no persistence.
	store := memory.NewWalletStore()
	if err := store.Insert(ctx, &domain.WalletRecord{
		Address:   kp.Address(),
		SecretKey: kp.SecretBase58(),
	}); err != nil {
		logger.Fatalf("Seed wallet: %v", err)
	}

	pool := wallet.NewPool(store, rpc, wallet.Config{
		MaxLaunchesPerWallet: 1,
		MinOperableSOL:       0,
	}, logger)

	meta := launcher.NewMetadataGenerator(launcher.MetadataOptions{
		FixedName:   *tokenName,
		FixedSymbol: *tokenSymbol,
		Description: *tokenDescription,
		Image:       image,
		ImageName:   "token.png",
	})

	coordinator := launcher.NewCoordinator(pool, platform.NewClient(), rpc, meta, launcher.Config{
		DevBuySOL:       *devBuySOL,
		SlippagePercent: *slippage,
		PriorityFeeSOL:  *priorityFeeSOL,
	}, logger)

	record := coordinator.Launch(ctx, "manual", 0)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(record)

	if !record.Success {
		os.Exit(1)
	}
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
