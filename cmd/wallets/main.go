// Package main manages the persisted wallet pool: list wallets with
// live balances, generate and insert new wallets, or import existing
// keys.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/solana"
	"solana-launch-trigger/internal/storage"
	"solana-launch-trigger/internal/storage/migrations"
	pgstore "solana-launch-trigger/internal/storage/postgres"
	"solana-launch-trigger/internal/wallet"
)

func main() {
	loadEnvFile()

	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	generate := flag.Int("generate", 0, "Generate and insert this many new wallets")
	importKey := flag.String("import", "", "Import a wallet by base58 secret key")
	showSecrets := flag.Bool("show-secrets", false, "Print secret keys when listing")

	flag.Parse()

	logger := log.New(os.Stdout, "[wallets] ", log.LstdFlags)

	if *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, *postgresDSN)
	if err != nil {
		logger.Fatalf("Connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatalf("Postgres migrations: %v", err)
	}

	store := pgstore.NewWalletStore(pool)

	switch {
	case *generate > 0:
		generateWallets(ctx, store, *generate, logger)
	case *importKey != "":
		importWallet(ctx, store, *importKey, logger)
	default:
		listWallets(ctx, store, *rpcEndpoint, *showSecrets, logger)
	}
}

func generateWallets(ctx context.Context, store storage.WalletStore, n int, logger *log.Logger) {
	for i := 0; i < n; i++ {
		kp, err := solana.NewKeypair()
		if err != nil {
			logger.Fatalf("Generate keypair: %v", err)
		}

		if err := store.Insert(ctx, &domain.WalletRecord{
			Address:   kp.Address(),
			SecretKey: kp.SecretBase58(),
		}); err != nil {
			logger.Fatalf("Insert wallet %s: %v", kp.Address(), err)
		}
		fmt.Println(kp.Address())
	}
	logger.Printf("Generated %d wallets", n)
}

func importWallet(ctx context.Context, store storage.WalletStore, secret string, logger *log.Logger) {
	kp, err := solana.KeypairFromBase58(secret)
	if err != nil {
		logger.Fatalf("Invalid secret key: %v", err)
	}

	err = store.Insert(ctx, &domain.WalletRecord{
		Address:   kp.Address(),
		SecretKey: kp.SecretBase58(),
	})
	if errors.Is(err, storage.ErrDuplicateKey) {
		logger.Fatalf("Wallet %s already in the pool", kp.Address())
	}
	if err != nil {
		logger.Fatalf("Insert wallet: %v", err)
	}
	logger.Printf("Imported %s", kp.Address())
}

func listWallets(ctx context.Context, store storage.WalletStore, rpcEndpoint string, showSecrets bool, logger *log.Logger) {
	if rpcEndpoint == "" {
		logger.Fatal("--rpc-endpoint is required for listing balances")
	}

	rpc := solana.NewHTTPClient(rpcEndpoint)
	pool := wallet.NewPool(store, rpc, wallet.Config{}, logger)

	stats, err := pool.Stats(ctx)
	if err != nil {
		logger.Fatalf("Load wallet stats: %v", err)
	}

	if len(stats) == 0 {
		logger.Println("Pool is empty")
		return
	}

	for _, s := range stats {
		line := fmt.Sprintf("%s  balance=%.6f SOL  launches=%d", s.Address, s.BalanceSOL, s.LaunchCount)
		if showSecrets {
			w, err := store.GetByAddress(ctx, s.Address)
			if err == nil {
				line += "  secret=" + w.SecretKey
			}
		}
		fmt.Println(line)
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
