// Package main runs the buy-trigger monitor: it watches a target mint
// over WebSocket and polling, evaluates every observed buy against the
// trigger filter, and launches a new token for each approved trigger.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"solana-launch-trigger/internal/domain"
	"solana-launch-trigger/internal/ingestion"
	"solana-launch-trigger/internal/launcher"
	"solana-launch-trigger/internal/monitor"
	"solana-launch-trigger/internal/observability"
	"solana-launch-trigger/internal/platform"
	"solana-launch-trigger/internal/solana"
	"solana-launch-trigger/internal/storage"
	chstore "solana-launch-trigger/internal/storage/clickhouse"
	"solana-launch-trigger/internal/storage/memory"
	"solana-launch-trigger/internal/storage/migrations"
	pgstore "solana-launch-trigger/internal/storage/postgres"
	"solana-launch-trigger/internal/trigger"
	"solana-launch-trigger/internal/wallet"
)

// allStores holds the storage implementations picked at startup.
type allStores struct {
	walletStore   storage.WalletStore
	launchStore   storage.LaunchStore
	decisionStore *chstore.DecisionLogStore // nil without ClickHouse
}

func main() {
	loadEnvFile()

	// Parse flags (env vars as defaults)
	rpcEndpoint := flag.String("rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint")
	wsEndpoint := flag.String("ws-endpoint", os.Getenv("SOLANA_WS_ENDPOINT"), "Solana WebSocket endpoint")
	targetMint := flag.String("target-mint", os.Getenv("TARGET_MINT"), "Token mint address to watch for buys")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string (decision archive)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")

	minBuySOL := flag.Float64("min-buy-sol", 0.1, "Minimum buy size in SOL that fires a launch")
	cooldown := flag.Duration("cooldown", 30*time.Second, "Minimum time between launches")
	pollInterval := flag.Duration("poll-interval", 5*time.Second, "Signature polling interval")

	maxLaunches := flag.Int("max-launches-per-wallet", 3, "Launches per wallet before it is retired")
	minOperableSOL := flag.Float64("min-operable-sol", 0.05, "Minimum wallet balance to be handed out")
	masterKey := flag.String("master-key", os.Getenv("MASTER_WALLET_KEY"), "Base58 master wallet secret (enables funded replenishment)")
	fundAmountSOL := flag.Float64("fund-amount-sol", 0.5, "SOL transferred to each newly provisioned wallet")
	masterReserveSOL := flag.Float64("master-reserve-sol", 1.0, "SOL that must remain on the master wallet")

	devBuySOL := flag.Float64("dev-buy-sol", 0.1, "Initial buy on each launched token")
	slippage := flag.Float64("slippage", 10, "Dev-buy slippage percent")
	priorityFeeSOL := flag.Float64("priority-fee-sol", 0.0005, "Priority fee per launch transaction")

	tokenName := flag.String("token-name", os.Getenv("TOKEN_NAME"), "Fixed token name (random if empty)")
	tokenSymbol := flag.String("token-symbol", os.Getenv("TOKEN_SYMBOL"), "Fixed token symbol (random if empty)")
	tokenDescription := flag.String("token-description", os.Getenv("TOKEN_DESCRIPTION"), "Token description")
	tokenImage := flag.String("token-image", os.Getenv("TOKEN_IMAGE"), "Path to token image file")

	httpAddr := flag.String("http-addr", ":8080", "HTTP address for health/metrics/status")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	if *rpcEndpoint == "" {
		logger.Fatal("--rpc-endpoint is required")
	}
	if *wsEndpoint == "" {
		logger.Fatal("--ws-endpoint is required")
	}
	if *targetMint == "" {
		logger.Fatal("--target-mint is required")
	}
	if !solana.IsValidAddress(*targetMint) {
		logger.Fatalf("--target-mint %q is not a valid address", *targetMint)
	}
	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())

	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Master wallet is optional: without it the pool runs in fixed mode
	// and exhaustion shows up as failed launches.
	var master *solana.Keypair
	if *masterKey != "" {
		master, err = solana.KeypairFromBase58(*masterKey)
		if err != nil {
			logger.Fatalf("Invalid --master-key: %v", err)
		}
		logger.Printf("Master wallet %s, funding %.4f SOL per wallet", master.Address(), *fundAmountSOL)
	} else {
		logger.Println("No master wallet configured, running with a fixed pool")
	}

	var image []byte
	if *tokenImage != "" {
		image, err = os.ReadFile(*tokenImage)
		if err != nil {
			logger.Fatalf("Failed to read --token-image: %v", err)
		}
	}

	rpc := solana.NewHTTPClient(*rpcEndpoint)

	ws, err := solana.NewWSClient(ctx, *wsEndpoint, &solana.WSClientConfig{
		OnReconnect: observability.RecordWSReconnect,
	})
	if err != nil {
		logger.Fatalf("Failed to connect WebSocket: %v", err)
	}
	defer ws.Close()

	pool := wallet.NewPool(stores.walletStore, rpc, wallet.Config{
		MaxLaunchesPerWallet: *maxLaunches,
		MinOperableSOL:       *minOperableSOL,
		Master:               master,
		FundAmountSOL:        *fundAmountSOL,
		MasterReserveSOL:     *masterReserveSOL,
	}, logger)

	meta := launcher.NewMetadataGenerator(launcher.MetadataOptions{
		FixedName:   *tokenName,
		FixedSymbol: *tokenSymbol,
		Description: *tokenDescription,
		Twitter:     os.Getenv("TOKEN_TWITTER"),
		Telegram:    os.Getenv("TOKEN_TELEGRAM"),
		Website:     os.Getenv("TOKEN_WEBSITE"),
		Image:       image,
		ImageName:   "token.png",
	})

	coordinator := launcher.NewCoordinator(pool, platform.NewClient(), rpc, meta, launcher.Config{
		DevBuySOL:       *devBuySOL,
		SlippagePercent: *slippage,
		PriorityFeeSOL:  *priorityFeeSOL,
	}, logger)

	// Typed nil must not reach the interface field or the monitor's
	// nil check stops working.
	var decisionLog storage.DecisionLogStore
	if stores.decisionStore != nil {
		decisionLog = stores.decisionStore
	}

	mon := monitor.New(monitor.Options{
		TargetMint:  *targetMint,
		Filter:      trigger.NewFilter(*minBuySOL, *cooldown),
		Coordinator: coordinator,
		Pool:        pool,
		Sources: []ingestion.EventSource{
			ingestion.NewWSEventSource(ws, rpc, *targetMint, logger),
			ingestion.NewPollEventSource(rpc, *targetMint, *pollInterval, logger),
		},
		Launches:  stores.launchStore,
		Decisions: decisionLog,
		Logger:    logger,
	})

	done := make(chan error, 1)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
		}
	}()

	go startHTTPServer(*httpAddr, mon, stores.decisionStore, logger)

	logger.Printf("Watching %s (threshold %.4f SOL, cooldown %v)", *targetMint, *minBuySOL, *cooldown)

	err = mon.Run(ctx)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Monitor error: %v", err)
	}
	logger.Println("Shutdown complete")
}

// createStores creates the storage implementations and runs migrations.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool, logger *log.Logger) (*allStores, func(), error) {
	if useMemory {
		return &allStores{
			walletStore: memory.NewWalletStore(),
			launchStore: memory.NewLaunchStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres migrations: %w", err)
	}

	stores := &allStores{
		walletStore: pgstore.NewWalletStore(pool),
		launchStore: pgstore.NewLaunchStore(pool),
	}
	cleanup := func() { pool.Close() }

	// The decision archive is optional analytics; the monitor runs
	// without it.
	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("clickhouse migrations: %w", err)
		}
		stores.decisionStore = chstore.NewDecisionLogStore(conn)
		cleanup = func() {
			conn.Close()
			pool.Close()
		}
	} else {
		logger.Println("No ClickHouse DSN, decision archive disabled")
	}

	return stores, cleanup, nil
}

// startHTTPServer serves health, metrics and status endpoints.
func startHTTPServer(addr string, mon *monitor.Monitor, decisions *chstore.DecisionLogStore, logger *log.Logger) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
		status, err := mon.Status(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	})

	mux.HandleFunc("/launches", func(w http.ResponseWriter, r *http.Request) {
		history, err := mon.History(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(history)
	})

	if decisions != nil {
		mux.HandleFunc("/decisions", func(w http.ResponseWriter, r *http.Request) {
			outcome := r.URL.Query().Get("outcome")
			if outcome == "" {
				outcome = string(domain.DecisionApproved)
			}
			limit := 100
			if v := r.URL.Query().Get("limit"); v != "" {
				n, err := strconv.Atoi(v)
				if err != nil || n <= 0 {
					http.Error(w, "invalid limit", http.StatusBadRequest)
					return
				}
				limit = n
			}

			records, err := decisions.GetByOutcome(r.Context(), domain.Decision(outcome), limit)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(records)
		})
	}

	logger.Printf("Starting HTTP server on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
		logger.Printf("HTTP server error: %v", err)
	}
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
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

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
