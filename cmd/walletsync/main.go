package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"cardano-wallet-sync/internal/chain"
	"cardano-wallet-sync/internal/chain/stub"
	"cardano-wallet-sync/internal/parser"
	"cardano-wallet-sync/internal/registry"
	"cardano-wallet-sync/internal/storage"
	chstore "cardano-wallet-sync/internal/storage/clickhouse"
	"cardano-wallet-sync/internal/storage/memory"
	"cardano-wallet-sync/internal/storage/migrations"
	pgstore "cardano-wallet-sync/internal/storage/postgres"
	redisstore "cardano-wallet-sync/internal/storage/redis"
	walletsync "cardano-wallet-sync/internal/sync"
	"cardano-wallet-sync/internal/wallet"
)

func main() {
	// .env is optional; real deployments pass flags or environment.
	_ = godotenv.Load()

	mode := flag.String("mode", "sync", "Run mode: sync (backfill), live (tip follower), or demo (fixtures)")
	walletAddr := flag.String("wallet", os.Getenv("WALLET_ADDRESS"), "Wallet address to sync")
	apiURL := flag.String("api-url", os.Getenv("CHAIN_API_URL"), "Indexer REST base URL")
	projectID := flag.String("project-id", os.Getenv("CHAIN_PROJECT_ID"), "Indexer API key")
	wsEndpoint := flag.String("ws-endpoint", os.Getenv("CHAIN_WS_ENDPOINT"), "Tip-feed websocket endpoint (live mode)")
	registryURL := flag.String("registry-url", os.Getenv("TOKEN_REGISTRY_URL"), "Token metadata registry base URL (empty for offline resolution)")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	redisAddr := flag.String("redis-addr", os.Getenv("REDIS_ADDR"), "Redis address for the shared token cache tier (optional)")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse DSN for the analytics mirror (optional)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	cacheSize := flag.Int("cache-size", registry.DefaultCacheSize, "Token LRU cache size")
	flag.Parse()

	logger := log.New(os.Stdout, "[walletsync] ", log.LstdFlags)

	if *walletAddr == "" {
		logger.Fatal("--wallet is required")
	}
	if !wallet.IsValidAddress(*walletAddr) {
		logger.Fatalf("invalid wallet address: %s", *walletAddr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("received %v, shutting down", sig)
		cancel()
	}()

	if err := run(ctx, logger, *mode, *walletAddr, *apiURL, *projectID, *wsEndpoint, *registryURL, *postgresDSN, *redisAddr, *clickhouseDSN, *useMemory, *cacheSize); err != nil && err != context.Canceled {
		logger.Fatalf("error: %v", err)
	}
}

func run(ctx context.Context, logger *log.Logger, mode, walletAddr, apiURL, projectID, wsEndpoint, registryURL, postgresDSN, redisAddr, clickhouseDSN string, useMemory bool, cacheSize int) error {
	// Stores.
	var tokenStore storage.TokenStore = memory.NewTokenStore()
	var txStore storage.WalletTransactionStore = memory.NewWalletTransactionStore()

	if !useMemory && mode != "demo" {
		if postgresDSN == "" {
			return fmt.Errorf("--postgres-dsn is required (use --use-memory for in-memory storage)")
		}
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		tokenStore = pgstore.NewTokenStore(pool)
		txStore = pgstore.NewWalletTransactionStore(pool)
	}
	if redisAddr != "" {
		// Shared cache tier in front of whichever primary store is
		// active; the primary stays authoritative.
		redisStore := redisstore.NewTokenStore(redisAddr, os.Getenv("REDIS_PASSWORD"), 0, 24*time.Hour)
		defer redisStore.Close()
		tokenStore = storage.NewTieredTokenStore(redisStore, tokenStore)
	}

	// Token registry.
	var client registry.MetadataClient
	if registryURL != "" {
		client = registry.NewHTTPMetadataClient(registryURL)
	}
	reg, err := registry.New(registry.Options{
		CacheSize: cacheSize,
		Store:     tokenStore,
		Client:    client,
	})
	if err != nil {
		return fmt.Errorf("create registry: %w", err)
	}

	p, err := parser.New(parser.Options{Tokens: reg})
	if err != nil {
		return fmt.Errorf("create parser: %w", err)
	}

	// Optional analytics mirror.
	var history walletsync.HistorySink
	if clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
		if err != nil {
			return fmt.Errorf("connect to clickhouse: %w", err)
		}
		defer conn.Close()
		history = chstore.NewWalletHistoryStore(conn)
	}

	// Chain source.
	var source chain.Source
	switch mode {
	case "demo":
		source = stub.NewStubSource(stub.DemoTransactions(walletAddr), 25)
	case "sync", "live":
		if apiURL == "" {
			return fmt.Errorf("--api-url is required for %s mode", mode)
		}
		source = chain.NewHTTPSource(apiURL, chain.WithProjectID(projectID))
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}

	runner, err := walletsync.New(walletsync.Options{
		Source:  source,
		Parser:  p,
		Store:   txStore,
		History: history,
	})
	if err != nil {
		return fmt.Errorf("create runner: %w", err)
	}

	// Backfill first in every mode.
	logger.Printf("syncing wallet %s", walletAddr)
	result, err := runner.Run(ctx, walletAddr)
	if err != nil {
		return err
	}
	logger.Printf("sync complete: fetched=%d parsed=%d skipped=%d unknown=%d",
		result.Fetched, result.Parsed, result.Skipped, result.Unknown)

	printHistory(ctx, logger, txStore, walletAddr)

	if mode != "live" {
		return nil
	}

	// Follow the tip until cancelled.
	if wsEndpoint == "" {
		return fmt.Errorf("--ws-endpoint is required for live mode")
	}
	follower, err := chain.NewFollower(ctx, wsEndpoint, walletAddr, nil)
	if err != nil {
		return fmt.Errorf("connect tip follower: %w", err)
	}
	defer follower.Close()

	logger.Println("following live tip...")
	liveResult, err := runner.RunLive(ctx, walletAddr, follower.Transactions())
	logger.Printf("live session: fetched=%d parsed=%d skipped=%d unknown=%d",
		liveResult.Fetched, liveResult.Parsed, liveResult.Skipped, liveResult.Unknown)
	return err
}

// printHistory dumps the stored records, newest first.
func printHistory(ctx context.Context, logger *log.Logger, store storage.WalletTransactionStore, walletAddr string) {
	txs, err := store.GetByWallet(ctx, walletAddr)
	if err != nil {
		logger.Printf("load history: %v", err)
		return
	}
	for _, tx := range txs {
		logger.Printf("%s  %-20s %-8s netADA=%s  %s",
			time.Unix(tx.Timestamp, 0).UTC().Format("2006-01-02 15:04"),
			tx.Action, tx.Protocol, tx.NetADAChange, tx.Description)
	}
}
