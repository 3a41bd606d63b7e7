package registry

import (
	"context"
	"fmt"

	"solana-token-forge/internal/storage"
	chstore "solana-token-forge/internal/storage/clickhouse"
	"solana-token-forge/internal/storage/memory"
	"solana-token-forge/internal/storage/migrations"
	pgstore "solana-token-forge/internal/storage/postgres"
)

// StoreConfig selects the registry backends.
type StoreConfig struct {
	PostgresDSN   string
	ClickhouseDSN string // optional analytics mirror
	UseMemory     bool
	Migrate       bool
}

// Stores holds all registry stores.
type Stores struct {
	Tokens       storage.TokenStore
	Transactions storage.TransactionStore
	Events       storage.TransactionEventStore // nil when no ClickHouse is configured
	Fees         storage.FeeConfigStore
}

// OpenStores connects the configured backends. The returned cleanup
// closes every connection and must be called once.
func OpenStores(ctx context.Context, cfg StoreConfig) (*Stores, func(), error) {
	if cfg.UseMemory {
		txs := memory.NewTransactionStore()
		return &Stores{
			Tokens:       memory.NewTokenStore(),
			Transactions: txs,
			Events:       txs,
			Fees:         memory.NewFeeConfigStore(),
		}, func() {}, nil
	}

	if cfg.PostgresDSN == "" {
		return nil, nil, fmt.Errorf("postgres dsn is required (use memory storage otherwise)")
	}

	pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if cfg.Migrate {
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}

	stores := &Stores{
		Tokens:       pgstore.NewTokenStore(pool),
		Transactions: pgstore.NewTransactionStore(pool),
		Fees:         pgstore.NewFeeConfigStore(pool),
	}
	cleanup := func() { pool.Close() }

	if cfg.ClickhouseDSN == "" {
		return stores, cleanup, nil
	}

	var chConn *chstore.Conn
	if cfg.Migrate {
		chConn, err = migrations.RunClickhouseMigrations(ctx, cfg.ClickhouseDSN)
	} else {
		chConn, err = chstore.NewConn(ctx, cfg.ClickhouseDSN)
	}
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
	}

	stores.Events = chstore.NewTransactionEventStore(chConn)
	cleanup = func() {
		chConn.Close()
		pool.Close()
	}
	return stores, cleanup, nil
}
