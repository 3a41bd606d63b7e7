package storage

import (
	"context"

	"solana-token-forge/internal/domain"
)

// TokenStore provides access to tokens storage.
type TokenStore interface {
	// Insert adds a created token. Returns ErrDuplicateKey if mint_address exists.
	Insert(ctx context.Context, t *domain.TokenRecord) error

	// GetByMint retrieves a token by mint address. Returns ErrNotFound if not exists.
	GetByMint(ctx context.Context, mint string) (*domain.TokenRecord, error)

	// ListByCreator retrieves tokens created by a wallet on a network,
	// newest first. An empty network matches every network.
	ListByCreator(ctx context.Context, creator string, network domain.Network) ([]*domain.TokenRecord, error)
}

// TransactionStore provides access to token_transactions storage.
type TransactionStore interface {
	// Insert adds a transaction. Returns ErrDuplicateKey if signature exists.
	Insert(ctx context.Context, t *domain.TransactionRecord) error

	// GetBySignature retrieves a transaction. Returns ErrNotFound if not exists.
	GetBySignature(ctx context.Context, signature string) (*domain.TransactionRecord, error)

	// ListByMint retrieves transactions for a mint, newest first.
	// limit <= 0 means no limit.
	ListByMint(ctx context.Context, mint string, limit int) ([]*domain.TransactionRecord, error)
}

// TransactionEventStore is the analytics log of token transactions.
type TransactionEventStore interface {
	// Insert appends one event. Returns ErrDuplicateKey if signature exists.
	Insert(ctx context.Context, t *domain.TransactionRecord) error

	// CountByType counts events per operation kind on a network.
	CountByType(ctx context.Context, network domain.Network) (map[domain.OperationKind]uint64, error)
}

// FeeConfigStore provides access to fee_config storage.
type FeeConfigStore interface {
	// Insert adds a fee config. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, c *domain.FeeConfig) error

	// GetActive retrieves the newest active config for a network.
	// Returns ErrNotFound if none is active.
	GetActive(ctx context.Context, network domain.Network) (*domain.FeeConfig, error)
}
