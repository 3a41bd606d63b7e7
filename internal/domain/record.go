package domain

import "github.com/shopspring/decimal"

// TokenRecord is a created token as kept in the registry.
// Corresponds to tokens table in PostgreSQL.
type TokenRecord struct {
	ID                string // uuid
	MintAddress       string // unique
	CreatorWallet     string
	Name              string
	Symbol            string
	Decimals          int
	InitialSupply     string // whole units
	Plan              Plan
	MetadataURI       string
	Description       *string // nullable
	IsMetadataMutable bool
	Network           Network
	FeeLamports       uint64
	CreationSignature string
	CreatedAt         int64 // ms
}

// TransactionRecord is one submitted token transaction.
// Corresponds to token_transactions table in PostgreSQL and
// token_transaction_events in ClickHouse.
type TransactionRecord struct {
	ID         string // uuid
	Signature  string // unique
	TokenMint  string
	UserWallet string
	Type       OperationKind
	Network    Network
	Details    map[string]string // nullable JSON object
	CreatedAt  int64             // ms
}

// FeeConfig is the active fee schedule for a network.
// Corresponds to fee_config table in PostgreSQL.
type FeeConfig struct {
	ID             string
	Network        Network
	FeeWallet      string
	BasicFeeSOL    decimal.Decimal
	AdvancedFeeSOL decimal.Decimal
	IsActive       bool
	CreatedAt      int64 // ms
	UpdatedAt      int64 // ms
}
