package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

const tokenColumns = `
	id, mint_address, creator_wallet, name, symbol, decimals, initial_supply::text,
	description, metadata_uri, plan, network, creation_signature, fee_lamports,
	is_metadata_mutable, created_at
`

// Insert adds a created token. Returns ErrDuplicateKey if mint_address exists.
func (s *TokenStore) Insert(ctx context.Context, t *domain.TokenRecord) (err error) {
	if t == nil || t.MintAddress == "" {
		return storage.ErrInvalidInput
	}
	defer observe("tokens.insert", &err)()

	query := `
		INSERT INTO tokens (
			id, mint_address, creator_wallet, name, symbol, decimals, initial_supply,
			description, metadata_uri, plan, network, creation_signature, fee_lamports,
			is_metadata_mutable, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = s.pool.Exec(ctx, query,
		t.ID,
		t.MintAddress,
		t.CreatorWallet,
		t.Name,
		t.Symbol,
		t.Decimals,
		t.InitialSupply,
		t.Description,
		t.MetadataURI,
		string(t.Plan),
		string(t.Network),
		t.CreationSignature,
		int64(t.FeeLamports),
		t.IsMetadataMutable,
		t.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// GetByMint retrieves a token by mint address. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByMint(ctx context.Context, mint string) (_ *domain.TokenRecord, err error) {
	defer observe("tokens.get_by_mint", &err)()

	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE mint_address = $1`

	t, err := scanToken(s.pool.QueryRow(ctx, query, mint))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token by mint: %w", err)
	}
	return t, nil
}

// ListByCreator retrieves tokens created by a wallet, newest first.
func (s *TokenStore) ListByCreator(ctx context.Context, creator string, network domain.Network) (_ []*domain.TokenRecord, err error) {
	defer observe("tokens.list_by_creator", &err)()

	query := `
		SELECT ` + tokenColumns + `
		FROM tokens
		WHERE creator_wallet = $1 AND ($2 = '' OR network = $2)
		ORDER BY created_at DESC, mint_address ASC
	`

	rows, err := s.pool.Query(ctx, query, creator, string(network))
	if err != nil {
		return nil, fmt.Errorf("query tokens by creator: %w", err)
	}
	defer rows.Close()

	var result []*domain.TokenRecord
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token row: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token rows: %w", err)
	}
	return result, nil
}

// scanToken scans a single row into TokenRecord.
func scanToken(row pgx.Row) (*domain.TokenRecord, error) {
	var (
		t           domain.TokenRecord
		plan, net   string
		feeLamports int64
	)

	err := row.Scan(
		&t.ID,
		&t.MintAddress,
		&t.CreatorWallet,
		&t.Name,
		&t.Symbol,
		&t.Decimals,
		&t.InitialSupply,
		&t.Description,
		&t.MetadataURI,
		&plan,
		&net,
		&t.CreationSignature,
		&feeLamports,
		&t.IsMetadataMutable,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.Plan = domain.Plan(plan)
	t.Network = domain.Network(net)
	t.FeeLamports = uint64(feeLamports)
	return &t, nil
}
