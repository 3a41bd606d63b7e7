package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// FeeConfigStore implements storage.FeeConfigStore using PostgreSQL.
type FeeConfigStore struct {
	pool *Pool
}

// NewFeeConfigStore creates a new FeeConfigStore.
func NewFeeConfigStore(pool *Pool) *FeeConfigStore {
	return &FeeConfigStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FeeConfigStore = (*FeeConfigStore)(nil)

// Insert adds a fee config. Returns ErrDuplicateKey if id exists.
func (s *FeeConfigStore) Insert(ctx context.Context, c *domain.FeeConfig) (err error) {
	if c == nil || c.ID == "" || c.Network == "" {
		return storage.ErrInvalidInput
	}
	defer observe("fee_config.insert", &err)()

	query := `
		INSERT INTO fee_config (
			id, network, fee_wallet, basic_fee_sol, advanced_fee_sol, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6, $7, $8)
	`

	_, err = s.pool.Exec(ctx, query,
		c.ID,
		string(c.Network),
		c.FeeWallet,
		c.BasicFeeSOL.String(),
		c.AdvancedFeeSOL.String(),
		c.IsActive,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert fee config: %w", err)
	}
	return nil
}

// GetActive retrieves the newest active config for a network.
func (s *FeeConfigStore) GetActive(ctx context.Context, network domain.Network) (_ *domain.FeeConfig, err error) {
	defer observe("fee_config.get_active", &err)()

	query := `
		SELECT id, network, fee_wallet, basic_fee_sol::text, advanced_fee_sol::text,
			is_active, created_at, updated_at
		FROM fee_config
		WHERE network = $1 AND is_active
		ORDER BY updated_at DESC, id DESC
		LIMIT 1
	`

	var (
		c               domain.FeeConfig
		net             string
		basic, advanced string
	)
	err = s.pool.QueryRow(ctx, query, string(network)).Scan(
		&c.ID, &net, &c.FeeWallet, &basic, &advanced,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get active fee config: %w", err)
	}

	c.Network = domain.Network(net)
	if c.BasicFeeSOL, err = decimal.NewFromString(basic); err != nil {
		return nil, fmt.Errorf("parse basic fee: %w", err)
	}
	if c.AdvancedFeeSOL, err = decimal.NewFromString(advanced); err != nil {
		return nil, fmt.Errorf("parse advanced fee: %w", err)
	}
	return &c, nil
}
