package registry

import (
	"context"
	"errors"
	"fmt"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/fee"
	"solana-token-forge/internal/storage"
	"solana-token-forge/internal/tx"
)

// BuilderConfig overlays the active fee config for a network onto base.
// When no config is active, base is returned unchanged.
func BuilderConfig(ctx context.Context, store storage.FeeConfigStore, network domain.Network, base tx.BuilderConfig) (tx.BuilderConfig, error) {
	active, err := store.GetActive(ctx, network)
	if errors.Is(err, storage.ErrNotFound) {
		return base, nil
	}
	if err != nil {
		return base, fmt.Errorf("load fee config for %s: %w", network, err)
	}

	cfg := base
	cfg.FeeRecipient = active.FeeWallet
	cfg.FeeSchedule = fee.Schedule{
		Basic:    active.BasicFeeSOL,
		Advanced: active.AdvancedFeeSOL,
	}
	if err := cfg.Validate(); err != nil {
		return base, fmt.Errorf("fee config %s: %w", active.ID, err)
	}
	return cfg, nil
}
