package tx

import (
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/fee"
	"solana-token-forge/internal/solana"
)

// BuilderConfig is passed to every builder at construction.
type BuilderConfig struct {
	// FeeRecipient receives the service fee (base58).
	FeeRecipient string
	FeeSchedule  fee.Schedule
	// DecimalsLimit caps creation decimals; zero or values above
	// domain.MaxCreateDecimals mean domain.MaxCreateDecimals.
	DecimalsLimit int
}

// DefaultBuilderConfig returns a config with the standard fee schedule.
func DefaultBuilderConfig(feeRecipient string) BuilderConfig {
	return BuilderConfig{
		FeeRecipient:  feeRecipient,
		FeeSchedule:   fee.DefaultSchedule(),
		DecimalsLimit: domain.MaxCreateDecimals,
	}
}

// Validate fails with domain.ErrValidation when the fee recipient is missing
// or malformed, or the schedule has a non-positive fee.
func (c BuilderConfig) Validate() error {
	if strings.TrimSpace(c.FeeRecipient) == "" {
		return fmt.Errorf("%w: fee recipient is not configured", domain.ErrValidation)
	}
	if _, err := solana.ParsePublicKey(c.FeeRecipient); err != nil {
		return fmt.Errorf("%w: fee recipient: %w", domain.ErrValidation, err)
	}
	if err := c.FeeSchedule.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	return nil
}

// Recipient returns the parsed fee recipient. Call Validate first.
func (c BuilderConfig) Recipient() common.PublicKey {
	key, _ := solana.ParsePublicKey(c.FeeRecipient)
	return key
}

// CreateDecimalsLimit returns the effective creation decimals ceiling.
func (c BuilderConfig) CreateDecimalsLimit() int {
	if c.DecimalsLimit <= 0 || c.DecimalsLimit > domain.MaxCreateDecimals {
		return domain.MaxCreateDecimals
	}
	return c.DecimalsLimit
}
