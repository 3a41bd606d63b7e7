// Package fee holds the service fee schedule charged per created token.
package fee

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"solana-token-forge/internal/domain"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

var (
	// ErrNonPositiveFee is returned when a plan's fee is zero or negative.
	ErrNonPositiveFee = errors.New("service fee must be positive")

	// ErrFractionalLamports is returned when a fee is not a whole number of lamports.
	ErrFractionalLamports = errors.New("service fee is not a whole number of lamports")
)

// Schedule maps plans to service fees in SOL.
type Schedule struct {
	Basic    decimal.Decimal
	Advanced decimal.Decimal
}

// DefaultSchedule returns the standard fees: 0.03 SOL basic, 0.05 SOL advanced.
func DefaultSchedule() Schedule {
	return Schedule{
		Basic:    decimal.RequireFromString("0.03"),
		Advanced: decimal.RequireFromString("0.05"),
	}
}

// For returns the fee in SOL for a plan.
func (s Schedule) For(p domain.Plan) decimal.Decimal {
	if p == domain.PlanBasic {
		return s.Basic
	}
	return s.Advanced
}

// Lamports returns the fee for a plan in lamports.
func (s Schedule) Lamports(p domain.Plan) (uint64, error) {
	sol := s.For(p)
	if !sol.IsPositive() {
		return 0, fmt.Errorf("%w: plan %s", ErrNonPositiveFee, p)
	}
	lamports := sol.Shift(9)
	if !lamports.IsInteger() {
		return 0, fmt.Errorf("%w: %s SOL", ErrFractionalLamports, sol)
	}
	return lamports.BigInt().Uint64(), nil
}

// Validate checks that every plan has a positive whole-lamport fee.
func (s Schedule) Validate() error {
	for _, p := range []domain.Plan{domain.PlanBasic, domain.PlanAdvanced} {
		if _, err := s.Lamports(p); err != nil {
			return err
		}
	}
	return nil
}
