// Package amount converts display amounts into token base units without
// floating point.
package amount

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount is returned for strings that are not plain
	// non-negative decimal numbers.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrTooPrecise is returned when an amount has more fractional digits
	// than the token's decimals allow.
	ErrTooPrecise = errors.New("amount has more fractional digits than decimals")

	// ErrOverflow is returned when a base-unit amount does not fit in u64.
	ErrOverflow = errors.New("amount exceeds u64 range")
)

var (
	wholePattern   = regexp.MustCompile(`^\d+$`)
	displayPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// WholeToBaseUnits converts a whole-unit string (^\d+$) to base units:
// whole × 10^decimals.
func WholeToBaseUnits(whole string, decimals uint8) (*big.Int, error) {
	if !wholePattern.MatchString(whole) {
		return nil, fmt.Errorf("%w: %q is not a whole number", ErrInvalidAmount, whole)
	}
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, whole)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return n.Mul(n, scale), nil
}

// ToBaseUnits converts a display amount such as "12.5" to base units.
// Fractional digits beyond decimals are rejected, never rounded.
func ToBaseUnits(display string, decimals uint8) (*big.Int, error) {
	if !displayPattern.MatchString(display) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, display)
	}
	d, err := decimal.NewFromString(display)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	shifted := d.Shift(int32(decimals))
	if !shifted.IsInteger() {
		return nil, fmt.Errorf("%w: %q with %d decimals", ErrTooPrecise, display, decimals)
	}
	return shifted.BigInt(), nil
}

// Uint64 narrows a base-unit amount to the token program's u64.
func Uint64(v *big.Int) (uint64, error) {
	if v == nil || v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("%w: %s", ErrOverflow, v)
	}
	return v.Uint64(), nil
}

// FromBaseUnits renders base units as a display string.
func FromBaseUnits(base uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(base), -int32(decimals)).String()
}
