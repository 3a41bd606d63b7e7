package amount

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWholeToBaseUnits(t *testing.T) {
	got, err := WholeToBaseUnits("1000000000", 9)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", got.String())

	got, err = WholeToBaseUnits("1000", 0)
	require.NoError(t, err)
	assert.Equal(t, "1000", got.String())

	// Beyond float64's exact integer range.
	got, err = WholeToBaseUnits("123456789012345678901", 9)
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901000000000", got.String())

	for _, bad := range []string{"", "1.5", "-1", "1e9", " 1"} {
		_, err := WholeToBaseUnits(bad, 9)
		assert.True(t, errors.Is(err, ErrInvalidAmount), "input %q", bad)
	}
}

func TestToBaseUnits(t *testing.T) {
	got, err := ToBaseUnits("12.5", 6)
	require.NoError(t, err)
	assert.Equal(t, "12500000", got.String())

	got, err = ToBaseUnits("0.000000001", 9)
	require.NoError(t, err)
	assert.Equal(t, "1", got.String())

	_, err = ToBaseUnits("0.0000000001", 9)
	assert.ErrorIs(t, err, ErrTooPrecise)

	_, err = ToBaseUnits("abc", 9)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestUint64(t *testing.T) {
	v, err := WholeToBaseUnits("18446744073709551615", 0)
	require.NoError(t, err)
	n, err := Uint64(v)
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), n)

	v, err = WholeToBaseUnits("18446744073709551616", 0)
	require.NoError(t, err)
	_, err = Uint64(v)
	assert.ErrorIs(t, err, ErrOverflow)

	// 1e9 tokens at 9 decimals is 1e18, still inside u64.
	v, err = WholeToBaseUnits("1000000000", 9)
	require.NoError(t, err)
	n, err = Uint64(v)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000000000000000000), n)
}

func TestFromBaseUnits(t *testing.T) {
	assert.Equal(t, "12.5", FromBaseUnits(12500000, 6))
	assert.Equal(t, "1000", FromBaseUnits(1000, 0))
}
