package solana

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/blocto/solana-go-sdk/common"
	"github.com/mr-tron/base58"
)

// Well-known program IDs.
var (
	SystemProgramID          = common.SystemProgramID
	TokenProgramID           = common.TokenProgramID
	AssociatedTokenProgramID = common.SPLAssociatedTokenAccountProgramID
	TokenMetadataProgramID   = common.MetaplexTokenMetaProgramID
)

const (
	// MintAccountSize is the size of an SPL token mint account.
	MintAccountSize = 82
	// TokenAccountSize is the size of an SPL token account.
	TokenAccountSize = 165

	pdaMarker   = "ProgramDerivedAddress"
	maxSeedSize = 32
)

var (
	// ErrInvalidAddress is returned for strings that are not 32-byte base58 keys.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNoViableBump is returned when no bump seed yields an off-curve address.
	ErrNoViableBump = errors.New("unable to find a viable program address bump seed")
)

// ParsePublicKey decodes a base58 address and checks its length.
func ParsePublicKey(s string) (common.PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.PublicKey{}, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	b, err := base58.Decode(s)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, s, err)
	}
	if len(b) != common.PublicKeyLength {
		return common.PublicKey{}, fmt.Errorf("%w: %q decodes to %d bytes", ErrInvalidAddress, s, len(b))
	}
	return common.PublicKeyFromBytes(b), nil
}

// FindProgramAddress derives a Program Derived Address.
// For bump in 255..0: sha256(seeds || bump || programID || "ProgramDerivedAddress"),
// the first hash that is not a valid ed25519 point wins.
func FindProgramAddress(seeds [][]byte, programID common.PublicKey) (common.PublicKey, uint8, error) {
	for _, seed := range seeds {
		if len(seed) > maxSeedSize {
			return common.PublicKey{}, 0, fmt.Errorf("seed exceeds %d bytes", maxSeedSize)
		}
	}

	for bump := 255; bump >= 0; bump-- {
		h := sha256.New()
		for _, seed := range seeds {
			h.Write(seed)
		}
		h.Write([]byte{byte(bump)})
		h.Write(programID.Bytes())
		h.Write([]byte(pdaMarker))
		sum := h.Sum(nil)

		if !isOnCurve(sum) {
			return common.PublicKeyFromBytes(sum), uint8(bump), nil
		}
	}

	return common.PublicKey{}, 0, ErrNoViableBump
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}

// AssociatedTokenAddress derives the associated token account for (owner, mint).
// Seeds: [owner, token_program_id, mint]
func AssociatedTokenAddress(owner, mint common.PublicKey) (common.PublicKey, error) {
	addr, _, err := FindProgramAddress(
		[][]byte{owner.Bytes(), TokenProgramID.Bytes(), mint.Bytes()},
		AssociatedTokenProgramID,
	)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("derive associated token address: %w", err)
	}
	return addr, nil
}

// MetadataAddress derives the Metaplex metadata record for a mint.
// Seeds: ["metadata", metaplex_program_id, mint]
func MetadataAddress(mint common.PublicKey) (common.PublicKey, error) {
	addr, _, err := FindProgramAddress(
		[][]byte{[]byte("metadata"), TokenMetadataProgramID.Bytes(), mint.Bytes()},
		TokenMetadataProgramID,
	)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("derive metadata address: %w", err)
	}
	return addr, nil
}

// ShortAddress abbreviates an address or signature for log lines.
func ShortAddress(s string) string {
	t := strings.TrimSpace(s)
	if len(t) <= 10 {
		return t
	}
	return t[:4] + "..." + t[len(t)-4:]
}
