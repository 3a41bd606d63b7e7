package solana

import (
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/types"
)

func TestParsePublicKey(t *testing.T) {
	acc := types.NewAccount()

	got, err := ParsePublicKey(acc.PublicKey.ToBase58())
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if got != acc.PublicKey {
		t.Errorf("got %s, want %s", got.ToBase58(), acc.PublicKey.ToBase58())
	}

	for _, bad := range []string{"", "not-base58-0OIl", "3yZe7d"} {
		if _, err := ParsePublicKey(bad); !errors.Is(err, ErrInvalidAddress) {
			t.Errorf("ParsePublicKey(%q): expected ErrInvalidAddress, got %v", bad, err)
		}
	}
}

func TestAssociatedTokenAddress_MatchesSDK(t *testing.T) {
	for i := 0; i < 5; i++ {
		owner := types.NewAccount().PublicKey
		mint := types.NewAccount().PublicKey

		got, err := AssociatedTokenAddress(owner, mint)
		if err != nil {
			t.Fatalf("AssociatedTokenAddress: %v", err)
		}
		want, _, err := common.FindAssociatedTokenAddress(owner, mint)
		if err != nil {
			t.Fatalf("FindAssociatedTokenAddress: %v", err)
		}
		if got != want {
			t.Errorf("ATA mismatch: got %s, want %s", got.ToBase58(), want.ToBase58())
		}
	}
}

func TestMetadataAddress_MatchesSDK(t *testing.T) {
	mint := types.NewAccount().PublicKey

	got, err := MetadataAddress(mint)
	if err != nil {
		t.Fatalf("MetadataAddress: %v", err)
	}
	want, err := token_metadata.GetTokenMetaPubkey(mint)
	if err != nil {
		t.Fatalf("GetTokenMetaPubkey: %v", err)
	}
	if got != want {
		t.Errorf("metadata PDA mismatch: got %s, want %s", got.ToBase58(), want.ToBase58())
	}
}

func TestFindProgramAddress_OffCurve(t *testing.T) {
	mint := types.NewAccount().PublicKey
	addr, _, err := FindProgramAddress([][]byte{[]byte("metadata"), mint.Bytes()}, TokenMetadataProgramID)
	if err != nil {
		t.Fatalf("FindProgramAddress: %v", err)
	}
	if isOnCurve(addr.Bytes()) {
		t.Error("derived address must be off the ed25519 curve")
	}

	long := make([]byte, 33)
	if _, _, err := FindProgramAddress([][]byte{long}, TokenMetadataProgramID); err == nil {
		t.Error("expected error for oversized seed")
	}
}

func TestShortAddress(t *testing.T) {
	if got := ShortAddress("So11111111111111111111111111111111111111112"); got != "So11...1112" {
		t.Errorf("ShortAddress = %s", got)
	}
	if got := ShortAddress("short"); got != "short" {
		t.Errorf("ShortAddress = %s", got)
	}
}
