package memory

import (
	"context"
	"errors"
	"testing"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

func testToken(mint, creator string, network domain.Network, createdAt int64) *domain.TokenRecord {
	desc := "a test token"
	return &domain.TokenRecord{
		ID:                "id-" + mint,
		MintAddress:       mint,
		CreatorWallet:     creator,
		Name:              "Test Token",
		Symbol:            "TEST",
		Decimals:          9,
		InitialSupply:     "1000000",
		Plan:              domain.PlanBasic,
		MetadataURI:       "https://example.com/meta.json",
		Description:       &desc,
		IsMetadataMutable: false,
		Network:           network,
		FeeLamports:       100_000_000,
		CreationSignature: "sig-" + mint,
		CreatedAt:         createdAt,
	}
}

func TestTokenStore_InsertAndGetByMint(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	tok := testToken("mint1", "creator1", domain.NetworkDevnet, 1704067200000)
	if err := store.Insert(ctx, tok); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	result, err := store.GetByMint(ctx, "mint1")
	if err != nil {
		t.Fatalf("GetByMint failed: %v", err)
	}

	if result.Symbol != "TEST" {
		t.Errorf("Symbol mismatch: got %s, want TEST", result.Symbol)
	}
	if result.Description == nil || *result.Description != "a test token" {
		t.Errorf("Description mismatch: got %v", result.Description)
	}

	// Returned records are copies.
	*result.Description = "changed"
	again, _ := store.GetByMint(ctx, "mint1")
	if *again.Description != "a test token" {
		t.Errorf("store was mutated through returned copy")
	}
}

func TestTokenStore_Duplicate(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	tok := testToken("mint1", "creator1", domain.NetworkDevnet, 1)
	if err := store.Insert(ctx, tok); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	err := store.Insert(ctx, tok)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestTokenStore_InvalidInput(t *testing.T) {
	store := NewTokenStore()

	if err := store.Insert(context.Background(), nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(context.Background(), &domain.TokenRecord{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty mint, got %v", err)
	}
}

func TestTokenStore_NotFound(t *testing.T) {
	store := NewTokenStore()

	_, err := store.GetByMint(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTokenStore_ListByCreator(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	tokens := []*domain.TokenRecord{
		testToken("mintA", "creator1", domain.NetworkDevnet, 100),
		testToken("mintB", "creator1", domain.NetworkDevnet, 300),
		testToken("mintC", "creator1", domain.NetworkMainnet, 200),
		testToken("mintD", "creator2", domain.NetworkDevnet, 400),
	}
	for _, tok := range tokens {
		if err := store.Insert(ctx, tok); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	devnet, err := store.ListByCreator(ctx, "creator1", domain.NetworkDevnet)
	if err != nil {
		t.Fatalf("ListByCreator failed: %v", err)
	}
	if len(devnet) != 2 {
		t.Fatalf("expected 2 devnet tokens, got %d", len(devnet))
	}
	if devnet[0].MintAddress != "mintB" || devnet[1].MintAddress != "mintA" {
		t.Errorf("expected newest first, got %s, %s", devnet[0].MintAddress, devnet[1].MintAddress)
	}

	all, err := store.ListByCreator(ctx, "creator1", "")
	if err != nil {
		t.Fatalf("ListByCreator failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 tokens across networks, got %d", len(all))
	}

	none, _ := store.ListByCreator(ctx, "nobody", "")
	if len(none) != 0 {
		t.Errorf("expected no tokens, got %d", len(none))
	}
}
