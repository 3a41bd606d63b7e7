package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

func newTestTransaction(sig, mint string, kind domain.OperationKind, createdAt int64) *domain.TransactionRecord {
	return &domain.TransactionRecord{
		ID:         "id-" + sig,
		Signature:  sig,
		TokenMint:  mint,
		UserWallet: "Wallet1",
		Type:       kind,
		Network:    domain.NetworkDevnet,
		Details:    map[string]string{"name": "Test Token", "symbol": "TEST", "supply": "1000000"},
		CreatedAt:  createdAt,
	}
}

func TestTransactionStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTransactionStore(pool)

	tx := newTestTransaction("Sig1", "Mint1", domain.OperationCreate, 1700000000000)
	require.NoError(t, store.Insert(ctx, tx))

	retrieved, err := store.GetBySignature(ctx, "Sig1")
	require.NoError(t, err)
	assert.Equal(t, tx, retrieved)
}

func TestTransactionStore_NilDetails(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTransactionStore(pool)

	tx := newTestTransaction("Sig1", "Mint1", domain.OperationFreeze, 1)
	tx.Details = nil
	require.NoError(t, store.Insert(ctx, tx))

	retrieved, err := store.GetBySignature(ctx, "Sig1")
	require.NoError(t, err)
	assert.Nil(t, retrieved.Details)
}

func TestTransactionStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTransactionStore(pool)

	tx := newTestTransaction("Sig1", "Mint1", domain.OperationMint, 1)
	require.NoError(t, store.Insert(ctx, tx))

	dup := newTestTransaction("Sig1", "Mint1", domain.OperationMint, 2)
	dup.ID = "other-id"
	assert.ErrorIs(t, store.Insert(ctx, dup), storage.ErrDuplicateKey)
}

func TestTransactionStore_ListByMint(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTransactionStore(pool)

	require.NoError(t, store.Insert(ctx, newTestTransaction("Sig1", "Mint1", domain.OperationCreate, 100)))
	require.NoError(t, store.Insert(ctx, newTestTransaction("Sig2", "Mint1", domain.OperationMint, 200)))
	require.NoError(t, store.Insert(ctx, newTestTransaction("Sig3", "Mint1", domain.OperationBurn, 300)))
	require.NoError(t, store.Insert(ctx, newTestTransaction("Sig4", "Mint2", domain.OperationCreate, 400)))

	all, err := store.ListByMint(ctx, "Mint1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Sig3", all[0].Signature)
	assert.Equal(t, "Sig1", all[2].Signature)

	limited, err := store.ListByMint(ctx, "Mint1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, domain.OperationBurn, limited[0].Type)
}

func TestTransactionStore_GetBySignature_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := NewTransactionStore(pool).GetBySignature(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
