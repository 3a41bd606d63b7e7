package registry

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
	"solana-token-forge/internal/storage/memory"
)

var fixedNow = time.UnixMilli(1735689600000)

type failingEvents struct{}

func (failingEvents) Insert(context.Context, *domain.TransactionRecord) error {
	return fmt.Errorf("clickhouse down")
}

func (failingEvents) CountByType(context.Context, domain.Network) (map[domain.OperationKind]uint64, error) {
	return nil, nil
}

func newRecorder(t *testing.T, opts ...Option) (*Recorder, *memory.TokenStore, *memory.TransactionStore) {
	t.Helper()
	tokens := memory.NewTokenStore()
	txs := memory.NewTransactionStore()
	ids := 0
	r := New(tokens, txs, append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)...)
	r.newID = func() string {
		ids++
		return fmt.Sprintf("id-%d", ids)
	}
	return r, tokens, txs
}

func creationResult(plan domain.Plan) *domain.TokenCreationResult {
	return &domain.TokenCreationResult{
		Signature:              "CreateSig",
		MintAddress:            "MintAddr",
		Name:                   "Forge Token",
		Symbol:                 "FRG",
		MintAuthorityRevoked:   plan == domain.PlanBasic,
		FreezeAuthorityRevoked: plan == domain.PlanBasic,
		Plan:                   plan,
		Decimals:               6,
		TotalSupply:            "1000",
		BaseSupply:             "1000000000",
		MetadataURI:            "https://example.com/m.json",
		FeeLamports:            30_000_000,
	}
}

func TestRecordCreation(t *testing.T) {
	r, tokens, txs := newRecorder(t)
	ctx := context.Background()

	req := domain.TokenCreationRequest{MetadataSource: domain.MetadataSource{Description: "forged"}}
	require.NoError(t, r.RecordCreation(ctx, creationResult(domain.PlanBasic), req, "Creator", domain.NetworkDevnet))

	tok, err := tokens.GetByMint(ctx, "MintAddr")
	require.NoError(t, err)
	assert.Equal(t, "id-1", tok.ID)
	assert.Equal(t, "Creator", tok.CreatorWallet)
	assert.Equal(t, "1000", tok.InitialSupply)
	assert.False(t, tok.IsMetadataMutable)
	assert.Equal(t, uint64(30_000_000), tok.FeeLamports)
	assert.Equal(t, fixedNow.UnixMilli(), tok.CreatedAt)
	require.NotNil(t, tok.Description)
	assert.Equal(t, "forged", *tok.Description)

	rec, err := txs.GetBySignature(ctx, "CreateSig")
	require.NoError(t, err)
	assert.Equal(t, domain.OperationCreate, rec.Type)
	assert.Equal(t, map[string]string{"name": "Forge Token", "symbol": "FRG", "supply": "1000"}, rec.Details)
}

func TestRecordCreation_AdvancedIsMutable(t *testing.T) {
	r, tokens, _ := newRecorder(t)
	ctx := context.Background()

	require.NoError(t, r.RecordCreation(ctx, creationResult(domain.PlanAdvanced), domain.TokenCreationRequest{}, "Creator", domain.NetworkMainnet))

	tok, err := tokens.GetByMint(ctx, "MintAddr")
	require.NoError(t, err)
	assert.True(t, tok.IsMetadataMutable)
	assert.Nil(t, tok.Description)
	assert.Equal(t, domain.NetworkMainnet, tok.Network)
}

func TestRecordCreation_Duplicate(t *testing.T) {
	r, _, _ := newRecorder(t)
	ctx := context.Background()

	res := creationResult(domain.PlanBasic)
	require.NoError(t, r.RecordCreation(ctx, res, domain.TokenCreationRequest{}, "Creator", domain.NetworkDevnet))

	err := r.RecordCreation(ctx, res, domain.TokenCreationRequest{}, "Creator", domain.NetworkDevnet)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestRecordCreation_InvalidResult(t *testing.T) {
	r, _, _ := newRecorder(t)

	err := r.RecordCreation(context.Background(), &domain.TokenCreationResult{}, domain.TokenCreationRequest{}, "Creator", domain.NetworkDevnet)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestRecordOperation_MirrorsEvents(t *testing.T) {
	events := memory.NewTransactionStore()
	r, _, txs := newRecorder(t, WithEventStore(events))
	ctx := context.Background()

	res := domain.OperationResult{Kind: domain.OperationMint, Mint: "MintAddr", Signature: "MintSig"}
	require.NoError(t, r.RecordOperation(ctx, res, domain.MintMore{Amount: "250.5"}, "Owner", domain.NetworkDevnet))

	rec, err := txs.GetBySignature(ctx, "MintSig")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"amount": "250.5"}, rec.Details)
	assert.Equal(t, "Owner", rec.UserWallet)

	mirrored, err := events.GetBySignature(ctx, "MintSig")
	require.NoError(t, err)
	assert.Equal(t, rec, mirrored)
}

func TestRecordOperation_RevokeAuthority(t *testing.T) {
	r, _, txs := newRecorder(t)
	ctx := context.Background()

	res := domain.OperationResult{Kind: domain.OperationRevokeAuthority, Mint: "MintAddr", Signature: "RevokeSig"}
	require.NoError(t, r.RecordOperation(ctx, res, domain.RevokeAuthority{Authority: domain.AuthorityFreeze}, "Owner", domain.NetworkDevnet))

	rec, err := txs.GetBySignature(ctx, "RevokeSig")
	require.NoError(t, err)
	assert.Equal(t, domain.OperationRevokeAuthority, rec.Type)
	assert.Equal(t, map[string]string{"authority_type": "freeze"}, rec.Details)
}

func TestRecordOperation_EventFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	r, _, txs := newRecorder(t, WithEventStore(failingEvents{}), WithLogger(log.New(&buf, "", 0)))
	ctx := context.Background()

	res := domain.OperationResult{Kind: domain.OperationFreeze, Mint: "MintAddr", Signature: "FreezeSig"}
	require.NoError(t, r.RecordOperation(ctx, res, domain.Freeze{Owner: "Holder"}, "Owner", domain.NetworkDevnet))

	_, err := txs.GetBySignature(ctx, "FreezeSig")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "clickhouse down")
}

func TestDetails(t *testing.T) {
	tests := []struct {
		name string
		req  domain.ManagementRequest
		want map[string]string
	}{
		{"mint", domain.MintMore{Amount: "1"}, map[string]string{"amount": "1"}},
		{"burn", domain.Burn{Amount: "2"}, map[string]string{"amount": "2"}},
		{"freeze", domain.Freeze{Owner: "A"}, map[string]string{"target_wallet": "A"}},
		{"thaw", domain.Thaw{Owner: "B"}, map[string]string{"target_wallet": "B"}},
		{"update", domain.UpdateMetadata{Name: "N", Symbol: "S", URI: "https://u"}, map[string]string{"name": "N", "symbol": "S", "uri": "https://u"}},
		{"revoke", domain.RevokeAuthority{Authority: domain.AuthorityMint}, map[string]string{"authority_type": "mint"}},
		{"transfer", domain.TransferAuthority{Authority: domain.AuthorityFreeze, NewOwner: "C"}, map[string]string{"authority_type": "freeze", "new_authority": "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Details(tt.req))
		})
	}
}
