package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/solana"
	"solana-token-forge/internal/solana/stub"
)

func transferSeq(wallet solana.Wallet) *Sequence {
	return NewSequence().Add(1, Transfer{
		From:     wallet.PublicKey(),
		To:       types.NewAccount().PublicKey,
		Lamports: 1,
	})
}

func TestSubmitter_Submit(t *testing.T) {
	ledger := stub.NewLedger()
	wallet := stub.NewWallet(ledger)
	s := NewSubmitter(ledger, nil)

	sig, err := s.Submit(context.Background(), domain.OperationMint, wallet, transferSeq(wallet), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)

	require.Len(t, wallet.Messages, 1)
	assert.Equal(t, stub.DefaultBlockhash, wallet.Messages[0].RecentBlockHash)
	assert.Equal(t, wallet.PublicKey(), wallet.Messages[0].Accounts[0], "wallet pays fees")
	assert.Equal(t, []string{sig}, ledger.Confirmed)
}

func TestSubmitter_CoSigner(t *testing.T) {
	ledger := stub.NewLedger()
	wallet := stub.NewWallet(ledger)
	s := NewSubmitter(ledger, nil)

	mint := types.NewAccount()
	seq := NewSequence().Add(1, CreateAccount{Payer: wallet.PublicKey(), Mint: mint.PublicKey, Lamports: 1, Space: 82})

	_, err := s.Submit(context.Background(), domain.OperationCreate, wallet, seq, nil)
	assert.True(t, errors.Is(err, domain.ErrSigning), "missing mint signature: %v", err)

	_, err = s.Submit(context.Background(), domain.OperationCreate, wallet, seq, []types.Account{mint})
	require.NoError(t, err)
	require.NotNil(t, ledger.LastSent())
	assert.Len(t, ledger.LastSent().Signatures, 2)
}

func TestSubmitter_Declined(t *testing.T) {
	ledger := stub.NewLedger()
	wallet := stub.NewWallet(ledger)
	wallet.Decline = true
	s := NewSubmitter(ledger, nil)

	_, err := s.Submit(context.Background(), domain.OperationBurn, wallet, transferSeq(wallet), nil)
	assert.True(t, errors.Is(err, domain.ErrSigning))
	assert.Equal(t, ErrorSigning, Classify(err))
	assert.Empty(t, ledger.Sent)
}

func TestSubmitter_SendFailure(t *testing.T) {
	ledger := stub.NewLedger()
	ledger.SendErr = errors.New("insufficient funds for rent")
	wallet := stub.NewWallet(ledger)
	s := NewSubmitter(ledger, nil)

	_, err := s.Submit(context.Background(), domain.OperationMint, wallet, transferSeq(wallet), nil)
	assert.True(t, errors.Is(err, domain.ErrLedger))
	assert.Contains(t, err.Error(), "insufficient funds")
}

func TestSubmitter_ConfirmFailure(t *testing.T) {
	ledger := stub.NewLedger()
	ledger.ConfirmErr = solana.ErrBlockhashExpired
	wallet := stub.NewWallet(ledger)
	s := NewSubmitter(ledger, nil)

	sig, err := s.Submit(context.Background(), domain.OperationFreeze, wallet, transferSeq(wallet), nil)
	assert.True(t, errors.Is(err, domain.ErrLedger))
	assert.True(t, errors.Is(err, solana.ErrBlockhashExpired))
	assert.NotEmpty(t, sig, "signature is reported even when confirmation fails")
	assert.Len(t, ledger.Sent, 1, "no retry")
}

func TestSubmitter_EmptySequence(t *testing.T) {
	ledger := stub.NewLedger()
	s := NewSubmitter(ledger, nil)

	_, err := s.Submit(context.Background(), domain.OperationMint, stub.NewWallet(ledger), NewSequence(), nil)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Zero(t, ledger.CallCount())
}
