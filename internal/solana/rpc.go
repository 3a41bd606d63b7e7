package solana

import (
	"context"

	"github.com/blocto/solana-go-sdk/types"
)

// Ledger is everything the transaction builders need from the chain.
// Implementations return errors rather than sentinel values.
type Ledger interface {
	// MinimumBalanceForRentExemption returns the rent-exempt minimum for an
	// account of the given size.
	MinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)

	// LatestBlockhash returns the current confirmation anchor.
	LatestBlockhash(ctx context.Context) (Blockhash, error)

	// AccountExists reports whether an account is allocated.
	AccountExists(ctx context.Context, address string) (bool, error)

	// MintDecimals reads the decimals field of a mint account.
	MintDecimals(ctx context.Context, mint string) (uint8, error)

	// MintState reads supply, decimals and authorities of a mint account.
	MintState(ctx context.Context, mint string) (MintState, error)

	// TokenAccountBalance returns the base-unit amount held by a token
	// account, zero when it is not allocated.
	TokenAccountBalance(ctx context.Context, account string) (uint64, error)

	// SendTransaction submits a signed transaction and returns its signature.
	// It is never retried.
	SendTransaction(ctx context.Context, tx types.Transaction) (string, error)

	// ConfirmTransaction blocks until the signature is confirmed, fails, or
	// the blockhash expires.
	ConfirmTransaction(ctx context.Context, signature string, lastValidBlockHeight uint64) error
}

// Blockhash is a recent blockhash and the last block height at which
// transactions referencing it are valid.
type Blockhash struct {
	Blockhash            string
	LastValidBlockHeight uint64
}

// MintState is the decoded content of an SPL mint account. Empty
// authorities are revoked.
type MintState struct {
	Supply          uint64
	Decimals        uint8
	Initialized     bool
	MintAuthority   string
	FreezeAuthority string
}

// SignatureStatus from getSignatureStatuses.
type SignatureStatus struct {
	Slot               int64
	Confirmations      *int64
	Err                interface{}
	ConfirmationStatus string // processed | confirmed | finalized
}

// Commitment levels.
const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// Reached reports whether the status is at least the given commitment.
func (s *SignatureStatus) Reached(commitment string) bool {
	if s == nil {
		return false
	}
	rank := map[string]int{CommitmentProcessed: 1, CommitmentConfirmed: 2, CommitmentFinalized: 3}
	return rank[s.ConfirmationStatus] >= rank[commitment]
}
