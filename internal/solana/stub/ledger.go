// Package stub provides in-memory ledger and wallet implementations for tests.
package stub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"

	"solana-token-forge/internal/solana"
)

// ErrNotFound is returned when an account is not known to the stub.
var ErrNotFound = errors.New("not found")

// DefaultBlockhash is a syntactically valid blockhash.
const DefaultBlockhash = "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N"

// Ledger implements solana.Ledger in memory.
type Ledger struct {
	mu sync.Mutex

	RentExempt uint64
	Blockhash  solana.Blockhash
	Accounts   map[string]bool
	Decimals   map[string]uint8
	Mints      map[string]solana.MintState
	Balances   map[string]uint64

	// Injected failures.
	RentErr    error
	SendErr    error
	ConfirmErr error

	Sent      []types.Transaction
	Confirmed []string
	Calls     []string
}

// Compile-time interface check.
var _ solana.Ledger = (*Ledger)(nil)

// NewLedger creates a stub ledger with mainnet-like rent for a mint account.
func NewLedger() *Ledger {
	return &Ledger{
		RentExempt: 1461600,
		Blockhash: solana.Blockhash{
			Blockhash:            DefaultBlockhash,
			LastValidBlockHeight: 1000,
		},
		Accounts: make(map[string]bool),
		Decimals: make(map[string]uint8),
		Mints:    make(map[string]solana.MintState),
		Balances: make(map[string]uint64),
	}
}

func (l *Ledger) record(call string) {
	l.Calls = append(l.Calls, call)
}

// CallCount returns how many ledger calls were made.
func (l *Ledger) CallCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Calls)
}

// MinimumBalanceForRentExemption returns RentExempt.
func (l *Ledger) MinimumBalanceForRentExemption(_ context.Context, _ uint64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("getMinimumBalanceForRentExemption")
	if l.RentErr != nil {
		return 0, l.RentErr
	}
	return l.RentExempt, nil
}

// LatestBlockhash returns Blockhash.
func (l *Ledger) LatestBlockhash(_ context.Context) (solana.Blockhash, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("getLatestBlockhash")
	return l.Blockhash, nil
}

// AccountExists reports whether address is in Accounts.
func (l *Ledger) AccountExists(_ context.Context, address string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("getAccountInfo")
	return l.Accounts[address], nil
}

// MintDecimals returns Decimals[mint].
func (l *Ledger) MintDecimals(_ context.Context, mint string) (uint8, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("getAccountInfo")
	d, ok := l.Decimals[mint]
	if !ok {
		return 0, fmt.Errorf("mint %s: %w", mint, ErrNotFound)
	}
	return d, nil
}

// MintState returns Mints[mint], falling back to an initialized mint with
// Decimals[mint].
func (l *Ledger) MintState(_ context.Context, mint string) (solana.MintState, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("getAccountInfo")
	if state, ok := l.Mints[mint]; ok {
		return state, nil
	}
	d, ok := l.Decimals[mint]
	if !ok {
		return solana.MintState{}, fmt.Errorf("mint %s: %w", mint, ErrNotFound)
	}
	return solana.MintState{Decimals: d, Initialized: true}, nil
}

// TokenAccountBalance returns Balances[account].
func (l *Ledger) TokenAccountBalance(_ context.Context, account string) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("getAccountInfo")
	return l.Balances[account], nil
}

// SendTransaction stores tx and returns its first signature.
func (l *Ledger) SendTransaction(_ context.Context, tx types.Transaction) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("sendTransaction")
	if l.SendErr != nil {
		return "", l.SendErr
	}
	l.Sent = append(l.Sent, tx)
	if len(tx.Signatures) == 0 {
		return "", errors.New("unsigned transaction")
	}
	return base58.Encode(tx.Signatures[0]), nil
}

// ConfirmTransaction records the signature and returns ConfirmErr.
func (l *Ledger) ConfirmTransaction(_ context.Context, signature string, _ uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.record("confirmTransaction")
	if l.ConfirmErr != nil {
		return l.ConfirmErr
	}
	l.Confirmed = append(l.Confirmed, signature)
	return nil
}

// LastSent returns the most recent transaction, or nil.
func (l *Ledger) LastSent() *types.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.Sent) == 0 {
		return nil
	}
	return &l.Sent[len(l.Sent)-1]
}
