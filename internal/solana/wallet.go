package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"solana-token-forge/internal/domain"
)

// Wallet signs and submits messages on behalf of its owner.
// Builders never see the owner's private key.
type Wallet interface {
	// PublicKey is the fee payer and authority for every built transaction.
	PublicKey() common.PublicKey

	// SignAndSend signs msg together with coSigners and submits it.
	// Errors wrap domain.ErrSigning when the owner declines and
	// domain.ErrLedger when submission fails.
	SignAndSend(ctx context.Context, msg types.Message, coSigners []types.Account) (string, error)
}

// ApproveFunc is consulted before signing; returning an error declines.
type ApproveFunc func(ctx context.Context, msg types.Message) error

// KeypairWallet signs with a local keypair and submits through a Ledger.
type KeypairWallet struct {
	account types.Account
	ledger  Ledger
	approve ApproveFunc
}

// Compile-time interface check.
var _ Wallet = (*KeypairWallet)(nil)

// WalletOption configures KeypairWallet.
type WalletOption func(*KeypairWallet)

// WithApprover installs a signing prompt.
func WithApprover(fn ApproveFunc) WalletOption {
	return func(w *KeypairWallet) {
		w.approve = fn
	}
}

// NewKeypairWallet wraps an account.
func NewKeypairWallet(account types.Account, ledger Ledger, opts ...WalletOption) *KeypairWallet {
	w := &KeypairWallet{account: account, ledger: ledger}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// LoadKeypairWallet reads a solana-keygen JSON keypair file (64-byte array).
func LoadKeypairWallet(path string, ledger Ledger, opts ...WalletOption) (*KeypairWallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read keypair: %w", err)
	}
	account, err := ParseKeypair(data)
	if err != nil {
		return nil, fmt.Errorf("keypair %s: %w", path, err)
	}
	return NewKeypairWallet(account, ledger, opts...), nil
}

// ParseKeypair decodes a JSON byte array holding a 64-byte ed25519 secret key.
func ParseKeypair(data []byte) (types.Account, error) {
	var raw []byte
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return types.Account{}, fmt.Errorf("decode keypair json: %w", err)
	}
	if len(ints) != 64 {
		return types.Account{}, fmt.Errorf("keypair must have 64 bytes, got %d", len(ints))
	}
	raw = make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return types.Account{}, fmt.Errorf("keypair byte %d out of range: %d", i, v)
		}
		raw[i] = byte(v)
	}
	return types.AccountFromBytes(raw)
}

// PublicKey returns the wallet address.
func (w *KeypairWallet) PublicKey() common.PublicKey {
	return w.account.PublicKey
}

// SignAndSend signs msg with the wallet key plus coSigners and submits it once.
func (w *KeypairWallet) SignAndSend(ctx context.Context, msg types.Message, coSigners []types.Account) (string, error) {
	if w.approve != nil {
		if err := w.approve(ctx, msg); err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrSigning, err)
		}
	}

	signers := append([]types.Account{w.account}, coSigners...)
	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: msg,
		Signers: signers,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSigning, err)
	}
	if err := checkSigned(msg, tx); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSigning, err)
	}

	sig, err := w.ledger.SendTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("%w: send: %w", domain.ErrLedger, err)
	}
	return sig, nil
}

// checkSigned fails when a required signer was not supplied.
func checkSigned(msg types.Message, tx types.Transaction) error {
	for i, sig := range tx.Signatures {
		if isZero(sig) && i < len(msg.Accounts) {
			return fmt.Errorf("missing signature for %s", msg.Accounts[i].ToBase58())
		}
	}
	return nil
}

func isZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
