package stub

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"solana-token-forge/internal/solana"
)

// Wallet is a solana.Wallet backed by a generated keypair. It records every
// message it is asked to sign.
type Wallet struct {
	*solana.KeypairWallet

	// Decline makes SignAndSend fail as a declined signing prompt.
	Decline bool

	Messages  []types.Message
	CoSigners [][]types.Account
}

// Compile-time interface check.
var _ solana.Wallet = (*Wallet)(nil)

// NewWallet creates a wallet that submits through ledger.
func NewWallet(ledger solana.Ledger) *Wallet {
	w := &Wallet{}
	w.KeypairWallet = solana.NewKeypairWallet(types.NewAccount(), ledger,
		solana.WithApprover(func(context.Context, types.Message) error {
			if w.Decline {
				return fmt.Errorf("user rejected the request")
			}
			return nil
		}))
	return w
}

// PublicKey returns the wallet address.
func (w *Wallet) PublicKey() common.PublicKey {
	return w.KeypairWallet.PublicKey()
}

// SignAndSend records the request and delegates to the keypair wallet.
func (w *Wallet) SignAndSend(ctx context.Context, msg types.Message, coSigners []types.Account) (string, error) {
	w.Messages = append(w.Messages, msg)
	w.CoSigners = append(w.CoSigners, coSigners)
	sig, err := w.KeypairWallet.SignAndSend(ctx, msg, coSigners)
	if err != nil {
		return "", err
	}
	return sig, nil
}

// LastMessage returns the most recent message, or nil.
func (w *Wallet) LastMessage() *types.Message {
	if len(w.Messages) == 0 {
		return nil
	}
	return &w.Messages[len(w.Messages)-1]
}

