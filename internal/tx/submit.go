package tx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/blocto/solana-go-sdk/types"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/observability"
	"solana-token-forge/internal/solana"
)

// Submitter is the submission path shared by the builders: fetch a
// blockhash, build the message, hand it to the wallet, wait for
// confirmation. Nothing is retried.
type Submitter struct {
	ledger solana.Ledger
	logger *log.Logger
}

// NewSubmitter creates a submitter. A nil logger discards output.
func NewSubmitter(ledger solana.Ledger, logger *log.Logger) *Submitter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Submitter{ledger: ledger, logger: logger}
}

// Submit signs seq with wallet plus coSigners, submits it and waits for
// confirmation. It returns the transaction signature.
func (s *Submitter) Submit(ctx context.Context, op domain.OperationKind, wallet solana.Wallet, seq *Sequence, coSigners []types.Account) (string, error) {
	sig, err := s.submit(ctx, op, wallet, seq, coSigners)
	if err != nil {
		observability.RecordTransactionFailed(string(op), string(Classify(err)))
		return sig, err
	}
	return sig, nil
}

func (s *Submitter) submit(ctx context.Context, op domain.OperationKind, wallet solana.Wallet, seq *Sequence, coSigners []types.Account) (string, error) {
	if seq == nil || seq.Len() == 0 {
		return "", fmt.Errorf("%w: empty instruction sequence", domain.ErrValidation)
	}
	observability.RecordTransactionBuilt(string(op), seq.kindNames())

	bh, err := s.ledger.LatestBlockhash(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: latest blockhash: %w", domain.ErrLedger, err)
	}

	msg := types.NewMessage(types.NewMessageParam{
		FeePayer:        wallet.PublicKey(),
		RecentBlockhash: bh.Blockhash,
		Instructions:    seq.Compile(),
	})

	s.logger.Printf("%s: submitting %d instructions from %s", op, seq.Len(),
		solana.ShortAddress(wallet.PublicKey().ToBase58()))

	sig, err := wallet.SignAndSend(ctx, msg, coSigners)
	if err != nil {
		if errors.Is(err, domain.ErrSigning) || errors.Is(err, domain.ErrLedger) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrLedger, err)
	}
	observability.RecordTransactionSubmitted(string(op))

	start := time.Now()
	if err := s.ledger.ConfirmTransaction(ctx, sig, bh.LastValidBlockHeight); err != nil {
		s.logger.Printf("%s: %s not confirmed: %v", op, solana.ShortAddress(sig), err)
		return sig, fmt.Errorf("%w: confirm %s: %w", domain.ErrLedger, sig, err)
	}
	observability.RecordTransactionConfirmed(string(op), time.Since(start).Seconds())
	s.logger.Printf("%s: confirmed %s", op, solana.ShortAddress(sig))

	return sig, nil
}
