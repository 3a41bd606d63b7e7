// Package registry persists created tokens and submitted token
// transactions after they confirm.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/storage"
)

// Recorder writes confirmed results to the token and transaction stores.
// The event store is optional; its failures are logged, not returned.
type Recorder struct {
	tokens storage.TokenStore
	txs    storage.TransactionStore
	events storage.TransactionEventStore
	logger *log.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithEventStore mirrors every transaction into an analytics store.
func WithEventStore(s storage.TransactionEventStore) Option {
	return func(r *Recorder) { r.events = s }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Recorder) { r.logger = l }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Recorder) { r.now = now }
}

// New creates a Recorder.
func New(tokens storage.TokenStore, txs storage.TransactionStore, opts ...Option) *Recorder {
	r := &Recorder{
		tokens: tokens,
		txs:    txs,
		logger: log.New(os.Stderr, "[registry] ", log.LstdFlags),
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordCreation stores the created token and its "create" transaction.
func (r *Recorder) RecordCreation(ctx context.Context, res *domain.TokenCreationResult, req domain.TokenCreationRequest, creator string, network domain.Network) error {
	if res == nil || res.MintAddress == "" || res.Signature == "" {
		return fmt.Errorf("record creation: %w", storage.ErrInvalidInput)
	}

	now := r.now().UnixMilli()

	var description *string
	if req.MetadataSource.Description != "" {
		d := req.MetadataSource.Description
		description = &d
	}

	token := &domain.TokenRecord{
		ID:                r.newID(),
		MintAddress:       res.MintAddress,
		CreatorWallet:     creator,
		Name:              res.Name,
		Symbol:            res.Symbol,
		Decimals:          res.Decimals,
		InitialSupply:     res.TotalSupply,
		Plan:              res.Plan,
		MetadataURI:       res.MetadataURI,
		Description:       description,
		IsMetadataMutable: res.Plan.MetadataMutable(),
		Network:           network,
		FeeLamports:       res.FeeLamports,
		CreationSignature: res.Signature,
		CreatedAt:         now,
	}
	if err := r.tokens.Insert(ctx, token); err != nil {
		return fmt.Errorf("record token %s: %w", res.MintAddress, err)
	}

	return r.recordTransaction(ctx, &domain.TransactionRecord{
		ID:         r.newID(),
		Signature:  res.Signature,
		TokenMint:  res.MintAddress,
		UserWallet: creator,
		Type:       domain.OperationCreate,
		Network:    network,
		Details: map[string]string{
			"name":   res.Name,
			"symbol": res.Symbol,
			"supply": res.TotalSupply,
		},
		CreatedAt: now,
	})
}

// RecordOperation stores a confirmed management transaction.
func (r *Recorder) RecordOperation(ctx context.Context, res domain.OperationResult, req domain.ManagementRequest, user string, network domain.Network) error {
	if res.Signature == "" || res.Mint == "" {
		return fmt.Errorf("record operation: %w", storage.ErrInvalidInput)
	}

	return r.recordTransaction(ctx, &domain.TransactionRecord{
		ID:         r.newID(),
		Signature:  res.Signature,
		TokenMint:  res.Mint,
		UserWallet: user,
		Type:       res.Kind,
		Network:    network,
		Details:    Details(req),
		CreatedAt:  r.now().UnixMilli(),
	})
}

func (r *Recorder) recordTransaction(ctx context.Context, t *domain.TransactionRecord) error {
	if err := r.txs.Insert(ctx, t); err != nil {
		return fmt.Errorf("record transaction %s: %w", t.Signature, err)
	}

	if r.events != nil {
		err := r.events.Insert(ctx, t)
		if err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			r.logger.Printf("mirror transaction %s: %v", t.Signature, err)
		}
	}
	return nil
}

// Details returns the recorded details for a management request.
func Details(req domain.ManagementRequest) map[string]string {
	switch r := req.(type) {
	case domain.MintMore:
		return map[string]string{"amount": r.Amount}
	case domain.Burn:
		return map[string]string{"amount": r.Amount}
	case domain.Freeze:
		return map[string]string{"target_wallet": r.Owner}
	case domain.Thaw:
		return map[string]string{"target_wallet": r.Owner}
	case domain.UpdateMetadata:
		return map[string]string{"name": r.Name, "symbol": r.Symbol, "uri": r.URI}
	case domain.RevokeAuthority:
		return map[string]string{"authority_type": string(r.Authority)}
	case domain.TransferAuthority:
		return map[string]string{"authority_type": string(r.Authority), "new_authority": r.NewOwner}
	default:
		return nil
	}
}
