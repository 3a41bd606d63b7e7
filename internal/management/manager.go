// Package management builds and submits post-creation operations against a
// single mint: mint more, burn, freeze, thaw, metadata updates and
// authority changes. Info reads the mint's current state.
package management

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/blocto/solana-go-sdk/common"

	"solana-token-forge/internal/amount"
	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/solana"
	"solana-token-forge/internal/tx"
)

// Manager is bound to one mint and one wallet. It keeps no state beyond
// them and never checks authorities locally: the ledger is authoritative.
type Manager struct {
	mint      common.PublicKey
	ledger    solana.Ledger
	wallet    solana.Wallet
	submitter *tx.Submitter
	logger    *log.Logger
}

// Option configures Manager.
type Option func(*Manager)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// New binds a manager to mint.
func New(mint string, ledger solana.Ledger, wallet solana.Wallet, opts ...Option) (*Manager, error) {
	key, err := solana.ParsePublicKey(strings.TrimSpace(mint))
	if err != nil {
		return nil, fmt.Errorf("%w: mint: %w", domain.ErrValidation, err)
	}
	if wallet == nil {
		return nil, fmt.Errorf("%w: wallet is not connected", domain.ErrValidation)
	}

	m := &Manager{
		mint:   key,
		ledger: ledger,
		wallet: wallet,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.submitter = tx.NewSubmitter(ledger, m.logger)
	return m, nil
}

// Mint returns the bound mint address.
func (m *Manager) Mint() string {
	return m.mint.ToBase58()
}

// Execute dispatches a management request to its operation.
func (m *Manager) Execute(ctx context.Context, req domain.ManagementRequest) (*domain.OperationResult, error) {
	switch r := req.(type) {
	case domain.MintMore:
		return m.MintMore(ctx, r.Amount)
	case domain.Burn:
		return m.Burn(ctx, r.Amount)
	case domain.Freeze:
		return m.Freeze(ctx, r.Owner)
	case domain.Thaw:
		return m.Thaw(ctx, r.Owner)
	case domain.UpdateMetadata:
		return m.UpdateMetadata(ctx, r.Name, r.Symbol, r.URI)
	case domain.RevokeAuthority:
		return m.RevokeAuthority(ctx, r.Authority)
	case domain.TransferAuthority:
		return m.TransferAuthority(ctx, r.Authority, r.NewOwner)
	default:
		return nil, fmt.Errorf("%w: unsupported operation %T", domain.ErrValidation, req)
	}
}

// MintMore mints display amount into the caller's associated token account,
// creating the account in the same transaction when it is missing.
func (m *Manager) MintMore(ctx context.Context, display string) (*domain.OperationResult, error) {
	if err := (domain.MintMore{Amount: display}).Validate(); err != nil {
		return nil, err
	}
	base, err := m.baseUnits(ctx, display)
	if err != nil {
		return nil, err
	}

	owner := m.wallet.PublicKey()
	ata, err := solana.AssociatedTokenAddress(owner, m.mint)
	if err != nil {
		return nil, fmt.Errorf("derive token account: %w", err)
	}
	exists, err := m.ledger.AccountExists(ctx, ata.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("%w: token account lookup: %w", domain.ErrLedger, err)
	}

	seq := tx.NewSequence()
	if !exists {
		seq.Add(1, tx.CreateATA{Payer: owner, Owner: owner, Mint: m.mint, Account: ata})
	}
	seq.Add(2, tx.MintTo{Mint: m.mint, Destination: ata, Authority: owner, Amount: base})

	return m.submit(ctx, domain.OperationMint, seq)
}

// Burn burns display amount from the caller's associated token account.
func (m *Manager) Burn(ctx context.Context, display string) (*domain.OperationResult, error) {
	if err := (domain.Burn{Amount: display}).Validate(); err != nil {
		return nil, err
	}
	base, err := m.baseUnits(ctx, display)
	if err != nil {
		return nil, err
	}

	owner := m.wallet.PublicKey()
	ata, err := solana.AssociatedTokenAddress(owner, m.mint)
	if err != nil {
		return nil, fmt.Errorf("derive token account: %w", err)
	}

	seq := tx.NewSequence().Add(1, tx.Burn{Account: ata, Mint: m.mint, Owner: owner, Amount: base})
	return m.submit(ctx, domain.OperationBurn, seq)
}

// Freeze freezes owner's associated token account.
func (m *Manager) Freeze(ctx context.Context, owner string) (*domain.OperationResult, error) {
	if err := (domain.Freeze{Owner: owner}).Validate(); err != nil {
		return nil, err
	}
	ata, err := m.holderAccount(owner)
	if err != nil {
		return nil, err
	}
	seq := tx.NewSequence().Add(1, tx.Freeze{Account: ata, Mint: m.mint, Authority: m.wallet.PublicKey()})
	return m.submit(ctx, domain.OperationFreeze, seq)
}

// Thaw thaws owner's associated token account.
func (m *Manager) Thaw(ctx context.Context, owner string) (*domain.OperationResult, error) {
	if err := (domain.Thaw{Owner: owner}).Validate(); err != nil {
		return nil, err
	}
	ata, err := m.holderAccount(owner)
	if err != nil {
		return nil, err
	}
	seq := tx.NewSequence().Add(1, tx.Thaw{Account: ata, Mint: m.mint, Authority: m.wallet.PublicKey()})
	return m.submit(ctx, domain.OperationThaw, seq)
}

// UpdateMetadata replaces name, symbol and uri. All three are required.
func (m *Manager) UpdateMetadata(ctx context.Context, name, symbol, uri string) (*domain.OperationResult, error) {
	req := domain.UpdateMetadata{Name: name, Symbol: symbol, URI: uri}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	metadata, err := solana.MetadataAddress(m.mint)
	if err != nil {
		return nil, fmt.Errorf("derive metadata account: %w", err)
	}

	seq := tx.NewSequence().Add(1, tx.UpdateMetadata{
		Metadata:        metadata,
		UpdateAuthority: m.wallet.PublicKey(),
		Name:            strings.TrimSpace(name),
		Symbol:          strings.ToUpper(strings.TrimSpace(symbol)),
		URI:             strings.TrimSpace(uri),
	})
	return m.submit(ctx, domain.OperationUpdateMetadata, seq)
}

// RevokeAuthority permanently clears the mint or freeze authority.
func (m *Manager) RevokeAuthority(ctx context.Context, authority domain.Authority) (*domain.OperationResult, error) {
	if err := (domain.RevokeAuthority{Authority: authority}).Validate(); err != nil {
		return nil, err
	}
	seq := tx.NewSequence().Add(1, tx.SetAuthority{
		Mint:      m.mint,
		Current:   m.wallet.PublicKey(),
		Authority: authorityType(authority),
	})
	return m.submit(ctx, domain.OperationRevokeAuthority, seq)
}

// TransferAuthority hands the mint or freeze authority to newOwner.
func (m *Manager) TransferAuthority(ctx context.Context, authority domain.Authority, newOwner string) (*domain.OperationResult, error) {
	if err := (domain.TransferAuthority{Authority: authority, NewOwner: newOwner}).Validate(); err != nil {
		return nil, err
	}
	next, err := solana.ParsePublicKey(strings.TrimSpace(newOwner))
	if err != nil {
		return nil, fmt.Errorf("%w: new authority: %w", domain.ErrValidation, err)
	}
	seq := tx.NewSequence().Add(1, tx.SetAuthority{
		Mint:         m.mint,
		Current:      m.wallet.PublicKey(),
		Authority:    authorityType(authority),
		NewAuthority: &next,
	})
	return m.submit(ctx, domain.OperationTransferAuthority, seq)
}

// Info reads supply, decimals and authorities of the mint, and the
// wallet's balance in its associated token account.
func (m *Manager) Info(ctx context.Context) (*domain.TokenInfo, error) {
	state, err := m.ledger.MintState(ctx, m.mint.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("%w: read mint: %w", domain.ErrLedger, err)
	}

	owner := m.wallet.PublicKey()
	ata, err := solana.AssociatedTokenAddress(owner, m.mint)
	if err != nil {
		return nil, fmt.Errorf("derive token account: %w", err)
	}
	balance, err := m.ledger.TokenAccountBalance(ctx, ata.ToBase58())
	if err != nil {
		return nil, fmt.Errorf("%w: read balance: %w", domain.ErrLedger, err)
	}

	return &domain.TokenInfo{
		Mint:            m.Mint(),
		Decimals:        state.Decimals,
		Supply:          state.Supply,
		MintAuthority:   state.MintAuthority,
		FreezeAuthority: state.FreezeAuthority,
		Initialized:     state.Initialized,
		Holder:          owner.ToBase58(),
		Balance:         balance,
		DisplaySupply:   amount.FromBaseUnits(state.Supply, state.Decimals),
		DisplayBalance:  amount.FromBaseUnits(balance, state.Decimals),
	}, nil
}

func authorityType(a domain.Authority) tx.AuthorityType {
	if a == domain.AuthorityFreeze {
		return tx.FreezeAuthority
	}
	return tx.MintAuthority
}

// baseUnits converts a display amount using the mint's on-chain decimals.
func (m *Manager) baseUnits(ctx context.Context, display string) (uint64, error) {
	decimals, err := m.ledger.MintDecimals(ctx, m.mint.ToBase58())
	if err != nil {
		return 0, fmt.Errorf("%w: read mint decimals: %w", domain.ErrLedger, err)
	}
	if decimals > domain.MaxTokenDecimals {
		return 0, fmt.Errorf("%w: mint reports %d decimals", domain.ErrLedger, decimals)
	}

	base, err := amount.ToBaseUnits(strings.TrimSpace(display), decimals)
	if err != nil {
		return 0, fmt.Errorf("%w: amount: %w", domain.ErrValidation, err)
	}
	n, err := amount.Uint64(base)
	if err != nil {
		return 0, fmt.Errorf("%w: amount: %w", domain.ErrValidation, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", domain.ErrValidation)
	}
	return n, nil
}

func (m *Manager) holderAccount(owner string) (common.PublicKey, error) {
	key, err := solana.ParsePublicKey(strings.TrimSpace(owner))
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("%w: owner: %w", domain.ErrValidation, err)
	}
	ata, err := solana.AssociatedTokenAddress(key, m.mint)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("derive token account: %w", err)
	}
	return ata, nil
}

func (m *Manager) submit(ctx context.Context, op domain.OperationKind, seq *tx.Sequence) (*domain.OperationResult, error) {
	sig, err := m.submitter.Submit(ctx, op, m.wallet, seq, nil)
	if err != nil {
		if errors.Is(err, domain.ErrSigning) {
			m.logger.Printf("%s on %s cancelled", op, solana.ShortAddress(m.Mint()))
		}
		return nil, err
	}
	return &domain.OperationResult{Kind: op, Mint: m.Mint(), Signature: sig}, nil
}
