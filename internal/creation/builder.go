// Package creation assembles and submits the single atomic transaction that
// creates a token: mint, supply, metadata, optional authority revocation and
// the service fee.
package creation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"solana-token-forge/internal/amount"
	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/observability"
	"solana-token-forge/internal/solana"
	"solana-token-forge/internal/tx"
	"solana-token-forge/internal/upload"
)

// Step numbers of the creation sequence.
const (
	StepCreateMint     = 1
	StepInitializeMint = 2
	StepCreateATA      = 3
	StepMintSupply     = 4
	StepCreateMetadata = 5
	StepRevoke         = 6
	StepServiceFee     = 7
)

// Uploader hosts token metadata and returns its URI.
type Uploader interface {
	Upload(ctx context.Context, req upload.Request) (string, error)
}

// Builder creates tokens. It holds no per-request state and is safe for
// concurrent use.
type Builder struct {
	cfg       tx.BuilderConfig
	ledger    solana.Ledger
	uploader  Uploader
	submitter *tx.Submitter
	newMint   func() types.Account
	logger    *log.Logger
}

// Option configures Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// WithMintGenerator overrides how the fresh mint keypair is generated.
func WithMintGenerator(fn func() types.Account) Option {
	return func(b *Builder) {
		b.newMint = fn
	}
}

// New creates a Builder. uploader may be nil when only url-mode metadata
// is used.
func New(cfg tx.BuilderConfig, ledger solana.Ledger, uploader Uploader, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		ledger:   ledger,
		uploader: uploader,
		newMint:  types.NewAccount,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.submitter = tx.NewSubmitter(ledger, b.logger)
	return b
}

// Assembly is the deterministic output of Build.
type Assembly struct {
	Sequence     *tx.Sequence
	Mint         common.PublicKey
	TokenAccount common.PublicKey
	Metadata     common.PublicKey
	MetadataURI  string
	FeeLamports  uint64
	BaseSupply   uint64
}

// Quote is the service fee and base-unit supply of a validated request.
type Quote struct {
	FeeLamports uint64
	BaseSupply  uint64
}

// BuildParams are the inputs that fully determine the creation sequence.
// Quote carries a quote already computed for Request; when nil, Build
// computes it.
type BuildParams struct {
	Request      domain.TokenCreationRequest
	Payer        common.PublicKey
	Mint         common.PublicKey
	MetadataURI  string
	RentLamports uint64
	Quote        *Quote
}

// Build assembles the creation sequence without touching the network.
// Equal params yield equal sequences.
func (b *Builder) Build(p BuildParams) (*Assembly, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	req := p.Request.Normalize()
	if err := req.Validate(b.cfg.CreateDecimalsLimit()); err != nil {
		return nil, err
	}
	if err := domain.ValidateMetadataURI(p.MetadataURI); err != nil {
		return nil, err
	}

	q := p.Quote
	if q == nil {
		computed, err := b.quote(req)
		if err != nil {
			return nil, err
		}
		q = &computed
	}

	ata, err := solana.AssociatedTokenAddress(p.Payer, p.Mint)
	if err != nil {
		return nil, fmt.Errorf("derive token account: %w", err)
	}
	metadata, err := solana.MetadataAddress(p.Mint)
	if err != nil {
		return nil, fmt.Errorf("derive metadata account: %w", err)
	}

	decimals := uint8(req.Decimals)
	seq := tx.NewSequence().
		Add(StepCreateMint, tx.CreateAccount{
			Payer:    p.Payer,
			Mint:     p.Mint,
			Lamports: p.RentLamports,
			Space:    solana.MintAccountSize,
		}).
		Add(StepInitializeMint, tx.InitializeMint{
			Mint:            p.Mint,
			Decimals:        decimals,
			MintAuthority:   p.Payer,
			FreezeAuthority: p.Payer,
		}).
		Add(StepCreateATA, tx.CreateATA{
			Payer:   p.Payer,
			Owner:   p.Payer,
			Mint:    p.Mint,
			Account: ata,
		}).
		Add(StepMintSupply, tx.MintTo{
			Mint:        p.Mint,
			Destination: ata,
			Authority:   p.Payer,
			Amount:      q.BaseSupply,
		}).
		Add(StepCreateMetadata, tx.CreateMetadata{
			Metadata:  metadata,
			Mint:      p.Mint,
			Authority: p.Payer,
			Payer:     p.Payer,
			Name:      req.Name,
			Symbol:    req.Symbol,
			URI:       p.MetadataURI,
			Mutable:   req.Plan.MetadataMutable(),
		})

	// Metadata is created immutable for plans that revoke, so no lock
	// instruction follows the revocations.
	if req.Plan.RevokesAuthorities() {
		seq.Add(StepRevoke,
			tx.SetAuthority{Mint: p.Mint, Current: p.Payer, Authority: tx.MintAuthority},
			tx.SetAuthority{Mint: p.Mint, Current: p.Payer, Authority: tx.FreezeAuthority},
		)
	}

	seq.Add(StepServiceFee, tx.Transfer{
		From:     p.Payer,
		To:       b.cfg.Recipient(),
		Lamports: q.FeeLamports,
	})

	return &Assembly{
		Sequence:     seq,
		Mint:         p.Mint,
		TokenAccount: ata,
		Metadata:     metadata,
		MetadataURI:  p.MetadataURI,
		FeeLamports:  q.FeeLamports,
		BaseSupply:   q.BaseSupply,
	}, nil
}

// quote computes the fee and the base-unit supply for a validated request.
func (b *Builder) quote(req domain.TokenCreationRequest) (Quote, error) {
	fee, err := b.cfg.FeeSchedule.Lamports(req.Plan)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	base, err := amount.WholeToBaseUnits(req.TotalSupply, uint8(req.Decimals))
	if err != nil {
		return Quote{}, fmt.Errorf("%w: total supply: %w", domain.ErrValidation, err)
	}
	supply, err := amount.Uint64(base)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: total supply: %w", domain.ErrValidation, err)
	}
	return Quote{FeeLamports: fee, BaseSupply: supply}, nil
}

// Create validates req, resolves the metadata URI, builds the creation
// transaction, has wallet sign it with the fresh mint keypair and waits for
// confirmation. No upload or ledger call happens before validation passes.
func (b *Builder) Create(ctx context.Context, req domain.TokenCreationRequest, wallet solana.Wallet) (*domain.TokenCreationResult, error) {
	req = req.Normalize()
	mint := b.newMint()

	// Failures past this point are counted by the submitter.
	asm, err := b.prepare(ctx, req, wallet, mint.PublicKey)
	if err != nil {
		observability.RecordTransactionFailed(string(domain.OperationCreate), string(tx.Classify(err)))
		return nil, err
	}

	b.logger.Printf("creating %s (%s) plan=%s mint=%s", req.Name, req.Symbol, req.Plan,
		solana.ShortAddress(mint.PublicKey.ToBase58()))

	sig, err := b.submitter.Submit(ctx, domain.OperationCreate, wallet, asm.Sequence, []types.Account{mint})
	if err != nil {
		return nil, err
	}

	observability.RecordTokenCreated(string(req.Plan), asm.FeeLamports)
	revoked := req.Plan.RevokesAuthorities()

	return &domain.TokenCreationResult{
		Signature:              sig,
		MintAddress:            mint.PublicKey.ToBase58(),
		Name:                   req.Name,
		Symbol:                 req.Symbol,
		MintAuthorityRevoked:   revoked,
		FreezeAuthorityRevoked: revoked,
		Plan:                   req.Plan,
		Decimals:               req.Decimals,
		TotalSupply:            req.TotalSupply,
		BaseSupply:             fmt.Sprintf("%d", asm.BaseSupply),
		MetadataURI:            asm.MetadataURI,
		FeeLamports:            asm.FeeLamports,
	}, nil
}

// prepare runs everything up to submission: validation, the quote, the
// metadata URI, the rent lookup and the build. The quote is computed once
// and handed to Build.
func (b *Builder) prepare(ctx context.Context, req domain.TokenCreationRequest, wallet solana.Wallet, mint common.PublicKey) (*Assembly, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, fmt.Errorf("%w: wallet is not connected", domain.ErrValidation)
	}
	if err := req.Validate(b.cfg.CreateDecimalsLimit()); err != nil {
		return nil, err
	}
	q, err := b.quote(req)
	if err != nil {
		return nil, err
	}
	if req.MetadataSource.Mode == domain.MetadataUpload && b.uploader == nil {
		return nil, fmt.Errorf("%w: metadata upload is not configured", domain.ErrValidation)
	}

	uri, err := b.resolveURI(ctx, req)
	if err != nil {
		return nil, err
	}

	rent, err := b.ledger.MinimumBalanceForRentExemption(ctx, solana.MintAccountSize)
	if err != nil {
		return nil, fmt.Errorf("%w: rent exemption: %w", domain.ErrLedger, err)
	}

	return b.Build(BuildParams{
		Request:      req,
		Payer:        wallet.PublicKey(),
		Mint:         mint,
		MetadataURI:  uri,
		RentLamports: rent,
		Quote:        &q,
	})
}

// resolveURI returns the url-mode URI or uploads the metadata.
func (b *Builder) resolveURI(ctx context.Context, req domain.TokenCreationRequest) (string, error) {
	src := req.MetadataSource
	if src.Mode == domain.MetadataURL {
		return src.URI, nil
	}

	uri, err := b.uploader.Upload(ctx, upload.Request{
		Name:        req.Name,
		Symbol:      req.Symbol,
		Description: src.Description,
		Image:       src.Image,
		ImageName:   src.ImageName,
		ImageType:   src.ImageType,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUpload) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", domain.ErrUpload, err)
	}
	if err := domain.ValidateMetadataURI(uri); err != nil {
		return "", fmt.Errorf("%w: returned uri: %v", domain.ErrUpload, err)
	}
	return uri, nil
}
