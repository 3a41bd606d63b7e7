package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"solana-token-forge/internal/creation"
	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/registry"
	"solana-token-forge/internal/tx"
	"solana-token-forge/internal/upload"
)

type createFlags struct {
	name        string
	symbol      string
	decimals    int
	supply      string
	plan        string
	uri         string
	image       string
	description string

	feeRecipient   string
	uploadEndpoint string
}

// createRequest builds the creation request from flags. A URI selects url
// mode; otherwise metadata is uploaded with the optional image.
func createRequest(f createFlags, readFile func(string) ([]byte, error)) (domain.TokenCreationRequest, error) {
	plan, err := domain.ParsePlan(f.plan)
	if err != nil {
		return domain.TokenCreationRequest{}, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	req := domain.TokenCreationRequest{
		Name:        f.name,
		Symbol:      f.symbol,
		Decimals:    f.decimals,
		TotalSupply: f.supply,
		Plan:        plan,
	}

	if strings.TrimSpace(f.uri) != "" {
		req.MetadataSource = domain.MetadataSource{Mode: domain.MetadataURL, URI: f.uri}
		return req, nil
	}

	req.MetadataSource = domain.MetadataSource{
		Mode:        domain.MetadataUpload,
		Description: f.description,
	}
	if f.image != "" {
		data, err := readFile(f.image)
		if err != nil {
			return domain.TokenCreationRequest{}, fmt.Errorf("%w: read image: %w", domain.ErrValidation, err)
		}
		req.MetadataSource.Image = data
		req.MetadataSource.ImageName = filepath.Base(f.image)
		req.MetadataSource.ImageType = imageType(f.image)
	}
	return req, nil
}

func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

func runCreate(ctx context.Context, env *environment, args []string) error {
	var f createFlags
	fs := newFlagSet(env, "create")
	fs.StringVar(&f.name, "name", "", "Token name (max 32 characters)")
	fs.StringVar(&f.symbol, "symbol", "", "Token symbol (max 10 characters)")
	fs.IntVar(&f.decimals, "decimals", 9, "Decimals (0-9)")
	fs.StringVar(&f.supply, "supply", "", "Total supply in whole tokens")
	fs.StringVar(&f.plan, "plan", string(domain.PlanBasic), "Plan: basic (authorities revoked, immutable metadata) or advanced")
	fs.StringVar(&f.uri, "uri", "", "Existing metadata URI (skips upload)")
	fs.StringVar(&f.image, "image", "", "Image file to upload with the metadata")
	fs.StringVar(&f.description, "description", "", "Token description for uploaded metadata")
	fs.StringVar(&f.feeRecipient, "fee-recipient", os.Getenv("FEE_RECIPIENT"), "Service fee recipient address")
	fs.StringVar(&f.uploadEndpoint, "upload-endpoint", os.Getenv("METADATA_UPLOAD_URL"), "Metadata upload service URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req, err := createRequest(f, os.ReadFile)
	if err != nil {
		return err
	}

	if err := env.connect(ctx); err != nil {
		return err
	}
	wallet, err := env.wallet()
	if err != nil {
		return err
	}

	cfg := tx.DefaultBuilderConfig(f.feeRecipient)
	stores, err := env.openStores(ctx)
	if err != nil {
		return err
	}
	if stores != nil {
		if cfg, err = registry.BuilderConfig(ctx, stores.Fees, env.network, cfg); err != nil {
			return err
		}
	}

	var uploader creation.Uploader
	if f.uploadEndpoint != "" {
		uploader = upload.NewClient(f.uploadEndpoint)
	}

	builder := creation.New(cfg, env.ledger, uploader, creation.WithLogger(env.logger))
	result, err := builder.Create(ctx, req, wallet)
	if err != nil {
		return err
	}

	printCreation(env, result)

	rec, err := env.recorder(ctx)
	if err != nil {
		return err
	}
	if rec != nil {
		if err := rec.RecordCreation(ctx, result, req, wallet.PublicKey().ToBase58(), env.network); err != nil {
			// The token exists on-chain; a registry failure is not fatal.
			env.logger.Printf("Failed to record token: %v", err)
		}
	}
	return nil
}

func printCreation(env *environment, r *domain.TokenCreationResult) {
	fmt.Fprintln(env.out, "Token created")
	fmt.Fprintf(env.out, "  Name:        %s (%s)\n", r.Name, r.Symbol)
	fmt.Fprintf(env.out, "  Mint:        %s\n", r.MintAddress)
	fmt.Fprintf(env.out, "  Supply:      %s (decimals %d)\n", r.TotalSupply, r.Decimals)
	fmt.Fprintf(env.out, "  Plan:        %s\n", r.Plan)
	fmt.Fprintf(env.out, "  Metadata:    %s\n", r.MetadataURI)
	fmt.Fprintf(env.out, "  Mint auth:   %s\n", revokedLabel(r.MintAuthorityRevoked))
	fmt.Fprintf(env.out, "  Freeze auth: %s\n", revokedLabel(r.FreezeAuthorityRevoked))
	fmt.Fprintf(env.out, "  Token:       %s\n", env.network.ExplorerURL("token", r.MintAddress))
	fmt.Fprintf(env.out, "  Transaction: %s\n", env.network.ExplorerURL("tx", r.Signature))
}

func revokedLabel(revoked bool) string {
	if revoked {
		return "revoked"
	}
	return "retained"
}
