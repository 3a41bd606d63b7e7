package main

import (
	"context"
	"fmt"
	"io"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/management"
)

type manageFlags struct {
	mint   string
	amount string
	owner  string
	name   string
	symbol string
	uri    string

	authority string
	newOwner  string
}

// manageRequest maps parsed flags to the request for op.
func manageRequest(op domain.OperationKind, f manageFlags) (domain.ManagementRequest, error) {
	var req domain.ManagementRequest
	switch op {
	case domain.OperationMint:
		req = domain.MintMore{Amount: f.amount}
	case domain.OperationBurn:
		req = domain.Burn{Amount: f.amount}
	case domain.OperationFreeze:
		req = domain.Freeze{Owner: f.owner}
	case domain.OperationThaw:
		req = domain.Thaw{Owner: f.owner}
	case domain.OperationUpdateMetadata:
		req = domain.UpdateMetadata{Name: f.name, Symbol: f.symbol, URI: f.uri}
	case domain.OperationRevokeAuthority:
		req = domain.RevokeAuthority{Authority: domain.Authority(f.authority)}
	case domain.OperationTransferAuthority:
		req = domain.TransferAuthority{Authority: domain.Authority(f.authority), NewOwner: f.newOwner}
	default:
		return nil, fmt.Errorf("%w: unsupported operation %s", domain.ErrValidation, op)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func manageCommand(op domain.OperationKind) func(context.Context, *environment, []string) error {
	return func(ctx context.Context, env *environment, args []string) error {
		var f manageFlags
		fs := newFlagSet(env, string(op))
		fs.StringVar(&f.mint, "mint", "", "Token mint address")
		switch op {
		case domain.OperationMint, domain.OperationBurn:
			fs.StringVar(&f.amount, "amount", "", "Amount in display units")
		case domain.OperationFreeze, domain.OperationThaw:
			fs.StringVar(&f.owner, "owner", "", "Wallet whose token account is affected")
		case domain.OperationUpdateMetadata:
			fs.StringVar(&f.name, "name", "", "New token name")
			fs.StringVar(&f.symbol, "symbol", "", "New token symbol")
			fs.StringVar(&f.uri, "uri", "", "New metadata URI")
		case domain.OperationRevokeAuthority:
			fs.StringVar(&f.authority, "authority", "", "Authority to revoke: mint or freeze")
		case domain.OperationTransferAuthority:
			fs.StringVar(&f.authority, "authority", "", "Authority to transfer: mint or freeze")
			fs.StringVar(&f.newOwner, "new-owner", "", "Wallet that receives the authority")
		}
		if err := fs.Parse(args); err != nil {
			return err
		}
		if err := required(map[string]string{"mint": f.mint}); err != nil {
			return err
		}

		req, err := manageRequest(op, f)
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

		manager, err := management.New(f.mint, env.ledger, wallet, management.WithLogger(env.logger))
		if err != nil {
			return err
		}

		result, err := manager.Execute(ctx, req)
		if err != nil {
			return err
		}

		fmt.Fprintf(env.out, "%s confirmed\n", op)
		fmt.Fprintf(env.out, "  Mint:        %s\n", result.Mint)
		fmt.Fprintf(env.out, "  Transaction: %s\n", env.network.ExplorerURL("tx", result.Signature))

		rec, err := env.recorder(ctx)
		if err != nil {
			return err
		}
		if rec != nil {
			if err := rec.RecordOperation(ctx, *result, req, wallet.PublicKey().ToBase58(), env.network); err != nil {
				env.logger.Printf("Failed to record transaction: %v", err)
			}
		}
		return nil
	}
}

func runInfo(ctx context.Context, env *environment, args []string) error {
	var mint string
	fs := newFlagSet(env, "info")
	fs.StringVar(&mint, "mint", "", "Token mint address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(map[string]string{"mint": mint}); err != nil {
		return err
	}

	if err := env.connect(ctx); err != nil {
		return err
	}
	wallet, err := env.wallet()
	if err != nil {
		return err
	}
	manager, err := management.New(mint, env.ledger, wallet, management.WithLogger(env.logger))
	if err != nil {
		return err
	}

	info, err := manager.Info(ctx)
	if err != nil {
		return err
	}
	printInfo(env.out, info)
	return nil
}

func printInfo(out io.Writer, info *domain.TokenInfo) {
	fmt.Fprintf(out, "Mint:             %s\n", info.Mint)
	fmt.Fprintf(out, "Decimals:         %d\n", info.Decimals)
	fmt.Fprintf(out, "Supply:           %s\n", info.DisplaySupply)
	fmt.Fprintf(out, "Mint authority:   %s\n", authorityLabel(info.MintAuthority))
	fmt.Fprintf(out, "Freeze authority: %s\n", authorityLabel(info.FreezeAuthority))
	fmt.Fprintf(out, "Your balance:     %s\n", info.DisplayBalance)
}

func authorityLabel(addr string) string {
	if addr == "" {
		return "revoked"
	}
	return addr
}
