package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/solana"
)

func runTokens(ctx context.Context, env *environment, args []string) error {
	var creator, mint string
	var limit int
	fs := newFlagSet(env, "tokens")
	fs.StringVar(&creator, "creator", "", "Creator wallet (default: the keypair's address)")
	fs.StringVar(&mint, "mint", "", "Show transactions of one mint instead")
	fs.IntVar(&limit, "limit", 20, "Maximum transactions to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	network, err := domain.ParseNetwork(env.flags.network)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	env.network = network

	stores, err := env.openStores(ctx)
	if err != nil {
		return err
	}
	if stores == nil {
		return fmt.Errorf("%w: -postgres-dsn is required to list tokens", domain.ErrValidation)
	}

	if mint != "" {
		txs, err := stores.Transactions.ListByMint(ctx, mint, limit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(env.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tTYPE\tWALLET\tSIGNATURE")
		for _, t := range txs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", formatMillis(t.CreatedAt), t.Type,
				solana.ShortAddress(t.UserWallet), t.Signature)
		}
		return w.Flush()
	}

	if creator == "" {
		account, err := solana.LoadKeypairWallet(env.flags.keypair, nil)
		if err != nil {
			return fmt.Errorf("%w: -creator not set and %w", domain.ErrValidation, err)
		}
		creator = account.PublicKey().ToBase58()
	}

	tokens, err := stores.Tokens.ListByCreator(ctx, creator, network)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		fmt.Fprintf(env.out, "No tokens created by %s on %s\n", creator, network)
		return nil
	}

	w := tabwriter.NewWriter(env.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CREATED\tSYMBOL\tNAME\tSUPPLY\tPLAN\tMINT")
	for _, t := range tokens {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", formatMillis(t.CreatedAt), t.Symbol, t.Name,
			t.InitialSupply, t.Plan, t.MintAddress)
	}
	return w.Flush()
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}

