package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"

	"solana-token-forge/internal/solana"
)

var errDeclined = errors.New("declined by user")

var programNames = map[common.PublicKey]string{
	solana.SystemProgramID:          "System",
	solana.TokenProgramID:           "Token",
	solana.AssociatedTokenProgramID: "AssociatedToken",
	solana.TokenMetadataProgramID:   "TokenMetadata",
}

// describeMessage renders a message the way a wallet shows it before signing.
func describeMessage(msg types.Message) string {
	var b strings.Builder
	if len(msg.Accounts) > 0 {
		fmt.Fprintf(&b, "Fee payer:  %s\n", msg.Accounts[0].ToBase58())
	}
	fmt.Fprintf(&b, "Blockhash:  %s\n", msg.RecentBlockHash)
	fmt.Fprintf(&b, "Signers:    %d\n", msg.Header.NumRequireSignatures)

	for i, ins := range msg.DecompileInstructions() {
		name, ok := programNames[ins.ProgramID]
		if !ok {
			name = ins.ProgramID.ToBase58()
		}
		fmt.Fprintf(&b, "  #%d %s (%d accounts, %d bytes)\n", i+1, name, len(ins.Accounts), len(ins.Data))
	}
	return b.String()
}

// promptApprover asks on out and reads y/N from in before every signature.
func promptApprover(in io.Reader, out io.Writer) solana.ApproveFunc {
	reader := bufio.NewReader(in)
	return func(ctx context.Context, msg types.Message) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintln(out, "Transaction to sign:")
		fmt.Fprint(out, describeMessage(msg))
		fmt.Fprint(out, "Approve? [y/N]: ")

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read approval: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return nil
		default:
			return errDeclined
		}
	}
}
