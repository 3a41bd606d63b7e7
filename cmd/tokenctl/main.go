// Command tokenctl creates and manages SPL tokens from a local keypair.
//
// Usage:
//
//	tokenctl create -name "My Token" -symbol MYT -supply 1000000 -uri https://...
//	tokenctl mint -mint <address> -amount 10.5
//	tokenctl burn -mint <address> -amount 3
//	tokenctl freeze -mint <address> -owner <wallet>
//	tokenctl thaw -mint <address> -owner <wallet>
//	tokenctl update-metadata -mint <address> -name N -symbol S -uri https://...
//	tokenctl tokens [-creator <wallet>]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/tx"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *environment, args []string) error
}

var commands = []command{
	{"create", "Create a token with metadata in one transaction", runCreate},
	{"mint", "Mint more tokens to your wallet", manageCommand(domain.OperationMint)},
	{"burn", "Burn tokens from your wallet", manageCommand(domain.OperationBurn)},
	{"freeze", "Freeze a holder's token account", manageCommand(domain.OperationFreeze)},
	{"thaw", "Thaw a holder's token account", manageCommand(domain.OperationThaw)},
	{"update-metadata", "Replace the token's name, symbol and URI", manageCommand(domain.OperationUpdateMetadata)},
	{"revoke", "Permanently revoke the mint or freeze authority", manageCommand(domain.OperationRevokeAuthority)},
	{"transfer-authority", "Hand the mint or freeze authority to another wallet", manageCommand(domain.OperationTransferAuthority)},
	{"info", "Show supply, authorities and your balance", runInfo},
	{"tokens", "List created tokens and their transactions", runTokens},
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	logger := log.New(os.Stderr, "[tokenctl] ", log.LstdFlags)

	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "help" {
		usage()
		os.Exit(2)
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == os.Args[1] {
			cmd = &commands[i]
		}
	}
	if cmd == nil {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, cancelling...", sig)
		cancel()
	}()

	env := &environment{logger: logger, in: os.Stdin, out: os.Stdout}
	err := cmd.run(ctx, env, os.Args[2:])
	env.close()

	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, tx.Message(err))
		logger.Printf("%s failed (%s): %v", cmd.name, tx.Classify(err), err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: tokenctl <command> [flags]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-20s %s\n", c.name, c.summary)
	}
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Run 'tokenctl <command> -h' for command flags.")
}

// envDuration reads a duration env var, falling back to def.
func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// loadEnvFile loads KEY=VALUE pairs from .env without overriding the environment.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
