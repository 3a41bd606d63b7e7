package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"solana-token-forge/internal/domain"
	"solana-token-forge/internal/registry"
	"solana-token-forge/internal/solana"
)

// globalFlags are shared by every command. Env vars provide defaults.
type globalFlags struct {
	network        string
	rpcEndpoint    string
	wsEndpoint     string
	keypair        string
	postgresDSN    string
	clickhouseDSN  string
	useMemory      bool
	migrate        bool
	yes            bool
	confirmTimeout time.Duration
}

func (g *globalFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&g.network, "network", envOr("SOLANA_NETWORK", string(domain.NetworkDevnet)), "Solana network: mainnet-beta or devnet")
	fs.StringVar(&g.rpcEndpoint, "rpc-endpoint", os.Getenv("SOLANA_RPC_ENDPOINT"), "Solana RPC HTTP endpoint (default: public endpoint of -network)")
	fs.StringVar(&g.wsEndpoint, "ws-endpoint", os.Getenv("SOLANA_WS_ENDPOINT"), "Solana WebSocket endpoint for confirmations (optional)")
	fs.StringVar(&g.keypair, "keypair", envOr("SOLANA_KEYPAIR", defaultKeypairPath()), "Path to solana-keygen JSON keypair")
	fs.StringVar(&g.postgresDSN, "postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string for the token registry (optional)")
	fs.StringVar(&g.clickhouseDSN, "clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string for transaction analytics (optional)")
	fs.BoolVar(&g.useMemory, "use-memory", false, "Use in-memory registry storage")
	fs.BoolVar(&g.migrate, "migrate", false, "Apply registry migrations before use")
	fs.BoolVar(&g.yes, "yes", false, "Sign without the approval prompt")
	fs.DurationVar(&g.confirmTimeout, "confirm-timeout", envDuration("CONFIRM_TIMEOUT", solana.DefaultConfirmTimeout), "Confirmation timeout")
}

// environment holds the clients a command needs, built lazily.
type environment struct {
	logger *log.Logger
	in     io.Reader
	out    io.Writer

	flags   globalFlags
	network domain.Network
	ledger  *solana.HTTPClient
	stores  *registry.Stores

	cleanups []func()
}

// connect resolves the network and creates the RPC client.
func (e *environment) connect(ctx context.Context) error {
	network, err := domain.ParseNetwork(e.flags.network)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	e.network = network

	endpoint := e.flags.rpcEndpoint
	if endpoint == "" {
		endpoint = network.DefaultEndpoint()
	}

	opts := []solana.ClientOption{solana.WithConfirmTimeout(e.flags.confirmTimeout)}
	if e.flags.wsEndpoint != "" {
		ws, err := solana.NewWSClient(ctx, e.flags.wsEndpoint, nil)
		if err != nil {
			// Confirmation falls back to polling.
			e.logger.Printf("WebSocket unavailable, polling for confirmation: %v", err)
		} else {
			e.cleanups = append(e.cleanups, func() { ws.Close() })
			opts = append(opts, solana.WithSignatureSubscriber(ws))
		}
	}

	e.ledger = solana.NewHTTPClient(endpoint, opts...)
	e.logger.Printf("Using %s via %s", network, endpoint)
	return nil
}

// wallet loads the signing keypair, optionally behind an approval prompt.
func (e *environment) wallet() (*solana.KeypairWallet, error) {
	var opts []solana.WalletOption
	if !e.flags.yes {
		opts = append(opts, solana.WithApprover(promptApprover(e.in, e.out)))
	}

	w, err := solana.LoadKeypairWallet(e.flags.keypair, e.ledger, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSigning, err)
	}
	return w, nil
}

// openStores connects the registry. Returns nil stores when none is configured.
func (e *environment) openStores(ctx context.Context) (*registry.Stores, error) {
	if e.stores != nil {
		return e.stores, nil
	}
	if !e.flags.useMemory && e.flags.postgresDSN == "" {
		return nil, nil
	}

	stores, cleanup, err := registry.OpenStores(ctx, registry.StoreConfig{
		PostgresDSN:   e.flags.postgresDSN,
		ClickhouseDSN: e.flags.clickhouseDSN,
		UseMemory:     e.flags.useMemory,
		Migrate:       e.flags.migrate,
	})
	if err != nil {
		return nil, err
	}
	e.cleanups = append(e.cleanups, cleanup)
	e.stores = stores
	return stores, nil
}

// recorder returns a registry recorder, or nil when no registry is configured.
func (e *environment) recorder(ctx context.Context) (*registry.Recorder, error) {
	stores, err := e.openStores(ctx)
	if err != nil || stores == nil {
		return nil, err
	}

	opts := []registry.Option{registry.WithLogger(e.logger)}
	if stores.Events != nil {
		opts = append(opts, registry.WithEventStore(stores.Events))
	}
	return registry.New(stores.Tokens, stores.Transactions, opts...), nil
}

func (e *environment) close() {
	for i := len(e.cleanups) - 1; i >= 0; i-- {
		e.cleanups[i]()
	}
	e.cleanups = nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func defaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "id.json"
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

// newFlagSet creates a command flag set with the shared flags registered.
func newFlagSet(e *environment, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	e.flags.register(fs)
	return fs
}

// required fails with a validation error when any named flag is blank.
func required(values map[string]string) error {
	var missing []string
	for name, v := range values {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, "-"+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: missing %s", domain.ErrValidation, strings.Join(missing, ", "))
}
