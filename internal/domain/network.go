package domain

import "fmt"

// Network identifies a Solana cluster.
type Network string

const (
	NetworkMainnet Network = "mainnet-beta"
	NetworkDevnet  Network = "devnet"
)

// Default public RPC endpoints per network.
var defaultEndpoints = map[Network]string{
	NetworkMainnet: "https://api.mainnet-beta.solana.com",
	NetworkDevnet:  "https://api.devnet.solana.com",
}

const explorerBase = "https://solscan.io"

// ParseNetwork parses a network name.
func ParseNetwork(s string) (Network, error) {
	switch Network(s) {
	case NetworkMainnet, NetworkDevnet:
		return Network(s), nil
	case "mainnet":
		return NetworkMainnet, nil
	default:
		return "", fmt.Errorf("unknown network %q", s)
	}
}

// DefaultEndpoint returns the public RPC endpoint for the network.
func (n Network) DefaultEndpoint() string {
	return defaultEndpoints[n]
}

// ExplorerURL returns an explorer link for a transaction ("tx"), account
// ("address") or token ("token").
func (n Network) ExplorerURL(kind, value string) string {
	cluster := ""
	if n == NetworkDevnet {
		cluster = "?cluster=devnet"
	}
	switch kind {
	case "tx":
		return fmt.Sprintf("%s/tx/%s%s", explorerBase, value, cluster)
	case "address":
		return fmt.Sprintf("%s/account/%s%s", explorerBase, value, cluster)
	case "token":
		return fmt.Sprintf("%s/token/%s%s", explorerBase, value, cluster)
	default:
		return fmt.Sprintf("%s/%s%s", explorerBase, value, cluster)
	}
}
