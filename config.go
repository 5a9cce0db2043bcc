package routerenroll

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// ChainID represents a blockchain chain ID
type ChainID int64

const (
	ChainIDOptimism  ChainID = 10
	ChainIDBSC       ChainID = 56
	ChainIDGnosis    ChainID = 100
	ChainIDPolygon   ChainID = 137
	ChainIDManta     ChainID = 169
	ChainIDMoonbeam  ChainID = 1284
	ChainIDBase      ChainID = 8453
	ChainIDArbitrum  ChainID = 42161
	ChainIDCelo      ChainID = 42220
	ChainIDAvalanche ChainID = 43114
	ChainIDScroll    ChainID = 534352
)

// NativeCurrency describes the gas token of a chain
type NativeCurrency struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// Chain describes a chain the submitter can be bound to
type Chain struct {
	ID             ChainID
	Name           string
	RPCURL         string
	NativeCurrency NativeCurrency
}

// Validate reports whether the descriptor is usable for dialing and signing
func (c Chain) Validate() error {
	if c.ID <= 0 {
		return &ConfigurationError{Message: fmt.Sprintf("chain %q has invalid id %d", c.Name, c.ID)}
	}
	if c.RPCURL == "" {
		return &ConfigurationError{Message: fmt.Sprintf("chain %q has no RPC URL", c.Name)}
	}
	return nil
}

var ether = NativeCurrency{Name: "Ether", Symbol: "ETH", Decimals: 18}

// DefaultChains is the registry of chains known by name
var DefaultChains = map[string]Chain{
	"arbitrum": {
		ID: ChainIDArbitrum, Name: "Arbitrum One", RPCURL: "https://arb1.arbitrum.io/rpc",
		NativeCurrency: ether,
	},
	"avalanche": {
		ID: ChainIDAvalanche, Name: "Avalanche", RPCURL: "https://api.avax.network/ext/bc/C/rpc",
		NativeCurrency: NativeCurrency{Name: "Avalanche", Symbol: "AVAX", Decimals: 18},
	},
	"base": {
		ID: ChainIDBase, Name: "Base", RPCURL: "https://mainnet.base.org",
		NativeCurrency: ether,
	},
	"bsc": {
		ID: ChainIDBSC, Name: "BNB Smart Chain", RPCURL: "https://bsc-dataseed1.binance.org",
		NativeCurrency: NativeCurrency{Name: "BNB", Symbol: "BNB", Decimals: 18},
	},
	"celo": {
		ID: ChainIDCelo, Name: "Celo", RPCURL: "https://forno.celo.org",
		NativeCurrency: NativeCurrency{Name: "CELO", Symbol: "CELO", Decimals: 18},
	},
	"gnosis": {
		ID: ChainIDGnosis, Name: "Gnosis", RPCURL: "https://rpc.gnosischain.com",
		NativeCurrency: NativeCurrency{Name: "xDAI", Symbol: "XDAI", Decimals: 18},
	},
	"manta": {
		ID: ChainIDManta, Name: "Manta Pacific Mainnet", RPCURL: "https://pacific-rpc.manta.network/http",
		NativeCurrency: ether,
	},
	"moonbeam": {
		ID: ChainIDMoonbeam, Name: "Moonbeam", RPCURL: "https://moonbeam.public.blastapi.io",
		NativeCurrency: NativeCurrency{Name: "GLMR", Symbol: "GLMR", Decimals: 18},
	},
	"optimism": {
		ID: ChainIDOptimism, Name: "OP Mainnet", RPCURL: "https://mainnet.optimism.io",
		NativeCurrency: ether,
	},
	"polygon": {
		ID: ChainIDPolygon, Name: "Polygon", RPCURL: "https://polygon-rpc.com",
		NativeCurrency: NativeCurrency{Name: "POL", Symbol: "POL", Decimals: 18},
	},
	"scroll": {
		ID: ChainIDScroll, Name: "Scroll", RPCURL: "https://rpc.scroll.io",
		NativeCurrency: ether,
	},
}

// LookupChain returns the registry entry for name (case-insensitive)
func LookupChain(name string) (Chain, error) {
	chain, ok := DefaultChains[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Chain{}, &ConfigurationError{
			Message: fmt.Sprintf("unknown chain %q, must be one of %v", name, ChainNames()),
		}
	}
	return chain, nil
}

// ChainNames lists the registry keys in sorted order
func ChainNames() []string {
	names := make([]string, 0, len(DefaultChains))
	for name := range DefaultChains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClientConfig holds configuration for creating a Client
type ClientConfig struct {
	// PrivateKey is the signer key, hex with or without 0x
	PrivateKey string
	// ReadOnly allows an empty PrivateKey; submissions then fail with chain.ErrReadOnly
	ReadOnly bool
	Chain    Chain
	// RPCURL overrides Chain.RPCURL when set
	RPCURL string
	Logger *zap.Logger

	GasPrice *big.Int
	GasLimit uint64
	Nonce    *big.Int
}
