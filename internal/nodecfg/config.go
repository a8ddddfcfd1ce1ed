// Package nodecfg loads and validates the configuration a single odana node
// process runs with: data directory, network selection, miner address, fee
// policy, and the fuel-cost vector charged per host call. It is grounded on
// the teacher's pkg/node/config.go (flat Config struct, Validate method,
// platform-specific default data directory) and pkg/node/config_loader.go
// (structured, section-based NodeConfig layered on top of it), collapsed
// here into one struct since this node has far fewer subsystems than a full
// devp2p client.
package nodecfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/odana/odana-core/address"
	"github.com/odana/odana-core/blockproc"
	"github.com/odana/odana-core/primitives"
	"github.com/odana/odana-core/vmhost"
)

// Network names the bech32 human-readable prefix and genesis parameters a
// node operates under, per spec §6.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkAlphanet Network = "alphanet"
	NetworkTestnet  Network = "testnet"
)

// Bech32Prefix returns the address human-readable part this network signs
// addresses with, per address.Network's HRP table.
func (n Network) Bech32Prefix() string {
	return n.addrNetwork().HRP()
}

// addrNetwork maps the node's network selection onto address.Network, the
// type address.Encode and address.Decode actually operate on.
func (n Network) addrNetwork() address.Network {
	switch n {
	case NetworkAlphanet:
		return address.Alphanet
	case NetworkTestnet:
		return address.Testnet
	default:
		return address.Mainnet
	}
}

func (n Network) valid() bool {
	switch n {
	case NetworkMainnet, NetworkAlphanet, NetworkTestnet:
		return true
	default:
		return false
	}
}

// Config holds everything a node process needs to open its databases,
// build its block processor, and (optionally) mine.
type Config struct {
	// DataDir is the root directory for chain and state databases.
	DataDir string
	// Network selects the bech32 prefix and default peer set.
	Network Network
	// KVBackend selects the persistent key-value engine: "pebble" or
	// "leveldb".
	KVBackend string
	// MinerAddress, if non-zero, is credited transaction fees per
	// blockproc.Config.FeePolicy when this node produces a block.
	MinerAddress primitives.Address
	// FeePolicy resolves spec §9's fee-destination open question.
	FeePolicy blockproc.FeePolicy
	// FuelSchedule is the per-host-call fuel cost vector charged to
	// application invocations.
	FuelSchedule vmhost.FuelSchedule
	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string
}

// defaultDataDir mirrors the teacher's platform-specific fallback.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".odana"
	}
	return filepath.Join(home, ".odana")
}

// DefaultConfig returns a mainnet configuration with sane defaults.
func DefaultConfig() Config {
	return Config{
		DataDir:      defaultDataDir(),
		Network:      NetworkMainnet,
		KVBackend:    "pebble",
		FeePolicy:    blockproc.FeeToMiner,
		FuelSchedule: vmhost.DefaultFuelSchedule(),
		LogLevel:     "info",
	}
}

// Validate checks the configuration for internal consistency before a node
// opens any database.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("nodecfg: datadir must not be empty")
	}
	if !c.Network.valid() {
		return fmt.Errorf("nodecfg: unknown network %q", c.Network)
	}
	switch c.KVBackend {
	case "pebble", "leveldb":
	default:
		return fmt.Errorf("nodecfg: unknown kv backend %q", c.KVBackend)
	}
	switch c.FeePolicy {
	case blockproc.FeeToMiner, blockproc.FeeBurn:
	default:
		return fmt.Errorf("nodecfg: unknown fee policy %v", c.FeePolicy)
	}
	if !c.MinerAddress.IsZero() {
		if _, err := address.Encode(c.MinerAddress, c.Network.addrNetwork()); err != nil {
			return fmt.Errorf("nodecfg: invalid miner address: %w", err)
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("nodecfg: unknown log level %q", c.LogLevel)
	}
	return nil
}

// InitDataDir creates the node's on-disk directory layout.
func (c *Config) InitDataDir() error {
	for _, sub := range []string{"chaindata", "subroots"} {
		if err := os.MkdirAll(filepath.Join(c.DataDir, sub), 0o755); err != nil {
			return fmt.Errorf("nodecfg: creating %s: %w", sub, err)
		}
	}
	return nil
}

// ChainDataDir returns the directory the node's KV backend opens.
func (c *Config) ChainDataDir() string {
	return filepath.Join(c.DataDir, "chaindata")
}

// SubRootLogDir returns the directory the append-only sub-root log opens.
func (c *Config) SubRootLogDir() string {
	return filepath.Join(c.DataDir, "subroots")
}
