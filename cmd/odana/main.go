// Command odana is the entry point for a single odana execution-core node
// process: it loads configuration, bootstraps or opens a chain, and serves
// a metrics endpoint. Networking and RPC are left to a separate process
// wired against rpcfacade.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/odana/odana-core/genesis"
	"github.com/odana/odana-core/internal/node"
	"github.com/odana/odana-core/internal/nodecfg"
	"github.com/odana/odana-core/log"
	"github.com/odana/odana-core/primitives"
	"github.com/urfave/cli/v2"
)

// Build-time version info, overridable with ldflags:
//
//	go build -ldflags "-X main.version=v0.2.0 -X main.commit=abc1234"
var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	app := &cli.App{
		Name:    "odana",
		Usage:   "run an odana execution-core node",
		Version: fmt.Sprintf("%s (commit %s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "datadir", Usage: "data directory path"},
			&cli.StringFlag{Name: "network", Value: string(nodecfg.NetworkMainnet), Usage: "mainnet, alphanet, or testnet"},
			&cli.StringFlag{Name: "kv-backend", Value: "pebble", Usage: "pebble or leveldb"},
			&cli.StringFlag{Name: "miner-address", Usage: "bech32 address credited block fees"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn, or error"},
			&cli.StringFlag{Name: "log-file", Usage: "if set, write rotated JSON logs here instead of stderr"},
		},
		Commands: []*cli.Command{
			runCommand(),
			genesisCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "odana: %v\n", err)
		os.Exit(1)
	}
}

func configFromFlags(c *cli.Context) (nodecfg.Config, error) {
	cfg := nodecfg.DefaultConfig()
	if v := c.String("datadir"); v != "" {
		cfg.DataDir = v
	}
	if v := c.String("network"); v != "" {
		cfg.Network = nodecfg.Network(v)
	}
	if v := c.String("kv-backend"); v != "" {
		cfg.KVBackend = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v := c.String("miner-address"); v != "" {
		addr, _, err := decodeAddressFlag(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid --miner-address: %w", err)
		}
		cfg.MinerAddress = addr
	}
	return cfg, cfg.Validate()
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "start the node and serve its metrics endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "metrics-addr", Value: ":9545", Usage: "address the metrics endpoint listens on (empty disables it)"},
			&cli.StringFlag{Name: "namespace-registry-addr", Usage: "bech32 address the namespace registry is installed at"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := configFromFlags(c)
			if err != nil {
				return err
			}
			setupLogging(cfg, c.String("log-file"))

			nsAddr, err := namespaceRegistryAddrFlag(c)
			if err != nil {
				return err
			}
			gcfg := genesis.Config{ChainID: 1, NamespaceRegistryAddr: nsAddr}

			n, err := node.New(cfg, gcfg)
			if err != nil {
				return fmt.Errorf("creating node: %w", err)
			}
			if err := n.Start(c.String("metrics-addr")); err != nil {
				return fmt.Errorf("starting node: %w", err)
			}

			log.Info("odana node running", "version", version, "network", cfg.Network)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			<-ctx.Done()

			log.Info("shutting down")
			return n.Stop()
		},
	}
}

func genesisCommand() *cli.Command {
	return &cli.Command{
		Name:  "genesis",
		Usage: "initialize a fresh data directory's genesis state and exit",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "namespace-registry-addr", Required: true, Usage: "bech32 address the namespace registry is installed at"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := configFromFlags(c)
			if err != nil {
				return err
			}
			nsAddr, err := namespaceRegistryAddrFlag(c)
			if err != nil {
				return err
			}
			gcfg := genesis.Config{ChainID: 1, NamespaceRegistryAddr: nsAddr}

			n, err := node.New(cfg, gcfg)
			if err != nil {
				return fmt.Errorf("creating node: %w", err)
			}
			defer n.Stop()

			head := n.Chain().Head()
			fmt.Printf("genesis ready: level=%d state_root=%s datadir=%s\n", head.Level, head.StateRoot, cfg.DataDir)
			return nil
		},
	}
}

func namespaceRegistryAddrFlag(c *cli.Context) (primitives.Address, error) {
	v := c.String("namespace-registry-addr")
	if v == "" {
		return primitives.Address{}, fmt.Errorf("--namespace-registry-addr is required")
	}
	addr, _, err := decodeAddressFlag(v)
	return addr, err
}

func setupLogging(cfg nodecfg.Config, logFile string) {
	level := parseLogLevel(cfg.LogLevel)
	if logFile == "" {
		log.SetDefault(log.New(level))
		return
	}
	log.SetDefault(log.NewRotatingFile(level, log.RotatingFileConfig{
		Path:       logFile,
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 28,
		Compress:   true,
	}))
}
