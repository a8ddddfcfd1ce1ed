package nodecfg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/odana/odana-core/blockproc"
	"github.com/odana/odana-core/primitives"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig() should validate, got: %v", err)
	}
}

func TestValidateRejectsUnknownNetwork(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Network = Network("regtest")
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown network")
	}
}

func TestValidateRejectsUnknownKVBackend(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KVBackend = "badger"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown kv backend")
	}
}

func TestValidateRejectsUnknownFeePolicy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FeePolicy = blockproc.FeePolicy(99)
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown fee policy")
	}
}

func TestValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "trace"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}

func TestValidateAcceptsZeroMinerAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinerAddress = primitives.Address{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero miner address should validate: %v", err)
	}
}

func TestValidateEncodesNonZeroMinerAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinerAddress = primitives.Address{0x01, 0x02, 0x03}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("non-zero miner address should encode and validate: %v", err)
	}
}

func TestBech32PrefixPerNetwork(t *testing.T) {
	cases := map[Network]string{
		NetworkMainnet:  "od",
		NetworkAlphanet: "odalpha",
		NetworkTestnet:  "odtest",
	}
	for network, want := range cases {
		if got := network.Bech32Prefix(); got != want {
			t.Errorf("%s.Bech32Prefix() = %q, want %q", network, got, want)
		}
	}
}

func TestInitDataDirCreatesLayout(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.DataDir = dir
	if err := cfg.InitDataDir(); err != nil {
		t.Fatalf("InitDataDir: %v", err)
	}
	if got, want := cfg.ChainDataDir(), filepath.Join(dir, "chaindata"); got != want {
		t.Errorf("ChainDataDir() = %q, want %q", got, want)
	}
	if got, want := cfg.SubRootLogDir(), filepath.Join(dir, "subroots"); got != want {
		t.Errorf("SubRootLogDir() = %q, want %q", got, want)
	}
	for _, sub := range []string{"chaindata", "subroots"} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("expected directory %s to exist", sub)
		}
	}
}
