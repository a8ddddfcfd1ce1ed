package node

import (
	"testing"

	"github.com/odana/odana-core/genesis"
	"github.com/odana/odana-core/internal/nodecfg"
	"github.com/odana/odana-core/primitives"
)

func newTestNode(t *testing.T) *Node {
	t.Helper()
	cfg := nodecfg.DefaultConfig()
	cfg.DataDir = t.TempDir()

	gcfg := genesis.Config{
		ChainID:               1,
		NamespaceRegistryAddr: primitives.Address{0xff, 0xff},
		Allocs: []genesis.Alloc{
			{Address: primitives.Address{0x01}, Balance: 1000},
		},
	}

	n, err := New(cfg, gcfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { n.Stop() })
	return n
}

func TestNewBootstrapsGenesis(t *testing.T) {
	n := newTestNode(t)
	if n.Chain().Head() == nil {
		t.Fatal("expected genesis head after New")
	}
	if n.Chain().Head().Level != 0 {
		t.Fatalf("head level = %d, want 0", n.Chain().Head().Level)
	}
}

func TestStartWithoutMetricsAddrDoesNotListen(t *testing.T) {
	n := newTestNode(t)
	if err := n.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if n.metricsServer != nil {
		t.Fatal("Start with an empty metrics address created a metrics server")
	}
	if err := n.Start(""); err == nil {
		t.Fatal("expected error starting an already-running node")
	}
}

func TestBalanceAndNonceReflectGenesisAllocs(t *testing.T) {
	n := newTestNode(t)
	funded := primitives.Address{0x01}

	bal, err := n.Balance(funded)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if bal.Words[0] != 1000 {
		t.Fatalf("balance words[0] = %d, want 1000", bal.Words[0])
	}

	nonce, err := n.Nonce(funded)
	if err != nil {
		t.Fatalf("Nonce: %v", err)
	}
	if nonce != 1 {
		t.Fatalf("nonce = %d, want 1", nonce)
	}

	unfunded := primitives.Address{0x02}
	bal, err = n.Balance(unfunded)
	if err != nil {
		t.Fatalf("Balance(unfunded): %v", err)
	}
	if bal.Words != ([4]uint64{}) {
		t.Fatalf("unfunded balance = %v, want zero", bal.Words)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	n := newTestNode(t)
	if err := n.Start(""); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := n.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := n.Stop(); err != nil {
		t.Fatalf("second Stop should be a no-op, got: %v", err)
	}
}
