package genesis

import (
	"testing"

	"github.com/odana/odana-core/apps/namespaceregistry"
	"github.com/odana/odana-core/chainstore"
	"github.com/odana/odana-core/kv"
	"github.com/odana/odana-core/primitives"
)

func TestBuildCreditsAllocsAndInstallsRegistry(t *testing.T) {
	db := kv.NewMemDB()
	nsAddr := primitives.Address{0xff, 0xff}
	funded := primitives.Address{0x01}

	sdb, block, err := Build(db, Config{
		ChainID:               1,
		Timestamp:             1000,
		NamespaceRegistryAddr: nsAddr,
		Allocs:                []Alloc{{Address: funded, Balance: 500}},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if block.Header.Level != 0 {
		t.Fatalf("genesis level = %d, want 0", block.Header.Level)
	}

	acct, err := sdb.GetAccount(funded)
	if err != nil {
		t.Fatalf("GetAccount: %v", err)
	}
	if acct.FreeBalance.Uint64() != 500 {
		t.Fatalf("funded balance = %d, want 500", acct.FreeBalance.Uint64())
	}

	nsAcct, err := sdb.GetAccount(nsAddr)
	if err != nil {
		t.Fatalf("GetAccount(namespace registry): %v", err)
	}
	if nsAcct.CodeHash != namespaceregistry.BinaryHash {
		t.Fatalf("namespace registry code hash mismatch")
	}

	nsTree, err := sdb.AppTree(nsAddr)
	if err != nil {
		t.Fatalf("AppTree: %v", err)
	}
	owner, owned, err := namespaceregistry.Owner(nsTree, "com.odana.core")
	if err != nil {
		t.Fatalf("Owner: %v", err)
	}
	if !owned || owner != namespaceregistry.AdminOwner {
		t.Fatalf("reserved namespace not claimed by AdminOwner")
	}
}

func TestBuildRejectsZeroNamespaceRegistryAddr(t *testing.T) {
	db := kv.NewMemDB()
	_, _, err := Build(db, Config{})
	if err == nil {
		t.Fatal("expected error for zero NamespaceRegistryAddr")
	}
}

func TestInsertSeedsChainHead(t *testing.T) {
	db := kv.NewMemDB()
	nsAddr := primitives.Address{0xff, 0xff}

	_, block, err := Build(db, Config{NamespaceRegistryAddr: nsAddr})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	chain, err := chainstore.Open(db, chainstore.DefaultConfig(), HashHeader)
	if err != nil {
		t.Fatalf("chainstore.Open: %v", err)
	}
	if err := Insert(chain, block); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if chain.Head() == nil {
		t.Fatal("expected chain to have a head after inserting genesis")
	}
	if chain.Head().Level != 0 {
		t.Fatalf("head level = %d, want 0", chain.Head().Level)
	}
}
