package statedb

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/odana/odana-core/kv"
	"github.com/odana/odana-core/primitives"
	"github.com/odana/odana-core/smt"
)

func addr(b byte) primitives.Address {
	var a primitives.Address
	a[0] = b
	return a
}

func TestGetAccountNotFound(t *testing.T) {
	sdb := New(kv.NewMemDB())
	if _, err := sdb.GetAccount(addr(1)); err != ErrAccountNotFound {
		t.Fatalf("GetAccount on empty db = %v, want ErrAccountNotFound", err)
	}
	if nonce, err := sdb.GetNonce(addr(1)); err != nil || nonce != 1 {
		t.Fatalf("GetNonce on empty db = %d, %v, want 1, nil", nonce, err)
	}
}

func TestSetAndGetAccountRoundTrip(t *testing.T) {
	sdb := New(kv.NewMemDB())
	acct := primitives.NewUserAccount()
	acct.Nonce = 7
	acct.FreeBalance = uint256.NewInt(1000)

	if err := sdb.SetAccount(addr(1), acct); err != nil {
		t.Fatal(err)
	}
	got, err := sdb.GetAccount(addr(1))
	if err != nil {
		t.Fatal(err)
	}
	if got.Nonce != 7 || got.FreeBalance.Uint64() != 1000 {
		t.Fatalf("round-tripped account = %+v", got)
	}
}

func TestForkIsolation(t *testing.T) {
	sdb := New(kv.NewMemDB())
	acct := primitives.NewUserAccount()
	acct.FreeBalance = uint256.NewInt(500)
	if err := sdb.SetAccount(addr(1), acct); err != nil {
		t.Fatal(err)
	}
	baseRoot := sdb.Root()

	fork := sdb.Fork()
	forked := acct.Clone()
	forked.FreeBalance = uint256.NewInt(999)
	if err := fork.SetAccount(addr(1), forked); err != nil {
		t.Fatal(err)
	}

	if sdb.Root() != baseRoot {
		t.Fatalf("base root mutated by writes through a fork")
	}
	base, err := sdb.GetAccount(addr(1))
	if err != nil || base.FreeBalance.Uint64() != 500 {
		t.Fatalf("base account mutated by fork: %+v, %v", base, err)
	}
	forkedBack, err := fork.GetAccount(addr(1))
	if err != nil || forkedBack.FreeBalance.Uint64() != 999 {
		t.Fatalf("fork did not observe its own write: %+v, %v", forkedBack, err)
	}
}

func TestAppTreeRoundTrip(t *testing.T) {
	db := kv.NewMemDB()
	sdb := New(db)

	app := primitives.NewApplicationAccount(primitives.Hash{0xaa}, primitives.Hash{0xbb}, smt.EmptyRoot)
	if err := sdb.SetAccount(addr(9), app); err != nil {
		t.Fatal(err)
	}

	tree, err := sdb.AppTree(addr(9))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tree.Update([]byte("counter"), []byte{1}); err != nil {
		t.Fatal(err)
	}
	newRoot, err := tree.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if err := sdb.SetAppRoot(addr(9), newRoot); err != nil {
		t.Fatal(err)
	}

	reread, err := sdb.AppTree(addr(9))
	if err != nil {
		t.Fatal(err)
	}
	v, ok, err := reread.Get([]byte("counter"))
	if err != nil || !ok || v[0] != 1 {
		t.Fatalf("reread app tree counter = %v, %v, %v", v, ok, err)
	}
}

func TestGetAccountOnUserAccountRejectsAppTree(t *testing.T) {
	sdb := New(kv.NewMemDB())
	if err := sdb.SetAccount(addr(1), primitives.NewUserAccount()); err != nil {
		t.Fatal(err)
	}
	if _, err := sdb.AppTree(addr(1)); err != ErrNotApplication {
		t.Fatalf("AppTree on a user account = %v, want ErrNotApplication", err)
	}
}
