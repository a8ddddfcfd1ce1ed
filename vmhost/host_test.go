package vmhost

import (
	"errors"
	"testing"

	"github.com/odana/odana-core/kv"
	"github.com/odana/odana-core/primitives"
	"github.com/odana/odana-core/smt"
)

// counterModule seeds a single stored counter at Genesis, increments it on
// Call, and reports it on Query.
type counterModule struct{}

func (counterModule) Genesis(ctx *Context) error {
	ctx.StorageInsert([]byte("counter"), []byte{0})
	return nil
}

func (counterModule) Call(ctx *Context, args []byte) error {
	v, ok := ctx.StorageGet([]byte("counter"))
	n := byte(0)
	if ok {
		n = v[0]
	}
	ctx.StorageInsert([]byte("counter"), []byte{n + 1})
	ctx.EmitEvent([]byte("incremented"))
	return nil
}

func (counterModule) Query(ctx *Context, args []byte) ([]byte, error) {
	v, _ := ctx.StorageGet([]byte("counter"))
	return v, nil
}

// loopingModule never returns from Call, guaranteeing it exhausts its fuel.
type loopingModule struct{}

func (loopingModule) Genesis(ctx *Context) error { return nil }

func (loopingModule) Call(ctx *Context, args []byte) error {
	for {
		ctx.StorageGet([]byte("x"))
	}
}

func (loopingModule) Query(ctx *Context, args []byte) ([]byte, error) {
	return nil, nil
}

// mutatingQueryModule attempts a forbidden storage write from Query.
type mutatingQueryModule struct{}

func (mutatingQueryModule) Genesis(ctx *Context) error { return nil }
func (mutatingQueryModule) Call(ctx *Context, args []byte) error {
	return nil
}
func (mutatingQueryModule) Query(ctx *Context, args []byte) ([]byte, error) {
	ctx.StorageInsert([]byte("x"), []byte{1})
	return nil, nil
}

func newTestHost(t *testing.T) (*Host, primitives.Hash) {
	t.Helper()
	registry := NewRegistry()
	binHash := primitives.Hash{0x01}
	registry.Register(binHash, counterModule{})
	return New(DefaultConfig(), registry), binHash
}

func testInvocation(binHash primitives.Hash) Invocation {
	return Invocation{
		App:           primitives.Address{0xaa},
		BinaryHash:    binHash,
		Sender:        primitives.Address{0x01},
		SenderAccount: primitives.NewUserAccount(),
		BlockLevel:    1,
		Fee:           1,
	}
}

func TestGenesisThenCallThenQuery(t *testing.T) {
	host, binHash := newTestHost(t)
	store := &memSMTStore{db: kv.NewMemDB()}
	tree := smt.New(store)

	inv := testInvocation(binHash)
	if _, err := host.Genesis(inv, tree); err != nil {
		t.Fatal(err)
	}

	res, err := host.Call(inv, tree, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("Call events = %v, want 1", res.Events)
	}

	resp, _, err := host.Query(inv, tree, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp) != 1 || resp[0] != 1 {
		t.Fatalf("Query response = %v, want [1]", resp)
	}
}

func TestOutOfFuelContainment(t *testing.T) {
	registry := NewRegistry()
	binHash := primitives.Hash{0x02}
	registry.Register(binHash, loopingModule{})
	host := New(DefaultConfig(), registry)

	store := &memSMTStore{db: kv.NewMemDB()}
	tree := smt.New(store)
	inv := testInvocation(binHash)
	inv.FuelLimit = 100

	_, err := host.Call(inv, tree, nil)
	if !errors.Is(err, ErrOutOfFuel) {
		t.Fatalf("Call with a looping module = %v, want ErrOutOfFuel", err)
	}
}

func TestQueryForbidsMutation(t *testing.T) {
	registry := NewRegistry()
	binHash := primitives.Hash{0x03}
	registry.Register(binHash, mutatingQueryModule{})
	host := New(DefaultConfig(), registry)

	store := &memSMTStore{db: kv.NewMemDB()}
	tree := smt.New(store)
	inv := testInvocation(binHash)

	_, _, err := host.Query(inv, tree, nil)
	if !errors.Is(err, ErrUnauthorizedHostCall) {
		t.Fatalf("Query attempting a storage write = %v, want ErrUnauthorizedHostCall", err)
	}
}

func TestUnknownModule(t *testing.T) {
	host, _ := newTestHost(t)
	store := &memSMTStore{db: kv.NewMemDB()}
	tree := smt.New(store)
	inv := testInvocation(primitives.Hash{0xff})

	if _, err := host.Call(inv, tree, nil); err != ErrUnknownModule {
		t.Fatalf("Call with unregistered binary hash = %v, want ErrUnknownModule", err)
	}
}

// memSMTStore adapts a kv.Database to smt.Store, mirroring statedb's
// adapter, kept local to avoid a test-only import cycle on statedb.
type memSMTStore struct {
	db kv.Database
}

func (s *memSMTStore) GetNode(hash primitives.Hash) ([]byte, bool, error) {
	raw, err := s.db.Get(kv.NodeKey(hash.Bytes()))
	if err != nil {
		if err == kv.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	return raw, true, nil
}

func (s *memSMTStore) PutNode(hash primitives.Hash, raw []byte) error {
	return s.db.Put(kv.NodeKey(hash.Bytes()), raw)
}
