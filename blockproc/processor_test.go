package blockproc

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/odana/odana-core/apps/namespaceregistry"
	"github.com/odana/odana-core/crypto"
	"github.com/odana/odana-core/kv"
	ed25519std "crypto/ed25519"

	"github.com/odana/odana-core/primitives"
	"github.com/odana/odana-core/smt"
	"github.com/odana/odana-core/statedb"
	"github.com/odana/odana-core/vmhost"
)

var nsRegistryAddr = primitives.Address{0xff, 0xff}

// newGenesisState builds a state database with one funded user account and
// the namespace registry application installed, mirroring what a real
// genesis builder would do.
func newGenesisState(t *testing.T, funded primitives.Address, balance uint64) *statedb.StateDB {
	t.Helper()
	sdb := statedb.New(kv.NewMemDB())

	user := primitives.NewUserAccount()
	user.Nonce = 1
	user.FreeBalance = uint256.NewInt(balance)
	if err := sdb.SetAccount(funded, user); err != nil {
		t.Fatal(err)
	}

	nsAcct := primitives.NewApplicationAccount(namespaceregistry.BinaryHash, primitives.Hash{}, smt.EmptyRoot)
	if err := sdb.SetAccount(nsRegistryAddr, nsAcct); err != nil {
		t.Fatal(err)
	}
	nsTree, err := sdb.AppTree(nsRegistryAddr)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range namespaceregistry.DefaultReserved() {
		if err := namespaceregistry.Claim(nsTree, r.PackageName, namespaceregistry.AdminOwner); err != nil {
			t.Fatal(err)
		}
	}
	nsRoot, err := nsTree.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if err := sdb.SetAppRoot(nsRegistryAddr, nsRoot); err != nil {
		t.Fatal(err)
	}

	if _, err := sdb.Commit(); err != nil {
		t.Fatal(err)
	}
	return sdb
}

func newProcessor() *Processor {
	registry := vmhost.NewRegistry()
	host := vmhost.New(vmhost.DefaultConfig(), registry)
	cfg := DefaultConfig()
	cfg.NamespaceRegistryAddr = nsRegistryAddr
	return New(cfg, host)
}

func signEd25519(t *testing.T, tx *primitives.Transaction, pub ed25519std.PublicKey, priv ed25519std.PrivateKey) {
	t.Helper()
	tx.SigKind = primitives.SigEd25519
	tx.PubKey = pub
	payload, err := tx.SigningPayload()
	if err != nil {
		t.Fatal(err)
	}
	tx.Signature = crypto.SignEd25519(priv, payload)
}

func buildBlock(parent *primitives.Header, txs []*primitives.Transaction, stateRoot primitives.Hash, miner primitives.Address) *primitives.Block {
	header := &primitives.Header{
		ParentHash: parent.Hash(sha256Hash1),
		StateRoot:  stateRoot,
		TxRoot:     ComputeTxRoot(txs),
		Level:      parent.Level + 1,
		Timestamp:  parent.Timestamp + 1,
		Miner:      miner,
	}
	return &primitives.Block{Header: header, Transactions: txs}
}

func TestProcessBlockTransferScenario(t *testing.T) {
	pub, priv, err := crypto.GenerateEd25519Key()
	if err != nil {
		t.Fatal(err)
	}
	alice := crypto.AddressFromEd25519PubKey(pub)
	bob := primitives.Address{0x0b, 0x0b}

	sdb := newGenesisState(t, alice, 1000)
	parent := &primitives.Header{Level: 0, Timestamp: 1000, StateRoot: sdb.Root()}

	tx := &primitives.Transaction{
		Sender:    alice,
		Nonce:     1,
		Kind:      primitives.TxTransfer,
		To:        bob,
		Amount:    uint256.NewInt(100),
		FuelLimit: 1,
		FuelPrice: uint256.NewInt(1),
	}
	signEd25519(t, tx, pub, priv)

	p := newProcessor()

	// Probe the resulting root by running against a scratch fork first,
	// mirroring how a miner would locally execute before sealing a header.
	// The probe header names the same miner as the block so the fee credit
	// lands on the same account in both runs.
	probe := sdb.Fork()
	probeReceipt, err := p.applyTx(probe, &primitives.Header{Miner: primitives.Address{0xaa}}, tx)
	if err != nil {
		t.Fatalf("probe apply: %v", err)
	}
	if probeReceipt.Status != primitives.StatusSuccess {
		t.Fatalf("probe receipt status = %v, want success", probeReceipt.Status)
	}
	wantRoot := probe.Root()

	block := buildBlock(parent, []*primitives.Transaction{tx}, wantRoot, primitives.Address{0xaa})

	result, err := p.ProcessBlock(sdb, parent, block)
	if err != nil {
		t.Fatalf("ProcessBlock: %v", err)
	}
	if len(result.Receipts) != 1 || result.Receipts[0].Status != primitives.StatusSuccess {
		t.Fatalf("receipts = %+v", result.Receipts)
	}

	aliceAcct, err := result.State.GetAccount(alice)
	if err != nil {
		t.Fatal(err)
	}
	if aliceAcct.FreeBalance.Uint64() != 899 {
		t.Fatalf("alice balance = %s, want 899", aliceAcct.FreeBalance)
	}
	if aliceAcct.Nonce != 2 {
		t.Fatalf("alice nonce = %d, want 2", aliceAcct.Nonce)
	}
	bobAcct, err := result.State.GetAccount(bob)
	if err != nil {
		t.Fatal(err)
	}
	if bobAcct.FreeBalance.Uint64() != 100 {
		t.Fatalf("bob balance = %s, want 100", bobAcct.FreeBalance)
	}
}

func TestProcessBlockRejectsBadNonce(t *testing.T) {
	pub, priv, err := crypto.GenerateEd25519Key()
	if err != nil {
		t.Fatal(err)
	}
	alice := crypto.AddressFromEd25519PubKey(pub)
	sdb := newGenesisState(t, alice, 1000)
	parent := &primitives.Header{Level: 0, Timestamp: 1000, StateRoot: sdb.Root()}

	tx := &primitives.Transaction{
		Sender: alice, Nonce: 99, Kind: primitives.TxTransfer,
		To: primitives.Address{0x0b}, Amount: uint256.NewInt(1),
		FuelLimit: 1, FuelPrice: uint256.NewInt(1),
	}
	signEd25519(t, tx, pub, priv)

	p := newProcessor()
	block := buildBlock(parent, []*primitives.Transaction{tx}, sdb.Root(), primitives.Address{0xaa})
	if _, err := p.ProcessBlock(sdb, parent, block); err != ErrNonceOutOfOrder {
		t.Fatalf("ProcessBlock with a bad nonce = %v, want ErrNonceOutOfOrder", err)
	}
}

func TestProcessBlockRejectsRootMismatch(t *testing.T) {
	pub, priv, err := crypto.GenerateEd25519Key()
	if err != nil {
		t.Fatal(err)
	}
	alice := crypto.AddressFromEd25519PubKey(pub)
	sdb := newGenesisState(t, alice, 1000)
	parent := &primitives.Header{Level: 0, Timestamp: 1000, StateRoot: sdb.Root()}

	tx := &primitives.Transaction{
		Sender: alice, Nonce: 1, Kind: primitives.TxTransfer,
		To: primitives.Address{0x0b}, Amount: uint256.NewInt(1),
		FuelLimit: 1, FuelPrice: uint256.NewInt(1),
	}
	signEd25519(t, tx, pub, priv)

	p := newProcessor()
	block := buildBlock(parent, []*primitives.Transaction{tx}, primitives.Hash{0x01, 0x02}, primitives.Address{0xaa})
	if _, err := p.ProcessBlock(sdb, parent, block); err != ErrRootMismatch {
		t.Fatalf("ProcessBlock with a wrong declared root = %v, want ErrRootMismatch", err)
	}
}

func TestProcessBlockUnauthorizedNamespaceCreate(t *testing.T) {
	pub, priv, err := crypto.GenerateEd25519Key()
	if err != nil {
		t.Fatal(err)
	}
	attacker := crypto.AddressFromEd25519PubKey(pub)
	sdb := newGenesisState(t, attacker, 1000)
	parent := &primitives.Header{Level: 0, Timestamp: 1000, StateRoot: sdb.Root()}

	tx := &primitives.Transaction{
		Sender: attacker, Nonce: 1, Kind: primitives.TxCreate,
		PackageName: "com.odana.foo", // reserved at genesis, owned by AdminOwner
		Binary:      []byte{0x01},
		FuelLimit:   1000, FuelPrice: uint256.NewInt(1),
	}
	signEd25519(t, tx, pub, priv)

	p := newProcessor()

	probe := sdb.Fork()
	receipt, err := p.applyTx(probe, parent, tx)
	if err != nil {
		t.Fatalf("applyTx: %v", err)
	}
	if receipt.Status != primitives.StatusFailure {
		t.Fatalf("receipt status = %v, want failure (unauthorized namespace)", receipt.Status)
	}

	attackerAcct, err := probe.GetAccount(attacker)
	if err != nil {
		t.Fatal(err)
	}
	if attackerAcct.Nonce != 2 {
		t.Fatalf("attacker nonce after failed Create = %d, want 2 (still bumped)", attackerAcct.Nonce)
	}
	if attackerAcct.FreeBalance.Uint64() != 0 {
		t.Fatalf("attacker balance = %s, want 0 (fee FuelLimit*FuelPrice = 1000 still charged)", attackerAcct.FreeBalance)
	}
}
