package chainstore

import (
	"testing"

	"github.com/odana/odana-core/crypto"
	"github.com/odana/odana-core/kv"
	"github.com/odana/odana-core/primitives"
)

func hashHeader(h *primitives.Header) primitives.Hash {
	enc, err := primitives.Encode(h)
	if err != nil {
		return primitives.Hash{}
	}
	return crypto.Sha256Hash(enc)
}

func TestOpenEmptyChainHasNoHead(t *testing.T) {
	c, err := Open(kv.NewMemDB(), DefaultConfig(), hashHeader)
	if err != nil {
		t.Fatal(err)
	}
	if c.Head() != nil {
		t.Fatalf("Head() = %+v, want nil", c.Head())
	}
}

func TestInsertGenesisThenChild(t *testing.T) {
	c, err := Open(kv.NewMemDB(), DefaultConfig(), hashHeader)
	if err != nil {
		t.Fatal(err)
	}

	genesis := &primitives.Block{Header: &primitives.Header{Level: 0, Timestamp: 1}}
	if err := c.InsertBlock(genesis, nil); err != nil {
		t.Fatalf("InsertBlock(genesis): %v", err)
	}
	if c.Head().Level != 0 {
		t.Fatalf("head level = %d, want 0", c.Head().Level)
	}

	child := &primitives.Block{
		Header: &primitives.Header{
			ParentHash: hashHeader(genesis.Header),
			Level:      1,
			Timestamp:  2,
		},
		Transactions: []*primitives.Transaction{
			{Sender: primitives.Address{0x01}, Nonce: 1, Kind: primitives.TxTransfer},
		},
	}
	receipt := &primitives.Receipt{TxHash: child.Transactions[0].Hash(func(b []byte) primitives.Hash { return crypto.Sha256Hash(b) })}
	if err := c.InsertBlock(child, []*primitives.Receipt{receipt}); err != nil {
		t.Fatalf("InsertBlock(child): %v", err)
	}
	if c.Head().Level != 1 {
		t.Fatalf("head level = %d, want 1", c.Head().Level)
	}

	childHash := hashHeader(child.Header)
	got, err := c.HeaderByHash(childHash)
	if err != nil {
		t.Fatal(err)
	}
	if got.Level != 1 {
		t.Fatalf("HeaderByHash level = %d, want 1", got.Level)
	}

	byLevel, err := c.HeaderByLevel(1)
	if err != nil {
		t.Fatal(err)
	}
	if hashHeader(byLevel) != childHash {
		t.Fatalf("HeaderByLevel returned a different header than the one inserted")
	}

	txs, err := c.Transactions(childHash)
	if err != nil {
		t.Fatal(err)
	}
	if len(txs) != 1 {
		t.Fatalf("Transactions() len = %d, want 1", len(txs))
	}

	gotReceipt, err := c.Receipt(receipt.TxHash)
	if err != nil {
		t.Fatal(err)
	}
	if gotReceipt.TxHash != receipt.TxHash {
		t.Fatalf("Receipt() returned wrong receipt")
	}
}

func TestInsertBlockRejectsWrongParent(t *testing.T) {
	c, err := Open(kv.NewMemDB(), DefaultConfig(), hashHeader)
	if err != nil {
		t.Fatal(err)
	}
	genesis := &primitives.Block{Header: &primitives.Header{Level: 0, Timestamp: 1}}
	if err := c.InsertBlock(genesis, nil); err != nil {
		t.Fatal(err)
	}

	bad := &primitives.Block{Header: &primitives.Header{ParentHash: primitives.Hash{0xff}, Level: 1, Timestamp: 2}}
	if err := c.InsertBlock(bad, nil); err != ErrUnknownParent {
		t.Fatalf("InsertBlock with a wrong parent = %v, want ErrUnknownParent", err)
	}
}

func TestInsertBlockIsIdempotent(t *testing.T) {
	c, err := Open(kv.NewMemDB(), DefaultConfig(), hashHeader)
	if err != nil {
		t.Fatal(err)
	}
	genesis := &primitives.Block{Header: &primitives.Header{Level: 0, Timestamp: 1}}
	if err := c.InsertBlock(genesis, nil); err != nil {
		t.Fatal(err)
	}
	if err := c.InsertBlock(genesis, nil); err != ErrHeaderKnown {
		t.Fatalf("re-inserting genesis = %v, want ErrHeaderKnown", err)
	}
}

func TestCompressionRoundTripsThroughKV(t *testing.T) {
	cfg := Config{CompressBodies: true}
	raw := []byte("some repeated repeated repeated repeated payload bytes")
	compressed, err := maybeCompress(cfg, raw)
	if err != nil {
		t.Fatal(err)
	}
	back, err := maybeDecompress(cfg, compressed)
	if err != nil {
		t.Fatal(err)
	}
	if string(back) != string(raw) {
		t.Fatalf("round trip = %q, want %q", back, raw)
	}
}
