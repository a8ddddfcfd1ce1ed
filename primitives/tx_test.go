package primitives

import (
	"testing"

	"github.com/holiman/uint256"
)

func sampleTransfer() *Transaction {
	return &Transaction{
		Network:   1,
		Sender:    Address{1},
		Nonce:     1,
		Kind:      TxTransfer,
		To:        Address{2},
		Amount:    uint256.NewInt(100),
		FuelLimit: 21000,
		FuelPrice: uint256.NewInt(1),
		SigKind:   SigEd25519,
	}
}

func stubHash(b []byte) Hash {
	var h Hash
	copy(h[:], b)
	return h
}

func TestTransactionFeeAndCost(t *testing.T) {
	tx := sampleTransfer()
	if tx.Fee().Uint64() != 21000 {
		t.Fatalf("Fee() = %s, want 21000", tx.Fee())
	}
	if tx.Cost().Uint64() != 21100 {
		t.Fatalf("Cost() = %s, want 21100", tx.Cost())
	}
}

func TestTransactionCostExcludesAmountForNonTransfer(t *testing.T) {
	tx := sampleTransfer()
	tx.Kind = TxCall
	tx.App = Address{9}
	tx.Args = []byte("payload")
	if tx.Cost().Cmp(tx.Fee()) != 0 {
		t.Fatalf("Cost() for a Call transaction should equal Fee(), got %s vs %s", tx.Cost(), tx.Fee())
	}
}

func TestSigningPayloadExcludesSignature(t *testing.T) {
	tx := sampleTransfer()
	without, err := tx.SigningPayload()
	if err != nil {
		t.Fatal(err)
	}

	tx.Signature = []byte{1, 2, 3, 4}
	withSig, err := tx.SigningPayload()
	if err != nil {
		t.Fatal(err)
	}
	if string(without) != string(withSig) {
		t.Fatalf("SigningPayload changed after setting Signature")
	}
}

func TestHashIsCached(t *testing.T) {
	tx := sampleTransfer()
	calls := 0
	hashFn := func(b []byte) Hash {
		calls++
		return stubHash(b)
	}
	h1 := tx.Hash(hashFn)
	h2 := tx.Hash(hashFn)
	if h1 != h2 {
		t.Fatalf("Hash() not stable across calls")
	}
	if calls != 1 {
		t.Fatalf("hashFn called %d times, want 1 (cached)", calls)
	}
}

func TestCreateTransactionFields(t *testing.T) {
	tx := &Transaction{
		Kind:           TxCreate,
		PackageName:    "com.odana.foo",
		Binary:         []byte{0xde, 0xad},
		DescriptorHash: Hash{0x01},
		FuelLimit:      100000,
		FuelPrice:      uint256.NewInt(2),
	}
	if tx.Cost().Uint64() != 200000 {
		t.Fatalf("Create tx Cost() = %s, want 200000 (no Amount component)", tx.Cost())
	}
	enc, err := tx.SigningPayload()
	if err != nil {
		t.Fatal(err)
	}
	if len(enc) == 0 {
		t.Fatalf("SigningPayload() returned empty encoding")
	}
}
