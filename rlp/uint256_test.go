package rlp

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
)

func TestEncodeDecodeUint256RoundTrip(t *testing.T) {
	values := []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(1),
		uint256.NewInt(127),
		uint256.NewInt(128),
		uint256.NewInt(1_000_000_000_000),
		new(uint256.Int).Not(uint256.NewInt(0)), // max u256
	}
	for _, v := range values {
		enc, err := EncodeToBytes(v)
		if err != nil {
			t.Fatalf("encode %s: %v", v, err)
		}
		var got uint256.Int
		if err := DecodeBytes(enc, &got); err != nil {
			t.Fatalf("decode %s: %v", v, err)
		}
		if got.Cmp(v) != 0 {
			t.Fatalf("round trip %s: got %s", v, &got)
		}
	}
}

func TestEncodeUint256MatchesBigInt(t *testing.T) {
	v := uint256.NewInt(987654321)
	enc, err := EncodeToBytes(v)
	if err != nil {
		t.Fatal(err)
	}
	encBig, err := EncodeToBytes(v.ToBig())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(enc, encBig) {
		t.Fatalf("uint256 encoding %x differs from equivalent big.Int encoding %x", enc, encBig)
	}
}
