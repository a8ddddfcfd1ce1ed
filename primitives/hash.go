// Package primitives defines the fixed-size value types shared across the
// execution core: hashes, the canonical binary codec, and account balances.
// It plays the role the teacher's core/types package plays for go-ethereum,
// generalized to the odana account/namespace model.
package primitives

import (
	"encoding/hex"
	"fmt"
)

// HashLength is the width in bytes of a tree hash, fixed by the SHA-256
// hash function used throughout the sparse Merkle tree.
const HashLength = 32

// Hash is the 32-byte output of the tree hash function.
type Hash [HashLength]byte

// BytesToHash left-pads b into a Hash, truncating from the left if b is
// longer than HashLength.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash parses a 0x-prefixed hex string into a Hash.
func HexToHash(s string) Hash {
	return BytesToHash(fromHex(s))
}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte { return h[:] }

// Hex renders the hash as a 0x-prefixed hex string.
func (h Hash) Hex() string { return fmt.Sprintf("0x%x", h[:]) }

// String implements fmt.Stringer.
func (h Hash) String() string { return h.Hex() }

// SetBytes sets the hash from b, left-padding or truncating as needed.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// IsZero reports whether the hash is the all-zero value.
func (h Hash) IsZero() bool { return h == Hash{} }

// Less reports whether h sorts before o in byte-lexicographic order.
func (h Hash) Less(o Hash) bool {
	for i := range h {
		if h[i] != o[i] {
			return h[i] < o[i]
		}
	}
	return false
}

// ZeroHash is the canonical zero-valued hash.
var ZeroHash = Hash{}

func fromHex(s string) []byte {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
