package crypto

import (
	"github.com/odana/odana-core/primitives"
	"golang.org/x/crypto/blake2b"
)

// Blake2b256 hashes the concatenation of data with Blake2b-256. The
// namespace registry uses this instead of SHA-256 so that namespace hashes
// are never mistakable for tree node hashes computed over the same bytes.
func Blake2b256(data ...[]byte) []byte {
	h, _ := blake2b.New256(nil)
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Blake2b256Hash hashes data with Blake2b-256 and returns it as a
// primitives.Hash.
func Blake2b256Hash(data ...[]byte) primitives.Hash {
	return primitives.BytesToHash(Blake2b256(data...))
}
