package crypto

import (
	"crypto/sha256"

	"github.com/odana/odana-core/primitives"
)

// Sha256 hashes the concatenation of data with SHA-256, the hash function
// fixed by the sparse Merkle tree's leaf and internal node framing.
func Sha256(data ...[]byte) []byte {
	h := sha256.New()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

// Sha256Hash hashes data with SHA-256 and returns it as a primitives.Hash.
func Sha256Hash(data ...[]byte) primitives.Hash {
	return primitives.BytesToHash(Sha256(data...))
}
