// Package crypto implements the hash functions and signature schemes the
// execution core depends on: SHA-256 and Blake2b-256 for tree, namespace
// and address hashing, Keccak-256 as an additional general-purpose hash,
// and Ed25519/secp256k1 for transaction signatures.
package crypto

import (
	"github.com/odana/odana-core/primitives"
	"golang.org/x/crypto/sha3"
)

// Keccak256 calculates the Keccak-256 hash of the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	return d.Sum(nil)
}

// Keccak256Hash calculates Keccak-256 and returns it as a primitives.Hash.
// Account addresses are not derived with it (see address.go).
func Keccak256Hash(data ...[]byte) primitives.Hash {
	return primitives.BytesToHash(Keccak256(data...))
}
