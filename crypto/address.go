package crypto

import "github.com/odana/odana-core/primitives"

// AddressFromEd25519PubKey derives an account address from an Ed25519
// public key: the low 20 bytes of its Blake2b-256 hash, kept distinct from
// the SHA-256-based secp256k1 derivation in PubkeyToAddress so the two key
// schemes never collide on the same input bytes.
func AddressFromEd25519PubKey(pub []byte) primitives.Address {
	return primitives.FromHash(Blake2b256Hash(pub))
}
