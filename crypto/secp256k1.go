package crypto

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/odana/odana-core/primitives"
)

// GenerateSecp256k1Key generates a new secp256k1 private key, one of the two
// signature schemes user accounts may use (the other being Ed25519).
func GenerateSecp256k1Key() (*secp256k1.PrivateKey, error) {
	return secp256k1.GeneratePrivateKey()
}

// SignSecp256k1 produces a 65-byte recoverable ECDSA signature
// ([R || S || V]) over a 32-byte message hash.
func SignSecp256k1(hash []byte, priv *secp256k1.PrivateKey) ([]byte, error) {
	if len(hash) != primitives.HashLength {
		return nil, errors.New("crypto: hash must be 32 bytes")
	}
	// ecdsa.SignCompact returns [V || R || S]; the execution core's wire
	// format keeps the recovery byte last, so rotate it.
	compact := ecdsa.SignCompact(priv, hash, false)
	sig := make([]byte, 65)
	copy(sig[:64], compact[1:])
	sig[64] = compact[0] - 27
	return sig, nil
}

// RecoverSecp256k1 recovers the 33-byte compressed public key from a 32-byte
// hash and a 65-byte [R || S || V] signature.
func RecoverSecp256k1(hash, sig []byte) ([]byte, error) {
	if len(sig) != 65 {
		return nil, errors.New("crypto: signature must be 65 bytes")
	}
	if len(hash) != primitives.HashLength {
		return nil, errors.New("crypto: hash must be 32 bytes")
	}
	compact := make([]byte, 65)
	compact[0] = sig[64] + 27
	copy(compact[1:], sig[:64])

	pub, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, err
	}
	return pub.SerializeCompressed(), nil
}

// VerifySecp256k1 checks a 64-byte [R || S] signature against a compressed
// or uncompressed public key and a 32-byte hash.
func VerifySecp256k1(pubkey, hash, sig []byte) bool {
	if len(sig) != 64 {
		return false
	}
	pub, err := secp256k1.ParsePubKey(pubkey)
	if err != nil {
		return false
	}
	var r, s secp256k1.ModNScalar
	if r.SetByteSlice(sig[:32]) {
		return false // overflowed mod N
	}
	if s.SetByteSlice(sig[32:64]) {
		return false
	}
	return ecdsa.NewSignature(&r, &s).Verify(hash, pub)
}

// PubkeyToAddress derives an account address from a compressed secp256k1
// public key: the low 20 bytes of its SHA-256 hash.
func PubkeyToAddress(pubCompressed []byte) primitives.Address {
	return primitives.FromHash(Sha256Hash(pubCompressed))
}
