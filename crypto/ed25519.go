package crypto

import (
	stded25519 "crypto/ed25519"
	"crypto/rand"
	"errors"
)

// GenerateEd25519Key generates a new Ed25519 key pair, the default
// signature scheme for user accounts.
func GenerateEd25519Key() (stded25519.PublicKey, stded25519.PrivateKey, error) {
	return stded25519.GenerateKey(rand.Reader)
}

// SignEd25519 signs a message (not a pre-hash: Ed25519 hashes internally)
// with an Ed25519 private key.
func SignEd25519(priv stded25519.PrivateKey, message []byte) []byte {
	return stded25519.Sign(priv, message)
}

// VerifyEd25519 checks a 64-byte Ed25519 signature over message.
func VerifyEd25519(pub stded25519.PublicKey, message, sig []byte) bool {
	if len(pub) != stded25519.PublicKeySize || len(sig) != stded25519.SignatureSize {
		return false
	}
	return stded25519.Verify(pub, message, sig)
}

// ErrInvalidEd25519Key is returned when a stored public key has the wrong
// length to be an Ed25519 key.
var ErrInvalidEd25519Key = errors.New("crypto: invalid ed25519 public key length")
