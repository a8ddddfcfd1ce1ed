package blockproc

import (
	"github.com/odana/odana-core/crypto"
	"github.com/odana/odana-core/primitives"
)

// verifySignature checks a transaction's signature against its claimed
// Sender, independent of any account state. Shared with txpool so both
// layers apply identical signature rules; see crypto.VerifyTransactionSignature.
func verifySignature(tx *primitives.Transaction) bool {
	return crypto.VerifyTransactionSignature(tx)
}
