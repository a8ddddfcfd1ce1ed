package blockproc

import (
	"github.com/odana/odana-core/crypto"
	"github.com/odana/odana-core/primitives"
)

// sha256Hash1 adapts crypto.Sha256Hash's variadic signature to the single-
// argument func([]byte) Hash shape Transaction.Hash and Header.Hash expect.
func sha256Hash1(b []byte) primitives.Hash {
	return crypto.Sha256Hash(b)
}

// ComputeTxRoot folds a block's ordered transaction hashes into a single
// binary Merkle root, the value a header's TxRoot field commits to. An odd
// level duplicates its last node, the conventional fixup for a non-power-
// of-two leaf count.
func ComputeTxRoot(txs []*primitives.Transaction) primitives.Hash {
	if len(txs) == 0 {
		return primitives.ZeroHash
	}
	level := make([]primitives.Hash, len(txs))
	for i, tx := range txs {
		level[i] = tx.Hash(sha256Hash1)
	}
	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]primitives.Hash, len(level)/2)
		for i := 0; i < len(next); i++ {
			next[i] = crypto.Sha256Hash(level[2*i].Bytes(), level[2*i+1].Bytes())
		}
		level = next
	}
	return level[0]
}
