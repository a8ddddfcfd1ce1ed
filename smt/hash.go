// Package smt implements the authenticated sparse Merkle tree that
// underlies both the outer account tree and every application's private
// sub-tree: a plain 256-level binary tree where path is the SHA-256 digest
// of the logical key, leaf and internal node hashing use distinguishing
// framing bytes, and unpopulated subtrees collapse to a precomputed
// per-depth default hash.
package smt

import (
	"github.com/odana/odana-core/crypto"
	"github.com/odana/odana-core/primitives"
)

// Depth is the fixed bit-depth of the tree: one level per bit of a 256-bit
// (32-byte) path.
const Depth = 256

const (
	leafFraming     = 0x00
	internalFraming = 0x01
)

// LeafHash computes the hash of a leaf holding value at path. It does not
// depend on the leaf's depth in the tree: the full path already pins its
// position uniquely, so two leaves can never collide regardless of how
// deep a compact tree happens to store them.
func LeafHash(path primitives.Hash, value []byte) primitives.Hash {
	return primitives.BytesToHash(crypto.Sha256([]byte{leafFraming}, path.Bytes(), value))
}

// NodeHash computes the hash of an internal node from its two children's
// hashes.
func NodeHash(left, right primitives.Hash) primitives.Hash {
	return primitives.BytesToHash(crypto.Sha256([]byte{internalFraming}, left.Bytes(), right.Bytes()))
}

// emptyHash[d] is the hash of a fully unpopulated subtree rooted at depth d.
// emptyHash[Depth] is the sentinel for "no leaf here"; every shallower entry
// folds the two (necessarily identical) empty children with NodeHash.
var emptyHash [Depth + 1]primitives.Hash

func init() {
	emptyHash[Depth] = primitives.ZeroHash
	for d := Depth - 1; d >= 0; d-- {
		emptyHash[d] = NodeHash(emptyHash[d+1], emptyHash[d+1])
	}
}

// EmptyRoot is the root hash of a tree containing no keys.
var EmptyRoot = emptyHash[0]

// pathKey hashes an arbitrary logical key into the 256-bit path that
// indexes it in the tree, per the data model's "path is the digest of the
// logical key".
func pathKey(key []byte) primitives.Hash {
	return primitives.BytesToHash(crypto.Sha256(key))
}

// bitAt returns the bit of path at position depth (0-indexed, MSB-first):
// depth 0 is the most significant bit of path[0].
func bitAt(path primitives.Hash, depth int) int {
	byteIdx := depth / 8
	bitIdx := 7 - uint(depth%8)
	return int((path[byteIdx] >> bitIdx) & 1)
}

// foldLeafHash computes the hash a leaf at (path, value) contributes to an
// ancestor positioned at atDepth, folding the conceptual empty subtrees
// between the leaf's true (256-deep) hash and atDepth with NodeHash/
// emptyHash — the compact tree's leaves are stored without materializing
// that chain, but the hash they present to a parent must match what a
// fully-materialized 256-level tree would produce.
func foldLeafHash(path primitives.Hash, value []byte, atDepth int) primitives.Hash {
	h := LeafHash(path, value)
	for d := Depth; d > atDepth; d-- {
		if bitAt(path, d-1) == 0 {
			h = NodeHash(h, emptyHash[d])
		} else {
			h = NodeHash(emptyHash[d], h)
		}
	}
	return h
}
