package smt

import (
	"errors"

	"github.com/odana/odana-core/primitives"
)

// ErrBadProof is returned by Verify when a proof does not authenticate the
// claimed (key, value) pair against the given root.
var ErrBadProof = errors.New("smt: proof does not verify")

// Proof is a Merkle inclusion (or non-inclusion) proof for a single key: the
// sibling hash at every depth from the leaf's position back up to the root,
// ordered root-first. A depth whose sibling is the default empty hash for
// that depth is still included explicitly, keeping verification a uniform
// fixed-size walk with no special-casing.
type Proof struct {
	Siblings [Depth]primitives.Hash
}

// Prove builds an inclusion/non-inclusion proof for key against the tree's
// current root.
func (t *Tree) Prove(key []byte) (*Proof, error) {
	if len(key) == 0 {
		return nil, ErrInvalidKey
	}
	path := pathKey(key)
	p := &Proof{}
	if err := collectSiblings(t.root, 0, path, p); err != nil {
		return nil, err
	}
	return p, nil
}

// fillEmptyTail records the elided-sibling default hash for every depth
// from (and including) from up to Depth: once the walk reaches a position
// with nothing else below it, every remaining sibling is the empty hash
// for its depth, same as an unpopulated subtree's contribution anywhere
// else in the tree.
func fillEmptyTail(p *Proof, from int) {
	for d := from; d < Depth; d++ {
		p.Siblings[d] = emptyHash[d+1]
	}
}

func collectSiblings(n node, depth int, path primitives.Hash, p *Proof) error {
	if depth == Depth {
		return nil
	}
	switch t := n.(type) {
	case nil:
		// An empty subtree here means nothing else is down this path:
		// every remaining sibling is the default hash for its depth.
		fillEmptyTail(p, depth)
		return nil
	case *hashRef:
		return collectSiblings(t.resolve(), depth, path, p)
	case *leaf:
		// A leaf encountered above its true depth stands in for the entire
		// chain of single-child wrappers a fully materialized tree would
		// have here: its folded hash at depth+1 is exactly the sibling a
		// verifier needs, at the level the two paths diverge; everything
		// deeper than that is an empty subtree on both sides.
		for d := depth; d < Depth; d++ {
			if bitAt(path, d) == bitAt(t.path, d) {
				// key shares this bit with the stored leaf; descend another
				// synthetic level by folding the leaf at d+1.
				p.Siblings[d] = emptyHash[d+1]
				continue
			}
			p.Siblings[d] = foldLeafHash(t.path, t.value, d+1)
			fillEmptyTail(p, d+1)
			return nil
		}
		return nil
	case *internal:
		if bitAt(path, depth) == 0 {
			p.Siblings[depth] = hashOf(t.right, depth+1)
			return collectSiblings(t.left, depth+1, path, p)
		}
		p.Siblings[depth] = hashOf(t.left, depth+1)
		return collectSiblings(t.right, depth+1, path, p)
	default:
		return ErrCorruptNode
	}
}

// Verify reports whether proof authenticates value (or absence, when value
// is nil) as bound to key under root.
func Verify(root primitives.Hash, key, value []byte, proof *Proof) bool {
	if len(key) == 0 || proof == nil {
		return false
	}
	path := pathKey(key)
	var h primitives.Hash
	if value == nil {
		h = emptyHash[Depth]
	} else {
		h = LeafHash(path, value)
	}
	for d := Depth - 1; d >= 0; d-- {
		sib := proof.Siblings[d]
		if bitAt(path, d) == 0 {
			h = NodeHash(h, sib)
		} else {
			h = NodeHash(sib, h)
		}
	}
	return h == root
}

// VerifyOrError is Verify with a descriptive error in place of a bare bool.
func VerifyOrError(root primitives.Hash, key, value []byte, proof *Proof) error {
	if Verify(root, key, value, proof) {
		return nil
	}
	return ErrBadProof
}
