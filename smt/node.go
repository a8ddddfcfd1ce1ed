package smt

import "github.com/odana/odana-core/primitives"

// node is the in-memory representation of one position in the tree. A nil
// node means an unpopulated (empty) subtree.
type node interface {
	// hashAt returns this node's contribution to its parent, treating it as
	// if it were positioned at depth atDepth.
	hashAt(atDepth int) primitives.Hash
}

// leaf is a single populated key-value pair. Its position in the compact
// tree is wherever the recursive insert/delete walk left it; foldLeafHash
// reconciles that position with the standard 256-level hash definition.
type leaf struct {
	path  primitives.Hash
	value []byte
}

func (l *leaf) hashAt(atDepth int) primitives.Hash {
	return foldLeafHash(l.path, l.value, atDepth)
}

// internal has exactly two children, each addressed one depth deeper than
// the internal node itself. A child may be nil (empty), a resident *leaf or
// *internal, or an unresolved *hashRef pointing at persisted storage.
type internal struct {
	left, right node
}

func (n *internal) hashAt(atDepth int) primitives.Hash {
	return NodeHash(hashOf(n.left, atDepth+1), hashOf(n.right, atDepth+1))
}

// hashOf is hashAt for a possibly-nil node, since nil has no method set.
func hashOf(n node, atDepth int) primitives.Hash {
	if n == nil {
		return emptyHash[atDepth]
	}
	return n.hashAt(atDepth)
}

// insert returns the tree rooted at n (currently at depth) with path bound
// to value, or with path unbound if value is empty (a delete).
func insert(n node, depth int, path primitives.Hash, value []byte) node {
	switch t := n.(type) {
	case nil:
		if len(value) == 0 {
			return nil
		}
		return &leaf{path: path, value: value}

	case *hashRef:
		return insert(t.resolve(), depth, path, value)

	case *leaf:
		if t.path == path {
			if len(value) == 0 {
				return nil
			}
			return &leaf{path: path, value: value}
		}
		if len(value) == 0 {
			// Deleting a key that collides with no existing leaf: no-op.
			return t
		}
		return split(t, &leaf{path: path, value: value}, depth)

	case *internal:
		if bitAt(path, depth) == 0 {
			return normalize(insert(t.left, depth+1, path, value), t.right)
		}
		return normalize(t.left, insert(t.right, depth+1, path, value))

	default:
		panic("smt: unreachable node kind")
	}
}

// split places two distinct leaves under the internal-node chain that
// connects their first diverging bit back to depth. Levels where both
// leaves still share a bit get a single-child wrapper; the chain terminates
// at the first depth where the bits differ, with both leaves as direct
// siblings there.
func split(a, b *leaf, depth int) node {
	ba, bb := bitAt(a.path, depth), bitAt(b.path, depth)
	if ba == bb {
		child := split(a, b, depth+1)
		if ba == 0 {
			return &internal{left: child, right: nil}
		}
		return &internal{left: nil, right: child}
	}
	if ba == 0 {
		return &internal{left: a, right: b}
	}
	return &internal{left: b, right: a}
}

// normalize collapses an internal node that has lost one of its two
// children down to the surviving child, hoisting it up regardless of
// whether it is a leaf or a deeper subtree. This is the deletion-side
// counterpart of split's chain-building.
func normalize(left, right node) node {
	leftEmpty, rightEmpty := isEmpty(left), isEmpty(right)
	switch {
	case leftEmpty && rightEmpty:
		return nil
	case leftEmpty:
		return right
	case rightEmpty:
		return left
	default:
		return &internal{left: left, right: right}
	}
}

// isEmpty reports whether n is the untyped-nil empty sentinel. Every
// constructor in this package returns bare nil (never a typed nil pointer)
// for an empty subtree, so this comparison is safe.
func isEmpty(n node) bool {
	return n == nil
}
