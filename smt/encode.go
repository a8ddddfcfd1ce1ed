package smt

import (
	"fmt"

	"github.com/odana/odana-core/primitives"
)

// encodeLeaf/encodeInternal/decodeNode define the on-disk framing for a
// persisted node: a one-byte kind tag (the same leafFraming/internalFraming
// bytes used in the hash preimages) followed by the node's fixed-size
// fields, so a node's storage key (its hash) can never collide between a
// leaf and an internal node.
func encodeLeaf(path primitives.Hash, value []byte) []byte {
	buf := make([]byte, 0, 1+primitives.HashLength+len(value))
	buf = append(buf, leafFraming)
	buf = append(buf, path.Bytes()...)
	buf = append(buf, value...)
	return buf
}

func encodeInternal(left, right primitives.Hash) []byte {
	buf := make([]byte, 0, 1+2*primitives.HashLength)
	buf = append(buf, internalFraming)
	buf = append(buf, left.Bytes()...)
	buf = append(buf, right.Bytes()...)
	return buf
}

// decodeNode reparses a node from its persisted framing, returning a handle
// whose children (if any) are themselves unresolved *hashRef placeholders.
func decodeNode(raw []byte, depth int, store Store) (node, error) {
	if len(raw) < 1 {
		return nil, fmt.Errorf("smt: %w: empty node record", ErrCorruptNode)
	}
	switch raw[0] {
	case leafFraming:
		if len(raw) < 1+primitives.HashLength {
			return nil, fmt.Errorf("smt: %w: truncated leaf", ErrCorruptNode)
		}
		path := primitives.BytesToHash(raw[1 : 1+primitives.HashLength])
		value := append([]byte(nil), raw[1+primitives.HashLength:]...)
		return &leaf{path: path, value: value}, nil

	case internalFraming:
		if len(raw) != 1+2*primitives.HashLength {
			return nil, fmt.Errorf("smt: %w: malformed internal node", ErrCorruptNode)
		}
		left := primitives.BytesToHash(raw[1 : 1+primitives.HashLength])
		right := primitives.BytesToHash(raw[1+primitives.HashLength:])
		return &internal{
			left:  childRef(left, depth+1, store),
			right: childRef(right, depth+1, store),
		}, nil

	default:
		return nil, fmt.Errorf("smt: %w: unknown node tag %#x", ErrCorruptNode, raw[0])
	}
}

// childRef returns nil for an empty child (so hashOf short-circuits without
// a store round trip) or an unresolved reference otherwise.
func childRef(hash primitives.Hash, depth int, store Store) node {
	if hash == emptyHash[depth] {
		return nil
	}
	return &hashRef{hash: hash, depth: depth, store: store}
}
