package smt

import (
	"errors"

	"github.com/odana/odana-core/primitives"
)

var (
	// ErrInvalidKey is returned for operations on an empty key.
	ErrInvalidKey = errors.New("smt: key must not be empty")
	// ErrCorruptNode is returned when a referenced node hash is missing or
	// malformed in the backing store.
	ErrCorruptNode = errors.New("smt: corrupt or missing node")
	// ErrKeyAlreadyEmpty is returned by Delete (via Update with an empty
	// value) when the key has no bound value to remove.
	ErrKeyAlreadyEmpty = errors.New("smt: key already empty")
)

// Store is the persistence capability the tree needs: a content-addressed
// map from node hash to its encoded framing (see encode.go). The production
// implementation is backed by the kv package; tests use an in-memory map.
type Store interface {
	GetNode(hash primitives.Hash) ([]byte, bool, error)
	PutNode(hash primitives.Hash, raw []byte) error
}

// hashRef is a node reference not yet resolved from the store: it lets a
// Tree opened from a persisted root load only the nodes a given operation
// actually touches, per the "snapshot reconstructs a read-only handle
// without loading the whole tree" contract.
type hashRef struct {
	hash  primitives.Hash
	depth int
	store Store

	resolved node
	loaded   bool
}

func (r *hashRef) hashAt(atDepth int) primitives.Hash {
	// A reference's hash is already known without resolving its children.
	return r.hash
}

func (r *hashRef) resolve() node {
	if r.loaded {
		return r.resolved
	}
	n, err := loadNode(r.store, r.hash, r.depth)
	if err != nil {
		// Corrupt storage is fatal to the operation that triggered the
		// load; the caller observes it as a panic converted to an error by
		// Tree methods that recover, keeping this package's exported
		// surface panic-free for adversarial input.
		panic(err)
	}
	r.resolved = n
	r.loaded = true
	return n
}

func loadNode(store Store, hash primitives.Hash, depth int) (node, error) {
	if hash == emptyHash[depth] {
		return nil, nil
	}
	raw, ok, err := store.GetNode(hash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCorruptNode
	}
	return decodeNode(raw, depth, store)
}

// Tree is a handle onto one version (root) of a sparse Merkle tree.
// Update and Delete replace the handle's root in place; the new root shares
// unmodified subtrees with the old one (and with any Snapshot taken
// earlier), and nothing is persisted until Commit is called.
type Tree struct {
	store Store
	root  node
}

// New opens an empty tree backed by store.
func New(store Store) *Tree {
	return &Tree{store: store}
}

// Open reconstructs a handle onto the tree rooted at root without
// eagerly loading anything beneath it.
func Open(store Store, root primitives.Hash) *Tree {
	if root == EmptyRoot {
		return New(store)
	}
	return &Tree{store: store, root: &hashRef{hash: root, depth: 0, store: store}}
}

// Root returns the current root hash.
func (t *Tree) Root() primitives.Hash {
	return hashOf(t.root, 0)
}

// Get returns the value bound to key, or (nil, false) if key is unbound.
func (t *Tree) Get(key []byte) ([]byte, bool, error) {
	if len(key) == 0 {
		return nil, false, ErrInvalidKey
	}
	path := pathKey(key)
	return get(t.root, 0, path)
}

func get(n node, depth int, path primitives.Hash) ([]byte, bool, error) {
	switch t := n.(type) {
	case nil:
		return nil, false, nil
	case *hashRef:
		return get(t.resolve(), depth, path)
	case *leaf:
		if t.path != path {
			return nil, false, nil
		}
		return t.value, true, nil
	case *internal:
		if bitAt(path, depth) == 0 {
			return get(t.left, depth+1, path)
		}
		return get(t.right, depth+1, path)
	default:
		return nil, false, ErrCorruptNode
	}
}

// Update binds key to value (or unbinds it, if value is empty) and returns
// the resulting root hash, which also becomes the receiver's root; call
// Commit to persist the mutation.
func (t *Tree) Update(key, value []byte) (primitives.Hash, error) {
	if len(key) == 0 {
		return primitives.Hash{}, ErrInvalidKey
	}
	path := pathKey(key)
	newRoot := insert(t.root, 0, path, value)
	t.root = newRoot
	return t.Root(), nil
}

// Delete unbinds key. It is equivalent to Update(key, nil) except it
// reports ErrKeyAlreadyEmpty if key had no value.
func (t *Tree) Delete(key []byte) (primitives.Hash, error) {
	if _, ok, err := t.Get(key); err != nil {
		return primitives.Hash{}, err
	} else if !ok {
		return primitives.Hash{}, ErrKeyAlreadyEmpty
	}
	return t.Update(key, nil)
}

// Snapshot returns an independent handle sharing the receiver's current
// root. Nodes are never mutated in place (insert/normalize always allocate
// new nodes), so writes through either handle after a Snapshot never
// observe each other: this is the copy-on-write fork the state layer builds
// per-block speculative execution on.
func (t *Tree) Snapshot() *Tree {
	return &Tree{store: t.store, root: t.root}
}

// Commit persists every node reachable from the current root that is not
// already resident in the store (i.e. every node created since the tree was
// opened), keyed by its hash. It is idempotent: re-committing a tree whose
// nodes are already stored is a cheap no-op per node.
func (t *Tree) Commit() (primitives.Hash, error) {
	if err := commitNode(t.store, t.root, 0); err != nil {
		return primitives.Hash{}, err
	}
	return t.Root(), nil
}

func commitNode(store Store, n node, depth int) error {
	switch v := n.(type) {
	case nil, *hashRef:
		return nil // already persisted (or empty)
	case *leaf:
		h := v.hashAt(depth)
		return store.PutNode(h, encodeLeaf(v.path, v.value))
	case *internal:
		if err := commitNode(store, v.left, depth+1); err != nil {
			return err
		}
		if err := commitNode(store, v.right, depth+1); err != nil {
			return err
		}
		h := v.hashAt(depth)
		return store.PutNode(h, encodeInternal(hashOf(v.left, depth+1), hashOf(v.right, depth+1)))
	default:
		return ErrCorruptNode
	}
}
