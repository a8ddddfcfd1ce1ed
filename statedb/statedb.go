// Package statedb implements the node's authenticated account database: the
// outer sparse Merkle tree keyed by address, and the per-application
// sub-trees an application account's AppRoot points into. It is grounded on
// the teacher's StateDB-over-trie design, replacing the teacher's
// single-namespace account trie with the two-tier account/app-substate model
// this execution core's data model requires.
package statedb

import (
	"errors"
	"fmt"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/odana/odana-core/kv"
	"github.com/odana/odana-core/primitives"
	"github.com/odana/odana-core/smt"
)

// nodeCacheSizeBytes bounds the in-memory fastcache fronting the outer
// tree's node store. Sized for a single node's working set of hot branches,
// not for holding the whole tree.
const nodeCacheSizeBytes = 64 * 1024 * 1024

var (
	// ErrAccountNotFound is returned by GetAccount for an address with no
	// bound account.
	ErrAccountNotFound = errors.New("statedb: account not found")
	// ErrNotApplication is returned when an application-only operation
	// targets a user account.
	ErrNotApplication = errors.New("statedb: account is not an application")
)

// smtStore adapts a kv.Database to smt.Store by namespacing node keys,
// fronting reads with an in-memory fastcache so re-visiting hot branches of
// the tree (shared ancestors across forks, recently touched accounts)
// avoids a disk round trip through the kv backend.
type smtStore struct {
	db    kv.Database
	cache *fastcache.Cache
}

func (s *smtStore) GetNode(hash primitives.Hash) ([]byte, bool, error) {
	key := hash.Bytes()
	if raw, ok := s.cache.HasGet(nil, key); ok {
		return raw, true, nil
	}
	raw, err := s.db.Get(kv.NodeKey(key))
	if err != nil {
		if err == kv.ErrNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	s.cache.Set(key, raw)
	return raw, true, nil
}

func (s *smtStore) PutNode(hash primitives.Hash, raw []byte) error {
	if err := s.db.Put(kv.NodeKey(hash.Bytes()), raw); err != nil {
		return err
	}
	s.cache.Set(hash.Bytes(), raw)
	return nil
}

// StateDB is a handle onto one version of the outer account tree. It is not
// safe for concurrent use; callers needing isolation should Fork.
type StateDB struct {
	db    kv.Database
	store smt.Store
	outer *smt.Tree
}

// New opens an empty state database backed by db.
func New(db kv.Database) *StateDB {
	store := &smtStore{db: db, cache: fastcache.New(nodeCacheSizeBytes)}
	return &StateDB{db: db, store: store, outer: smt.New(store)}
}

// Open reconstructs the state database rooted at root.
func Open(db kv.Database, root primitives.Hash) *StateDB {
	store := &smtStore{db: db, cache: fastcache.New(nodeCacheSizeBytes)}
	return &StateDB{db: db, store: store, outer: smt.Open(store, root)}
}

// Root returns the current outer tree root: the authenticated state root
// committed into each block header.
func (s *StateDB) Root() primitives.Hash {
	return s.outer.Root()
}

// AppStore exposes the underlying node store shared by the outer tree and
// every application sub-tree, for callers that need to open an arbitrary
// historical sub-root directly (e.g. the namespace registry gate, which
// reads a specific application's sub-tree by address rather than through
// the currently-committed AppRoot).
func (s *StateDB) AppStore() smt.Store {
	return s.store
}

// Fork returns an independent state database sharing the receiver's current
// state, including writes not yet committed. Writes through the fork never affect the receiver and
// vice versa; this backs the block processor's per-block speculative
// execution with rollback-on-failure.
func (s *StateDB) Fork() *StateDB {
	return &StateDB{db: s.db, store: s.store, outer: s.outer.Snapshot()}
}

// Merge replaces the receiver's tree with fork's, adopting every mutation
// made through fork as if it had been made directly against the receiver.
// Used by the block processor to commit a per-transaction fork's effects
// into the block-level snapshot once the transaction is known to have
// succeeded; a fork that is never merged simply falls out of scope with
// its mutations unreachable from anywhere else, which is how a failed
// transaction's non-fee effects are discarded.
func (s *StateDB) Merge(fork *StateDB) {
	s.outer = fork.outer
}

// Commit persists every node created since the database was opened and
// returns the resulting root.
func (s *StateDB) Commit() (primitives.Hash, error) {
	return s.outer.Commit()
}

// GetAccount returns the account bound to addr.
func (s *StateDB) GetAccount(addr primitives.Address) (*primitives.Account, error) {
	raw, ok, err := s.outer.Get(addr.Bytes())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAccountNotFound
	}
	var acct primitives.Account
	if err := primitives.Decode(raw, &acct); err != nil {
		return nil, fmt.Errorf("statedb: decode account %s: %w", addr, err)
	}
	return &acct, nil
}

// SetAccount writes acct as the value bound to addr, creating it if absent.
func (s *StateDB) SetAccount(addr primitives.Address, acct *primitives.Account) error {
	raw, err := primitives.Encode(acct)
	if err != nil {
		return fmt.Errorf("statedb: encode account %s: %w", addr, err)
	}
	_, err = s.outer.Update(addr.Bytes(), raw)
	return err
}

// GetNonce is a convenience accessor returning 1 for an unbound address,
// per spec §4.3's account_nonce contract ("the nonce field of the record or
// 1"), matching the default nonce applyTx assigns a never-seen sender.
func (s *StateDB) GetNonce(addr primitives.Address) (uint64, error) {
	acct, err := s.GetAccount(addr)
	if err != nil {
		if err == ErrAccountNotFound {
			return 1, nil
		}
		return 0, err
	}
	return acct.Nonce, nil
}

// AppTree opens the application account's private sub-tree rooted at its
// current AppRoot.
func (s *StateDB) AppTree(appAddr primitives.Address) (*smt.Tree, error) {
	acct, err := s.GetAccount(appAddr)
	if err != nil {
		return nil, err
	}
	if !acct.IsApplication() {
		return nil, ErrNotApplication
	}
	return smt.Open(s.store, acct.AppRoot), nil
}

// SetAppRoot updates an application account's AppRoot after its sub-tree has
// been mutated and committed. The account stays bound under its address in
// the outer tree; only the record's AppRoot field changes.
func (s *StateDB) SetAppRoot(appAddr primitives.Address, newRoot primitives.Hash) error {
	acct, err := s.GetAccount(appAddr)
	if err != nil {
		return err
	}
	if !acct.IsApplication() {
		return ErrNotApplication
	}
	acct.AppRoot = newRoot
	return s.SetAccount(appAddr, acct)
}

// AppStateKey identifies a single key within one version of one
// application's sub-tree, the content-addressed composite key the domain
// model defines: (app_address, sub_root) pins which version of the app's
// state a key lookup is resolved against.
type AppStateKey struct {
	App     primitives.Address
	SubRoot primitives.Hash
}

// GetAppData reads key from the application's sub-tree as it stood at
// ask.SubRoot, independent of the account's current AppRoot: callers
// replaying historical queries pass an older SubRoot explicitly.
func (s *StateDB) GetAppData(ask AppStateKey, key []byte) ([]byte, bool, error) {
	tree := smt.Open(s.store, ask.SubRoot)
	return tree.Get(key)
}
