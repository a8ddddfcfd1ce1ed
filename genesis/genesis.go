// Package genesis builds the state a node starts its chain from: the
// funded allocations an operator configures plus the one application every
// chain carries from block zero, the namespace registry. It is grounded on
// the teacher's pkg/core genesis block construction (a hand-built StateDB
// committed before the first real block is ever processed), adapted from
// Ethereum account/storage allocation to this core's application-account
// model.
package genesis

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/odana/odana-core/apps/namespaceregistry"
	"github.com/odana/odana-core/blockproc"
	"github.com/odana/odana-core/chainstore"
	"github.com/odana/odana-core/crypto"
	"github.com/odana/odana-core/kv"
	"github.com/odana/odana-core/primitives"
	"github.com/odana/odana-core/smt"
	"github.com/odana/odana-core/statedb"
)

// Alloc credits balance to addr in the genesis state.
type Alloc struct {
	Address primitives.Address
	Balance uint64
}

// Config describes the genesis state a fresh chain is bootstrapped with.
type Config struct {
	// ChainID must match the blockproc.Config the node runs the rest of
	// the chain with.
	ChainID uint32
	// Timestamp is the genesis header's wall-clock timestamp, in seconds.
	Timestamp uint64
	// NamespaceRegistryAddr pins the address the namespace registry
	// application account is installed at.
	NamespaceRegistryAddr primitives.Address
	// Allocs credits every listed address with its starting balance.
	Allocs []Alloc
}

// HashHeader is the header-hashing function every component of this node
// agrees on, passed to chainstore.Open so it never has to import the
// packages that would otherwise cycle back through it.
func HashHeader(h *primitives.Header) primitives.Hash {
	enc, err := primitives.Encode(h)
	if err != nil {
		return primitives.Hash{}
	}
	return crypto.Sha256Hash(enc)
}

// Build constructs the genesis StateDB and header: every configured
// allocation is credited, the namespace registry is installed with its
// reserved names claimed by namespaceregistry.AdminOwner, and the result is
// committed so its root is authoritative before any block references it.
func Build(db kv.Database, cfg Config) (*statedb.StateDB, *primitives.Block, error) {
	if cfg.NamespaceRegistryAddr.IsZero() {
		return nil, nil, fmt.Errorf("genesis: NamespaceRegistryAddr must not be zero")
	}

	sdb := statedb.New(db)

	for _, a := range cfg.Allocs {
		acct := primitives.NewUserAccount()
		acct.FreeBalance = uint256.NewInt(a.Balance)
		acct.Nonce = 1
		if err := sdb.SetAccount(a.Address, acct); err != nil {
			return nil, nil, fmt.Errorf("genesis: crediting %s: %w", a.Address, err)
		}
	}

	nsAcct := primitives.NewApplicationAccount(namespaceregistry.BinaryHash, primitives.Hash{}, smt.EmptyRoot)
	if err := sdb.SetAccount(cfg.NamespaceRegistryAddr, nsAcct); err != nil {
		return nil, nil, fmt.Errorf("genesis: installing namespace registry: %w", err)
	}
	nsTree, err := sdb.AppTree(cfg.NamespaceRegistryAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("genesis: opening namespace registry tree: %w", err)
	}
	for _, r := range namespaceregistry.DefaultReserved() {
		if err := namespaceregistry.Claim(nsTree, r.PackageName, namespaceregistry.AdminOwner); err != nil {
			return nil, nil, fmt.Errorf("genesis: reserving %q: %w", r.PackageName, err)
		}
	}
	nsRoot, err := nsTree.Commit()
	if err != nil {
		return nil, nil, fmt.Errorf("genesis: committing namespace registry tree: %w", err)
	}
	if err := sdb.SetAppRoot(cfg.NamespaceRegistryAddr, nsRoot); err != nil {
		return nil, nil, fmt.Errorf("genesis: recording namespace registry root: %w", err)
	}

	root, err := sdb.Commit()
	if err != nil {
		return nil, nil, fmt.Errorf("genesis: committing state: %w", err)
	}

	header := &primitives.Header{
		StateRoot: root,
		TxRoot:    blockproc.ComputeTxRoot(nil),
		Level:     0,
		Timestamp: cfg.Timestamp,
	}
	block := &primitives.Block{Header: header}
	return sdb, block, nil
}

// Insert persists the genesis block into chain as the chain's first entry.
func Insert(chain *chainstore.Chain, block *primitives.Block) error {
	return chain.InsertBlock(block, nil)
}
