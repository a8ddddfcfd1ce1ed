// Package rpcfacade defines the contracts this execution core exposes to
// its external collaborators: the P2P gossip layer, the RPC surface, and
// block/transaction lookups backed by chain storage. None of these
// collaborators are implemented here — per spec, they are "hard but
// independent" and out of scope — this package only pins the interface
// boundary so a concrete P2P stack or JSON-RPC server can be wired against
// the node without reaching into blockproc/statedb/txpool internals
// directly. Grounded on the teacher's pkg/rpc handler-interface pattern
// (exported method sets backed by a private service struct), narrowed to
// the three contracts spec §6 names.
package rpcfacade

import (
	"context"

	"github.com/odana/odana-core/primitives"
)

// PeerID identifies a remote node on the P2P layer. Its representation is
// entirely owned by the transport; this core treats it as opaque.
type PeerID string

// Broadcaster is satisfied by the P2P layer: it accepts outbound broadcast
// requests for transactions this node has itself admitted or blocks this
// node has itself produced.
type Broadcaster interface {
	BroadcastTransaction(ctx context.Context, raw []byte) error
	BroadcastBlock(ctx context.Context, raw []byte) error
}

// InboundHandler is implemented by this core and driven by the P2P layer:
// inbound transactions and blocks arrive as opaque byte frames plus the
// peer they were received from, exactly as spec §6 describes.
type InboundHandler interface {
	HandleTransaction(ctx context.Context, from PeerID, raw []byte) error
	HandleBlock(ctx context.Context, from PeerID, raw []byte) error
}

// AccountView answers the read-only account queries the RPC surface needs,
// backed by a StateDB snapshot the caller chooses (latest committed, or a
// historical fork by block).
type AccountView interface {
	Balance(addr primitives.Address) (*UintAmount, error)
	Nonce(addr primitives.Address) (uint64, error)
	AppQuery(appAddr primitives.Address, args []byte) ([]byte, error)
}

// UintAmount is the wire-facing balance type; kept distinct from
// primitives/uint256 so this package's exported surface never forces RPC
// callers to import the fuel/fee-bearing uint256 package directly.
type UintAmount struct {
	Words [4]uint64
}

// ChainView answers the block/transaction lookup endpoints spec §6
// describes, backed by chainstore.
type ChainView interface {
	HeaderByHash(hash primitives.Hash) (*primitives.Header, bool, error)
	HeaderByLevel(level uint32) (*primitives.Header, bool, error)
	Transactions(blockHash primitives.Hash) ([]*primitives.Transaction, bool, error)
	Receipt(txHash primitives.Hash) (*primitives.Receipt, bool, error)
}

// TransactionSubmitter accepts a raw, already-signed transaction from an
// RPC caller and admits it to the pool, returning its canonical hash.
type TransactionSubmitter interface {
	SubmitTransaction(ctx context.Context, raw []byte) (primitives.Hash, error)
}

// Service is the complete surface an RPC server is handed: account and
// chain queries plus transaction submission, per spec §6's "query,
// submit-transaction, and block-lookup endpoints backed by the StateDB and
// block storage".
type Service interface {
	AccountView
	ChainView
	TransactionSubmitter
}
