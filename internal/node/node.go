// Package node wires every in-process subsystem of an odana node together:
// the key-value backend, chain storage, state database, application host,
// block processor, and transaction pool. It is grounded on the teacher's
// pkg/node.Node (New/Start/Stop lifecycle, subsystem fields, config
// validation up front), with the P2P/RPC/Engine-API subsystems the teacher
// wires dropped per spec §1's external-collaborator boundary: this node
// exposes the same seams through rpcfacade instead of owning a listener.
package node

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/odana/odana-core/apps/namespaceregistry"
	"github.com/odana/odana-core/blockproc"
	"github.com/odana/odana-core/chainstore"
	"github.com/odana/odana-core/crypto"
	"github.com/odana/odana-core/genesis"
	"github.com/odana/odana-core/internal/nodecfg"
	"github.com/odana/odana-core/kv"
	"github.com/odana/odana-core/log"
	"github.com/odana/odana-core/metrics"
	"github.com/odana/odana-core/primitives"
	"github.com/odana/odana-core/rpcfacade"
	"github.com/odana/odana-core/statedb"
	"github.com/odana/odana-core/txpool"
	"github.com/odana/odana-core/vmhost"
)

// Node owns every subsystem an odana process runs locally: its databases,
// state, chain index, application host, block processor, and transaction
// pool, plus a metrics endpoint. It implements rpcfacade.Service so an
// external RPC server can be handed a Node directly.
type Node struct {
	cfg nodecfg.Config
	log *log.Logger

	db    kv.Database
	state *statedb.StateDB
	chain *chainstore.Chain
	host  *vmhost.Host
	proc  *blockproc.Processor
	pool  *txpool.Pool

	metrics       *metrics.Registry
	metricsServer *http.Server

	mu      sync.Mutex
	running bool
}

// New opens every subsystem New requires but starts no network services.
// If the chain store is empty, it bootstraps genesis per gcfg before
// returning.
func New(cfg nodecfg.Config, gcfg genesis.Config) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("node: invalid config: %w", err)
	}
	if err := cfg.InitDataDir(); err != nil {
		return nil, fmt.Errorf("node: %w", err)
	}

	db, err := openBackend(cfg)
	if err != nil {
		return nil, fmt.Errorf("node: opening %s backend: %w", cfg.KVBackend, err)
	}

	n := &Node{
		cfg:     cfg,
		log:     log.Default().Module("node"),
		db:      db,
		metrics: metrics.NewRegistry(),
	}

	n.chain, err = chainstore.Open(db, chainstore.DefaultConfig(), genesis.HashHeader)
	if err != nil {
		return nil, fmt.Errorf("node: opening chain store: %w", err)
	}

	if n.chain.Head() == nil {
		sdb, block, err := genesis.Build(db, gcfg)
		if err != nil {
			return nil, fmt.Errorf("node: building genesis: %w", err)
		}
		if err := genesis.Insert(n.chain, block); err != nil {
			return nil, fmt.Errorf("node: inserting genesis block: %w", err)
		}
		n.state = sdb
	} else {
		n.state = statedb.Open(db, n.chain.Head().StateRoot)
	}

	registry := vmhost.NewRegistry()
	registry.Register(namespaceregistry.BinaryHash, namespaceregistry.Module{})
	hostCfg := vmhost.DefaultConfig()
	hostCfg.Schedule = cfg.FuelSchedule
	n.host = vmhost.New(hostCfg, registry)

	procCfg := blockproc.DefaultConfig()
	procCfg.FeePolicy = cfg.FeePolicy
	procCfg.NamespaceRegistryAddr = gcfg.NamespaceRegistryAddr
	n.proc = blockproc.New(procCfg, n.host)

	n.pool = txpool.New(txpool.DefaultConfig(), n.state)

	return n, nil
}

// sha256Hash1 adapts crypto.Sha256Hash's variadic signature to the
// func([]byte) Hash shape Transaction.Hash expects, mirroring blockproc's
// own adapter of the same name.
func sha256Hash1(b []byte) primitives.Hash {
	return crypto.Sha256Hash(b)
}

func openBackend(cfg nodecfg.Config) (kv.Database, error) {
	switch cfg.KVBackend {
	case "pebble":
		return kv.OpenPebble(cfg.ChainDataDir())
	case "leveldb":
		return kv.OpenLevelDB(cfg.ChainDataDir())
	default:
		return nil, fmt.Errorf("unknown kv backend %q", cfg.KVBackend)
	}
}

// Start brings up the node's metrics endpoint. The block-production loop
// and transaction ingestion are driven externally (by the P2P/RPC
// collaborators spec §1 names), so Start has nothing else to bring up.
func (n *Node) Start(metricsAddr string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.running {
		return errors.New("node: already running")
	}

	if metricsAddr != "" {
		n.metricsServer = &http.Server{
			Addr:    metricsAddr,
			Handler: metrics.ClientHandler(n.metrics, "odana"),
		}
		go func() {
			n.log.Info("metrics server listening", "addr", metricsAddr)
			if err := n.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				n.log.Error("metrics server error", "err", err)
			}
		}()
	}

	n.running = true
	n.log.Info("node started", "network", n.cfg.Network, "datadir", n.cfg.DataDir)
	return nil
}

// Stop shuts down the metrics endpoint and closes the database.
func (n *Node) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.running {
		return nil
	}

	if n.metricsServer != nil {
		if err := n.metricsServer.Close(); err != nil {
			n.log.Error("metrics server close error", "err", err)
		}
	}
	if err := n.db.Close(); err != nil {
		return fmt.Errorf("node: closing database: %w", err)
	}
	n.running = false
	n.log.Info("node stopped")
	return nil
}

// ApplyBlock runs block through the processor against the node's current
// state, commits the result, advances the chain store, and promotes the
// transaction pool so applied transactions drop out of it.
func (n *Node) ApplyBlock(block *primitives.Block) (*blockproc.Result, error) {
	parent := n.chain.Head()
	if parent == nil {
		return nil, errors.New("node: no head to extend")
	}
	result, err := n.proc.ProcessBlock(n.state, parent, block)
	if err != nil {
		return nil, err
	}
	if _, err := result.State.Commit(); err != nil {
		return nil, fmt.Errorf("node: committing state: %w", err)
	}
	if err := n.chain.InsertBlock(block, result.Receipts); err != nil {
		return nil, fmt.Errorf("node: indexing block: %w", err)
	}
	n.state = result.State
	n.metrics.Counter("blocks_processed").Inc()
	n.metrics.Gauge("txpool_size").Set(int64(n.pool.Len()))
	for _, tx := range block.Transactions {
		n.pool.Remove(tx.Hash(sha256Hash1))
		nonce, err := n.state.GetNonce(tx.Sender)
		if err == nil {
			n.pool.Promote(tx.Sender, nonce)
		}
	}
	return result, nil
}

// Pool returns the node's transaction pool.
func (n *Node) Pool() *txpool.Pool { return n.pool }

// Chain returns the node's chain store.
func (n *Node) Chain() *chainstore.Chain { return n.chain }

// State returns the node's current state database.
func (n *Node) State() *statedb.StateDB { return n.state }

// Metrics returns the node's metrics registry.
func (n *Node) Metrics() *metrics.Registry { return n.metrics }

var _ rpcfacade.Service = (*Node)(nil)

// Balance satisfies rpcfacade.AccountView. An address with no bound account
// reports a zero balance rather than an error, just as GetNonce answers 1
// for such an address instead of failing.
func (n *Node) Balance(addr primitives.Address) (*rpcfacade.UintAmount, error) {
	acct, err := n.state.GetAccount(addr)
	if err != nil {
		if err == statedb.ErrAccountNotFound {
			return &rpcfacade.UintAmount{}, nil
		}
		return nil, err
	}
	return &rpcfacade.UintAmount{Words: [4]uint64(*acct.FreeBalance)}, nil
}

// Nonce satisfies rpcfacade.AccountView.
func (n *Node) Nonce(addr primitives.Address) (uint64, error) {
	return n.state.GetNonce(addr)
}

// AppQuery satisfies rpcfacade.AccountView. Queries run directly against the
// node's currently committed state through the host's read-only path;
// unlike TxQuery transactions, a query here is never included in a block
// (blockproc rejects TxQuery outright), so it bypasses the processor and
// pool entirely.
func (n *Node) AppQuery(appAddr primitives.Address, args []byte) ([]byte, error) {
	appAcct, err := n.state.GetAccount(appAddr)
	if err != nil {
		return nil, err
	}
	if !appAcct.IsApplication() {
		return nil, fmt.Errorf("node: %s is not an application account", appAddr)
	}
	appTree, err := n.state.AppTree(appAddr)
	if err != nil {
		return nil, err
	}
	inv := vmhost.Invocation{App: appAddr, BinaryHash: appAcct.CodeHash}
	resp, _, err := n.host.Query(inv, appTree, args)
	return resp, err
}

// SubmitTransaction satisfies rpcfacade.TransactionSubmitter: it decodes an
// RLP-encoded transaction, admits it to the pool, and returns its canonical
// hash for the caller to poll a receipt by.
func (n *Node) SubmitTransaction(_ context.Context, raw []byte) (primitives.Hash, error) {
	var tx primitives.Transaction
	if err := primitives.Decode(raw, &tx); err != nil {
		return primitives.Hash{}, fmt.Errorf("node: decoding transaction: %w", err)
	}
	if err := n.pool.Add(&tx); err != nil {
		return primitives.Hash{}, err
	}
	return tx.Hash(sha256Hash1), nil
}

var _ rpcfacade.ChainView = (*chainView)(nil)

// chainView adapts Node's chain store to rpcfacade.ChainView.
type chainView struct{ n *Node }

func (n *Node) ChainView() rpcfacade.ChainView { return chainView{n} }

// HeaderByHash, HeaderByLevel, Transactions and Receipt satisfy the
// rpcfacade.ChainView part of rpcfacade.Service by delegating to chainView.
func (n *Node) HeaderByHash(hash primitives.Hash) (*primitives.Header, bool, error) {
	return chainView{n}.HeaderByHash(hash)
}
func (n *Node) HeaderByLevel(level uint32) (*primitives.Header, bool, error) {
	return chainView{n}.HeaderByLevel(level)
}
func (n *Node) Transactions(blockHash primitives.Hash) ([]*primitives.Transaction, bool, error) {
	return chainView{n}.Transactions(blockHash)
}
func (n *Node) Receipt(txHash primitives.Hash) (*primitives.Receipt, bool, error) {
	return chainView{n}.Receipt(txHash)
}

func (v chainView) HeaderByHash(hash primitives.Hash) (*primitives.Header, bool, error) {
	h, err := v.n.chain.HeaderByHash(hash)
	if errors.Is(err, chainstore.ErrNotFound) {
		return nil, false, nil
	}
	return h, err == nil, err
}

func (v chainView) HeaderByLevel(level uint32) (*primitives.Header, bool, error) {
	h, err := v.n.chain.HeaderByLevel(level)
	if errors.Is(err, chainstore.ErrNotFound) {
		return nil, false, nil
	}
	return h, err == nil, err
}

func (v chainView) Transactions(blockHash primitives.Hash) ([]*primitives.Transaction, bool, error) {
	txs, err := v.n.chain.Transactions(blockHash)
	if errors.Is(err, chainstore.ErrNotFound) {
		return nil, false, nil
	}
	return txs, err == nil, err
}

func (v chainView) Receipt(txHash primitives.Hash) (*primitives.Receipt, bool, error) {
	r, err := v.n.chain.Receipt(txHash)
	if errors.Is(err, chainstore.ErrNotFound) {
		return nil, false, nil
	}
	return r, err == nil, err
}
