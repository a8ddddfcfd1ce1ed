// Package chainstore indexes headers by hash and by level and persists
// block bodies and receipts, the node's durable record of the chain
// separate from the account state the SMT authenticates. It is grounded on
// the teacher's pkg/core.HeaderChain (in-memory canonical-chain index with
// parent-linking validation) and pkg/core/rawdb (hash/number-keyed
// accessors over a raw key-value store), merged into one facade backed by
// this core's own kv.Database rather than go-ethereum's ancient/freezer
// split.
package chainstore

import (
	"fmt"
	"sync"

	"github.com/odana/odana-core/kv"
	"github.com/odana/odana-core/log"
	"github.com/odana/odana-core/primitives"
)

// hashHeaderFn computes a header's content hash; injected so chainstore
// never has to import blockproc (which would cycle back through statedb).
type hashHeaderFn func(*primitives.Header) primitives.Hash

// Chain is a handle onto one physical database's header/body/receipt
// indices plus an in-memory cache of the canonical head, mirroring the
// teacher's HeaderChain.
type Chain struct {
	mu  sync.RWMutex
	db  kv.Database
	cfg Config
	log *log.Logger

	hashHeader hashHeaderFn

	head *primitives.Header
}

// Open reconstructs a Chain over db. If the database already has a head
// pointer recorded, it becomes the in-memory head; otherwise the chain
// starts empty and the first InsertBlock call (of the genesis block) seeds
// it.
func Open(db kv.Database, cfg Config, hashHeader hashHeaderFn) (*Chain, error) {
	c := &Chain{db: db, cfg: cfg, log: log.Default().Module("chainstore"), hashHeader: hashHeader}

	headHashRaw, err := db.Get(kv.ChainMetaKey(kv.HeadKey))
	if err != nil {
		if err == kv.ErrNotFound {
			return c, nil
		}
		return nil, err
	}
	head, err := c.readHeaderByHash(primitives.BytesToHash(headHashRaw))
	if err != nil {
		return nil, fmt.Errorf("chainstore: reading recorded head: %w", err)
	}
	c.head = head
	return c, nil
}

// Head returns the current canonical head header, or nil if the chain has
// no blocks yet.
func (c *Chain) Head() *primitives.Header {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.head
}

// InsertBlock indexes block's header (by hash and, if it extends the
// canonical chain, by level), persists its transaction list and receipts,
// and advances the head pointer. The genesis block (no recorded head yet)
// is accepted unconditionally; every later block must name the current
// head as its parent.
func (c *Chain) InsertBlock(block *primitives.Block, receipts []*primitives.Receipt) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	header := block.Header
	hash := c.hashHeader(header)

	if _, err := c.readHeaderByHash(hash); err == nil {
		return ErrHeaderKnown
	}

	if c.head != nil {
		parentHash := c.hashHeader(c.head)
		if header.ParentHash != parentHash {
			return ErrUnknownParent
		}
		if header.Level != c.head.Level+1 {
			return fmt.Errorf("%w: level %d does not extend head %d", ErrUnknownParent, header.Level, c.head.Level)
		}
	}

	batch := c.db.NewBatch()
	if err := c.writeHeader(batch, header, hash); err != nil {
		return err
	}
	if err := c.writeLevel(batch, header.Level, hash); err != nil {
		return err
	}
	if err := c.writeTransactions(batch, hash, block.Transactions); err != nil {
		return err
	}
	if err := c.writeReceipts(batch, receipts); err != nil {
		return err
	}
	if err := batch.Put(kv.ChainMetaKey(kv.HeadKey), hash.Bytes()); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return fmt.Errorf("chainstore: committing block %d: %w", header.Level, err)
	}

	c.head = header
	c.log.Info("block indexed", "level", header.Level, "hash", hash, "txs", len(block.Transactions))
	return nil
}

// HeaderByHash returns the header stored under hash.
func (c *Chain) HeaderByHash(hash primitives.Hash) (*primitives.Header, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.readHeaderByHash(hash)
}

// HeaderByLevel returns the canonical header at level, following the
// level -> hash index.
func (c *Chain) HeaderByLevel(level uint32) (*primitives.Header, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := c.db.Get(kv.LevelKey(encodeLevel(level)))
	if err != nil {
		if err == kv.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c.readHeaderByHash(primitives.BytesToHash(raw))
}

// Transactions returns the ordered transaction list committed by the block
// with the given header hash.
func (c *Chain) Transactions(blockHash primitives.Hash) ([]*primitives.Transaction, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := c.db.Get(kv.BlockTransactionsKey(blockHash.Bytes()))
	if err != nil {
		if err == kv.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	raw, err = maybeDecompress(c.cfg, raw)
	if err != nil {
		return nil, err
	}
	var txs []*primitives.Transaction
	if err := primitives.Decode(raw, &txs); err != nil {
		return nil, fmt.Errorf("chainstore: decoding block %s transactions: %w", blockHash, err)
	}
	return txs, nil
}

// Receipt returns the receipt for txHash.
func (c *Chain) Receipt(txHash primitives.Hash) (*primitives.Receipt, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	raw, err := c.db.Get(kv.ReceiptKey(txHash.Bytes()))
	if err != nil {
		if err == kv.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	raw, err = maybeDecompress(c.cfg, raw)
	if err != nil {
		return nil, err
	}
	var receipt primitives.Receipt
	if err := primitives.Decode(raw, &receipt); err != nil {
		return nil, fmt.Errorf("chainstore: decoding receipt %s: %w", txHash, err)
	}
	return &receipt, nil
}

func (c *Chain) readHeaderByHash(hash primitives.Hash) (*primitives.Header, error) {
	raw, err := c.db.Get(kv.HeaderKey(hash.Bytes()))
	if err != nil {
		if err == kv.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var header primitives.Header
	if err := primitives.Decode(raw, &header); err != nil {
		return nil, fmt.Errorf("chainstore: decoding header %s: %w", hash, err)
	}
	return &header, nil
}

func (c *Chain) writeHeader(batch kv.Batch, header *primitives.Header, hash primitives.Hash) error {
	raw, err := primitives.Encode(header)
	if err != nil {
		return fmt.Errorf("chainstore: encoding header: %w", err)
	}
	return batch.Put(kv.HeaderKey(hash.Bytes()), raw)
}

func (c *Chain) writeLevel(batch kv.Batch, level uint32, hash primitives.Hash) error {
	return batch.Put(kv.LevelKey(encodeLevel(level)), hash.Bytes())
}

func (c *Chain) writeTransactions(batch kv.Batch, blockHash primitives.Hash, txs []*primitives.Transaction) error {
	raw, err := primitives.Encode(txs)
	if err != nil {
		return fmt.Errorf("chainstore: encoding transactions: %w", err)
	}
	raw, err = maybeCompress(c.cfg, raw)
	if err != nil {
		return err
	}
	return batch.Put(kv.BlockTransactionsKey(blockHash.Bytes()), raw)
}

func (c *Chain) writeReceipts(batch kv.Batch, receipts []*primitives.Receipt) error {
	for _, r := range receipts {
		raw, err := primitives.Encode(r)
		if err != nil {
			return fmt.Errorf("chainstore: encoding receipt %s: %w", r.TxHash, err)
		}
		raw, err = maybeCompress(c.cfg, raw)
		if err != nil {
			return err
		}
		if err := batch.Put(kv.ReceiptKey(r.TxHash.Bytes()), raw); err != nil {
			return err
		}
	}
	return nil
}

func encodeLevel(level uint32) []byte {
	return []byte{byte(level >> 24), byte(level >> 16), byte(level >> 8), byte(level)}
}
