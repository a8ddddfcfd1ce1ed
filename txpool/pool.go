// Package txpool admits, de-duplicates, nonce-orders, and promotes
// transactions toward block inclusion, independent of any single block
// attempt: the pool's view of "pending" is a prediction the block processor
// later re-validates authoritatively. Grounded on the teacher's
// txpool/txpool.go structure (txLookup, per-sender sorted list, Config/
// DefaultConfig), generalized from gas-price ordering to this execution
// core's fuel-fee model.
package txpool

import (
	"sort"
	"sync"

	"github.com/holiman/uint256"
	"github.com/odana/odana-core/crypto"
	"github.com/odana/odana-core/log"
	"github.com/odana/odana-core/primitives"
)

// senderQueue holds every transaction currently held for one sender,
// sorted by nonce. pendingCount is the length of the contiguous prefix
// starting at the account's current nonce; the remainder is queued.
type senderQueue struct {
	byNonce      map[uint64]*primitives.Transaction
	pendingCount int
}

func newSenderQueue() *senderQueue {
	return &senderQueue{byNonce: make(map[uint64]*primitives.Transaction)}
}

// sorted returns every held transaction ordered by ascending nonce.
func (q *senderQueue) sorted() []*primitives.Transaction {
	nonces := make([]uint64, 0, len(q.byNonce))
	for n := range q.byNonce {
		nonces = append(nonces, n)
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i] < nonces[j] })
	out := make([]*primitives.Transaction, len(nonces))
	for i, n := range nonces {
		out[i] = q.byNonce[n]
	}
	return out
}

// recomputePending recounts the contiguous run starting at base, called
// after any insertion, replacement, or removal.
func (q *senderQueue) recomputePending(base uint64) {
	count := 0
	for {
		if _, ok := q.byNonce[base+uint64(count)]; !ok {
			break
		}
		count++
	}
	q.pendingCount = count
}

// Pool is the node's transaction admission and ordering layer.
type Pool struct {
	cfg   Config
	state StateReader
	log   *log.Logger

	mu       sync.RWMutex
	bySender map[primitives.Address]*senderQueue
	byHash   map[primitives.Hash]struct{}
	nonces   *nonceTracker
	size     int
}

// New returns an empty pool reading committed nonces from state.
func New(cfg Config, state StateReader) *Pool {
	return &Pool{
		cfg:      cfg,
		state:    state,
		log:      log.Default().Module("txpool"),
		bySender: make(map[primitives.Address]*senderQueue),
		byHash:   make(map[primitives.Hash]struct{}),
		nonces:   newNonceTracker(state),
	}
}

func txHash(tx *primitives.Transaction) primitives.Hash {
	return tx.Hash(func(b []byte) primitives.Hash { return crypto.Sha256Hash(b) })
}

// Add admits tx into the pool per spec §4.6: signature must verify, the
// hash must be unseen, and a (sender, nonce) collision is only accepted as
// a replacement if the new fee exceeds the old by at least the configured
// price-bump percentage.
func (p *Pool) Add(tx *primitives.Transaction) error {
	if !crypto.VerifyTransactionSignature(tx) {
		return ErrBadSignature
	}
	hash := txHash(tx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.byHash[hash]; ok {
		return ErrDuplicateTx
	}
	if p.size >= p.cfg.MaxGlobalSlots {
		return ErrPoolFull
	}

	base, err := p.nonces.base(tx.Sender)
	if err != nil {
		return err
	}
	if tx.Nonce < base {
		return ErrNonceTooLow
	}
	if tx.Nonce-base > p.cfg.MaxNonceGap {
		return ErrNonceGapExceedsSlots
	}

	q, ok := p.bySender[tx.Sender]
	if !ok {
		q = newSenderQueue()
		p.bySender[tx.Sender] = q
	}
	if len(q.byNonce) >= p.cfg.MaxPerSender {
		return ErrPoolFull
	}

	if existing, ok := q.byNonce[tx.Nonce]; ok {
		if !sufficientBump(existing.Fee(), tx.Fee(), p.cfg.PriceBumpPercent) {
			return ErrFeeBumpInsufficient
		}
		delete(p.byHash, txHash(existing))
	} else {
		p.size++
	}

	q.byNonce[tx.Nonce] = tx
	q.recomputePending(base)
	p.byHash[hash] = struct{}{}
	p.log.Debug("transaction admitted", "sender", tx.Sender, "nonce", tx.Nonce, "hash", hash)
	return nil
}

// sufficientBump reports whether newFee >= oldFee * (1 + bumpPercent/100),
// computed as newFee*100 >= oldFee*(100+bumpPercent) to stay in integer
// arithmetic.
func sufficientBump(oldFee, newFee *uint256.Int, bumpPercent uint64) bool {
	threshold := new(uint256.Int).Mul(oldFee, uint256.NewInt(100+bumpPercent))
	scaledNew := new(uint256.Int).Mul(newFee, uint256.NewInt(100))
	return scaledNew.Cmp(threshold) >= 0
}

// Promote reconciles sender's queue with its new committed nonce after a
// block applies: every transaction below newNonce has already been
// included (or is now permanently stale) and is dropped, and the
// contiguous pending run is recomputed from the new base. This is spec
// §4.6's promote(from) operation.
func (p *Pool) Promote(sender primitives.Address, newNonce uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nonces.set(sender, newNonce)
	q, ok := p.bySender[sender]
	if !ok {
		return
	}
	for nonce, tx := range q.byNonce {
		if nonce < newNonce {
			delete(p.byHash, txHash(tx))
			delete(q.byNonce, nonce)
			p.size--
		}
	}
	if len(q.byNonce) == 0 {
		delete(p.bySender, sender)
		return
	}
	q.recomputePending(newNonce)
}

// Remove discards a transaction by hash, e.g. after it is confirmed in a
// finalized block or explicitly dropped by an operator.
func (p *Pool) Remove(hash primitives.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.byHash[hash]; !ok {
		return
	}
	for sender, q := range p.bySender {
		for nonce, tx := range q.byNonce {
			if txHash(tx) == hash {
				delete(q.byNonce, nonce)
				delete(p.byHash, hash)
				p.size--
				if len(q.byNonce) == 0 {
					delete(p.bySender, sender)
				} else {
					base, _ := p.nonces.base(sender)
					q.recomputePending(base)
				}
				return
			}
		}
	}
}

// Has reports whether hash is currently held by the pool.
func (p *Pool) Has(hash primitives.Hash) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.byHash[hash]
	return ok
}

// Len returns the total number of transactions held by the pool.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.size
}

// Pending returns sender's pending (contiguous, ready-to-apply) queue in
// nonce order.
func (p *Pool) Pending(sender primitives.Address) []*primitives.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	q, ok := p.bySender[sender]
	if !ok {
		return nil
	}
	return q.sorted()[:q.pendingCount]
}

// Queued returns sender's queued (nonce-gapped, not yet eligible) txs in
// nonce order.
func (p *Pool) Queued(sender primitives.Address) []*primitives.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	q, ok := p.bySender[sender]
	if !ok {
		return nil
	}
	return q.sorted()[q.pendingCount:]
}

// OrderedForMiner returns every pending transaction across all senders,
// globally sorted by descending fee with per-sender nonce order preserved,
// per spec §4.6's ordered_for_miner contract. The result is a deterministic
// function of pool state at call time.
func (p *Pool) OrderedForMiner() []*primitives.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	bySender := make(map[primitives.Address][]*primitives.Transaction, len(p.bySender))
	for sender, q := range p.bySender {
		if q.pendingCount == 0 {
			continue
		}
		bySender[sender] = q.sorted()[:q.pendingCount]
	}
	return orderedForMiner(bySender)
}
