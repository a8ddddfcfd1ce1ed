// price_heap.go orders pending transactions for block inclusion: globally
// by descending fee, but never violating a single sender's nonce order.
// Grounded on the teacher's container/heap-based price_heap.go, generalized
// to the go-ethereum miner's well-known "one cursor per sender" heap shape
// (TransactionsByPriceAndNonce) so popping the heap's max always yields a
// transaction whose nonce is ready to apply.
package txpool

import (
	"container/heap"

	"github.com/odana/odana-core/primitives"
)

// senderCursor is one sender's position within their own nonce-ordered
// transaction list: txs[pos] is the next transaction from this sender
// eligible for inclusion.
type senderCursor struct {
	txs []*primitives.Transaction
	pos int
}

func (c *senderCursor) current() *primitives.Transaction { return c.txs[c.pos] }

func (c *senderCursor) advance() bool {
	c.pos++
	return c.pos < len(c.txs)
}

// cursorHeap is a max-heap over senderCursors ordered by the current
// transaction's fee, breaking ties by ascending (sender, nonce) for a
// fully deterministic order.
type cursorHeap []*senderCursor

func (h cursorHeap) Len() int { return len(h) }

func (h cursorHeap) Less(i, j int) bool {
	a, b := h[i].current(), h[j].current()
	cmp := a.Fee().Cmp(b.Fee())
	if cmp != 0 {
		return cmp > 0 // higher fee first
	}
	if a.Sender != b.Sender {
		return a.Sender.Less(b.Sender)
	}
	return a.Nonce < b.Nonce
}

func (h cursorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *cursorHeap) Push(x any) { *h = append(*h, x.(*senderCursor)) }

func (h *cursorHeap) Pop() any {
	old := *h
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return c
}

// orderedForMiner flattens pendingBySender into a single globally
// fee-descending order while preserving each sender's internal nonce
// order, matching spec's ordered_for_miner contract exactly.
func orderedForMiner(pendingBySender map[primitives.Address][]*primitives.Transaction) []*primitives.Transaction {
	h := make(cursorHeap, 0, len(pendingBySender))
	for _, txs := range pendingBySender {
		if len(txs) == 0 {
			continue
		}
		h = append(h, &senderCursor{txs: txs})
	}
	heap.Init(&h)

	out := make([]*primitives.Transaction, 0, len(h))
	for h.Len() > 0 {
		cursor := h[0]
		out = append(out, cursor.current())
		if cursor.advance() {
			heap.Fix(&h, 0)
		} else {
			heap.Pop(&h)
		}
	}
	return out
}
