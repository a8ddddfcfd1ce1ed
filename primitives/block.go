package primitives

// Header is a block's authenticated summary: everything the block
// processor validates structurally before applying a single transaction,
// and the only part of a block that is itself hashed and chained.
type Header struct {
	ParentHash Hash
	StateRoot  Hash // outer account tree root after applying this block
	TxRoot     Hash // Merkle root of this block's transaction list
	Level      uint32
	Timestamp  uint64
	Miner      Address
}

// Hash returns the content hash of the header.
func (h *Header) Hash(hashFn func([]byte) Hash) Hash {
	enc, err := Encode(h)
	if err != nil {
		return Hash{}
	}
	return hashFn(enc)
}

// Block pairs a header with the ordered transaction list it commits to via
// TxRoot.
type Block struct {
	Header       *Header
	Transactions []*Transaction
}
