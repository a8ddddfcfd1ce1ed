package kv

// Table prefixes partition the single physical keyspace each backend
// exposes into the logical column families the rest of the node addresses
// by name, collapsed to one byte each since a single node here never needs
// more than a few dozen tables.
const (
	// TableSMTNodes stores sparse Merkle tree nodes keyed by their content
	// hash, shared by the outer account tree and every application's
	// sub-tree (content-addressing means no collision is possible across
	// trees).
	TableSMTNodes byte = 'n'

	// TableHeadersByHash stores block headers keyed by block hash.
	TableHeadersByHash byte = 'h'
	// TableHeadersByLevel indexes canonical block hash by block level
	// (height), for level-based lookups and reorg pivoting.
	TableHeadersByLevel byte = 'l'
	// TableBlockTransactions stores a block's ordered transaction list
	// keyed by block hash.
	TableBlockTransactions byte = 't'
	// TableReceipts stores transaction receipts keyed by transaction hash.
	TableReceipts byte = 'r'
	// TableChainMeta stores singleton chain metadata: genesis hash, head
	// hash, chain config.
	TableChainMeta byte = 'm'

	// TableNamespaceOwners is the prefix for a namespace_hash -> owner
	// address table. The namespace registry keeps its live mapping in its
	// own application sub-tree (TableSMTNodes); nothing writes under this
	// prefix.
	TableNamespaceOwners byte = 's'
)

// NodeKey builds the storage key for an SMT node.
func NodeKey(hash []byte) []byte {
	return prefixed(TableSMTNodes, hash)
}

// HeaderKey builds the storage key for a header lookup by hash.
func HeaderKey(hash []byte) []byte {
	return prefixed(TableHeadersByHash, hash)
}

// LevelKey builds the storage key for the canonical-hash-by-level index.
func LevelKey(levelBytes []byte) []byte {
	return prefixed(TableHeadersByLevel, levelBytes)
}

// BlockTransactionsKey builds the storage key for a block's transaction
// list.
func BlockTransactionsKey(blockHash []byte) []byte {
	return prefixed(TableBlockTransactions, blockHash)
}

// ReceiptKey builds the storage key for a transaction's receipt.
func ReceiptKey(txHash []byte) []byte {
	return prefixed(TableReceipts, txHash)
}

// ChainMetaKey builds the storage key for a named chain metadata entry.
func ChainMetaKey(name string) []byte {
	return prefixed(TableChainMeta, []byte(name))
}

// NamespaceOwnerKey builds the storage key for a namespace's owner record.
func NamespaceOwnerKey(namespaceHash []byte) []byte {
	return prefixed(TableNamespaceOwners, namespaceHash)
}

var (
	// HeadKey names the chain-head hash entry in TableChainMeta.
	HeadKey = "head"
	// GenesisKey names the genesis hash entry in TableChainMeta.
	GenesisKey = "genesis"
)
