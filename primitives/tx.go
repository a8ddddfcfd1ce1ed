package primitives

import "github.com/holiman/uint256"

// AppStateKey addresses one entry inside an application's private state
// sub-tree: the application account address plus an application-defined key.
type AppStateKey struct {
	App Address
	Key []byte
}

// SigKind identifies which key scheme signed a transaction.
type SigKind uint8

const (
	// SigEd25519 marks a 64-byte Ed25519 signature.
	SigEd25519 SigKind = iota
	// SigECDSA marks a 65-byte recoverable secp256k1 signature.
	SigECDSA
)

// TxKind discriminates the transaction payload union: a transaction carries
// exactly one of these shapes, never a mix.
type TxKind uint8

const (
	// TxTransfer moves value directly from Sender to To.
	TxTransfer TxKind = iota
	// TxCreate installs a new application account, claiming PackageName and
	// installing Binary under DescriptorHash.
	TxCreate
	// TxCall invokes App's call entry point with Args.
	TxCall
	// TxQuery invokes App's query entry point with Args. Never persisted:
	// queries are served against the current head and produce no receipt.
	TxQuery
)

// Transaction is a signed instruction from a user account. Payload is a
// discriminated union selected by Kind; fields belonging to other kinds are
// zero. Canonicalization for signing excludes only Signature.
type Transaction struct {
	Network uint32
	Sender  Address
	Nonce   uint64
	Kind    TxKind

	// Transfer fields.
	To     Address
	Amount *uint256.Int

	// Create fields.
	PackageName    string
	Binary         []byte
	DescriptorHash Hash

	// Call/Query fields.
	App  Address
	Args []byte

	FuelLimit uint64
	FuelPrice *uint256.Int

	SigKind   SigKind
	Signature []byte
	// PubKey carries the signer's Ed25519 public key. secp256k1 signatures
	// are recoverable, so PubKey is unused (empty) for SigECDSA.
	PubKey []byte

	cachedHash *Hash
}

// signablePayload mirrors Transaction's fields minus Signature, the
// canonical encoding a signature is computed and verified over.
type signablePayload struct {
	Network        uint32
	Sender         Address
	Nonce          uint64
	Kind           TxKind
	To             Address
	Amount         *uint256.Int
	PackageName    string
	Binary         []byte
	DescriptorHash Hash
	App            Address
	Args           []byte
	FuelLimit      uint64
	FuelPrice      *uint256.Int
	SigKind        SigKind
	PubKey         []byte
}

// SigningPayload returns the canonical encoding of the fields a signature
// covers, excluding the signature itself.
func (tx *Transaction) SigningPayload() ([]byte, error) {
	amount := tx.Amount
	if amount == nil {
		amount = uint256.NewInt(0)
	}
	price := tx.FuelPrice
	if price == nil {
		price = uint256.NewInt(0)
	}
	return Encode(&signablePayload{
		Network:        tx.Network,
		Sender:         tx.Sender,
		Nonce:          tx.Nonce,
		Kind:           tx.Kind,
		To:             tx.To,
		Amount:         amount,
		PackageName:    tx.PackageName,
		Binary:         tx.Binary,
		DescriptorHash: tx.DescriptorHash,
		App:            tx.App,
		Args:           tx.Args,
		FuelLimit:      tx.FuelLimit,
		FuelPrice:      price,
		SigKind:        tx.SigKind,
		PubKey:         tx.PubKey,
	})
}

// Hash returns the content hash of the fully-signed transaction, computed
// once and cached.
func (tx *Transaction) Hash(hashFn func([]byte) Hash) Hash {
	if tx.cachedHash != nil {
		return *tx.cachedHash
	}
	enc, err := Encode(tx)
	if err != nil {
		return Hash{}
	}
	h := hashFn(enc)
	tx.cachedHash = &h
	return h
}

// Fee returns the maximum fee this transaction can pay: FuelLimit * FuelPrice.
func (tx *Transaction) Fee() *uint256.Int {
	limit := uint256.NewInt(tx.FuelLimit)
	price := tx.FuelPrice
	if price == nil {
		price = uint256.NewInt(0)
	}
	return new(uint256.Int).Mul(limit, price)
}

// Cost returns the maximum balance this transaction can debit: Fee() plus
// Amount for a Transfer, or just Fee() for every other kind.
func (tx *Transaction) Cost() *uint256.Int {
	fee := tx.Fee()
	if tx.Kind != TxTransfer || tx.Amount == nil {
		return fee
	}
	return new(uint256.Int).Add(fee, tx.Amount)
}

// ReceiptStatus is the outcome of applying a transaction.
type ReceiptStatus uint8

const (
	// StatusSuccess means the transaction's application call returned
	// without an unrecoverable host error and all state changes commit.
	StatusSuccess ReceiptStatus = iota
	// StatusFailure means the application call aborted (including running
	// out of fuel); state changes from the call are discarded but the fee
	// is still debited and the nonce still advances.
	StatusFailure
)

// Event is a structured log emitted by an application call.
type Event struct {
	App   Address
	Topic []byte
	Data  []byte
}

// Receipt records the outcome of applying one transaction.
type Receipt struct {
	App       Address // zero for Transfer, the target application otherwise
	TxHash    Hash
	Status    ReceiptStatus
	FuelUsed  uint64
	PostState Hash // outer-tree root immediately after this transaction
	Events    []Event
}
