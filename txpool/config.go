package txpool

// Config parameterizes a Pool, following the teacher's TxPool Config /
// DefaultConfig pattern (txpool/txpool.go).
type Config struct {
	// MaxPerSender bounds how many transactions (pending + queued) a
	// single sender may occupy, preventing one account from monopolizing
	// pool slots.
	MaxPerSender int
	// MaxGlobalSlots bounds the pool's total transaction count across all
	// senders.
	MaxGlobalSlots int
	// MaxNonceGap bounds how far ahead of the account's current nonce a
	// queued transaction's nonce may sit before the pool refuses it
	// outright (spec: NonceGapExceedsSlots).
	MaxNonceGap uint64
	// PriceBumpPercent is the minimum percentage by which a replacement
	// transaction's fee must exceed the fee of the transaction it
	// replaces at the same (sender, nonce).
	PriceBumpPercent uint64
}

// DefaultConfig returns sane bounds for a single node instance.
func DefaultConfig() Config {
	return Config{
		MaxPerSender:     64,
		MaxGlobalSlots:   4096,
		MaxNonceGap:      16,
		PriceBumpPercent: 10,
	}
}
