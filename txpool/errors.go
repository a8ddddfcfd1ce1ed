package txpool

import "errors"

// Errors are exactly the pool-layer taxonomy entries, distinct from the
// block processor's state-layer errors (blockproc.ErrNonceOutOfOrder and
// friends) even though both guard against the same underlying conditions:
// the pool rejects speculatively before a transaction ever reaches a block,
// the processor rejects authoritatively while applying one.
var (
	ErrDuplicateTx         = errors.New("txpool: transaction hash already known")
	ErrNonceGapExceedsSlots = errors.New("txpool: nonce is too far ahead of the account's current nonce")
	ErrFeeBumpInsufficient = errors.New("txpool: replacement fee does not exceed the existing candidate by the required bump")
	ErrPoolFull            = errors.New("txpool: pool is at capacity")
	ErrBadSignature        = errors.New("txpool: transaction signature does not verify")
	ErrNonceTooLow         = errors.New("txpool: nonce below the account's current nonce")
)
