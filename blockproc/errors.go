package blockproc

import "errors"

// Errors are grouped by the layer that raises them, per the failure
// taxonomy's propagation policy: a block-level error discards the entire
// snapshot under construction; a transaction-level error is contained in
// that transaction's receipt and processing continues.
var (
	// Block-level: discard the whole snapshot, current head unchanged.
	ErrParentMissing = errors.New("blockproc: parent_hash does not match current head")
	ErrHeaderInvalid = errors.New("blockproc: header fails structural validation")
	ErrRootMismatch  = errors.New("blockproc: resulting state root does not match header")
	ErrBadSignature  = errors.New("blockproc: transaction signature does not verify")
	ErrNonceOutOfOrder = errors.New("blockproc: transaction nonce does not match account nonce")

	// Transaction-level: contained, fee still charged, nonce still bumped.
	ErrInsufficientFunds = errors.New("blockproc: insufficient free balance")
	ErrAccountMissing    = errors.New("blockproc: target account does not exist")
	ErrUnknownApp        = errors.New("blockproc: target is not an application account")
	ErrUnauthorized      = errors.New("blockproc: namespace already owned by another address")
)
