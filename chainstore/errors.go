package chainstore

import "errors"

var (
	// ErrUnknownParent is returned by InsertBlock when the block does not
	// extend the current head: its ParentHash is not the head's hash, or
	// its Level is not the head's level plus one.
	ErrUnknownParent = errors.New("chainstore: unknown parent header")
	// ErrHeaderKnown is returned by InsertBlock for a block already
	// indexed under its own hash; InsertBlock is idempotent so callers
	// normally treat this as a no-op rather than a fatal error.
	ErrHeaderKnown = errors.New("chainstore: header already known")
	// ErrNotFound is returned by the lookup accessors for a hash/level the
	// store has no record of.
	ErrNotFound = errors.New("chainstore: not found")
)
