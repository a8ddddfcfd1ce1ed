package vmhost

import "errors"

var (
	// ErrGuestPanic wraps a recovered panic from guest code that was not a
	// recognized host error (ErrOutOfFuel, ErrUnauthorizedHostCall): any
	// unexpected guest failure is converted to this at the sandbox boundary
	// so no guest panic ever escapes into the block processor.
	ErrGuestPanic = errors.New("vmhost: guest panicked")
	// ErrUnauthorizedHostCall is raised when a query invocation attempts a
	// mutating host call (storage.insert/remove, event.emit, reserve,
	// unreserve).
	ErrUnauthorizedHostCall = errors.New("vmhost: mutating host call from a query")
)
