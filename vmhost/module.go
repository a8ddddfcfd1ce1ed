package vmhost

import (
	"errors"
	"sync"

	"github.com/odana/odana-core/primitives"
)

// Module is the entry-point surface every installed application exposes.
// Genesis/Call/Query correspond to the guest-callable functions the sandbox
// exports for a given binary_hash.
type Module interface {
	// Genesis runs once, the first time the application is installed.
	Genesis(ctx *Context) error
	// Call mutates the application's private state. A returned error aborts
	// the enclosing transaction; state mutations made before the error are
	// discarded by the caller.
	Call(ctx *Context, args []byte) error
	// Query is read-only: ctx forbids any mutating host call.
	Query(ctx *Context, args []byte) ([]byte, error)
}

// ErrUnknownModule is returned when no module is registered for a binary
// hash the host is asked to execute.
var ErrUnknownModule = errors.New("vmhost: no module registered for binary hash")

// Registry maps an installed application's binary_hash to the Go-native
// module implementing it, standing in for the bytecode loader a real
// sandboxed runtime would have. Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	modules map[primitives.Hash]Module
}

// NewRegistry returns an empty module registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[primitives.Hash]Module)}
}

// Register installs module under binaryHash. Re-registering the same hash
// replaces the previous module, matching the precompile-table pattern this
// is grounded on.
func (r *Registry) Register(binaryHash primitives.Hash, module Module) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules[binaryHash] = module
}

// Lookup returns the module installed under binaryHash.
func (r *Registry) Lookup(binaryHash primitives.Hash) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[binaryHash]
	return m, ok
}
