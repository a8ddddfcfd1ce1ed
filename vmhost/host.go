package vmhost

import (
	"fmt"

	"github.com/odana/odana-core/primitives"
	"github.com/odana/odana-core/smt"
)

// Config parameterizes a Host. QueryFuelCap and CallFuelCap are kept
// distinct because the original implementation caps read-only query
// execution separately from state-mutating calls.
type Config struct {
	Schedule     FuelSchedule
	QueryFuelCap uint64
	CallFuelCap  uint64
	ChainID      uint32
}

// DefaultConfig returns sane fuel caps for a single node instance.
func DefaultConfig() Config {
	return Config{
		Schedule:     DefaultFuelSchedule(),
		QueryFuelCap: 1_000_000,
		CallFuelCap:  10_000_000,
		ChainID:      1,
	}
}

// Host executes application modules against a per-transaction sub-tree
// snapshot, enforcing the fuel budget and the mutability boundary between
// Call and Query.
type Host struct {
	cfg      Config
	registry *Registry
}

// New returns a Host serving modules from registry under cfg.
func New(cfg Config, registry *Registry) *Host {
	return &Host{cfg: cfg, registry: registry}
}

// Invocation describes the system-call surface's answers for one
// transaction: everything a module's Sender/BlockLevel/Miner/Fee/ChainID
// host calls resolve to, plus the account reserve/unreserve mutates.
type Invocation struct {
	App           primitives.Address
	BinaryHash    primitives.Hash
	Sender        primitives.Address
	SenderAccount *primitives.Account
	BlockLevel    uint32
	Miner         primitives.Address
	Fee           uint64
	FuelLimit     uint64
}

// Result is what executing one entry point against one sub-tree snapshot
// produces.
type Result struct {
	NewRoot  primitives.Hash
	Events   []primitives.Event
	FuelUsed uint64
}

// Genesis runs a freshly-installed module's genesis entry point once
// against an empty sub-tree.
func (h *Host) Genesis(inv Invocation, tree *smt.Tree) (res Result, err error) {
	module, ok := h.registry.Lookup(inv.BinaryHash)
	if !ok {
		return Result{}, ErrUnknownModule
	}
	limit := inv.FuelLimit
	if limit == 0 || limit > h.cfg.CallFuelCap {
		limit = h.cfg.CallFuelCap
	}
	ctx := h.newContext(inv, tree, limit, false)
	defer h.recoverInto(&err, ctx)
	if err = module.Genesis(ctx); err != nil {
		return Result{FuelUsed: ctx.meter.Used()}, err
	}
	return h.commitResult(tree, ctx), nil
}

// Call invokes a module's mutating entry point. Per §4.4 step 5, a
// returned/recovered error means the caller must discard every mutation
// this invocation made to tree and still charge the transaction's fee.
func (h *Host) Call(inv Invocation, tree *smt.Tree, args []byte) (res Result, err error) {
	module, ok := h.registry.Lookup(inv.BinaryHash)
	if !ok {
		return Result{}, ErrUnknownModule
	}
	limit := inv.FuelLimit
	if limit == 0 || limit > h.cfg.CallFuelCap {
		limit = h.cfg.CallFuelCap
	}
	ctx := h.newContext(inv, tree, limit, false)
	defer h.recoverInto(&err, ctx)
	if err = module.Call(ctx, args); err != nil {
		return Result{FuelUsed: ctx.meter.Used()}, err
	}
	return h.commitResult(tree, ctx), nil
}

// Query invokes a module's read-only entry point and returns its response
// and the fuel it used. Its Context rejects every mutating host call with
// ErrUnauthorizedHostCall, so tree's root is left unchanged.
func (h *Host) Query(inv Invocation, tree *smt.Tree, args []byte) (response []byte, fuelUsed uint64, err error) {
	module, ok := h.registry.Lookup(inv.BinaryHash)
	if !ok {
		return nil, 0, ErrUnknownModule
	}
	limit := inv.FuelLimit
	if limit == 0 || limit > h.cfg.QueryFuelCap {
		limit = h.cfg.QueryFuelCap
	}
	ctx := h.newContext(inv, tree, limit, true)
	defer func() { fuelUsed = ctx.meter.Used() }()
	defer h.recoverInto(&err, ctx)
	response, err = module.Query(ctx, args)
	return response, fuelUsed, err
}

func (h *Host) newContext(inv Invocation, tree *smt.Tree, fuelLimit uint64, readOnly bool) *Context {
	return &Context{
		tree:          tree,
		meter:         NewFuelMeter(fuelLimit),
		sched:         h.cfg.Schedule,
		sender:        inv.Sender,
		app:           inv.App,
		blockLevel:    inv.BlockLevel,
		miner:         inv.Miner,
		fee:           inv.Fee,
		chainID:       h.cfg.ChainID,
		senderAccount: inv.SenderAccount,
		readOnly:      readOnly,
	}
}

func (h *Host) commitResult(tree *smt.Tree, ctx *Context) Result {
	return Result{
		NewRoot:  tree.Root(),
		Events:   ctx.Events(),
		FuelUsed: ctx.meter.Used(),
	}
}

// recoverInto converts a guest panic into a typed error, per the rule that
// no host path may panic on adversarial (or merely buggy) guest input.
func (h *Host) recoverInto(err *error, ctx *Context) {
	r := recover()
	if r == nil {
		return
	}
	switch v := r.(type) {
	case error:
		if v == ErrOutOfFuel || v == ErrUnauthorizedHostCall {
			*err = v
			return
		}
		*err = fmt.Errorf("%w: %v", ErrGuestPanic, v)
	default:
		*err = fmt.Errorf("%w: %v", ErrGuestPanic, v)
	}
}
