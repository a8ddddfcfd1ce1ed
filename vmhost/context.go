// Package vmhost implements the application host: the sandbox that loads a
// deterministic module, projects its private sub-tree into it, and mediates
// every storage, event, and system call it makes. It is grounded on the
// teacher's precompiled-contract registry (an address-keyed table of Go
// functions invoked in place of bytecode execution) generalized from a fixed
// set of builtins to an open set of installable modules, since nothing in
// the example pack wires a WASM or other guest bytecode runtime into Go —
// see DESIGN.md for why that substitution was made deliberately rather than
// fabricated.
package vmhost

import (
	"github.com/holiman/uint256"
	"github.com/odana/odana-core/primitives"
	"github.com/odana/odana-core/smt"
)

// Context is the capability handle a module's entry point receives for the
// duration of one invocation. Its validity is scoped to that invocation: a
// module must not retain a Context past the call that handed it one.
type Context struct {
	tree  *smt.Tree
	meter *FuelMeter
	sched FuelSchedule

	sender     primitives.Address
	app        primitives.Address
	blockLevel uint32
	miner      primitives.Address
	fee        uint64
	chainID    uint32

	senderAccount *primitives.Account
	events        []primitives.Event
	readOnly      bool
}

// StorageGet reads key from the app's private sub-tree.
func (c *Context) StorageGet(key []byte) ([]byte, bool) {
	c.meter.Consume(c.sched.StorageGet)
	v, ok, err := c.tree.Get(key)
	if err != nil {
		panic(err)
	}
	return v, ok
}

// StorageInsert binds key to value in the app's private sub-tree. Forbidden
// during Query: Query's Context is constructed with readOnly set, so the
// call panics with ErrUnauthorizedHostCall before touching the tree.
func (c *Context) StorageInsert(key, value []byte) {
	c.requireMutable()
	c.meter.Consume(c.sched.StorageInsert)
	if _, err := c.tree.Update(key, value); err != nil {
		panic(err)
	}
}

// StorageRemove deletes key from the app's private sub-tree, reporting
// whether it had been bound.
func (c *Context) StorageRemove(key []byte) bool {
	c.requireMutable()
	c.meter.Consume(c.sched.StorageRemove)
	_, ok, err := c.tree.Get(key)
	if err != nil {
		panic(err)
	}
	if !ok {
		return false
	}
	if _, err := c.tree.Update(key, nil); err != nil {
		panic(err)
	}
	return true
}

// StorageRoot returns the current root of the app's private sub-tree,
// reflecting every mutation made so far in this invocation.
func (c *Context) StorageRoot() primitives.Hash {
	c.meter.Consume(c.sched.StorageRoot)
	return c.tree.Root()
}

// EmitEvent appends data to the append-only event log collected into the
// transaction's receipt.
func (c *Context) EmitEvent(data []byte) {
	c.requireMutable()
	c.meter.Consume(c.sched.EventEmit)
	c.events = append(c.events, primitives.Event{App: c.app, Data: data})
}

// Sender returns the transaction's signing address.
func (c *Context) Sender() primitives.Address {
	c.meter.Consume(c.sched.SystemCall)
	return c.sender
}

// BlockLevel returns the height of the block this invocation executes in.
func (c *Context) BlockLevel() uint32 {
	c.meter.Consume(c.sched.SystemCall)
	return c.blockLevel
}

// Miner returns the current block's producer address.
func (c *Context) Miner() primitives.Address {
	c.meter.Consume(c.sched.SystemCall)
	return c.miner
}

// Fee returns the fee paid by the enclosing transaction.
func (c *Context) Fee() uint64 {
	c.meter.Consume(c.sched.SystemCall)
	return c.fee
}

// ChainID returns the network's chain identifier.
func (c *Context) ChainID() uint32 {
	c.meter.Consume(c.sched.SystemCall)
	return c.chainID
}

// Reserve moves amount from the sender's free balance into its reserve
// balance, reporting whether the sender had enough free balance.
func (c *Context) Reserve(amount *uint256.Int) bool {
	c.requireMutable()
	c.meter.Consume(c.sched.Reserve)
	return c.senderAccount.Reserve(amount)
}

// Unreserve moves amount back from the sender's reserve balance into its
// free balance, reporting whether it had enough reserved.
func (c *Context) Unreserve(amount *uint256.Int) bool {
	c.requireMutable()
	c.meter.Consume(c.sched.Unreserve)
	return c.senderAccount.Unreserve(amount)
}

// Events returns every event emitted so far in this invocation.
func (c *Context) Events() []primitives.Event {
	return c.events
}

func (c *Context) requireMutable() {
	if c.readOnly {
		panic(ErrUnauthorizedHostCall)
	}
}
