// Package blockproc sequences a block's transactions against a snapshot of
// the outer state tree, producing a new state root or rejecting the block
// outright. It is grounded on the teacher's block-processing state machine
// (validate → apply → commit, with per-transaction rollback) generalized
// from EVM-style gas accounting to this execution core's fuel-metered
// application calls.
package blockproc

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/odana/odana-core/log"
	"github.com/odana/odana-core/primitives"
	"github.com/odana/odana-core/statedb"
	"github.com/odana/odana-core/vmhost"
)

// State names the block processor's position in its state machine, exposed
// for logging and metrics rather than for caller branching (ProcessBlock
// runs the whole machine to completion or failure in one call).
type State uint8

const (
	StateIdle State = iota
	StateValidating
	StateApplying
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateApplying:
		return "applying"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// Processor applies blocks to a state database. It holds no state of its
// own between calls: every ProcessBlock call is independent given its
// parentState argument.
type Processor struct {
	cfg  Config
	host *vmhost.Host
	log  *log.Logger
}

// New returns a Processor configured by cfg, dispatching application calls
// through host.
func New(cfg Config, host *vmhost.Host) *Processor {
	return &Processor{cfg: cfg, host: host, log: log.Default().Module("blockproc")}
}

// Result is what successfully processing one block produces. State is a
// fork of the state database passed to ProcessBlock holding every mutation
// from the block; the caller commits it to adopt the new head, or discards
// it to abandon the attempt.
type Result struct {
	State    *statedb.StateDB
	Receipts []*primitives.Receipt
	Root     primitives.Hash
}

// ProcessBlock validates block against parent, applies its transactions to
// a fork of parentState, and verifies the resulting root matches the
// header's declared StateRoot. A non-nil error means the entire attempt is
// discarded; the caller's existing head is untouched either way unless it
// explicitly commits the returned Result.
func (p *Processor) ProcessBlock(parentState *statedb.StateDB, parent *primitives.Header, block *primitives.Block) (*Result, error) {
	p.log.Debug("validating block", "level", block.Header.Level, "txs", len(block.Transactions))
	if err := p.validateHeader(parent, block); err != nil {
		return nil, err
	}
	if err := p.verifySignatures(block.Transactions); err != nil {
		return nil, err
	}

	snapshot := parentState.Fork()
	receipts := make([]*primitives.Receipt, 0, len(block.Transactions))

	p.log.Debug("applying transactions", "level", block.Header.Level)
	for i, tx := range block.Transactions {
		receipt, err := p.applyTx(snapshot, block.Header, tx)
		if err != nil {
			p.log.Warn("block rejected", "level", block.Header.Level, "tx_index", i, "err", err)
			return nil, err
		}
		receipts = append(receipts, receipt)
	}

	root := snapshot.Root()
	if root != block.Header.StateRoot {
		p.log.Warn("state root mismatch", "level", block.Header.Level, "got", root, "want", block.Header.StateRoot)
		return nil, ErrRootMismatch
	}

	p.log.Debug("block applied", "level", block.Header.Level, "root", root)
	return &Result{State: snapshot, Receipts: receipts, Root: root}, nil
}

// verifySignatures checks every transaction's signature concurrently before
// the block's sequential apply pass begins. Signature verification is pure
// (no dependency on snapshot state or transaction order), so it is fanned
// out across a worker per transaction instead of paying for verification one
// at a time on the apply path. Every check runs to completion; Wait then
// reports the first error returned, if any.
func (p *Processor) verifySignatures(txs []*primitives.Transaction) error {
	g := new(errgroup.Group)
	for _, tx := range txs {
		tx := tx
		g.Go(func() error {
			if !verifySignature(tx) {
				return ErrBadSignature
			}
			return nil
		})
	}
	return g.Wait()
}

func (p *Processor) validateHeader(parent *primitives.Header, block *primitives.Block) error {
	if block.Header == nil {
		return ErrHeaderInvalid
	}
	parentHash := parent.Hash(sha256Hash1)
	if block.Header.ParentHash != parentHash {
		return ErrParentMissing
	}
	if block.Header.Level != parent.Level+1 {
		return ErrHeaderInvalid
	}
	if block.Header.Timestamp <= parent.Timestamp {
		return ErrHeaderInvalid
	}
	if block.Header.TxRoot != ComputeTxRoot(block.Transactions) {
		return ErrHeaderInvalid
	}
	return nil
}

// applyTx runs one transaction against snapshot. A returned error aborts
// the whole block (signature/nonce failures indicate the block itself is
// invalid); any other failure is recorded in the receipt and contained,
// with fee charged and nonce advanced regardless.
func (p *Processor) applyTx(snapshot *statedb.StateDB, header *primitives.Header, tx *primitives.Transaction) (*primitives.Receipt, error) {
	sender, err := snapshot.GetAccount(tx.Sender)
	if err != nil {
		if err != statedb.ErrAccountNotFound {
			return nil, err
		}
		sender = primitives.NewUserAccount()
		sender.Nonce = 1
	}
	if tx.Nonce != sender.Nonce {
		return nil, ErrNonceOutOfOrder
	}

	var miner *primitives.Account
	if p.cfg.FeePolicy == FeeToMiner && header.Miner != (primitives.Address{}) {
		miner, err = snapshot.GetAccount(header.Miner)
		if err != nil {
			if err != statedb.ErrAccountNotFound {
				return nil, err
			}
			miner = primitives.NewUserAccount()
			miner.Nonce = 1
		}
	}
	chargeFee(sender, miner, tx.Fee(), p.cfg.FeePolicy)
	if miner != nil {
		if err := snapshot.SetAccount(header.Miner, miner); err != nil {
			return nil, err
		}
	}
	if err := snapshot.SetAccount(tx.Sender, sender); err != nil {
		return nil, err
	}

	receipt := &primitives.Receipt{TxHash: tx.Hash(sha256Hash1), PostState: primitives.Hash{}}

	// Dispatch runs against a fork of the block snapshot taken after the
	// fee charge, so a transaction-level failure's non-fee effects never
	// reach the block's own state (§4.4 step 5 / §4.5 step 3e): only a
	// successful dispatch's fork is merged back in.
	txState := snapshot.Fork()
	dispatchSender, err := txState.GetAccount(tx.Sender)
	if err != nil {
		return nil, err
	}

	txErr := p.dispatch(txState, header, dispatchSender, tx, receipt)
	dispatchSender.Nonce++

	if txErr != nil {
		receipt.Status = primitives.StatusFailure
		p.log.Debug("transaction failed, contained", "tx", receipt.TxHash, "err", txErr)
		sender.Nonce++
		if err := snapshot.SetAccount(tx.Sender, sender); err != nil {
			return nil, err
		}
		receipt.PostState = snapshot.Root()
		return receipt, nil
	}

	receipt.Status = primitives.StatusSuccess
	if err := txState.SetAccount(tx.Sender, dispatchSender); err != nil {
		return nil, err
	}
	snapshot.Merge(txState)

	receipt.PostState = snapshot.Root()
	return receipt, nil
}

func (p *Processor) dispatch(snapshot *statedb.StateDB, header *primitives.Header, sender *primitives.Account, tx *primitives.Transaction, receipt *primitives.Receipt) error {
	switch tx.Kind {
	case primitives.TxTransfer:
		return dispatchTransfer(snapshot, sender, tx)

	case primitives.TxCreate:
		return p.dispatchCreate(snapshot, sender, tx)

	case primitives.TxCall:
		res, err := p.dispatchCall(snapshot, header, sender, tx)
		if err != nil {
			return err
		}
		receipt.App = tx.App
		receipt.Events = res.Events
		receipt.FuelUsed = res.FuelUsed
		return nil

	case primitives.TxQuery:
		return fmt.Errorf("blockproc: query transactions are never persisted")

	default:
		return fmt.Errorf("blockproc: unknown transaction kind %d", tx.Kind)
	}
}
