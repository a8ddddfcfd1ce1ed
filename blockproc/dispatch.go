package blockproc

import (
	"github.com/holiman/uint256"
	"github.com/odana/odana-core/apps/namespaceregistry"
	"github.com/odana/odana-core/crypto"
	"github.com/odana/odana-core/primitives"
	"github.com/odana/odana-core/smt"
	"github.com/odana/odana-core/statedb"
	"github.com/odana/odana-core/vmhost"
)

// dispatchTransfer debits tx.Sender and credits tx.To by tx.Amount. It is
// the only dispatch kind that never touches an application sub-tree.
func dispatchTransfer(sdb *statedb.StateDB, sender *primitives.Account, tx *primitives.Transaction) error {
	amount := tx.Amount
	if amount == nil {
		amount = uint256.NewInt(0)
	}
	if sender.FreeBalance.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}

	recipient, err := sdb.GetAccount(tx.To)
	if err != nil {
		if err != statedb.ErrAccountNotFound {
			return err
		}
		recipient = primitives.NewUserAccount()
		recipient.Nonce = 1
	}

	sender.FreeBalance = new(uint256.Int).Sub(sender.FreeBalance, amount)
	recipient.FreeBalance = new(uint256.Int).Add(recipient.FreeBalance, amount)

	if err := sdb.SetAccount(tx.Sender, sender); err != nil {
		return err
	}
	return sdb.SetAccount(tx.To, recipient)
}

// dispatchCreate installs a new application account at an address derived
// from the package name, after clearing it through the namespace registry.
// The resulting account's CodeHash is the content hash of the installed
// binary; its entry point set is whatever module the operator has
// registered under that hash, per vmhost's closed module registry.
func (p *Processor) dispatchCreate(sdb *statedb.StateDB, sender *primitives.Account, tx *primitives.Transaction) error {
	nsApp, err := sdb.GetAccount(p.cfg.NamespaceRegistryAddr)
	if err != nil {
		return err
	}
	nsTree := smt.Open(sdb.AppStore(), nsApp.AppRoot)
	if err := namespaceregistry.Claim(nsTree, tx.PackageName, tx.Sender); err != nil {
		if err == namespaceregistry.ErrUnauthorized {
			return ErrUnauthorized
		}
		return err
	}
	nsRoot, err := nsTree.Commit()
	if err != nil {
		return err
	}
	nsApp.AppRoot = nsRoot
	if err := sdb.SetAccount(p.cfg.NamespaceRegistryAddr, nsApp); err != nil {
		return err
	}

	appAddr := primitives.FromHash(namespaceregistry.NamespaceHash(tx.PackageName))
	binaryHash := crypto.Sha256Hash(tx.Binary)
	appAcct := primitives.NewApplicationAccount(binaryHash, tx.DescriptorHash, smt.EmptyRoot)

	if err := sdb.SetAccount(tx.Sender, sender); err != nil {
		return err
	}
	if err := sdb.SetAccount(appAddr, appAcct); err != nil {
		return err
	}

	appTree, err := sdb.AppTree(appAddr)
	if err != nil {
		return err
	}
	inv := vmhost.Invocation{
		App:           appAddr,
		BinaryHash:    binaryHash,
		Sender:        tx.Sender,
		SenderAccount: sender,
		FuelLimit:     tx.FuelLimit,
	}
	res, err := p.host.Genesis(inv, appTree)
	if err != nil {
		return err
	}
	return sdb.SetAppRoot(appAddr, res.NewRoot)
}

// dispatchCall invokes the target application's call entry point.
func (p *Processor) dispatchCall(sdb *statedb.StateDB, header *primitives.Header, sender *primitives.Account, tx *primitives.Transaction) (*vmhost.Result, error) {
	appAcct, err := sdb.GetAccount(tx.App)
	if err != nil {
		return nil, err
	}
	if !appAcct.IsApplication() {
		return nil, ErrUnknownApp
	}
	appTree, err := sdb.AppTree(tx.App)
	if err != nil {
		return nil, err
	}

	inv := vmhost.Invocation{
		App:           tx.App,
		BinaryHash:    appAcct.CodeHash,
		Sender:        tx.Sender,
		SenderAccount: sender,
		BlockLevel:    header.Level,
		Miner:         header.Miner,
		Fee:           tx.Fee().Uint64(),
		FuelLimit:     tx.FuelLimit,
	}
	res, err := p.host.Call(inv, appTree, tx.Args)
	if err != nil {
		return nil, err
	}
	if err := sdb.SetAccount(tx.Sender, sender); err != nil {
		return nil, err
	}
	if err := sdb.SetAppRoot(tx.App, res.NewRoot); err != nil {
		return nil, err
	}
	return &res, nil
}
