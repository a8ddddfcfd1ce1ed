package primitives

import "github.com/holiman/uint256"

// AccountKind distinguishes the two kinds of account the outer tree holds.
type AccountKind uint8

const (
	// UserAccount is controlled by an Ed25519 or ECDSA key pair.
	UserAccount AccountKind = iota
	// ApplicationAccount is controlled by the application host: its state is
	// a sub-tree rooted in AppRoot and mutated only through host calls.
	ApplicationAccount
)

// Account is the outer-tree leaf value for both user and application
// accounts. Application-only fields are zero for user accounts and vice
// versa, mirroring the teacher's single Account struct used for both EOAs
// and contracts.
type Account struct {
	Kind AccountKind

	Nonce          uint64
	FreeBalance    *uint256.Int
	ReserveBalance *uint256.Int

	// AppRoot is the root hash of the application's private state sub-tree.
	// Zero for user accounts.
	AppRoot Hash
	// CodeHash identifies the installed application module (the data
	// model's binary_hash). Zero for user accounts.
	CodeHash Hash
	// DescriptorHash identifies the module's interface descriptor: the
	// declared host-call imports and guest entry points it exposes, which
	// the host checks against before invoking an unfamiliar binary.
	DescriptorHash Hash
	// Metadata is an opaque, application-supplied byte string (e.g. a
	// human-readable name or version tag); the host never interprets it.
	Metadata []byte
}

// NewUserAccount returns a zero-balance, zero-nonce user account.
func NewUserAccount() *Account {
	return &Account{
		Kind:           UserAccount,
		FreeBalance:    uint256.NewInt(0),
		ReserveBalance: uint256.NewInt(0),
	}
}

// NewApplicationAccount returns a zero-balance application account rooted at
// an empty sub-tree, owning the given installed module.
func NewApplicationAccount(codeHash, descriptorHash, emptyRoot Hash) *Account {
	return &Account{
		Kind:           ApplicationAccount,
		FreeBalance:    uint256.NewInt(0),
		ReserveBalance: uint256.NewInt(0),
		AppRoot:        emptyRoot,
		CodeHash:       codeHash,
		DescriptorHash: descriptorHash,
	}
}

// IsApplication reports whether the account is application-controlled.
func (a *Account) IsApplication() bool { return a.Kind == ApplicationAccount }

// Reserve moves amount from FreeBalance to ReserveBalance. Returns false
// (and makes no change) if FreeBalance is insufficient.
func (a *Account) Reserve(amount *uint256.Int) bool {
	if a.FreeBalance.Cmp(amount) < 0 {
		return false
	}
	a.FreeBalance = new(uint256.Int).Sub(a.FreeBalance, amount)
	a.ReserveBalance = new(uint256.Int).Add(a.ReserveBalance, amount)
	return true
}

// Unreserve moves amount back from ReserveBalance to FreeBalance. Returns
// false (and makes no change) if ReserveBalance is insufficient. This
// supplements the original's reserve/unreserve pair, which the distilled
// spec only describes one half of.
func (a *Account) Unreserve(amount *uint256.Int) bool {
	if a.ReserveBalance.Cmp(amount) < 0 {
		return false
	}
	a.ReserveBalance = new(uint256.Int).Sub(a.ReserveBalance, amount)
	a.FreeBalance = new(uint256.Int).Add(a.FreeBalance, amount)
	return true
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	cp := *a
	cp.FreeBalance = new(uint256.Int).Set(a.FreeBalance)
	cp.ReserveBalance = new(uint256.Int).Set(a.ReserveBalance)
	return &cp
}
