package primitives

// AddressLength is the width in bytes of the raw account identifier, before
// bech32 rendering (see the address package).
const AddressLength = 20

// Address is the 20-byte raw account identifier shared by user and
// application accounts. The bech32 text form with its network-specific
// human-readable prefix lives in the address package, which depends on this
// type rather than the other way around.
type Address [AddressLength]byte

// BytesToAddress left-pads b into an Address, truncating from the left if b
// is longer than AddressLength.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// FromHash derives a raw address from a hash by taking its low 20 bytes,
// the convention used to turn a public-key hash or a deployment-transaction
// hash into an account identifier.
func FromHash(h Hash) Address {
	var a Address
	copy(a[:], h[HashLength-AddressLength:])
	return a
}

// SetBytes sets the address from b, left-padding or truncating as needed.
func (a *Address) SetBytes(b []byte) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// Bytes returns the raw 20-byte payload.
func (a Address) Bytes() []byte { return a[:] }

// IsZero reports whether a is the all-zero address, the sentinel for "no
// application" used by plain value-transfer transactions.
func (a Address) IsZero() bool { return a == Address{} }

// Less reports whether a sorts before o in byte-lexicographic order.
func (a Address) Less(o Address) bool {
	for i := range a {
		if a[i] != o[i] {
			return a[i] < o[i]
		}
	}
	return false
}
