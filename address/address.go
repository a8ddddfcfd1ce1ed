// Package address implements the bech32 text encoding for account
// addresses: a 20-byte raw identifier (primitives.Address) rendered with a
// network-specific human-readable prefix. Grounded on
// github.com/btcsuite/btcutil/bech32, pulled into the dependency graph via
// the pack's ethereum-go-ethereum/erigon lineage since the teacher repo
// itself has no bech32 use to adapt from.
package address

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/odana/odana-core/primitives"
)

// Network selects the human-readable prefix used when rendering an address.
type Network uint8

const (
	Mainnet Network = iota
	Alphanet
	Testnet
)

// HRP returns the bech32 human-readable prefix for the network.
func (n Network) HRP() string {
	switch n {
	case Mainnet:
		return "od"
	case Alphanet:
		return "odalpha"
	case Testnet:
		return "odtest"
	default:
		return "od"
	}
}

var (
	ErrWrongLength   = errors.New("address: decoded payload is not 20 bytes")
	ErrUnknownPrefix = errors.New("address: unrecognized network prefix")
)

// Encode renders addr as a bech32 string under the given network.
func Encode(addr primitives.Address, net Network) (string, error) {
	data, err := bech32.ConvertBits(addr.Bytes(), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("address: convert bits: %w", err)
	}
	return bech32.Encode(net.HRP(), data)
}

// MustEncode is Encode but panics on error; used for constants and tests.
func MustEncode(addr primitives.Address, net Network) string {
	s, err := Encode(addr, net)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode parses a bech32 address string, returning the raw address and the
// network it was encoded under.
func Decode(s string) (primitives.Address, Network, error) {
	hrp, data, err := bech32.Decode(s)
	if err != nil {
		return primitives.Address{}, 0, fmt.Errorf("address: bech32 decode: %w", err)
	}
	net, ok := networkFromHRP(hrp)
	if !ok {
		return primitives.Address{}, 0, ErrUnknownPrefix
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return primitives.Address{}, 0, fmt.Errorf("address: convert bits: %w", err)
	}
	if len(raw) != primitives.AddressLength {
		return primitives.Address{}, 0, ErrWrongLength
	}
	return primitives.BytesToAddress(raw), net, nil
}

func networkFromHRP(hrp string) (Network, bool) {
	switch hrp {
	case Mainnet.HRP():
		return Mainnet, true
	case Alphanet.HRP():
		return Alphanet, true
	case Testnet.HRP():
		return Testnet, true
	default:
		return 0, false
	}
}
