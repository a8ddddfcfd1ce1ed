package address

import (
	"testing"

	"github.com/odana/odana-core/primitives"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw := primitives.BytesToAddress([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20})

	for _, net := range []Network{Mainnet, Alphanet, Testnet} {
		s, err := Encode(raw, net)
		require.NoError(t, err)

		got, gotNet, err := Decode(s)
		require.NoError(t, err)
		require.Equal(t, raw, got)
		require.Equal(t, net, gotNet)
	}
}

func TestDecodeRejectsTruncatedString(t *testing.T) {
	s, err := Encode(primitives.Address{}, Mainnet)
	require.NoError(t, err)
	_, _, err = Decode(s[:len(s)-1])
	require.Error(t, err)
}

func TestZeroAddressIsApplicationSentinel(t *testing.T) {
	require.True(t, primitives.Address{}.IsZero())
}
