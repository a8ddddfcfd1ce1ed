package blockproc

import (
	"github.com/holiman/uint256"
	"github.com/odana/odana-core/primitives"
)

// FeePolicy selects where a transaction's fee goes. The source this was
// distilled from does not consistently declare burn-vs-miner, so it is
// modeled as an explicit processor configuration parameter rather than
// guessed at.
type FeePolicy uint8

const (
	// FeeToMiner credits the fee to the block's declared miner address.
	// Chosen as the default: a permissionless chain with no fee income for
	// block producers has no incentive to produce blocks.
	FeeToMiner FeePolicy = iota
	// FeeBurn destroys the fee: it is debited from the sender and credited
	// to no one.
	FeeBurn
)

// chargeFee unconditionally debits fee from sender (§4.5 step 3c runs
// before dispatch, regardless of what the transaction goes on to do) and,
// under FeeToMiner, credits it to miner. It does not touch sender's nonce.
func chargeFee(senderAcct, minerAcct *primitives.Account, fee *uint256.Int, policy FeePolicy) {
	if senderAcct.FreeBalance.Cmp(fee) < 0 {
		// The pool and SigningPayload/Cost checks should prevent this from
		// being reachable with a well-formed block; clamp rather than
		// underflow if it happens anyway.
		senderAcct.FreeBalance = uint256.NewInt(0)
	} else {
		senderAcct.FreeBalance = new(uint256.Int).Sub(senderAcct.FreeBalance, fee)
	}
	if policy == FeeToMiner && minerAcct != nil {
		minerAcct.FreeBalance = new(uint256.Int).Add(minerAcct.FreeBalance, fee)
	}
}
