package blockproc

import "github.com/odana/odana-core/primitives"

// Config parameterizes a Processor. NamespaceRegistryAddr pins the
// well-known address of the genesis-installed namespace registry
// application that gates Create transactions.
type Config struct {
	FeePolicy             FeePolicy
	ChainID               uint32
	NamespaceRegistryAddr primitives.Address
}

// DefaultConfig resolves the fee-destination open question as FeeToMiner.
func DefaultConfig() Config {
	return Config{
		FeePolicy: FeeToMiner,
		ChainID:   1,
	}
}
