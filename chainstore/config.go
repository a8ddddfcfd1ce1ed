package chainstore

// Config parameterizes a Chain.
type Config struct {
	// CompressBodies enables zstd compression of persisted transaction
	// lists and receipts, following the teacher pack's use of
	// klauspost/compress over block/ancient-store payloads.
	CompressBodies bool
}

// DefaultConfig enables body compression, matching go-ethereum's freezer
// default for ancient data.
func DefaultConfig() Config {
	return Config{CompressBodies: true}
}
