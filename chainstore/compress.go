package chainstore

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maybeCompress zstd-compresses raw when cfg enables it, following the
// pack's use of klauspost/compress (pure Go, no cgo) for cold ancient-store
// payloads in front of a KV backend. A single encoder/decoder pair is
// reused package-wide; zstd's Go implementation is safe for concurrent use
// once constructed.
func maybeCompress(cfg Config, raw []byte) ([]byte, error) {
	if !cfg.CompressBodies {
		return raw, nil
	}
	enc, err := zstdEncoder()
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll(raw, make([]byte, 0, len(raw))), nil
}

// maybeDecompress reverses maybeCompress. It is safe to call unconditionally
// (CompressBodies may have been toggled between writes and reads within a
// single process); zstd frames are self-describing via their magic number,
// so a record written uncompressed is returned unchanged.
func maybeDecompress(cfg Config, raw []byte) ([]byte, error) {
	if len(raw) < 4 || raw[0] != 0x28 || raw[1] != 0xb5 || raw[2] != 0x2f || raw[3] != 0xfd {
		return raw, nil
	}
	dec, err := zstdDecoder()
	if err != nil {
		return nil, err
	}
	out, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("chainstore: zstd decode: %w", err)
	}
	return out, nil
}

var (
	encoderOnce sync.Once
	sharedEncoder *zstd.Encoder
	encoderErr    error

	decoderOnce sync.Once
	sharedDecoder *zstd.Decoder
	decoderErr    error
)

func zstdEncoder() (*zstd.Encoder, error) {
	encoderOnce.Do(func() {
		sharedEncoder, encoderErr = zstd.NewWriter(nil)
	})
	return sharedEncoder, encoderErr
}

func zstdDecoder() (*zstd.Decoder, error) {
	decoderOnce.Do(func() {
		sharedDecoder, decoderErr = zstd.NewReader(nil)
	})
	return sharedDecoder, decoderErr
}
