package chunk

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressor transforms chunk bodies. Detect reports whether a compressed
// body was produced by this compressor.
type Compressor interface {
	Name() string
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte, size int) ([]byte, error)
	Detect(body []byte) bool
}

const (
	NoneName = "none"
	LZ4Name  = "lz4"
	ZstdName = "zstd"
)

// DefaultCompressors is the detection order used by readers: zstd frames
// carry a magic number, anything else is taken to be an LZ4 block.
func DefaultCompressors() []Compressor {
	return []Compressor{Zstd{}, LZ4{}}
}

type none struct{}

// None stores bodies uncompressed.
func None() Compressor { return none{} }

func (none) Name() string { return NoneName }

func (none) Compress(src []byte) ([]byte, error) {
	return src, nil
}

func (none) Decompress(src []byte, size int) ([]byte, error) {
	if len(src) != size {
		return nil, fmt.Errorf("%w: declared %d, got %d", ErrLengthMismatch, size, len(src))
	}
	return src, nil
}

func (none) Detect([]byte) bool { return false }

// LZ4 compresses bodies as raw LZ4 blocks. A zero Level selects the fast
// compressor, anything else the high compression one.
type LZ4 struct {
	Level lz4.CompressionLevel
}

func (LZ4) Name() string { return LZ4Name }

func (c LZ4) Compress(src []byte) ([]byte, error) {
	dst := make([]byte, lz4.CompressBlockBound(len(src)))
	var (
		n   int
		err error
	)
	if c.Level == lz4.Fast {
		n, err = lz4.CompressBlock(src, dst, nil)
	} else {
		n, err = lz4.CompressBlockHC(src, dst, c.Level, nil, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("lz4: %w", err)
	}
	if n == 0 {
		return nil, ErrIncompressible
	}
	return dst[:n], nil
}

// maxLZ4Ratio bounds the output of an LZ4 block relative to its input; it is
// used to measure a block whose declared size is too small.
const (
	maxLZ4Ratio = 255
	maxRetry    = 64 << 20
)

func (LZ4) Decompress(src []byte, size int) ([]byte, error) {
	dst := make([]byte, size)
	n, err := lz4.UncompressBlock(src, dst)
	if err == nil {
		if n != size {
			return nil, fmt.Errorf("%w: declared %d, got %d", ErrLengthMismatch, size, n)
		}
		return dst, nil
	}
	// The block may simply be longer than declared.
	if retrySize := len(src)*maxLZ4Ratio + 16; retrySize <= maxRetry {
		scratch := make([]byte, retrySize)
		if n, perr := lz4.UncompressBlock(src, scratch); perr == nil {
			return nil, fmt.Errorf("%w: declared %d, got %d", ErrLengthMismatch, size, n)
		}
	}
	return nil, fmt.Errorf("%w: lz4: %w", ErrDecompress, err)
}

func (LZ4) Detect([]byte) bool { return true }

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Zstd compresses bodies as single zstd frames.
type Zstd struct {
	Level zstd.EncoderLevel
}

func (Zstd) Name() string { return ZstdName }

func (c Zstd) Compress(src []byte) ([]byte, error) {
	level := c.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(level), zstd.WithEncoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer enc.Close()
	return enc.EncodeAll(src, nil), nil
}

func (Zstd) Decompress(src []byte, size int) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("zstd: %w", err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(src, make([]byte, 0, size))
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrDecompress, err)
	}
	if len(out) != size {
		return nil, fmt.Errorf("%w: declared %d, got %d", ErrLengthMismatch, size, len(out))
	}
	return out, nil
}

func (Zstd) Detect(body []byte) bool {
	return bytes.HasPrefix(body, zstdMagic)
}

func findCompressor(cs []Compressor, name string) Compressor {
	if name == NoneName {
		return None()
	}
	for _, c := range cs {
		if c.Name() == name {
			return c
		}
	}
	return nil
}
