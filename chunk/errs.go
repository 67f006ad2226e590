package chunk

import (
	"errors"
	"fmt"
)

var (
	ErrFraming        = errors.New("framing error")
	ErrBadMagic       = fmt.Errorf("%w: bad magic", ErrFraming)
	ErrVersion        = fmt.Errorf("%w: unsupported version", ErrFraming)
	ErrTruncated      = fmt.Errorf("%w: truncated", ErrFraming)
	ErrReserved       = fmt.Errorf("%w: nonzero reserved field", ErrFraming)
	ErrLengthMismatch = fmt.Errorf("%w: declared length does not match decompressed length", ErrFraming)
	ErrDecompress     = fmt.Errorf("%w: decompression failed", ErrFraming)
	ErrTooLarge       = fmt.Errorf("%w: chunk too large", ErrFraming)

	ErrIncompressible = errors.New("incompressible")
	ErrBadName        = errors.New("bad chunk name")
	ErrNoCompressor   = errors.New("no such compressor")
)

// Error reports a framing failure at a chunk position.
type Error struct {
	Index  int
	Name   Name
	Offset int64
	Err    error
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Error() string {
	if e.Name == (Name{}) {
		return fmt.Sprintf("chunk %d at offset %d: %s", e.Index, e.Offset, e.Err)
	}
	return fmt.Sprintf("chunk %d (%s) at offset %d: %s", e.Index, e.Name, e.Offset, e.Err)
}
