package chunk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/signadot/rbxbin/debug"
)

const DefaultMaxChunkSize = 1 << 30

type ReaderOption func(*Reader)

// WithCompressors replaces the compressors used to decode bodies. They are
// tried in order; the first whose Detect accepts a body decodes it.
func WithCompressors(cs ...Compressor) ReaderOption {
	return func(r *Reader) { r.compressors = cs }
}

// WithMaxChunkSize bounds the declared sizes a reader will allocate for.
func WithMaxChunkSize(n int) ReaderOption {
	return func(r *Reader) { r.maxSize = n }
}

// Reader produces the chunks following a file header.
type Reader struct {
	r           io.Reader
	compressors []Compressor
	maxSize     int
	offset      int64
	index       int
	done        bool
}

// NewReader returns a reader positioned after the file header.
func NewReader(r io.Reader, opts ...ReaderOption) *Reader {
	cr := &Reader{
		r:           r,
		compressors: DefaultCompressors(),
		maxSize:     DefaultMaxChunkSize,
		offset:      HeaderSize,
	}
	for _, opt := range opts {
		opt(cr)
	}
	return cr
}

// Index is the number of chunks returned so far.
func (r *Reader) Index() int {
	return r.index
}

// Next returns the next chunk. The END chunk is returned like any other;
// after it Next returns io.EOF without touching the underlying reader.
func (r *Reader) Next() (*Chunk, error) {
	if r.done {
		return nil, io.EOF
	}
	c, err := r.next()
	if err != nil {
		r.done = true
		ce := &Error{Index: r.index, Offset: r.offset, Err: err}
		if c != nil {
			ce.Name = c.Name
		}
		return nil, ce
	}
	if debug.Chunks() {
		debug.Logf("chunk %d %s: %d bytes (%s) %s\n", r.index, c.Name, len(c.Data), c.Compression, c.Data)
	}
	r.index++
	if c.Name == End {
		r.done = true
	}
	return c, nil
}

func (r *Reader) next() (*Chunk, error) {
	var hdr [ChunkHeaderSize]byte
	if _, err := io.ReadFull(r.r, hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing END chunk", ErrTruncated)
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: chunk header", ErrTruncated)
		}
		return nil, err
	}
	c := &Chunk{}
	copy(c.Name[:], hdr[:4])
	compressedLen := binary.LittleEndian.Uint32(hdr[4:8])
	length := binary.LittleEndian.Uint32(hdr[8:12])
	if reserved := binary.LittleEndian.Uint32(hdr[12:16]); reserved != 0 {
		return c, fmt.Errorf("%w: %#x", ErrReserved, reserved)
	}
	stored := length
	if compressedLen != 0 {
		stored = compressedLen
	}
	if int64(stored) > int64(r.maxSize) || int64(length) > int64(r.maxSize) {
		return c, fmt.Errorf("%w: %d bytes", ErrTooLarge, max(stored, length))
	}
	body := make([]byte, stored)
	if _, err := io.ReadFull(r.r, body); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return c, fmt.Errorf("%w: body of %d bytes", ErrTruncated, stored)
		}
		return c, err
	}
	c.Body = body
	if compressedLen == 0 {
		c.Compression = NoneName
		c.Data = body
	} else {
		comp := r.detect(body)
		if comp == nil {
			return c, fmt.Errorf("%w: no compressor recognizes body", ErrDecompress)
		}
		data, err := comp.Decompress(body, int(length))
		if err != nil {
			return c, err
		}
		c.Compression = comp.Name()
		c.Data = data
	}
	r.offset += ChunkHeaderSize + int64(stored)
	return c, nil
}

func (r *Reader) detect(body []byte) Compressor {
	for _, c := range r.compressors {
		if c.Detect(body) {
			return c
		}
	}
	return nil
}
