package chunk

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

type WriterOption func(*Writer)

// WithCompression sets the compressor for chunks that do not name one.
func WithCompression(c Compressor) WriterOption {
	return func(w *Writer) { w.def = c }
}

// Uncompressed stores every chunk body raw.
func Uncompressed() WriterOption {
	return WithCompression(None())
}

// WithWriterCompressors sets the compressors available to chunks that name
// their compression.
func WithWriterCompressors(cs ...Compressor) WriterOption {
	return func(w *Writer) { w.compressors = cs }
}

type Writer struct {
	w           io.Writer
	def         Compressor
	compressors []Compressor
	n           int64
}

func NewWriter(w io.Writer, opts ...WriterOption) *Writer {
	cw := &Writer{
		w:           w,
		def:         LZ4{},
		compressors: DefaultCompressors(),
	}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

// Written is the number of bytes written so far.
func (w *Writer) Written() int64 {
	return w.n
}

func (w *Writer) WriteHeader(h *FileHeader) error {
	n, err := h.WriteTo(w.w)
	w.n += n
	return err
}

// WriteChunk writes c. A chunk with a stored body is written verbatim.
// Otherwise Data is compressed with the compressor the chunk names, or the
// writer's default; incompressible or empty payloads are stored raw.
func (w *Writer) WriteChunk(c *Chunk) error {
	if c.Body != nil {
		compressedLen := uint32(len(c.Body))
		if c.Compression == NoneName || c.Compression == "" {
			compressedLen = 0
		}
		return w.write(c.Name, compressedLen, uint32(len(c.Data)), c.Body)
	}
	comp := w.def
	if c.Compression != "" {
		comp = findCompressor(w.compressors, c.Compression)
		if comp == nil {
			return fmt.Errorf("%w: %q for chunk %s", ErrNoCompressor, c.Compression, c.Name)
		}
	}
	if comp.Name() == NoneName || len(c.Data) == 0 {
		return w.write(c.Name, 0, uint32(len(c.Data)), c.Data)
	}
	body, err := comp.Compress(c.Data)
	if errors.Is(err, ErrIncompressible) {
		return w.write(c.Name, 0, uint32(len(c.Data)), c.Data)
	}
	if err != nil {
		return fmt.Errorf("compressing %s: %w", c.Name, err)
	}
	return w.write(c.Name, uint32(len(body)), uint32(len(c.Data)), body)
}

// WriteEnd writes the terminating chunk.
func (w *Writer) WriteEnd() error {
	return w.WriteChunk(&Chunk{Name: End, Data: []byte(EndPayload), Compression: NoneName})
}

func (w *Writer) write(name Name, compressedLen, length uint32, body []byte) error {
	hdr := make([]byte, 0, ChunkHeaderSize+len(body))
	hdr = append(hdr, name[:]...)
	hdr = binary.LittleEndian.AppendUint32(hdr, compressedLen)
	hdr = binary.LittleEndian.AppendUint32(hdr, length)
	hdr = binary.LittleEndian.AppendUint32(hdr, 0)
	hdr = append(hdr, body...)
	n, err := w.w.Write(hdr)
	w.n += int64(n)
	return err
}
