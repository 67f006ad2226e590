package chunk

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	Magic     = "<roblox!"
	Signature = "\x89\xff\r\n\x1a\n"
	Version   = 0

	HeaderSize      = 32
	ChunkHeaderSize = 16
)

// FileHeader is the fixed header at the start of every file. The counts are
// advisory.
type FileHeader struct {
	Version      uint16
	NumTypes     uint32
	NumInstances uint32
	Reserved     [8]byte
}

func ReadHeader(r io.Reader) (*FileHeader, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: file header", ErrTruncated)
		}
		return nil, err
	}
	return ParseHeader(buf[:])
}

func ParseHeader(b []byte) (*FileHeader, error) {
	if len(b) < HeaderSize {
		return nil, fmt.Errorf("%w: file header is %d bytes", ErrTruncated, len(b))
	}
	if !bytes.Equal(b[:8], []byte(Magic)) {
		return nil, fmt.Errorf("%w: %q", ErrBadMagic, b[:8])
	}
	if !bytes.Equal(b[8:14], []byte(Signature)) {
		return nil, fmt.Errorf("%w: signature % x", ErrBadMagic, b[8:14])
	}
	h := &FileHeader{
		Version:      binary.LittleEndian.Uint16(b[14:16]),
		NumTypes:     binary.LittleEndian.Uint32(b[16:20]),
		NumInstances: binary.LittleEndian.Uint32(b[20:24]),
	}
	copy(h.Reserved[:], b[24:32])
	if h.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, h.Version)
	}
	return h, nil
}

func (h *FileHeader) AppendTo(dst []byte) []byte {
	dst = append(dst, Magic...)
	dst = append(dst, Signature...)
	dst = binary.LittleEndian.AppendUint16(dst, h.Version)
	dst = binary.LittleEndian.AppendUint32(dst, h.NumTypes)
	dst = binary.LittleEndian.AppendUint32(dst, h.NumInstances)
	return append(dst, h.Reserved[:]...)
}

func (h *FileHeader) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(h.AppendTo(make([]byte, 0, HeaderSize)))
	return int64(n), err
}
