package mirror

import (
	"bytes"
	"io"

	"github.com/signadot/rbxbin/chunk"
)

// Encode writes m as a file. Chunks read from a file whose payload did not
// change are written with their original stored bytes; others are
// compressed with the compressor they name.
func Encode(w io.Writer, m *Model, opts ...chunk.WriterOption) error {
	hdr := &chunk.FileHeader{
		Version:      m.Version,
		NumTypes:     m.NumTypes,
		NumInstances: m.NumInstances,
	}
	copy(hdr.Reserved[:], m.Reserved)
	cw := chunk.NewWriter(w, opts...)
	if err := cw.WriteHeader(hdr); err != nil {
		return err
	}
	for _, c := range m.Chunks {
		sc, err := c.stored()
		if err != nil {
			return err
		}
		if err := cw.WriteChunk(sc); err != nil {
			return err
		}
	}
	return nil
}

func EncodeBytes(m *Model, opts ...chunk.WriterOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, m, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
