package mirror

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/signadot/rbxbin/chunk"
	"github.com/signadot/rbxbin/codec"
	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/value"
)

// Decode reads a whole file into a Model. Framing errors and malformed
// META, INST, PROP or PRNT headers fail the decode; property values that
// cannot be decoded are kept as bytes and noted in the chunk's Error.
func Decode(r io.Reader, opts ...chunk.ReaderOption) (*Model, error) {
	hdr, err := chunk.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	m := &Model{
		Version:      hdr.Version,
		NumTypes:     hdr.NumTypes,
		NumInstances: hdr.NumInstances,
	}
	if hdr.Reserved != ([8]byte{}) {
		m.Reserved = bytes.Clone(hdr.Reserved[:])
	}
	// instance counts by type id; a repeated id replaces the count
	counts := map[uint32]int{}
	cr := chunk.NewReader(r, opts...)
	for {
		c, err := cr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		mc, err := decodeChunk(c, counts)
		if err != nil {
			return nil, fmt.Errorf("chunk %d (%s): %w", cr.Index()-1, c.Name, err)
		}
		m.Chunks = append(m.Chunks, mc)
	}
	return m, nil
}

func DecodeBytes(b []byte, opts ...chunk.ReaderOption) (*Model, error) {
	return Decode(bytes.NewReader(b), opts...)
}

func decodeChunk(c *chunk.Chunk, counts map[uint32]int) (*Chunk, error) {
	mc := &Chunk{
		Name:        c.Name,
		Compression: c.Compression,
		data:        c.Data,
		body:        c.Body,
	}
	cur := value.NewCursor(c.Data)
	switch c.Name {
	case chunk.Meta:
		entries, err := codec.ParseMeta(cur)
		if err != nil {
			return nil, err
		}
		mc.Meta = &Meta{Entries: make([]Entry, len(entries))}
		for i, e := range entries {
			mc.Meta.Entries[i] = Entry{Key: e.Key, Value: e.Value}
		}
	case chunk.Inst:
		d, err := codec.ParseInst(cur)
		if err != nil {
			return nil, err
		}
		mc.Inst = d
		counts[d.TypeID] = len(d.Referents)
	case chunk.Prop:
		h, err := codec.ParsePropHeader(cur)
		if err != nil {
			return nil, err
		}
		mc.Prop = &Prop{PropHeader: *h}
		n, ok := counts[h.TypeID]
		switch {
		case !ok:
			mc.Error = fmt.Sprintf("type id %d was never declared", h.TypeID)
		case !h.Type.Supported():
			mc.Error = fmt.Sprintf("unsupported value type %s", h.Type)
		default:
			vs, err := value.DecodeFrom(cur, h.Type, n)
			if err != nil {
				mc.Error = err.Error()
				break
			}
			mc.Prop.Values = vs
		}
	case chunk.Prnt:
		p, err := codec.ParsePrnt(cur)
		if err != nil {
			return nil, err
		}
		mc.Prnt = p
	}
	if cur.Len() != 0 {
		mc.Remaining = bytes.Clone(cur.Rest())
	}
	return mc, nil
}

func codecMeta(dst []byte, m *Meta) []byte {
	entries := make([]dom.MetaEntry, len(m.Entries))
	for i, e := range m.Entries {
		entries[i] = dom.MetaEntry{Key: e.Key, Value: e.Value}
	}
	return codec.AppendMeta(dst, entries)
}
