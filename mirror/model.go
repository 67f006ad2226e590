package mirror

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/signadot/rbxbin/chunk"
	"github.com/signadot/rbxbin/codec"
	"github.com/signadot/rbxbin/value"
)

// Model is a file as a sequence of chunks.
type Model struct {
	Version      uint16 `json:"version"`
	NumTypes     uint32 `json:"numTypes"`
	NumInstances uint32 `json:"numInstances"`
	// Reserved is set only when the header's reserved bytes are not zero.
	Reserved []byte   `json:"reserved,omitempty"`
	Chunks   []*Chunk `json:"chunks"`
}

// Chunk is one chunk. At most one of Meta, Inst, Prop and Prnt is set,
// according to Name. Remaining holds the payload bytes left after the
// decoded fields: trailing bytes, property values that could not be
// decoded, or the whole payload of END and unknown chunks.
type Chunk struct {
	Name        chunk.Name         `json:"name"`
	Compression string             `json:"compression"`
	Meta        *Meta              `json:"meta,omitempty"`
	Inst        *codec.InstDecl    `json:"inst,omitempty"`
	Prop        *Prop              `json:"prop,omitempty"`
	Prnt        *codec.ParentLinks `json:"prnt,omitempty"`
	Remaining   []byte             `json:"remaining,omitempty"`
	Error       string             `json:"error,omitempty"`

	// data and body are the payload and stored bytes read from a file.
	data, body []byte
}

type Meta struct {
	Entries []Entry `json:"entries"`
}

type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Prop is a PROP chunk. Values is nil when the values could not be decoded,
// in which case they are in the chunk's Remaining bytes.
type Prop struct {
	codec.PropHeader
	Values []value.Value
}

type propJSON struct {
	codec.PropHeader
	Values []any `json:"values,omitempty"`
}

type propJSONIn struct {
	codec.PropHeader
	Values []json.RawMessage `json:"values"`
}

func (p *Prop) MarshalJSON() ([]byte, error) {
	out := propJSON{PropHeader: p.PropHeader}
	if p.Values != nil {
		out.Values = make([]any, len(p.Values))
		for i, v := range p.Values {
			out.Values[i] = value.ToJSON(v)
		}
	}
	return json.Marshal(out)
}

func (p *Prop) UnmarshalJSON(d []byte) error {
	var in propJSONIn
	if err := json.Unmarshal(d, &in); err != nil {
		return err
	}
	p.PropHeader = in.PropHeader
	p.Values = nil
	if in.Values == nil {
		return nil
	}
	p.Values = make([]value.Value, len(in.Values))
	for i, raw := range in.Values {
		v, err := value.FromJSON(in.Type, raw)
		if err != nil {
			return fmt.Errorf("%s value %d: %w", in.Name, i, err)
		}
		p.Values[i] = v
	}
	return nil
}

// Payload serializes the chunk's fields followed by Remaining.
func (c *Chunk) Payload() ([]byte, error) {
	var dst []byte
	switch {
	case c.Meta != nil:
		dst = codecMeta(dst, c.Meta)
	case c.Inst != nil:
		dst = c.Inst.AppendTo(dst)
	case c.Prop != nil:
		dst = c.Prop.AppendTo(dst)
		if c.Prop.Values != nil {
			var err error
			dst, err = value.Encode(dst, c.Prop.Type, c.Prop.Values)
			if err != nil {
				return nil, fmt.Errorf("PROP %s: %w", c.Prop.Name, err)
			}
		}
	case c.Prnt != nil:
		dst = c.Prnt.AppendTo(dst)
	}
	return append(dst, c.Remaining...), nil
}

// stored returns the chunk to write. The bytes read from a file are reused
// when the payload is unchanged.
func (c *Chunk) stored() (*chunk.Chunk, error) {
	p, err := c.Payload()
	if err != nil {
		return nil, err
	}
	if c.body != nil && bytes.Equal(p, c.data) {
		return &chunk.Chunk{Name: c.Name, Data: p, Compression: c.Compression, Body: c.body}, nil
	}
	comp := c.Compression
	if c.Name == chunk.End {
		comp = chunk.NoneName
	}
	return &chunk.Chunk{Name: c.Name, Data: p, Compression: comp}, nil
}

// adopt carries over the stored bytes of chunks in old at the same
// position, name and compression.
func (m *Model) adopt(old *Model) {
	for i, c := range m.Chunks {
		if i >= len(old.Chunks) {
			return
		}
		o := old.Chunks[i]
		if o.Name == c.Name && o.Compression == c.Compression {
			c.data, c.body = o.data, o.body
		}
	}
}
