package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/signadot/rbxbin/debug"
	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/schema"
	"github.com/signadot/rbxbin/value"
)

// PropHeader is the part of a PROP payload before the values. The number
// of values is the instance count of the type, known only from the INST
// chunks read before.
type PropHeader struct {
	TypeID uint32     `json:"typeID"`
	Name   string     `json:"name"`
	Type   value.Type `json:"type"`
}

func ParsePropHeader(c *value.Cursor) (*PropHeader, error) {
	h := &PropHeader{}
	var err error
	if h.TypeID, err = c.Uint32(); err != nil {
		return nil, fmt.Errorf("%w: PROP type id: %w", ErrMalformed, err)
	}
	if h.Name, err = c.String(); err != nil {
		return nil, fmt.Errorf("%w: PROP name: %w", ErrMalformed, err)
	}
	t, err := c.Uint8()
	if err != nil {
		return nil, fmt.Errorf("%w: PROP %s value type: %w", ErrMalformed, h.Name, err)
	}
	h.Type = value.Type(t)
	return h, nil
}

func (h *PropHeader) AppendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, h.TypeID)
	dst = value.AppendString(dst, h.Name)
	return append(dst, byte(h.Type))
}

func (s *session) prop(c *value.Cursor) error {
	h, err := ParsePropHeader(c)
	if err != nil {
		return err
	}
	tid := int64(h.TypeID)
	e := s.types[h.TypeID]
	if e == nil {
		s.diag(UnknownTypeID, tid, "", h.Name, "type id was never declared, dropping %d bytes of %s values", c.Len(), h.Type)
		return nil
	}
	n := len(e.insts)
	if !h.Type.Supported() {
		s.diag(UnknownType, tid, e.class, h.Name, "unsupported value type %s, keeping %d bytes opaque", h.Type, c.Len())
		s.tree.Opaque = append(s.tree.Opaque, dom.Opaque{
			Class: e.class,
			Prop:  h.Name,
			Type:  h.Type,
			Count: n,
			IDs:   slices.Clone(e.insts),
			Data:  bytes.Clone(c.Rest()),
		})
		return nil
	}
	vs, err := value.DecodeFrom(c, h.Type, n)
	if err != nil {
		return &CountError{Chunk: s.index, TypeID: h.TypeID, Class: e.class, Property: h.Name, Want: n, Err: err}
	}
	if c.Len() != 0 {
		s.diag(TrailingBytes, tid, e.class, h.Name, "%d bytes after %d %s values", c.Len(), n, h.Type)
	}
	name, want := s.canonical(e, h)

	var (
		failed   int
		firstErr error
	)
	for i, v := range vs {
		id := e.insts[i]
		if r, ok := v.(value.Ref); ok {
			s.refs = append(s.refs, pendingRef{chunk: s.index, id: id, prop: name, referent: int32(r)})
			continue
		}
		if want != value.UnknownType && want != h.Type {
			cv, err := value.Convert(v, want)
			if err != nil {
				failed++
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			v = cv
		}
		s.tree.Get(id).Props[name] = v
	}
	if failed != 0 {
		s.diag(ConversionFailed, tid, e.class, name, "skipped %d of %d values: %v", failed, n, firstErr)
	}
	return nil
}

// canonical maps a stored property to the name and type the schema
// expects. Without a schema, or for classes it does not describe, the
// stored name is kept.
func (s *session) canonical(e *typeEntry, h *PropHeader) (string, value.Type) {
	db := s.st.schema
	if !db.HasClass(e.class) {
		return h.Name, value.UnknownType
	}
	tid := int64(h.TypeID)
	d := db.LookupStored(e.class, h.Name)
	if d == nil {
		s.diag(SchemaMismatch, tid, e.class, h.Name, "property is not in schema %s", db.Name)
		return h.Name, value.UnknownType
	}
	p := d.Canonical
	if debug.Schema() {
		debug.Logf("%s.%s stored as %s: canonical %s.%s %s\n", e.class, h.Name, h.Type, d.Class, p.Name, p.Type)
	}
	switch {
	case p.Serialization == schema.DoesNotSerialize:
		s.diag(SchemaMismatch, tid, e.class, h.Name, "property is not expected to serialize")
	case d.Input != p:
		s.diag(SchemaMismatch, tid, e.class, h.Name, "stored under alias of %s", p.Name)
	case p.StoredName() != h.Name:
		s.diag(SchemaMismatch, tid, e.class, h.Name, "expected to serialize as %s", p.StoredName())
	}
	return p.Name, p.Type
}
