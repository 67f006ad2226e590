package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/plane"
	"github.com/signadot/rbxbin/value"
)

const (
	ObjectFormatRegular uint8 = 0
	ObjectFormatService uint8 = 1
)

// InstDecl is the payload of an INST chunk. Services carry one marker byte
// per referent after the referent array.
type InstDecl struct {
	TypeID       uint32  `json:"typeID"`
	Class        string  `json:"class"`
	ObjectFormat uint8   `json:"objectFormat"`
	Referents    []int32 `json:"referents"`
	Markers      []uint8 `json:"markers,omitempty"`
}

func ParseInst(c *value.Cursor) (*InstDecl, error) {
	d := &InstDecl{}
	var err error
	if d.TypeID, err = c.Uint32(); err != nil {
		return nil, fmt.Errorf("%w: INST type id: %w", ErrMalformed, err)
	}
	if d.Class, err = c.String(); err != nil {
		return nil, fmt.Errorf("%w: INST class: %w", ErrMalformed, err)
	}
	if d.ObjectFormat, err = c.Uint8(); err != nil {
		return nil, fmt.Errorf("%w: INST object format: %w", ErrMalformed, err)
	}
	n, err := c.Uint32()
	if err != nil {
		return nil, fmt.Errorf("%w: INST count: %w", ErrMalformed, err)
	}
	if d.Referents, err = c.Referents(int(n)); err != nil {
		return nil, fmt.Errorf("%w: INST %s referents: %w", ErrMalformed, d.Class, err)
	}
	if d.ObjectFormat == ObjectFormatService {
		m, err := c.Take(int(n))
		if err != nil {
			return nil, fmt.Errorf("%w: INST %s service markers: %w", ErrMalformed, d.Class, err)
		}
		d.Markers = append([]uint8{}, m...)
	}
	return d, nil
}

func (d *InstDecl) AppendTo(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, d.TypeID)
	dst = value.AppendString(dst, d.Class)
	dst = append(dst, d.ObjectFormat)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(d.Referents)))
	dst = plane.AppendReferents(dst, d.Referents)
	if d.ObjectFormat == ObjectFormatService {
		for i := range d.Referents {
			m := uint8(1)
			if i < len(d.Markers) {
				m = d.Markers[i]
			}
			dst = append(dst, m)
		}
	}
	return dst
}

func (s *session) inst(c *value.Cursor) error {
	d, err := ParseInst(c)
	if err != nil {
		return err
	}
	if c.Len() != 0 {
		s.diag(TrailingBytes, int64(d.TypeID), d.Class, "", "%d bytes after INST referents", c.Len())
	}
	e := &typeEntry{
		id:        d.TypeID,
		class:     d.Class,
		format:    d.ObjectFormat,
		referents: d.Referents,
		insts:     make([]dom.ID, 0, len(d.Referents)),
	}
	for _, r := range d.Referents {
		id, err := s.declare(r, d.Class, d.ObjectFormat == ObjectFormatService)
		if err != nil {
			return err
		}
		e.insts = append(e.insts, id)
	}
	prev, dup := s.types[d.TypeID]
	if !dup {
		s.types[d.TypeID] = e
		return nil
	}
	s.diag(DuplicateTypeID, int64(d.TypeID), d.Class, "",
		"type id already declared for %s with %d instances (policy %s)", prev.class, len(prev.insts), s.st.dupes)
	switch s.st.dupes {
	case RejectDuplicates:
		return fmt.Errorf("%w: %d (%s, %s)", ErrDuplicateType, d.TypeID, prev.class, d.Class)
	case KeepFirst:
	default:
		s.types[d.TypeID] = e
	}
	return nil
}
