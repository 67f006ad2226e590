package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/signadot/rbxbin/plane"
	"github.com/signadot/rbxbin/value"
)

const ParentLinksVersion uint8 = 0

// ParentLinks is the payload of a PRNT chunk: Subjects[i] is a child of
// Parents[i], with -1 for no parent.
type ParentLinks struct {
	Version  uint8   `json:"version"`
	Subjects []int32 `json:"subjects"`
	Parents  []int32 `json:"parents"`
}

func ParsePrnt(c *value.Cursor) (*ParentLinks, error) {
	v, err := c.Uint8()
	if err != nil {
		return nil, fmt.Errorf("%w: PRNT version: %w", ErrMalformed, err)
	}
	if v != ParentLinksVersion {
		return nil, fmt.Errorf("%w: PRNT version %d", ErrMalformed, v)
	}
	n, err := c.Uint32()
	if err != nil {
		return nil, fmt.Errorf("%w: PRNT count: %w", ErrMalformed, err)
	}
	p := &ParentLinks{Version: v}
	if p.Subjects, err = c.Referents(int(n)); err != nil {
		return nil, fmt.Errorf("%w: PRNT subjects: %w", ErrMalformed, err)
	}
	if p.Parents, err = c.Referents(int(n)); err != nil {
		return nil, fmt.Errorf("%w: PRNT parents: %w", ErrMalformed, err)
	}
	return p, nil
}

func (p *ParentLinks) AppendTo(dst []byte) []byte {
	dst = append(dst, p.Version)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(p.Subjects)))
	dst = plane.AppendReferents(dst, p.Subjects)
	return plane.AppendReferents(dst, p.Parents)
}

func (s *session) prnt(c *value.Cursor) error {
	p, err := ParsePrnt(c)
	if err != nil {
		return err
	}
	if c.Len() != 0 {
		s.diag(TrailingBytes, -1, "", "", "%d bytes after PRNT referents", c.Len())
	}
	for i, sub := range p.Subjects {
		s.links = append(s.links, link{chunk: s.index, subject: sub, parent: p.Parents[i]})
	}
	return nil
}
