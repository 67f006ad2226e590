package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/signadot/rbxbin/chunk"
	"github.com/signadot/rbxbin/debug"
	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/value"
)

// Result is a decoded file.
type Result struct {
	Header      *chunk.FileHeader
	Tree        *dom.Tree
	Diagnostics *Diagnostics
}

// Decode reads a whole file from r, stopping after the END chunk. On error
// no tree is returned.
func Decode(r io.Reader, opts ...DecodeOption) (*Result, error) {
	st := newDecodeState(opts)
	hdr, err := chunk.ReadHeader(r)
	if err != nil {
		return nil, err
	}
	s := newSession(st, hdr)
	cr := chunk.NewReader(r, st.readerOpts...)
	for {
		c, err := cr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		s.index = cr.Index() - 1
		s.name = c.Name
		if err := s.interpret(c); err != nil {
			return nil, fmt.Errorf("chunk %d (%s): %w", s.index, c.Name, err)
		}
	}
	if err := s.resolve(); err != nil {
		return nil, err
	}
	if n := s.tree.Len(); n != int(hdr.NumInstances) || len(s.types) != int(hdr.NumTypes) {
		st.logger.Debug("header counts differ from file contents",
			"types", hdr.NumTypes, "declaredTypes", len(s.types),
			"instances", hdr.NumInstances, "declaredInstances", n)
	}
	if debug.Tree() {
		s.tree.Walk(func(inst *dom.Instance, depth int) bool {
			props := make(map[string]any, len(inst.Props))
			for n, v := range inst.Props {
				props[n] = value.ToJSON(v)
			}
			debug.Logf("%*s%s %q (referent %d) %s\n", depth*2, "", inst.Class, inst.Name(), inst.Referent, props)
			return true
		})
	}
	return &Result{Header: hdr, Tree: s.tree, Diagnostics: s.diags}, nil
}

// DecodeBytes decodes a file held in memory.
func DecodeBytes(b []byte, opts ...DecodeOption) (*Result, error) {
	return Decode(bytes.NewReader(b), opts...)
}

func (s *session) interpret(c *chunk.Chunk) error {
	cur := value.NewCursor(c.Data)
	switch c.Name {
	case chunk.Meta:
		return s.meta(cur)
	case chunk.Inst:
		return s.inst(cur)
	case chunk.Prop:
		return s.prop(cur)
	case chunk.Prnt:
		return s.prnt(cur)
	case chunk.End:
		return nil
	default:
		s.diag(UnknownChunk, -1, "", "", "unknown chunk %q kept verbatim (%d bytes)", c.Name.String(), len(c.Data))
		s.tree.Extra = append(s.tree.Extra, dom.Chunk{
			Name:        c.Name,
			Data:        c.Data,
			Compression: c.Compression,
			Body:        c.Body,
		})
		return nil
	}
}
