package codec

import (
	"fmt"

	"github.com/signadot/rbxbin/chunk"
	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/value"
)

// typeEntry is one INST declaration.
type typeEntry struct {
	id        uint32
	class     string
	format    uint8
	referents []int32
	insts     []dom.ID
}

type link struct {
	chunk           int
	subject, parent int32
}

type pendingRef struct {
	chunk    int
	id       dom.ID
	prop     string
	referent int32
}

// session is the bookkeeping of one decode. It is owned by a single Decode
// call and never shared.
type session struct {
	st    *DecodeState
	tree  *dom.Tree
	diags *Diagnostics

	index int
	name  chunk.Name

	types map[uint32]*typeEntry
	byRef map[int32]dom.ID
	links []link
	refs  []pendingRef
}

func newSession(st *DecodeState, hdr *chunk.FileHeader) *session {
	return &session{
		st:    st,
		tree:  dom.New(),
		diags: &Diagnostics{},
		types: make(map[uint32]*typeEntry, hdr.NumTypes),
		byRef: make(map[int32]dom.ID, hdr.NumInstances),
	}
}

func (s *session) diag(kind DiagKind, typeID int64, class, prop, format string, args ...any) {
	s.diags.add(s.st.logger, Diagnostic{
		Kind:     kind,
		Chunk:    s.index,
		TypeID:   typeID,
		Class:    class,
		Property: prop,
		Message:  fmt.Sprintf(format, args...),
	})
}

// declare creates the instance for referent r.
func (s *session) declare(r int32, class string, service bool) (dom.ID, error) {
	if r == -1 {
		return dom.None, &ReferentError{Chunk: s.index, Referent: r, Reason: "is reserved for none"}
	}
	if _, ok := s.byRef[r]; ok {
		return dom.None, &ReferentError{Chunk: s.index, Referent: r, Reason: "declared twice"}
	}
	id, err := s.tree.Add(class, dom.None)
	if err != nil {
		return dom.None, err
	}
	inst := s.tree.Get(id)
	inst.Referent = r
	inst.Service = service
	s.byRef[r] = id
	return id, nil
}

// resolve builds the tree from the collected parent links and translates
// reference properties from referents to instance ids.
func (s *session) resolve() error {
	for _, l := range s.links {
		id, ok := s.byRef[l.subject]
		if !ok {
			return &ReferentError{Chunk: l.chunk, Referent: l.subject, Reason: "has a parent link but was never declared"}
		}
		parent := dom.None
		if l.parent != -1 {
			p, ok := s.byRef[l.parent]
			if !ok {
				return &ReferentError{Chunk: l.chunk, Referent: l.parent, Reason: "is a parent but was never declared"}
			}
			parent = p
		}
		if err := s.tree.SetParent(id, parent); err != nil {
			return fmt.Errorf("%w: chunk %d: %w", ErrReferential, l.chunk, err)
		}
	}
	for _, r := range s.refs {
		inst := s.tree.Get(r.id)
		if r.referent == -1 {
			inst.Props[r.prop] = value.NoRef
			continue
		}
		target, ok := s.byRef[r.referent]
		if !ok {
			s.index = r.chunk
			s.diag(DanglingRef, -1, inst.Class, r.prop, "referent %d was never declared", r.referent)
			inst.Props[r.prop] = value.NoRef
			continue
		}
		inst.Props[r.prop] = value.Ref(target)
	}
	return nil
}
