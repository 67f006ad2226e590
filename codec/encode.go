package codec

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/signadot/rbxbin/chunk"
	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/schema"
	"github.com/signadot/rbxbin/value"
)

// encClass is one class of the tree with its instances in referent order.
type encClass struct {
	typeID uint32
	name   string
	insts  []*dom.Instance
	// ordered is set once insts follows an opaque array's order.
	ordered bool
}

type encoder struct {
	st      *EncodeState
	tree    *dom.Tree
	w       *chunk.Writer
	classes []*encClass
	refs    map[dom.ID]int32
	order   []*dom.Instance
}

// Encode writes t as a complete file. Type ids are assigned in sorted class
// order and referents in depth first order, parents before children.
func Encode(w io.Writer, t *dom.Tree, opts ...EncodeOption) error {
	st := newEncodeState(opts)
	e := &encoder{
		st:   st,
		tree: t,
		w:    chunk.NewWriter(w, st.writerOpts...),
		refs: make(map[dom.ID]int32, t.Len()),
	}
	e.plan()
	hdr := &chunk.FileHeader{
		NumTypes:     uint32(len(e.classes)),
		NumInstances: uint32(len(e.order)),
	}
	if err := e.w.WriteHeader(hdr); err != nil {
		return err
	}
	if len(t.Meta) != 0 {
		if err := e.w.WriteChunk(chunk.Raw(chunk.Meta, AppendMeta(nil, t.Meta))); err != nil {
			return err
		}
	}
	for _, x := range t.Extra {
		c := &chunk.Chunk{Name: chunk.Name(x.Name), Data: x.Data, Compression: x.Compression, Body: x.Body}
		if err := e.w.WriteChunk(c); err != nil {
			return err
		}
	}
	for _, c := range e.classes {
		if err := e.w.WriteChunk(chunk.Raw(chunk.Inst, e.inst(c))); err != nil {
			return err
		}
	}
	for _, c := range e.classes {
		if err := e.props(c); err != nil {
			return err
		}
	}
	if err := e.w.WriteChunk(chunk.Raw(chunk.Prnt, e.prnt())); err != nil {
		return err
	}
	return e.w.WriteEnd()
}

// EncodeBytes encodes t into memory.
func EncodeBytes(t *dom.Tree, opts ...EncodeOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, t, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *encoder) plan() {
	byName := map[string]*encClass{}
	for i, name := range e.tree.Classes() {
		c := &encClass{typeID: uint32(i), name: name}
		byName[name] = c
		e.classes = append(e.classes, c)
	}
	e.tree.Walk(func(inst *dom.Instance, _ int) bool {
		e.refs[inst.ID] = int32(len(e.order))
		e.order = append(e.order, inst)
		c := byName[inst.Class]
		c.insts = append(c.insts, inst)
		return true
	})
	for _, o := range e.tree.Opaque {
		if c := byName[o.Class]; c != nil {
			c.follow(o.IDs)
		}
	}
}

// follow puts the instances of c in the order of ids when both hold the
// same instances, so that opaque arrays stored in that order stay aligned.
func (c *encClass) follow(ids []dom.ID) {
	if len(ids) != len(c.insts) || c.ordered {
		return
	}
	byID := make(map[dom.ID]*dom.Instance, len(c.insts))
	for _, inst := range c.insts {
		byID[inst.ID] = inst
	}
	res := make([]*dom.Instance, 0, len(ids))
	for _, id := range ids {
		inst := byID[id]
		if inst == nil {
			return
		}
		delete(byID, id)
		res = append(res, inst)
	}
	c.insts = res
	c.ordered = true
}

// aligned reports whether the instances of c are exactly ids, in order.
func (c *encClass) aligned(ids []dom.ID) bool {
	if len(ids) != len(c.insts) {
		return false
	}
	for i, inst := range c.insts {
		if inst.ID != ids[i] {
			return false
		}
	}
	return true
}

func (e *encoder) inst(c *encClass) []byte {
	d := &InstDecl{TypeID: c.typeID, Class: c.name, Referents: make([]int32, len(c.insts))}
	service := len(c.insts) != 0
	for i, inst := range c.insts {
		d.Referents[i] = e.refs[inst.ID]
		service = service && inst.Service
	}
	if service {
		d.ObjectFormat = ObjectFormatService
	}
	return d.AppendTo(nil)
}

// encProp is one property array ready to be written.
type encProp struct {
	name string
	typ  value.Type
	data []byte
}

func (e *encoder) props(c *encClass) error {
	names := map[string]bool{}
	for _, inst := range c.insts {
		for n := range inst.Props {
			names[n] = true
		}
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)
	var props []encProp
	stored := map[string]bool{}
	for _, n := range sorted {
		p, ok, err := e.prop(c, n)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if stored[p.name] {
			e.st.logger.Warn("property stored twice, keeping the first", "class", c.name, "prop", n, "stored", p.name)
			continue
		}
		stored[p.name] = true
		props = append(props, p)
	}
	for _, o := range e.tree.Opaque {
		if o.Class != c.name {
			continue
		}
		if o.Count != len(c.insts) || !c.aligned(o.IDs) || stored[o.Prop] {
			e.st.logger.Warn("dropping opaque property", "class", o.Class, "prop", o.Prop,
				"type", o.Type.String(), "count", o.Count, "instances", len(c.insts))
			continue
		}
		stored[o.Prop] = true
		props = append(props, encProp{name: o.Prop, typ: o.Type, data: o.Data})
	}
	sort.SliceStable(props, func(i, j int) bool { return props[i].name < props[j].name })
	for _, p := range props {
		h := &PropHeader{TypeID: c.typeID, Name: p.name, Type: p.typ}
		payload := append(h.AppendTo(nil), p.data...)
		if err := e.w.WriteChunk(chunk.Raw(chunk.Prop, payload)); err != nil {
			return err
		}
	}
	return nil
}

// prop encodes property name for every instance of c. It reports false for
// properties the schema says are not serialized.
func (e *encoder) prop(c *encClass, name string) (encProp, bool, error) {
	stored, typ := name, value.UnknownType
	var desc *schema.Descriptor
	if e.st.schema.HasClass(c.name) {
		desc = e.st.schema.Lookup(c.name, name)
	}
	if desc != nil {
		if desc.Canonical.Serialization == schema.DoesNotSerialize {
			return encProp{}, false, nil
		}
		stored = desc.Canonical.StoredName()
		typ = desc.Canonical.StoredType()
	}
	vs := make([]value.Value, len(c.insts))
	for i, inst := range c.insts {
		v := inst.Props[name]
		if v == nil {
			continue
		}
		vs[i] = v
		if typ == value.UnknownType {
			typ = v.Type()
		}
	}
	if !typ.Supported() {
		e.st.logger.Warn("skipping property without a writable type", "class", c.name, "prop", name, "type", typ.String())
		return encProp{}, false, nil
	}
	for i, v := range vs {
		if v == nil {
			vs[i] = e.fill(c.name, name, typ)
			continue
		}
		if v.Type() == typ {
			continue
		}
		if desc == nil {
			return encProp{}, false, fmt.Errorf("%w: %s.%s has %s and %s values",
				ErrPropertyType, c.name, name, typ, v.Type())
		}
		cv, err := value.Convert(v, typ)
		if err != nil {
			return encProp{}, false, fmt.Errorf("%s.%s: %w", c.name, name, err)
		}
		vs[i] = cv
	}
	if typ == value.RefType {
		for i, v := range vs {
			r, err := e.referent(c.insts[i], name, v.(value.Ref))
			if err != nil {
				return encProp{}, false, err
			}
			vs[i] = r
		}
	}
	data, err := value.Encode(nil, typ, vs)
	if err != nil {
		return encProp{}, false, fmt.Errorf("%s.%s: %w", c.name, name, err)
	}
	return encProp{name: stored, typ: typ, data: data}, true, nil
}

// fill is the value written for an instance lacking the property.
func (e *encoder) fill(class, name string, typ value.Type) value.Value {
	if d := e.st.schema.Default(class, name); d != nil {
		if d.Type() == typ {
			return d
		}
		if cv, err := value.Convert(d, typ); err == nil {
			return cv
		}
	}
	return value.Zero(typ)
}

func (e *encoder) referent(inst *dom.Instance, prop string, r value.Ref) (value.Ref, error) {
	if r == value.NoRef {
		return value.NoRef, nil
	}
	ref, ok := e.refs[dom.ID(r)]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s refers to missing instance %d", ErrReferential, inst.Class, prop, r)
	}
	return value.Ref(ref), nil
}

func (e *encoder) prnt() []byte {
	p := &ParentLinks{
		Subjects: make([]int32, len(e.order)),
		Parents:  make([]int32, len(e.order)),
	}
	for i, inst := range e.order {
		p.Subjects[i] = int32(i)
		p.Parents[i] = -1
		if inst.Parent != dom.None {
			p.Parents[i] = e.refs[inst.Parent]
		}
	}
	return p.AppendTo(nil)
}
