package mirror

import (
	"fmt"
	"sort"

	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/value"
)

type mirrorInst struct {
	class   string
	service bool
	parent  int32
	props   map[string]value.Value
	seen    bool
}

// CompareTree checks a tree decoded by package codec, without a schema,
// against m field by field. It returns one line per disagreement.
func CompareTree(m *Model, t *dom.Tree) []string {
	var res []string
	byRef := map[int32]*mirrorInst{}
	types := map[uint32][]int32{}
	for _, c := range m.Chunks {
		switch {
		case c.Inst != nil:
			types[c.Inst.TypeID] = c.Inst.Referents
			for _, r := range c.Inst.Referents {
				byRef[r] = &mirrorInst{
					class:   c.Inst.Class,
					service: c.Inst.ObjectFormat == 1,
					parent:  -1,
					props:   map[string]value.Value{},
				}
			}
		case c.Prop != nil && c.Prop.Values != nil:
			refs := types[c.Prop.TypeID]
			for i, v := range c.Prop.Values {
				if i >= len(refs) {
					break
				}
				if mi := byRef[refs[i]]; mi != nil {
					mi.props[c.Prop.Name] = v
				}
			}
		case c.Prnt != nil:
			for i, s := range c.Prnt.Subjects {
				if mi := byRef[s]; mi != nil {
					mi.parent = c.Prnt.Parents[i]
				}
			}
		}
	}

	referent := func(id dom.ID) int32 {
		if inst := t.Get(id); inst != nil {
			return inst.Referent
		}
		return -1
	}
	t.Walk(func(inst *dom.Instance, _ int) bool {
		r := inst.Referent
		mi := byRef[r]
		if mi == nil {
			res = append(res, fmt.Sprintf("referent %d (%s) is not in the mirror", r, inst.Class))
			return true
		}
		mi.seen = true
		if mi.class != inst.Class {
			res = append(res, fmt.Sprintf("referent %d: class %s, mirror has %s", r, inst.Class, mi.class))
		}
		if mi.service != inst.Service {
			res = append(res, fmt.Sprintf("referent %d: service %t, mirror has %t", r, inst.Service, mi.service))
		}
		if p := referent(inst.Parent); p != mi.parent {
			res = append(res, fmt.Sprintf("referent %d: parent %d, mirror has %d", r, p, mi.parent))
		}
		names := map[string]bool{}
		for n := range inst.Props {
			names[n] = true
		}
		for n := range mi.props {
			names[n] = true
		}
		for n := range names {
			tv, mv := inst.Props[n], mi.props[n]
			if ref, ok := tv.(value.Ref); ok && ref != value.NoRef {
				tv = value.Ref(referent(dom.ID(ref)))
			}
			switch {
			case tv == nil:
				res = append(res, fmt.Sprintf("referent %d: %s only in mirror", r, n))
			case mv == nil:
				res = append(res, fmt.Sprintf("referent %d: %s missing from mirror", r, n))
			case !value.Equal(tv, mv):
				res = append(res, fmt.Sprintf("referent %d: %s is %v, mirror has %v", r, n, value.ToJSON(tv), value.ToJSON(mv)))
			}
		}
		return true
	})
	for r, mi := range byRef {
		if !mi.seen {
			res = append(res, fmt.Sprintf("referent %d (%s) is not in the tree", r, mi.class))
		}
	}
	sort.Strings(res)
	return res
}
