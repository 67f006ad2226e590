// Package dom is the flat instance arena decoded files are assembled into.
//
// Instances live in a slice and refer to each other by ID. Property values of
// type value.Ref hold IDs as well.
package dom

import (
	"fmt"
	"sort"

	"github.com/signadot/rbxbin/value"
)

type ID int

const None ID = -1

type Instance struct {
	ID       ID
	Class    string
	Parent   ID
	Children []ID
	Props    map[string]value.Value
	// Service marks root level singleton instances.
	Service bool
	// Referent is the file-local identity the instance was decoded from, or
	// -1 when it was built in memory.
	Referent int32
}

// Name is the instance's Name property when it is a string.
func (inst *Instance) Name() string {
	if s, ok := inst.Props["Name"].(value.String); ok {
		return string(s)
	}
	return ""
}

// PropNames returns the property names in sorted order.
func (inst *Instance) PropNames() []string {
	names := make([]string, 0, len(inst.Props))
	for n := range inst.Props {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type MetaEntry struct {
	Key, Value string
}

// Opaque is a property array that could not be decoded, kept as it was
// stored for the instances of Class in file order. IDs lists those
// instances in the same order; the values in Data belong to them.
type Opaque struct {
	Class string
	Prop  string
	Type  value.Type
	Count int
	IDs   []ID
	Data  []byte
}

// Tree is an arena of instances plus the file level data that does not
// belong to any instance.
type Tree struct {
	insts []*Instance
	// roots may hold stale or repeated entries until Roots compacts it.
	roots []ID
	dirty bool

	Meta   []MetaEntry
	Opaque []Opaque
	// Extra holds chunks of unknown kinds, stored verbatim.
	Extra []Chunk
}

// Chunk is a preserved chunk of a kind this package does not interpret.
type Chunk struct {
	Name        [4]byte
	Data        []byte
	Compression string
	Body        []byte
}

func New() *Tree {
	return &Tree{}
}

func (t *Tree) Len() int {
	return len(t.insts)
}

// Add creates an instance of class under parent, which may be None. An
// unknown parent is an error and leaves the tree unchanged.
func (t *Tree) Add(class string, parent ID) (ID, error) {
	if parent != None && t.Get(parent) == nil {
		return None, fmt.Errorf("no parent instance %d", parent)
	}
	id := ID(len(t.insts))
	t.insts = append(t.insts, &Instance{
		ID:       id,
		Class:    class,
		Parent:   None,
		Props:    map[string]value.Value{},
		Referent: -1,
	})
	t.roots = append(t.roots, id)
	if parent != None {
		if err := t.SetParent(id, parent); err != nil {
			return None, err
		}
	}
	return id, nil
}

// MustAdd is Add for parents known to exist. It panics otherwise.
func MustAdd(t *Tree, class string, parent ID) ID {
	id, err := t.Add(class, parent)
	if err != nil {
		panic(err)
	}
	return id
}

func (t *Tree) Get(id ID) *Instance {
	if id < 0 || int(id) >= len(t.insts) {
		return nil
	}
	return t.insts[id]
}

// Roots returns the instances without a parent, in the order they became
// roots.
func (t *Tree) Roots() []ID {
	if !t.dirty {
		return t.roots
	}
	seen := make(map[ID]bool, len(t.roots))
	res := make([]ID, 0, len(t.roots))
	for i := len(t.roots) - 1; i >= 0; i-- {
		id := t.roots[i]
		if t.insts[id].Parent != None || seen[id] {
			continue
		}
		seen[id] = true
		res = append(res, id)
	}
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	t.roots = res
	t.dirty = false
	return t.roots
}

// SetParent moves id to the end of parent's children. A parent of None makes
// id a root.
func (t *Tree) SetParent(id, parent ID) error {
	inst := t.Get(id)
	if inst == nil {
		return fmt.Errorf("no instance %d", id)
	}
	if parent != None {
		if t.Get(parent) == nil {
			return fmt.Errorf("no parent instance %d", parent)
		}
		for p := parent; p != None; p = t.insts[p].Parent {
			if p == id {
				return fmt.Errorf("parenting %d to %d makes a cycle", id, parent)
			}
		}
	}
	if inst.Parent != None {
		pp := t.insts[inst.Parent]
		pp.Children = remove(pp.Children, id)
	}
	inst.Parent = parent
	t.dirty = true
	if parent == None {
		t.roots = append(t.roots, id)
		return nil
	}
	p := t.insts[parent]
	p.Children = append(p.Children, id)
	return nil
}

func remove(ids []ID, id ID) []ID {
	for i, x := range ids {
		if x == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// Walk visits instances depth first, parents before children, in child
// order. Returning false from f skips the instance's children.
func (t *Tree) Walk(f func(inst *Instance, depth int) bool) {
	var walk func(id ID, depth int)
	walk = func(id ID, depth int) {
		inst := t.insts[id]
		if !f(inst, depth) {
			return
		}
		for _, c := range inst.Children {
			walk(c, depth+1)
		}
	}
	for _, r := range t.Roots() {
		walk(r, 0)
	}
}

// Path returns the names from the root down to id, separated by dots. An
// instance without a name is listed by class.
func (t *Tree) Path(id ID) string {
	inst := t.Get(id)
	if inst == nil {
		return ""
	}
	name := inst.Name()
	if name == "" {
		name = inst.Class
	}
	name = EscapeName(name)
	if inst.Parent == None {
		return name
	}
	return t.Path(inst.Parent) + "." + name
}

// Classes returns the distinct class names in sorted order.
func (t *Tree) Classes() []string {
	seen := map[string]bool{}
	var res []string
	for _, inst := range t.insts {
		if !seen[inst.Class] {
			seen[inst.Class] = true
			res = append(res, inst.Class)
		}
	}
	sort.Strings(res)
	return res
}
