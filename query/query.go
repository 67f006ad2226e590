// Package query filters the instances of a decoded tree with expr-lang
// expressions.
//
//	Class == "Part" && Props.Anchored
//	Under("Workspace") && Name startsWith "Wheel"
//	Depth > 2 || Service
package query

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/value"
)

// Env is what an expression sees for one instance. Props holds the
// property values in their native Go form.
type Env struct {
	ID       int
	Class    string
	Name     string
	Path     string
	Parent   string
	Depth    int
	Service  bool
	Children int
	Props    map[string]any

	tree *dom.Tree
	inst *dom.Instance
}

// Under reports whether an ancestor of the instance has the given class.
func (e Env) Under(class string) bool {
	for p := e.inst.Parent; p != dom.None; {
		pi := e.tree.Get(p)
		if pi.Class == class {
			return true
		}
		p = pi.Parent
	}
	return false
}

// Has reports whether the instance has the property.
func (e Env) Has(prop string) bool {
	_, ok := e.inst.Props[prop]
	return ok
}

func NewEnv(t *dom.Tree, inst *dom.Instance, depth int) Env {
	env := Env{
		ID:       int(inst.ID),
		Class:    inst.Class,
		Name:     inst.Name(),
		Path:     t.Path(inst.ID),
		Depth:    depth,
		Service:  inst.Service,
		Children: len(inst.Children),
		Props:    make(map[string]any, len(inst.Props)),
		tree:     t,
		inst:     inst,
	}
	if p := t.Get(inst.Parent); p != nil {
		env.Parent = p.Class
	}
	for n, v := range inst.Props {
		env.Props[n] = value.Native(v)
	}
	return env
}

type Query struct {
	src  string
	prog *vm.Program
}

// Compile compiles a boolean filter.
func Compile(src string) (*Query, error) {
	prog, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", src, err)
	}
	return &Query{src: src, prog: prog}, nil
}

func (q *Query) String() string {
	return q.src
}

func (q *Query) Match(env Env) (bool, error) {
	out, err := expr.Run(q.prog, env)
	if err != nil {
		return false, fmt.Errorf("%s at %s: %w", q.src, env.Path, err)
	}
	return out.(bool), nil
}

// Select returns the matching instances in depth first order.
func (q *Query) Select(t *dom.Tree) ([]dom.ID, error) {
	var (
		res []dom.ID
		err error
	)
	t.Walk(func(inst *dom.Instance, depth int) bool {
		if err != nil {
			return false
		}
		var ok bool
		ok, err = q.Match(NewEnv(t, inst, depth))
		if ok {
			res = append(res, inst.ID)
		}
		return err == nil
	})
	return res, err
}

// Projection evaluates an expression of any type per instance.
type Projection struct {
	src  string
	prog *vm.Program
}

func CompileProjection(src string) (*Projection, error) {
	prog, err := expr.Compile(src, expr.Env(Env{}))
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", src, err)
	}
	return &Projection{src: src, prog: prog}, nil
}

func (p *Projection) Eval(env Env) (any, error) {
	out, err := expr.Run(p.prog, env)
	if err != nil {
		return nil, fmt.Errorf("%s at %s: %w", p.src, env.Path, err)
	}
	return out, nil
}
