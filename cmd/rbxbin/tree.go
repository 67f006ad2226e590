package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/value"
)

func tree(cfg *TreeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tree.Parse(cc, args)
	if err != nil {
		return err
	}
	paths := inputs(args)
	p := cfg.colors(cc.Out)
	for i, path := range paths {
		res, err := decodeFile(cfg.MainConfig, cc, path, true)
		if err != nil {
			return err
		}
		header(cc, p, paths, i)
		printTree(cc, p, res.Tree, cfg.Props)
	}
	return nil
}

func printTree(cc *cli.Context, p *palette, t *dom.Tree, props bool) {
	t.Walk(func(inst *dom.Instance, depth int) bool {
		indent := strings.Repeat("  ", depth)
		line := indent + p.class("%s", inst.Class)
		if n := inst.Name(); n != "" {
			line += " " + p.name("%q", n)
		}
		if inst.Service {
			line += " (service)"
		}
		fmt.Fprintln(cc.Out, line)
		if !props {
			return true
		}
		for _, name := range inst.PropNames() {
			fmt.Fprintf(cc.Out, "%s  %s = %s\n", indent, p.prop("%s", name), p.value("%s", showValue(t, inst.Props[name])))
		}
		return true
	})
}

// showValue renders Ref values as instance paths and anything else as
// compact json.
func showValue(t *dom.Tree, v value.Value) string {
	if r, ok := v.(value.Ref); ok {
		if r == value.NoRef {
			return "nil"
		}
		return "@" + t.Path(dom.ID(r))
	}
	d, err := json.Marshal(value.ToJSON(v))
	if err != nil {
		return fmt.Sprintf("<%s>", v.Type())
	}
	return string(d)
}
