package main

import (
	"encoding/json"
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/query"
)

func queryMain(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Where == "" {
		cfg.Where = "true"
	}
	q, err := query.Compile(cfg.Where)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	var proj *query.Projection
	if cfg.Print != "" {
		proj, err = query.CompileProjection(cfg.Print)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
	}
	paths := inputs(args)
	p := cfg.colors(cc.Out)
	for i, path := range paths {
		res, err := decodeFile(cfg.MainConfig, cc, path, true)
		if err != nil {
			return err
		}
		header(cc, p, paths, i)
		t := res.Tree
		t.Walk(func(inst *dom.Instance, depth int) bool {
			if err != nil {
				return false
			}
			env := query.NewEnv(t, inst, depth)
			var ok bool
			ok, err = q.Match(env)
			if err != nil || !ok {
				return err == nil
			}
			if proj == nil {
				fmt.Fprintf(cc.Out, "%s %s\n", p.name("%s", env.Path), p.class("%s", inst.Class))
				return true
			}
			var out any
			out, err = proj.Eval(env)
			if err != nil {
				return false
			}
			var d []byte
			d, err = json.Marshal(out)
			if err != nil {
				return false
			}
			fmt.Fprintf(cc.Out, "%s %s\n", p.name("%s", env.Path), p.value("%s", d))
			return true
		})
		if err != nil {
			return err
		}
	}
	return nil
}
