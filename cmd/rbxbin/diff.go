package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/rbxbin/mirror"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff needs exactly 2 files", cli.ErrUsage)
	}
	a, err := mirrorFile(cc, args[0])
	if err != nil {
		return err
	}
	b, err := mirrorFile(cc, args[1])
	if err != nil {
		return err
	}
	lines, err := mirror.Diff(a, b, cfg.format())
	if err != nil {
		return err
	}
	if !mirror.Changed(lines) {
		return nil
	}
	p := cfg.colors(cc.Out)
	fmt.Fprintln(cc.Out, p.removed("--- %s", args[0]))
	fmt.Fprintln(cc.Out, p.added("+++ %s", args[1]))
	show := near(lines, cfg.Context)
	gap := false
	for i, ln := range lines {
		if !show[i] {
			gap = true
			continue
		}
		if gap {
			fmt.Fprintln(cc.Out, p.file("..."))
			gap = false
		}
		switch ln.Op {
		case mirror.Removed:
			fmt.Fprintln(cc.Out, p.removed("-%s", ln.Text))
		case mirror.Added:
			fmt.Fprintln(cc.Out, p.added("+%s", ln.Text))
		default:
			fmt.Fprintf(cc.Out, " %s\n", ln.Text)
		}
	}
	return cli.ExitCodeErr(1)
}

// near marks the lines within n lines of a change.
func near(lines []mirror.Line, n int) []bool {
	res := make([]bool, len(lines))
	for i, ln := range lines {
		if ln.Op == mirror.Same {
			continue
		}
		lo, hi := max(0, i-n), min(len(lines)-1, i+n)
		for j := lo; j <= hi; j++ {
			res[j] = true
		}
	}
	return res
}
