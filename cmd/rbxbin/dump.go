package main

import (
	"github.com/scott-cotton/cli"
	"github.com/signadot/rbxbin/mirror"
)

func dump(cfg *DumpConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Dump.Parse(cc, args)
	if err != nil {
		return err
	}
	paths := inputs(args)
	p := cfg.colors(cc.Out)
	for i, path := range paths {
		m, err := mirrorFile(cc, path)
		if err != nil {
			return err
		}
		d, err := mirror.Render(m, cfg.format())
		if err != nil {
			return err
		}
		header(cc, p, paths, i)
		if _, err := cc.Out.Write(d); err != nil {
			return err
		}
	}
	return nil
}
