package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
)

func meta(cfg *MetaConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Meta.Parse(cc, args)
	if err != nil {
		return err
	}
	paths := inputs(args)
	p := cfg.colors(cc.Out)
	for i, path := range paths {
		res, err := decodeFile(cfg.MainConfig, cc, path, false)
		if err != nil {
			return err
		}
		header(cc, p, paths, i)
		for _, e := range res.Tree.Meta {
			fmt.Fprintf(cc.Out, "%s: %s\n", p.prop("%s", e.Key), e.Value)
		}
	}
	return nil
}
