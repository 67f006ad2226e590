package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/rbxbin/codec"
	"github.com/signadot/rbxbin/schema"
)

func schemaCheck(cfg *SchemaCheckConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Check.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: check needs a schema file", cli.ErrUsage)
	}
	db, err := schema.Open(args[0])
	if err != nil {
		return err
	}
	cfg.DB = db
	p := cfg.colors(cc.Out)
	n := 0
	for _, path := range inputs(args[1:]) {
		res, err := decodeFile(cfg.MainConfig, cc, path, true)
		if err != nil {
			return err
		}
		ds := append(res.Diagnostics.Of(codec.SchemaMismatch), res.Diagnostics.Of(codec.ConversionFailed)...)
		for i := range ds {
			fmt.Fprintf(cc.Out, "%s: %s\n", path, p.warn("%s", ds[i].String()))
		}
		n += len(ds)
	}
	if n != 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func schemaList(cfg *SchemaListConfig, cc *cli.Context, args []string) error {
	args, err := cfg.List.Parse(cc, args)
	if err != nil {
		return err
	}
	for _, path := range args {
		if _, err := schema.Open(path); err != nil {
			return err
		}
	}
	p := cfg.colors(cc.Out)
	for _, name := range schema.Names() {
		db := schema.Get(name)
		fmt.Fprintf(cc.Out, "%s %s %d classes\n", p.name("%s", name), db.Version, len(db.Classes))
	}
	return nil
}
