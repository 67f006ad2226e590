package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "schema",
			Description: "reflection database file in yaml or json, or the name of a loaded one",
			Type:        cli.NamedFuncOpt(cfg.schemaOpt, "(filepath)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "rbxbin").
		WithSynopsis("rbxbin [opts] command [opts]").
		WithDescription("rbxbin inspects, checks and rewrites binary instance files.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return rbxbinMain(cfg, cc, args)
		}).
		WithSubs(
			DumpCommand(cfg),
			TreeCommand(cfg),
			MetaCommand(cfg),
			DiffCommand(cfg),
			RoundtripCommand(cfg),
			PatchCommand(cfg),
			QueryCommand(cfg),
			SchemaCommand(cfg))
}

func DumpCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DumpConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Dump, "dump").
		WithAliases("d").
		WithSynopsis("dump [files]").
		WithDescription("render every chunk and value of files in yaml (or json with -j)").
		WithRun(func(cc *cli.Context, args []string) error {
			return dump(cfg, cc, args)
		})
}

func TreeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TreeConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Tree, "tree").
		WithAliases("t").
		WithSynopsis("tree [-props] [files]").
		WithDescription("print the instance tree of files").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tree(cfg, cc, args)
		})
}

func MetaCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MetaConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Meta, "meta").
		WithSynopsis("meta [files]").
		WithDescription("print the metadata entries of files").
		WithRun(func(cc *cli.Context, args []string) error {
			return meta(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg, Context: 3}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithSynopsis("diff [-c n] a b").
		WithDescription("diff the chunk renderings of two files, exiting 1 when they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func RoundtripCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RoundtripConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Roundtrip, "roundtrip").
		WithAliases("rt").
		WithSynopsis("roundtrip [files]").
		WithDescription("decode, re-encode and compare files, reporting diagnostics").
		WithRun(func(cc *cli.Context, args []string) error {
			return roundtrip(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithSynopsis("patch -p patch.json file").
		WithDescription("apply a json patch to the json dump of a file and write the result as a binary file").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}

func QueryCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &QueryConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Query, "query").
		WithAliases("q").
		WithSynopsis("query -where expr [-print expr] [files]").
		WithDescription("list the instances matching an expression").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return queryMain(cfg, cc, args)
		})
}

func SchemaCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SchemaConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Schema, "schema").
		WithSynopsis("schema <subcommand>").
		WithDescription("reflection database commands").
		WithSubs(
			SchemaCheckCommand(cfg.MainConfig),
			SchemaListCommand(cfg.MainConfig))
}

func SchemaCheckCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SchemaCheckConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Check, "check").
		WithSynopsis("check <schema-file|name> [files...]").
		WithDescription("report properties of files that disagree with a reflection database").
		WithRun(func(cc *cli.Context, args []string) error {
			return schemaCheck(cfg, cc, args)
		})
}

func SchemaListCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SchemaListConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.List, "list").
		WithAliases("ls").
		WithSynopsis("list [schema-files...]").
		WithDescription("load schema files and list the registered reflection databases").
		WithRun(func(cc *cli.Context, args []string) error {
			return schemaList(cfg, cc, args)
		})
}
