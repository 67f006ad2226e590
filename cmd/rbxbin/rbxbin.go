package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/rbxbin/codec"
	"github.com/signadot/rbxbin/mirror"
)

func rbxbinMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.J && cfg.Y {
		return fmt.Errorf("%w: must specify at most one of -j[son] -y[aml]", cli.ErrUsage)
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// readInput reads a whole file, or standard input for "-".
func readInput(cc *cli.Context, path string) ([]byte, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return d, nil
}

func inputs(args []string) []string {
	if len(args) == 0 {
		return []string{"-"}
	}
	return args
}

func decodeFile(cfg *MainConfig, cc *cli.Context, path string, withSchema bool) (*codec.Result, error) {
	d, err := readInput(cc, path)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.decodeOpts(withSchema)
	if err != nil {
		return nil, err
	}
	res, err := codec.DecodeBytes(d, opts...)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return res, nil
}

func mirrorFile(cc *cli.Context, path string) (*mirror.Model, error) {
	d, err := readInput(cc, path)
	if err != nil {
		return nil, err
	}
	m, err := mirror.DecodeBytes(d)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return m, nil
}

// header prints a file name before its output when there are several.
func header(cc *cli.Context, p *palette, paths []string, i int) {
	if len(paths) < 2 {
		return
	}
	if i > 0 {
		fmt.Fprintln(cc.Out)
	}
	fmt.Fprintln(cc.Out, p.file("# %s", paths[i]))
}
