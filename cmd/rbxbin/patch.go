package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
	"github.com/signadot/rbxbin/format"
	"github.com/signadot/rbxbin/mirror"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.File == "" {
		return fmt.Errorf("%w: -p is required", cli.ErrUsage)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: patch needs exactly 1 file", cli.ErrUsage)
	}
	pd, err := os.ReadFile(cfg.File)
	if err != nil {
		return err
	}
	// patches may be written in yaml, they are applied to the json form
	if format.FromPath(cfg.File).IsYAML() {
		pd, err = yaml.YAMLToJSON(pd)
		if err != nil {
			return fmt.Errorf("patch %s: %w", cfg.File, err)
		}
	}
	m, err := mirrorFile(cc, args[0])
	if err != nil {
		return err
	}
	pm, err := mirror.Patch(m, pd)
	if err != nil {
		return err
	}
	return mirror.Encode(cc.Out, pm)
}
