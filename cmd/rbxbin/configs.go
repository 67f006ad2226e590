package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/rbxbin/chunk"
	"github.com/signadot/rbxbin/codec"
	"github.com/signadot/rbxbin/format"
	"github.com/signadot/rbxbin/schema"
)

type MainConfig struct {
	Zstd    bool   `cli:"name=zstd desc='compress written chunks with zstd instead of lz4'"`
	Verbose bool   `cli:"name=v desc='log diagnostics and debug information to stderr'"`
	Color   bool   `cli:"name=color desc='output with color'"`
	Dupes   string `cli:"name=dupes desc='duplicate type id policy: last, first or reject'"`

	J bool `cli:"name=j aliases=json desc='render in json'"`
	Y bool `cli:"name=y aliases=yaml desc='render in yaml'"`

	DB *schema.Database

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) schemaOpt(_ *cli.Context, a string) (any, error) {
	db, err := schema.Open(a)
	if err != nil {
		return nil, err
	}
	cfg.DB = db
	return a, nil
}

func (cfg *MainConfig) format() format.Format {
	if cfg.J {
		return format.JSONFormat
	}
	return format.YAMLFormat
}

func (cfg *MainConfig) logger() *slog.Logger {
	level := slog.LevelError
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func (cfg *MainConfig) decodeOpts(withSchema bool) ([]codec.DecodeOption, error) {
	res := []codec.DecodeOption{codec.WithLogger(cfg.logger())}
	if cfg.Dupes != "" {
		var p codec.DuplicatePolicy
		if err := p.UnmarshalText([]byte(cfg.Dupes)); err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		res = append(res, codec.WithDuplicateTypes(p))
	}
	if withSchema && cfg.DB != nil {
		res = append(res, codec.WithSchema(cfg.DB))
	}
	return res, nil
}

func (cfg *MainConfig) encodeOpts() []codec.EncodeOption {
	res := []codec.EncodeOption{
		codec.WithEncodeLogger(cfg.logger()),
		codec.WithCompression(cfg.compressor()),
	}
	if cfg.DB != nil {
		res = append(res, codec.WithEncodeSchema(cfg.DB))
	}
	return res
}

func (cfg *MainConfig) compressor() chunk.Compressor {
	if cfg.Zstd {
		return chunk.Zstd{}
	}
	return chunk.LZ4{}
}

// colors decides whether to color output written to w: -color forces it,
// otherwise w must be a terminal.
func (cfg *MainConfig) colors(w io.Writer) *palette {
	if cfg.Color {
		return newPalette(true)
	}
	f, ok := w.(*os.File)
	if !ok {
		return newPalette(false)
	}
	return newPalette(isatty.IsTerminal(f.Fd()))
}

type DumpConfig struct {
	*MainConfig
	Dump *cli.Command
}

type TreeConfig struct {
	*MainConfig
	Props bool `cli:"name=props desc='show property values'"`
	Tree  *cli.Command
}

type MetaConfig struct {
	*MainConfig
	Meta *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Context int `cli:"name=c desc='lines of context around changes'"`
	Diff    *cli.Command
}

type RoundtripConfig struct {
	*MainConfig
	Roundtrip *cli.Command
}

type PatchConfig struct {
	*MainConfig
	File  string `cli:"name=p desc='json patch file'"`
	Patch *cli.Command
}

type QueryConfig struct {
	*MainConfig
	Where string `cli:"name=where desc='expression selecting instances'"`
	Print string `cli:"name=print desc='expression to print for each match'"`
	Query *cli.Command
}

type SchemaConfig struct {
	*MainConfig
	Schema *cli.Command
}

type SchemaCheckConfig struct {
	*MainConfig
	Check *cli.Command
}

type SchemaListConfig struct {
	*MainConfig
	List *cli.Command
}
