package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"
	"github.com/signadot/rbxbin/codec"
	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/mirror"
)

func roundtrip(cfg *RoundtripConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Roundtrip.Parse(cc, args)
	if err != nil {
		return err
	}
	p := cfg.colors(cc.Out)
	failed := false
	for _, path := range inputs(args) {
		problems, err := roundtripFile(cfg.MainConfig, cc, path)
		if err != nil {
			return err
		}
		if len(problems) == 0 {
			fmt.Fprintf(cc.Out, "%s: ok\n", path)
			continue
		}
		failed = true
		fmt.Fprintf(cc.Out, "%s: %s\n", path, p.removed("%d problems", len(problems)))
		for _, pr := range problems {
			fmt.Fprintf(cc.Out, "  %s\n", pr)
		}
	}
	if failed {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// roundtripFile decodes path with both decoders, checks that they agree,
// then re-encodes the tree and checks that decoding the result gives the
// same tree back.
func roundtripFile(cfg *MainConfig, cc *cli.Context, path string) ([]string, error) {
	d, err := readInput(cc, path)
	if err != nil {
		return nil, err
	}
	opts, err := cfg.decodeOpts(false)
	if err != nil {
		return nil, err
	}
	res, err := codec.DecodeBytes(d, opts...)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	var problems []string
	for _, diag := range res.Diagnostics.List {
		problems = append(problems, "diagnostic: "+diag.String())
	}
	m, err := mirror.DecodeBytes(d)
	if err != nil {
		problems = append(problems, fmt.Sprintf("mirror: %v", err))
	} else {
		for _, s := range mirror.CompareTree(m, res.Tree) {
			problems = append(problems, "mirror: "+s)
		}
	}

	var buf bytes.Buffer
	eopts := []codec.EncodeOption{codec.WithEncodeLogger(cfg.logger()), codec.WithCompression(cfg.compressor())}
	if err := codec.Encode(&buf, res.Tree, eopts...); err != nil {
		return append(problems, fmt.Sprintf("encode: %v", err)), nil
	}
	again, err := codec.DecodeBytes(buf.Bytes(), opts...)
	if err != nil {
		return append(problems, fmt.Sprintf("decode re-encoded: %v", err)), nil
	}
	before, after := outline(res.Tree), outline(again.Tree)
	if len(before) != len(after) {
		problems = append(problems, fmt.Sprintf("re-encoded: %d lines, want %d", len(after), len(before)))
	}
	for i := range min(len(before), len(after)) {
		if before[i] != after[i] {
			problems = append(problems, fmt.Sprintf("re-encoded: %q, want %q", after[i], before[i]))
		}
	}
	return problems, nil
}

// outline is a plain rendering of a tree used to compare trees from
// different decodes.
func outline(t *dom.Tree) []string {
	var res []string
	t.Walk(func(inst *dom.Instance, depth int) bool {
		indent := strings.Repeat("  ", depth)
		res = append(res, fmt.Sprintf("%s%s service=%t", indent, inst.Class, inst.Service))
		for _, n := range inst.PropNames() {
			res = append(res, fmt.Sprintf("%s  %s %s", indent, n, showValue(t, inst.Props[n])))
		}
		return true
	})
	return res
}
