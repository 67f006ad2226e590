package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/scott-cotton/cli"
	"github.com/signadot/rbxbin/codec"
	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/mirror"
	"github.com/signadot/rbxbin/value"
)

func TestNear(t *testing.T) {
	lines := []mirror.Line{
		{Op: mirror.Same}, {Op: mirror.Same}, {Op: mirror.Same},
		{Op: mirror.Added}, {Op: mirror.Same}, {Op: mirror.Same},
	}
	got := near(lines, 1)
	want := []bool{false, false, true, true, true, false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("near (-want +got):\n%s", diff)
	}
}

func TestOutline(t *testing.T) {
	tr := dom.New()
	ws := dom.MustAdd(tr, "Workspace", dom.None)
	tr.Get(ws).Service = true
	part := dom.MustAdd(tr, "Part", ws)
	tr.Get(part).Props["Name"] = value.String("P")
	tr.Get(part).Props["Anchored"] = value.Bool(true)
	v := dom.MustAdd(tr, "ObjectValue", ws)
	tr.Get(v).Props["Value"] = value.Ref(part)
	tr.Get(v).Props["Other"] = value.NoRef

	want := []string{
		"Workspace service=true",
		"  Part service=false",
		"    Anchored true",
		`    Name "P"`,
		"  ObjectValue service=false",
		"    Other nil",
		"    Value @" + tr.Path(part),
	}
	if diff := cmp.Diff(want, outline(tr)); diff != "" {
		t.Errorf("outline (-want +got):\n%s", diff)
	}
}

// writeFile encodes a tree of one named Part, plus extra chunks, to a file
// in dir.
func writeFile(t *testing.T, dir, file, name string, extra ...dom.Chunk) string {
	t.Helper()
	tr := dom.New()
	tr.Get(dom.MustAdd(tr, "Part", dom.None)).Props["Name"] = value.String(name)
	tr.Extra = extra
	b, err := codec.EncodeBytes(tr)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, file)
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	old := writeFile(t, dir, "old.rbxm", "Old")
	renamed := writeFile(t, dir, "new.rbxm", "New")
	odd := writeFile(t, dir, "odd.rbxm", "Odd", dom.Chunk{Name: [4]byte{'Z', 'Z', 'Z', 'Z'}, Data: []byte{1, 2, 3}})
	patchFile := filepath.Join(dir, "rename.json")
	// chunks are INST, PROP Name, PRNT, END
	p := `[{"op": "replace", "path": "/chunks/1/prop/values/0", "value": "New"}]`
	if err := os.WriteFile(patchFile, []byte(p), 0644); err != nil {
		t.Fatal(err)
	}
	patched := filepath.Join(dir, "patched.rbxm")

	tests := []struct {
		name    string
		args    []string
		fails   bool
		outHas  []string
		outFile string
	}{
		{name: "roundtrip ok", args: []string{"roundtrip", old}, outHas: []string{old + ": ok"}},
		{name: "roundtrip diagnostics", args: []string{"roundtrip", odd}, fails: true, outHas: []string{"unknownChunk"}},
		{name: "diff same", args: []string{"diff", old, old}},
		{name: "diff changed", args: []string{"diff", old, renamed}, fails: true, outHas: []string{"--- " + old, "+++ " + renamed, "Old", "New"}},
		{name: "tree", args: []string{"tree", "-props", old}, outHas: []string{"Part \"Old\"", `Name = "Old"`}},
		{name: "patch", args: []string{"-o", patched, "patch", "-p", patchFile, old}, outFile: patched},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cc := &cli.Context{In: io.NopCloser(strings.NewReader("")), Out: nopWriteCloser{&out}}
			err := MainCommand().Run(cc, tt.args)
			if tt.fails != (err != nil) {
				t.Fatalf("fails=%t, got error %v\noutput:\n%s", tt.fails, err, out.String())
			}
			for _, s := range tt.outHas {
				if !strings.Contains(out.String(), s) {
					t.Errorf("output lacks %q:\n%s", s, out.String())
				}
			}
			if tt.outFile == "" {
				return
			}
			b, err := os.ReadFile(tt.outFile)
			if err != nil {
				t.Fatal(err)
			}
			res, err := codec.DecodeBytes(b)
			if err != nil {
				t.Fatal(err)
			}
			if got := res.Tree.Get(res.Tree.Roots()[0]).Name(); got != "New" {
				t.Errorf("patched name %q", got)
			}
		})
	}
}

// nopWriteCloser adapts an io.Writer to the io.WriteCloser cli.Context wants.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
