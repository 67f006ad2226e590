package mirror

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/signadot/rbxbin/format"

	jsonpatch "github.com/evanphx/json-patch"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Render writes m as indented JSON or as YAML.
func Render(m *Model, f format.Format) ([]byte, error) {
	d, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	if f.IsJSON() {
		return append(d, '\n'), nil
	}
	return yaml.JSONToYAML(d)
}

// Parse reads a Model rendered by Render.
func Parse(d []byte, f format.Format) (*Model, error) {
	if f.IsYAML() {
		j, err := yaml.YAMLToJSON(d)
		if err != nil {
			return nil, err
		}
		d = j
	}
	m := &Model{}
	if err := json.Unmarshal(d, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Patch applies an RFC 6902 JSON patch to the JSON rendering of m. Chunks
// the patch leaves alone keep their stored bytes.
func Patch(m *Model, patch []byte) (*Model, error) {
	ops, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("decoding patch: %w", err)
	}
	doc, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	out, err := ops.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("applying patch: %w", err)
	}
	res, err := Parse(out, format.JSONFormat)
	if err != nil {
		return nil, fmt.Errorf("patched model: %w", err)
	}
	res.adopt(m)
	return res, nil
}

type LineOp int

const (
	Same LineOp = iota
	Removed
	Added
)

type Line struct {
	Op   LineOp
	Text string
}

// Diff compares the renderings of a and b line by line.
func Diff(a, b *Model, f format.Format) ([]Line, error) {
	ra, err := Render(a, f)
	if err != nil {
		return nil, err
	}
	rb, err := Render(b, f)
	if err != nil {
		return nil, err
	}
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(string(ra), string(rb))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)
	var res []Line
	for _, d := range diffs {
		op := Same
		switch d.Type {
		case diffpatch.DiffDelete:
			op = Removed
		case diffpatch.DiffInsert:
			op = Added
		}
		for _, l := range strings.SplitAfter(d.Text, "\n") {
			if l == "" {
				continue
			}
			res = append(res, Line{Op: op, Text: strings.TrimSuffix(l, "\n")})
		}
	}
	return res, nil
}

// Changed reports whether a diff has any added or removed line.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Same {
			return true
		}
	}
	return false
}
