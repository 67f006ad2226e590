package debug

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

type debug struct {
	Chunks bool
	Values bool
	Tree   bool
	Schema bool
}

var d *debug

func init() {
	d = &debug{}
	d.Chunks = boolEnv("RBXBIN_DEBUG_CHUNKS")
	d.Values = boolEnv("RBXBIN_DEBUG_VALUES")
	d.Tree = boolEnv("RBXBIN_DEBUG_TREE")
	d.Schema = boolEnv("RBXBIN_DEBUG_SCHEMA")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Chunks() bool {
	return d.Chunks
}
func Values() bool {
	return d.Values
}
func Tree() bool {
	return d.Tree
}
func Schema() bool {
	return d.Schema
}

// out is where Logf writes.
var out io.Writer = os.Stderr

// Logf formats like fmt.Printf. Maps and slices of any are rendered as
// indented JSON, byte slices as hex, cut after 64 bytes.
func Logf(msg string, args ...any) {
	for i := range args {
		switch a := args[i].(type) {
		case map[string]any, []any:
			d, err := json.MarshalIndent(a, "   |", "  ")
			if err != nil {
				args[i] = fmt.Sprintf("%v", a)
				continue
			}
			args[i] = string(d)
		case []byte:
			if len(a) > 64 {
				args[i] = fmt.Sprintf("% x ... (%d bytes)", a[:64], len(a))
				continue
			}
			args[i] = fmt.Sprintf("% x", a)
		default:
		}
	}
	fmt.Fprintf(out, msg, args...)
}
