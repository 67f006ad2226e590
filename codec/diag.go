package codec

import (
	"fmt"
	"log/slog"
	"strings"
)

type DiagKind int

const (
	UnknownChunk DiagKind = iota
	UnknownType
	UnknownTypeID
	DuplicateTypeID
	SchemaMismatch
	TrailingBytes
	DanglingRef
	ConversionFailed
)

var diagNames = map[DiagKind]string{
	UnknownChunk:     "unknownChunk",
	UnknownType:      "unknownType",
	UnknownTypeID:    "unknownTypeID",
	DuplicateTypeID:  "duplicateTypeID",
	SchemaMismatch:   "schemaMismatch",
	TrailingBytes:    "trailingBytes",
	DanglingRef:      "danglingRef",
	ConversionFailed: "conversionFailed",
}

func (k DiagKind) String() string {
	if s, ok := diagNames[k]; ok {
		return s
	}
	return fmt.Sprintf("DiagKind(%d)", int(k))
}

func (k DiagKind) MarshalText() ([]byte, error) {
	if s, ok := diagNames[k]; ok {
		return []byte(s), nil
	}
	return nil, fmt.Errorf("%d is not a diagnostic kind", int(k))
}

func (k *DiagKind) UnmarshalText(d []byte) error {
	for kk, s := range diagNames {
		if s == string(d) {
			*k = kk
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic kind %q", d)
}

// Diagnostic is one tolerated anomaly. TypeID is -1 when no type is
// involved.
type Diagnostic struct {
	Kind     DiagKind `json:"kind"`
	Chunk    int      `json:"chunk"`
	TypeID   int64    `json:"typeID"`
	Class    string   `json:"class,omitempty"`
	Property string   `json:"property,omitempty"`
	Message  string   `json:"message"`
}

func (d *Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: chunk %d", d.Kind, d.Chunk)
	if d.TypeID >= 0 {
		fmt.Fprintf(&b, " type %d", d.TypeID)
	}
	if d.Class != "" {
		b.WriteString(" " + d.Class)
		if d.Property != "" {
			b.WriteString("." + d.Property)
		}
	}
	b.WriteString(": " + d.Message)
	return b.String()
}

func (d *Diagnostic) attrs() []any {
	res := []any{"kind", d.Kind.String(), "chunk", d.Chunk}
	if d.TypeID >= 0 {
		res = append(res, "typeID", d.TypeID)
	}
	if d.Class != "" {
		res = append(res, "class", d.Class)
	}
	if d.Property != "" {
		res = append(res, "prop", d.Property)
	}
	return res
}

// Diagnostics accumulates the anomalies of one decode in the order they
// were found.
type Diagnostics struct {
	List []Diagnostic
}

func (ds *Diagnostics) Len() int {
	if ds == nil {
		return 0
	}
	return len(ds.List)
}

// Of returns the diagnostics of kind k.
func (ds *Diagnostics) Of(k DiagKind) []Diagnostic {
	if ds == nil {
		return nil
	}
	var res []Diagnostic
	for i := range ds.List {
		if ds.List[i].Kind == k {
			res = append(res, ds.List[i])
		}
	}
	return res
}

func (ds *Diagnostics) Has(k DiagKind) bool {
	return len(ds.Of(k)) != 0
}

func (ds *Diagnostics) add(logger *slog.Logger, d Diagnostic) {
	ds.List = append(ds.List, d)
	logger.Warn(d.Message, d.attrs()...)
}
