package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/rbxbin/chunk"
	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/format"
	"github.com/signadot/rbxbin/schema"
	"github.com/signadot/rbxbin/value"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// file frames payloads into an uncompressed file ending in END.
func file(t *testing.T, chunks ...*chunk.Chunk) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := chunk.NewWriter(&buf, chunk.Uncompressed())
	if err := w.WriteHeader(&chunk.FileHeader{}); err != nil {
		t.Fatal(err)
	}
	for _, c := range chunks {
		if err := w.WriteChunk(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.WriteEnd(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func instChunk(typeID uint32, class string, refs ...int32) *chunk.Chunk {
	d := &InstDecl{TypeID: typeID, Class: class, Referents: refs}
	return chunk.Raw(chunk.Inst, d.AppendTo(nil))
}

func propChunk(t *testing.T, typeID uint32, name string, vs ...value.Value) *chunk.Chunk {
	t.Helper()
	typ := vs[0].Type()
	h := &PropHeader{TypeID: typeID, Name: name, Type: typ}
	data, err := value.Encode(h.AppendTo(nil), typ, vs)
	if err != nil {
		t.Fatal(err)
	}
	return chunk.Raw(chunk.Prop, data)
}

func prntChunk(subjects, parents []int32) *chunk.Chunk {
	p := &ParentLinks{Subjects: subjects, Parents: parents}
	return chunk.Raw(chunk.Prnt, p.AppendTo(nil))
}

func decode(t *testing.T, b []byte, opts ...DecodeOption) *Result {
	t.Helper()
	res, err := DecodeBytes(b, append([]DecodeOption{WithLogger(quiet)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestTwoParts(t *testing.T) {
	b := file(t,
		instChunk(0, "Part", 0, 1),
		propChunk(t, 0, "Name", value.String("Left"), value.String("Right")),
		prntChunk([]int32{0, 1}, []int32{-1, -1}),
	)
	res := decode(t, b)
	tree := res.Tree
	if tree.Len() != 2 {
		t.Fatalf("got %d instances", tree.Len())
	}
	var got []string
	for _, id := range tree.Roots() {
		inst := tree.Get(id)
		got = append(got, fmt.Sprintf("%s %s %d", inst.Class, inst.Name(), inst.Referent))
	}
	if diff := cmp.Diff([]string{"Part Left 0", "Part Right 1"}, got); diff != "" {
		t.Error(diff)
	}
	if res.Diagnostics.Len() != 0 {
		t.Errorf("unexpected diagnostics %v", res.Diagnostics.List)
	}
}

// shape renders a tree with property values as bytes so that floats
// compare bitwise. Refs are rendered as the path of their target.
func shape(t *testing.T, tree *dom.Tree) []string {
	t.Helper()
	var res []string
	tree.Walk(func(inst *dom.Instance, depth int) bool {
		res = append(res, fmt.Sprintf("%s%s service=%t", strings.Repeat("  ", depth), inst.Class, inst.Service))
		for _, n := range inst.PropNames() {
			v := inst.Props[n]
			if r, ok := v.(value.Ref); ok {
				target := "none"
				if r != value.NoRef {
					target = tree.Path(dom.ID(r))
				}
				res = append(res, fmt.Sprintf("%s  %s -> %s", strings.Repeat("  ", depth), n, target))
				continue
			}
			d, err := value.Encode(nil, v.Type(), []value.Value{v})
			if err != nil {
				t.Fatal(err)
			}
			res = append(res, fmt.Sprintf("%s  %s %s %x", strings.Repeat("  ", depth), n, v.Type(), d))
		}
		return true
	})
	return res
}

func richTree() *dom.Tree {
	tree := dom.New()
	tree.Meta = []dom.MetaEntry{{Key: "ExplicitAutoJoints", Value: "true"}}
	ws := dom.MustAdd(tree, "Workspace", dom.None)
	tree.Get(ws).Service = true
	tree.Get(ws).Props["Name"] = value.String("Workspace")
	model := dom.MustAdd(tree, "Model", ws)
	tree.Get(model).Props["Name"] = value.String("Car")
	for i := range 3 {
		p := dom.MustAdd(tree, "Part", model)
		props := tree.Get(p).Props
		props["Name"] = value.String(fmt.Sprintf("Wheel%d", i))
		props["Anchored"] = value.Bool(i%2 == 0)
		props["Health"] = value.Int32(int32(-i * 1000))
		props["Transparency"] = value.Float32(float32(i) / 3)
		props["Mass"] = value.Float64(math.Inf(-1 + i))
		props["Size"] = value.Vector3{X: 1, Y: float32(i), Z: -0.5}
		props["Offset"] = value.UDim{Scale: 0.5, Offset: int32(i) - 1}
		props["Position"] = value.UDim2{X: value.UDim{Scale: 1, Offset: -3}, Y: value.UDim{Scale: 0, Offset: int32(i)}}
		props["Axis"] = value.Ray{Origin: value.Vector3{X: 1}, Direction: value.Vector3{Y: -1}}
		props["Faces"] = value.Faces(0x3f)
		props["Axes"] = value.Axes(i)
		props["BrickColor"] = value.BrickColor(194)
		props["Color"] = value.Color3{R: 1, G: 0.5, B: float32(i)}
		props["Pivot"] = value.Vector2{X: -1, Y: float32(math.NaN())}
		props["Material"] = value.Enum(256 + i)
		props["Cell"] = value.Vector3int16{X: -32768, Y: 32767, Z: int16(i)}
		props["Range"] = value.NumberRange{Min: -1, Max: float32(i)}
		props["Bounds"] = value.Rect{Max: value.Vector2{X: 10, Y: 20}}
		props["Tint"] = value.Color3uint8{R: 255, G: uint8(i), B: 7}
		props["Id"] = value.Int64(math.MinInt64 + int64(i))
		props["Blob"] = value.String([]byte{0xff, 0xfe, byte(i)})
	}
	extra := dom.MustAdd(tree, "Folder", dom.None)
	tree.Get(extra).Props["Target"] = value.Ref(model)
	tree.Get(extra).Props["Nothing"] = value.NoRef
	inner := tree.Get(dom.MustAdd(tree, "Folder", extra))
	inner.Props["Target"] = value.NoRef
	inner.Props["Nothing"] = value.Ref(extra)
	return tree
}

func TestRoundTrip(t *testing.T) {
	tree := richTree()
	for _, c := range []chunk.Compressor{chunk.LZ4{}, chunk.Zstd{}, chunk.None()} {
		t.Run(c.Name(), func(t *testing.T) {
			b, err := EncodeBytes(tree, WithCompression(c), WithEncodeLogger(quiet))
			if err != nil {
				t.Fatal(err)
			}
			res := decode(t, b)
			if diff := cmp.Diff(shape(t, tree), shape(t, res.Tree)); diff != "" {
				t.Errorf("shape mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tree.Meta, res.Tree.Meta); diff != "" {
				t.Error(diff)
			}
			if res.Header.NumInstances != uint32(tree.Len()) || res.Header.NumTypes != 4 {
				t.Errorf("header %+v", res.Header)
			}
			if res.Diagnostics.Len() != 0 {
				t.Errorf("unexpected diagnostics %v", res.Diagnostics.List)
			}
			again, err := EncodeBytes(res.Tree, WithCompression(c), WithEncodeLogger(quiet))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(b, again) {
				t.Error("re-encoding a decoded tree changed its bytes")
			}
		})
	}
}

func TestTypeIDsAndReferents(t *testing.T) {
	tree := dom.New()
	a := dom.MustAdd(tree, "Zed", dom.None)
	dom.MustAdd(tree, "Alpha", a)
	dom.MustAdd(tree, "Zed", dom.None)
	b, err := EncodeBytes(tree, WithCompression(chunk.None()))
	if err != nil {
		t.Fatal(err)
	}
	cr := chunk.NewReader(bytes.NewReader(b[chunk.HeaderSize:]))
	var decls []InstDecl
	for {
		c, err := cr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if c.Name != chunk.Inst {
			continue
		}
		d, err := ParseInst(value.NewCursor(c.Data))
		if err != nil {
			t.Fatal(err)
		}
		decls = append(decls, *d)
	}
	want := []InstDecl{
		{TypeID: 0, Class: "Alpha", Referents: []int32{1}},
		{TypeID: 1, Class: "Zed", Referents: []int32{0, 2}},
	}
	if diff := cmp.Diff(want, decls); diff != "" {
		t.Error(diff)
	}
}

func TestUnknownChunkPreserved(t *testing.T) {
	odd := chunk.Raw(chunk.Name{'S', 'S', 'T', 'R'}, bytes.Repeat([]byte("shared "), 20))
	var stored bytes.Buffer
	if err := chunk.NewWriter(&stored).WriteChunk(odd); err != nil {
		t.Fatal(err)
	}

	var in bytes.Buffer
	w := chunk.NewWriter(&in)
	if err := w.WriteHeader(&chunk.FileHeader{NumTypes: 1, NumInstances: 1}); err != nil {
		t.Fatal(err)
	}
	for _, c := range []*chunk.Chunk{instChunk(0, "Folder", 0), odd, prntChunk([]int32{0}, []int32{-1})} {
		if err := w.WriteChunk(c); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.WriteEnd(); err != nil {
		t.Fatal(err)
	}

	res := decode(t, in.Bytes())
	if ds := res.Diagnostics.Of(UnknownChunk); len(ds) != 1 || ds[0].Chunk != 1 {
		t.Fatalf("got %v", res.Diagnostics.List)
	}
	if len(res.Tree.Extra) != 1 {
		t.Fatalf("got %d extra chunks", len(res.Tree.Extra))
	}
	out, err := EncodeBytes(res.Tree, WithCompression(chunk.Zstd{}))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out, stored.Bytes()) {
		t.Error("unknown chunk bytes not reproduced")
	}
}

func TestForwardReference(t *testing.T) {
	b := file(t,
		propChunk(t, 3, "Name", value.String("lost")),
		instChunk(0, "Part", 0),
		propChunk(t, 0, "Name", value.String("kept")),
	)
	res := decode(t, b)
	ds := res.Diagnostics.Of(UnknownTypeID)
	if len(ds) != 1 || ds[0].TypeID != 3 || ds[0].Property != "Name" {
		t.Fatalf("got %v", res.Diagnostics.List)
	}
	if n := res.Tree.Get(0).Name(); n != "kept" {
		t.Errorf("got %q", n)
	}
}

func TestUndeclaredParent(t *testing.T) {
	b := file(t,
		instChunk(0, "Part", 0),
		prntChunk([]int32{0}, []int32{5}),
	)
	_, err := DecodeBytes(b, WithLogger(quiet))
	if !errors.Is(err, ErrReferential) {
		t.Fatalf("expected referential error, got %v", err)
	}
	var re *ReferentError
	if !errors.As(err, &re) || re.Referent != 5 {
		t.Fatalf("got %v", err)
	}
	b = file(t,
		instChunk(0, "Part", 0),
		prntChunk([]int32{9}, []int32{-1}),
	)
	if _, err := DecodeBytes(b, WithLogger(quiet)); !errors.As(err, &re) || re.Referent != 9 {
		t.Fatalf("got %v", err)
	}
}

func TestDuplicateReferent(t *testing.T) {
	b := file(t, instChunk(0, "Part", 0), instChunk(1, "Model", 0))
	_, err := DecodeBytes(b, WithLogger(quiet))
	var re *ReferentError
	if !errors.As(err, &re) || re.Referent != 0 {
		t.Fatalf("got %v", err)
	}
}

func TestShortPropertyArray(t *testing.T) {
	h := &PropHeader{TypeID: 0, Name: "Health", Type: value.Int32Type}
	short := chunk.Raw(chunk.Prop, append(h.AppendTo(nil), 0, 0, 0, 2))
	b := file(t, instChunk(0, "Humanoid", 0, 1), short)
	_, err := DecodeBytes(b, WithLogger(quiet))
	if !errors.Is(err, ErrReferential) || !errors.Is(err, value.ErrTruncated) {
		t.Fatalf("got %v", err)
	}
	var ce *CountError
	if !errors.As(err, &ce) || ce.Class != "Humanoid" || ce.Property != "Health" || ce.Want != 2 {
		t.Fatalf("got %v", err)
	}
}

func TestTrailingBytes(t *testing.T) {
	p := propChunk(t, 0, "Name", value.String("x"))
	p.Data = append(p.Data, 1, 2, 3)
	res := decode(t, file(t, instChunk(0, "Part", 0), p))
	ds := res.Diagnostics.Of(TrailingBytes)
	if len(ds) != 1 || ds[0].Class != "Part" {
		t.Fatalf("got %v", res.Diagnostics.List)
	}
	if n := res.Tree.Get(0).Name(); n != "x" {
		t.Errorf("got %q", n)
	}
}

func TestMalformedChunk(t *testing.T) {
	b := file(t, chunk.Raw(chunk.Inst, []byte{0, 0, 0, 0, 9}))
	_, err := DecodeBytes(b, WithLogger(quiet))
	if !errors.Is(err, ErrMalformed) || !errors.Is(err, chunk.ErrFraming) {
		t.Fatalf("got %v", err)
	}
	bad := &ParentLinks{Version: 3}
	b = file(t, chunk.Raw(chunk.Prnt, bad.AppendTo(nil)))
	if _, err := DecodeBytes(b, WithLogger(quiet)); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v", err)
	}
}

func TestDuplicateTypeID(t *testing.T) {
	b := file(t,
		instChunk(0, "Part", 0),
		instChunk(0, "Model", 1),
		propChunk(t, 0, "Name", value.String("named")),
	)
	cases := []struct {
		policy DuplicatePolicy
		named  dom.ID
	}{
		{KeepLast, 1},
		{KeepFirst, 0},
	}
	for _, c := range cases {
		res := decode(t, b, WithDuplicateTypes(c.policy))
		if !res.Diagnostics.Has(DuplicateTypeID) {
			t.Errorf("%s: no diagnostic", c.policy)
		}
		if n := res.Tree.Get(c.named).Name(); n != "named" {
			t.Errorf("%s: instance %d has name %q", c.policy, c.named, n)
		}
		if res.Tree.Len() != 2 {
			t.Errorf("%s: got %d instances", c.policy, res.Tree.Len())
		}
	}
	_, err := DecodeBytes(b, WithLogger(quiet), WithDuplicateTypes(RejectDuplicates))
	if !errors.Is(err, ErrDuplicateType) {
		t.Fatalf("got %v", err)
	}
}

func TestUnknownValueType(t *testing.T) {
	h := &PropHeader{TypeID: 0, Name: "CFrame", Type: value.CFrameType}
	opaque := []byte{2, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	b := file(t,
		instChunk(0, "Part", 0, 1),
		chunk.Raw(chunk.Prop, append(h.AppendTo(nil), opaque...)),
		propChunk(t, 0, "Name", value.String("a"), value.String("b")),
	)
	res := decode(t, b)
	if !res.Diagnostics.Has(UnknownType) {
		t.Fatalf("got %v", res.Diagnostics.List)
	}
	want := []dom.Opaque{{Class: "Part", Prop: "CFrame", Type: value.CFrameType, Count: 2, IDs: []dom.ID{0, 1}, Data: opaque}}
	if diff := cmp.Diff(want, res.Tree.Opaque); diff != "" {
		t.Fatal(diff)
	}
	out, err := EncodeBytes(res.Tree)
	if err != nil {
		t.Fatal(err)
	}
	again := decode(t, out)
	if diff := cmp.Diff(want, again.Tree.Opaque); diff != "" {
		t.Error(diff)
	}

	// an instance count change makes the opaque array unusable
	dom.MustAdd(res.Tree, "Part", dom.None)
	out, err = EncodeBytes(res.Tree, WithEncodeLogger(quiet))
	if err != nil {
		t.Fatal(err)
	}
	if again := decode(t, out); len(again.Tree.Opaque) != 0 {
		t.Errorf("got %v", again.Tree.Opaque)
	}
}

func TestOpaqueFollowsInstances(t *testing.T) {
	// Part 0 moves under the Model, so a depth first walk visits Part 1
	// first; the opaque column must stay with its instances.
	h := &PropHeader{TypeID: 0, Name: "Flags", Type: value.Type(0x30)}
	b := file(t,
		instChunk(0, "Part", 0, 1),
		instChunk(1, "Model", 2),
		chunk.Raw(chunk.Prop, append(h.AppendTo(nil), 0xaa, 0xbb)),
		propChunk(t, 0, "Name", value.String("a"), value.String("b")),
		prntChunk([]int32{0, 1, 2}, []int32{2, -1, -1}),
	)
	owners := func(res *Result) map[string]byte {
		t.Helper()
		if len(res.Tree.Opaque) != 1 {
			t.Fatalf("got %v", res.Tree.Opaque)
		}
		o := res.Tree.Opaque[0]
		got := map[string]byte{}
		for i, id := range o.IDs {
			got[res.Tree.Get(id).Name()] = o.Data[i]
		}
		return got
	}
	res := decode(t, b)
	want := map[string]byte{"a": 0xaa, "b": 0xbb}
	if diff := cmp.Diff(want, owners(res)); diff != "" {
		t.Fatal(diff)
	}
	out, err := EncodeBytes(res.Tree)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, owners(decode(t, out))); diff != "" {
		t.Error(diff)
	}

	// same count, different instances
	tree := decode(t, b).Tree
	tree.Get(0).Class = "Model"
	if _, err := tree.Add("Part", dom.None); err != nil {
		t.Fatal(err)
	}
	out, err = EncodeBytes(tree, WithEncodeLogger(quiet))
	if err != nil {
		t.Fatal(err)
	}
	if again := decode(t, out); len(again.Tree.Opaque) != 0 {
		t.Errorf("got %v", again.Tree.Opaque)
	}
}

func TestRefs(t *testing.T) {
	b := file(t,
		instChunk(0, "ObjectValue", 0, 1, 2),
		propChunk(t, 0, "Value", value.Ref(2), value.Ref(-1), value.Ref(40)),
		prntChunk([]int32{2, 0, 1}, []int32{-1, 2, 2}),
	)
	res := decode(t, b)
	tree := res.Tree
	if got := tree.Get(0).Props["Value"]; got != value.Ref(2) {
		t.Errorf("got %v", got)
	}
	if got := tree.Get(1).Props["Value"]; got != value.NoRef {
		t.Errorf("got %v", got)
	}
	if got := tree.Get(2).Props["Value"]; got != value.NoRef {
		t.Errorf("got %v", got)
	}
	if ds := res.Diagnostics.Of(DanglingRef); len(ds) != 1 {
		t.Errorf("got %v", res.Diagnostics.List)
	}
	if diff := cmp.Diff([]dom.ID{2}, tree.Roots()); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]dom.ID{0, 1}, tree.Get(2).Children); diff != "" {
		t.Error(diff)
	}
}

func TestService(t *testing.T) {
	d := &InstDecl{TypeID: 0, Class: "Lighting", ObjectFormat: ObjectFormatService, Referents: []int32{0}, Markers: []uint8{1}}
	res := decode(t, file(t, chunk.Raw(chunk.Inst, d.AppendTo(nil))))
	if !res.Tree.Get(0).Service {
		t.Fatal("expected a service")
	}
	out, err := EncodeBytes(res.Tree)
	if err != nil {
		t.Fatal(err)
	}
	if !decode(t, out).Tree.Get(0).Service {
		t.Error("service flag lost")
	}
}

func TestMixedPropertyTypes(t *testing.T) {
	tree := dom.New()
	tree.Get(dom.MustAdd(tree, "Part", dom.None)).Props["X"] = value.Int32(1)
	tree.Get(dom.MustAdd(tree, "Part", dom.None)).Props["X"] = value.String("1")
	if _, err := EncodeBytes(tree); !errors.Is(err, ErrPropertyType) {
		t.Fatalf("got %v", err)
	}
}

func TestMissingValuesFilled(t *testing.T) {
	tree := dom.New()
	tree.Get(dom.MustAdd(tree, "Part", dom.None)).Props["Size"] = value.Vector3{X: 1, Y: 2, Z: 3}
	dom.MustAdd(tree, "Part", dom.None)
	res := decode(t, mustEncode(t, tree))
	if got := res.Tree.Get(1).Props["Size"]; got != (value.Vector3{}) {
		t.Errorf("got %v", got)
	}
}

func mustEncode(t *testing.T, tree *dom.Tree, opts ...EncodeOption) []byte {
	t.Helper()
	b, err := EncodeBytes(tree, append([]EncodeOption{WithEncodeLogger(quiet)}, opts...)...)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

const testSchema = `
name: codec-test
classes:
  Instance:
    properties:
      Name: {type: String, default: Instance}
  BasePart:
    superclass: Instance
    properties:
      Size: {type: Vector3, default: {x: 4, y: 1, z: 2}}
      size: {aliasFor: Size}
      Color: {type: Color3, serializesAs: Color3uint8, serializedType: Color3uint8}
      Locked: {type: Bool, serialization: doesNotSerialize}
      Count: {type: Int64}
  Part:
    superclass: BasePart
`

func loadSchema(t *testing.T) *schema.Database {
	t.Helper()
	db, err := schema.Parse([]byte(testSchema), format.YAMLFormat)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSchemaDecode(t *testing.T) {
	db := loadSchema(t)
	b := file(t,
		instChunk(0, "Part", 0),
		propChunk(t, 0, "size", value.Vector3{X: 1, Y: 1, Z: 1}),
		propChunk(t, 0, "Color3uint8", value.Color3uint8{R: 255, G: 0, B: 51}),
		propChunk(t, 0, "Locked", value.Bool(true)),
		propChunk(t, 0, "Mystery", value.Int32(7)),
		propChunk(t, 0, "Count", value.Int32(12)),
		propChunk(t, 0, "Name", value.Int32(3)),
	)
	res := decode(t, b, WithSchema(db))
	props := res.Tree.Get(0).Props
	want := map[string]value.Value{
		"Size":    value.Vector3{X: 1, Y: 1, Z: 1},
		"Color":   value.Color3{R: 1, G: 0, B: 0.2},
		"Locked":  value.Bool(true),
		"Mystery": value.Int32(7),
		"Count":   value.Int64(12),
	}
	if diff := cmp.Diff(want, props); diff != "" {
		t.Errorf("props (-want +got):\n%s", diff)
	}
	var mismatched []string
	for _, d := range res.Diagnostics.Of(SchemaMismatch) {
		mismatched = append(mismatched, d.Property)
	}
	if diff := cmp.Diff([]string{"size", "Locked", "Mystery"}, mismatched); diff != "" {
		t.Errorf("schema diagnostics: %s", diff)
	}
	if ds := res.Diagnostics.Of(ConversionFailed); len(ds) != 1 || ds[0].Property != "Name" {
		t.Errorf("got %v", res.Diagnostics.List)
	}
}

func TestSchemaEncode(t *testing.T) {
	db := loadSchema(t)
	tree := dom.New()
	p := tree.Get(dom.MustAdd(tree, "Part", dom.None))
	p.Props["Color"] = value.Color3{R: 1, G: 0, B: 0.2}
	p.Props["Locked"] = value.Bool(true)
	p.Props["Count"] = value.Int32(5)
	other := tree.Get(dom.MustAdd(tree, "Part", dom.None))
	other.Props["Size"] = value.Vector3{X: 9}
	other.Props["Count"] = value.Int64(6)
	other.Props["Color"] = value.Color3{}
	b := mustEncode(t, tree, WithEncodeSchema(db))

	plain := decode(t, b)
	got := plain.Tree.Get(0).Props
	want := map[string]value.Value{
		"Color3uint8": value.Color3uint8{R: 255, G: 0, B: 51},
		"Count":       value.Int64(5),
		"Size":        value.Vector3{X: 4, Y: 1, Z: 2},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stored props (-want +got):\n%s", diff)
	}

	withSchema := decode(t, b, WithSchema(db))
	if c := withSchema.Tree.Get(0).Props["Color"]; c != (value.Color3{R: 1, G: 0, B: 0.2}) {
		t.Errorf("got %v", c)
	}
	if withSchema.Diagnostics.Len() != 0 {
		t.Errorf("unexpected diagnostics %v", withSchema.Diagnostics.List)
	}
}

func TestDiagKindText(t *testing.T) {
	for k := UnknownChunk; k <= ConversionFailed; k++ {
		d, err := k.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got DiagKind
		if err := got.UnmarshalText(d); err != nil {
			t.Fatal(err)
		}
		if got != k {
			t.Errorf("got %s want %s", got, k)
		}
	}
	var p DuplicatePolicy
	if err := p.UnmarshalText([]byte("first")); err != nil || p != KeepFirst {
		t.Errorf("got %s %v", p, err)
	}
}
