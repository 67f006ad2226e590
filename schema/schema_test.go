package schema

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/rbxbin/format"
	"github.com/signadot/rbxbin/value"
)

const testDB = `
name: test
version: "1"
classes:
  Instance:
    properties:
      Name: {type: String, default: Instance}
      Archivable: {type: Bool, default: true}
  BasePart:
    superclass: Instance
    properties:
      Size: {type: Vector3, default: {x: 4, y: 1, z: 2}}
      size: {aliasFor: Size}
      Color: {type: Color3, serializesAs: Color3uint8, serializedType: Color3uint8}
      Locked: {type: Bool, serialization: doesNotSerialize}
  Part:
    superclass: BasePart
    properties:
      Shape: {type: Enum, default: 1}
`

func loadTest(t *testing.T) *Database {
	t.Helper()
	db, err := Load(strings.NewReader(testDB), format.YAMLFormat)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func TestLoadYAML(t *testing.T) {
	db := loadTest(t)
	if db.Name != "test" || db.Version != "1" {
		t.Errorf("got %q %q", db.Name, db.Version)
	}
	if len(db.Classes) != 3 {
		t.Fatalf("got %d classes", len(db.Classes))
	}
	c := db.Classes["BasePart"]
	if c.Name != "BasePart" || c.Superclass != "Instance" {
		t.Errorf("got %+v", c)
	}
	p := c.Properties["Color"]
	if p.Serialization != SerializesAs || p.StoredName() != "Color3uint8" {
		t.Errorf("got %v %s", p.Serialization, p.StoredName())
	}
	if p.Type != value.Color3Type || p.StoredType() != value.Color3uint8Type {
		t.Errorf("got %s %s", p.Type, p.StoredType())
	}
	if s := c.Properties["Locked"].Serialization; s != DoesNotSerialize {
		t.Errorf("got %s", s)
	}
}

func TestLoadJSON(t *testing.T) {
	in := `{"name": "j", "classes": {"Folder": {"properties": {"Name": {"type": "String"}}}}}`
	db, err := Load(strings.NewReader(in), format.JSONFormat)
	if err != nil {
		t.Fatal(err)
	}
	if !db.HasClass("Folder") || db.HasClass("Part") {
		t.Errorf("unexpected classes %v", db.Classes)
	}
}

func TestLookup(t *testing.T) {
	db := loadTest(t)
	d := db.Lookup("Part", "Name")
	if d == nil || d.Class != "Instance" || d.Canonical.Name != "Name" {
		t.Fatalf("got %+v", d)
	}
	d = db.Lookup("Part", "size")
	if d == nil || d.Input.Name != "size" || d.Canonical.Name != "Size" || d.Class != "BasePart" {
		t.Fatalf("got %+v", d)
	}
	if d := db.Lookup("Part", "Nope"); d != nil {
		t.Errorf("expected nil, got %+v", d)
	}
	if d := db.Lookup("Unknown", "Name"); d != nil {
		t.Errorf("expected nil, got %+v", d)
	}
	d = db.LookupStored("Part", "Color3uint8")
	if d == nil || d.Canonical.Name != "Color" {
		t.Fatalf("got %+v", d)
	}
	var nilDB *Database
	if d := nilDB.Lookup("Part", "Name"); d != nil {
		t.Errorf("nil database lookup: %+v", d)
	}
}

func TestDefault(t *testing.T) {
	db := loadTest(t)
	cases := []struct {
		class, prop string
		want        value.Value
	}{
		{"Part", "Name", value.String("Instance")},
		{"Part", "Archivable", value.Bool(true)},
		{"Part", "Size", value.Vector3{X: 4, Y: 1, Z: 2}},
		{"Part", "size", value.Vector3{X: 4, Y: 1, Z: 2}},
		{"Part", "Shape", value.Enum(1)},
		{"Part", "Color", nil},
	}
	for _, c := range cases {
		got := db.Default(c.class, c.prop)
		if diff := cmp.Diff(c.want, got); diff != "" {
			t.Errorf("%s.%s: %s", c.class, c.prop, diff)
		}
	}
}

func TestBadSchema(t *testing.T) {
	cases := map[string]struct {
		in  string
		err error
	}{
		"superclass": {
			in:  "classes: {A: {superclass: B}}",
			err: ErrNoSuchClass,
		},
		"cycle": {
			in:  "classes: {A: {superclass: B}, B: {superclass: A}}",
			err: ErrSuperclassCycle,
		},
		"alias": {
			in:  "classes: {A: {properties: {x: {aliasFor: y}}}}",
			err: ErrBadSchema,
		},
		"default": {
			in:  "classes: {A: {properties: {x: {type: Int32, default: nope}}}}",
			err: ErrBadSchema,
		},
		"serialization": {
			in:  "classes: {A: {properties: {x: {type: Int32, serialization: sometimes}}}}",
			err: ErrBadSchema,
		},
		"yaml": {
			in:  "classes: [",
			err: ErrBadSchema,
		},
	}
	for name, c := range cases {
		_, err := Parse([]byte(c.in), format.YAMLFormat)
		if !errors.Is(err, c.err) {
			t.Errorf("%s: expected %v, got %v", name, c.err, err)
		}
	}
}

func TestSerializationText(t *testing.T) {
	for _, s := range []Serialization{Serializes, DoesNotSerialize, SerializesAs} {
		d, err := s.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var got Serialization
		if err := got.UnmarshalText(d); err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Errorf("got %s want %s", got, s)
		}
	}
}

func TestRegistry(t *testing.T) {
	db := loadTest(t)
	db.Name = "registry-test"
	if err := Register(db); err != nil {
		t.Fatal(err)
	}
	if err := Register(db); err == nil {
		t.Error("expected duplicate registration to fail")
	}
	if Get("registry-test") != db {
		t.Error("lookup failed")
	}
	found := false
	for _, n := range Names() {
		found = found || n == "registry-test"
	}
	if !found {
		t.Error("missing from Names")
	}
	if err := Register(&Database{}); err == nil {
		t.Error("expected unnamed registration to fail")
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "open.yaml")
	src := strings.Replace(testDB, "name: test", "name: open-test", 1)
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if Get("open-test") != db {
		t.Error("opened database was not registered")
	}
	for _, ref := range []string{path, "open-test"} {
		again, err := Open(ref)
		if err != nil {
			t.Fatalf("%s: %v", ref, err)
		}
		if again != db {
			t.Errorf("%s: loaded a second copy", ref)
		}
	}

	// another file claiming the same name
	other := filepath.Join(dir, "other.json")
	j := `{"name": "open-test", "classes": {}}`
	if err := os.WriteFile(other, []byte(j), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(other); err == nil {
		t.Error("expected a name clash")
	}
	if _, err := Open(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
