package schema

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/signadot/rbxbin/format"
	"github.com/signadot/rbxbin/value"
)

type Serialization int

const (
	Serializes Serialization = iota
	DoesNotSerialize
	SerializesAs
)

func (s Serialization) String() string {
	d, _ := s.MarshalText()
	return string(d)
}

func (s Serialization) MarshalText() ([]byte, error) {
	switch s {
	case Serializes:
		return []byte("serializes"), nil
	case DoesNotSerialize:
		return []byte("doesNotSerialize"), nil
	case SerializesAs:
		return []byte("serializesAs"), nil
	default:
		return nil, fmt.Errorf("%w: serialization %d", ErrBadSchema, int(s))
	}
}

func (s *Serialization) UnmarshalText(d []byte) error {
	ss, ok := map[string]Serialization{
		"serializes":       Serializes,
		"doesNotSerialize": DoesNotSerialize,
		"serializesAs":     SerializesAs,
	}[string(d)]
	if !ok {
		return fmt.Errorf("%w: unrecognized serialization %q", ErrBadSchema, d)
	}
	*s = ss
	return nil
}

type Property struct {
	Name string `json:"-"`
	// AliasFor names the canonical property in the same class.
	AliasFor      string        `json:"aliasFor,omitempty"`
	Serialization Serialization `json:"serialization,omitempty"`
	// SerializesAs is the name stored in files, implying
	// Serialization == SerializesAs.
	SerializesAs   string          `json:"serializesAs,omitempty"`
	Type           value.Type      `json:"type,omitempty"`
	SerializedType value.Type      `json:"serializedType,omitempty"`
	Default        json.RawMessage `json:"default,omitempty"`
}

// StoredName is the name the property is written under.
func (p *Property) StoredName() string {
	if p.Serialization == SerializesAs && p.SerializesAs != "" {
		return p.SerializesAs
	}
	return p.Name
}

// StoredType is the value type the property is written as, or UnknownType
// when the table does not say.
func (p *Property) StoredType() value.Type {
	if p.SerializedType != value.UnknownType {
		return p.SerializedType
	}
	return p.Type
}

// DefaultValue parses Default as a value of the property's type. It returns
// nil without error when there is no default.
func (p *Property) DefaultValue() (value.Value, error) {
	if len(p.Default) == 0 || p.Type == value.UnknownType {
		return nil, nil
	}
	return value.FromJSON(p.Type, p.Default)
}

type Class struct {
	Name       string               `json:"-"`
	Superclass string               `json:"superclass,omitempty"`
	Properties map[string]*Property `json:"properties,omitempty"`
}

type Database struct {
	Name    string            `json:"name,omitempty"`
	Version string            `json:"version,omitempty"`
	Classes map[string]*Class `json:"classes"`

	// stored maps class then stored name to the canonical property.
	stored map[string]map[string]*Property
}

// Load reads a database in YAML or JSON.
func Load(r io.Reader, f format.Format) (*Database, error) {
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(d, f)
}

func Parse(d []byte, f format.Format) (*Database, error) {
	if f.IsYAML() {
		j, err := yaml.YAMLToJSON(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBadSchema, err)
		}
		d = j
	}
	db := &Database{}
	if err := json.Unmarshal(d, db); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSchema, err)
	}
	if err := db.init(); err != nil {
		return nil, err
	}
	return db, nil
}

// New builds a database from classes keyed by name.
func New(name string, classes map[string]*Class) (*Database, error) {
	db := &Database{Name: name, Classes: classes}
	if err := db.init(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *Database) init() error {
	if db.Classes == nil {
		db.Classes = map[string]*Class{}
	}
	db.stored = make(map[string]map[string]*Property, len(db.Classes))
	for cn, c := range db.Classes {
		if c == nil {
			return fmt.Errorf("%w: class %q is empty", ErrBadSchema, cn)
		}
		c.Name = cn
		if c.Superclass != "" && db.Classes[c.Superclass] == nil {
			return fmt.Errorf("%w: %s has unknown superclass %q", ErrNoSuchClass, cn, c.Superclass)
		}
		stored := map[string]*Property{}
		for pn, p := range c.Properties {
			if p == nil {
				return fmt.Errorf("%w: property %s.%s is empty", ErrBadSchema, cn, pn)
			}
			p.Name = pn
			if p.SerializesAs != "" {
				p.Serialization = SerializesAs
			}
		}
		for pn, p := range c.Properties {
			if p.AliasFor == "" {
				stored[p.StoredName()] = p
				continue
			}
			if target := c.Properties[p.AliasFor]; target == nil || target.AliasFor != "" {
				return fmt.Errorf("%w: %s.%s aliases %q which is not canonical", ErrBadSchema, cn, pn, p.AliasFor)
			}
		}
		for pn, p := range c.Properties {
			if _, err := p.DefaultValue(); err != nil {
				return fmt.Errorf("%w: default of %s.%s: %w", ErrBadSchema, cn, pn, err)
			}
		}
		db.stored[cn] = stored
	}
	for cn := range db.Classes {
		if _, err := db.chain(cn); err != nil {
			return err
		}
	}
	return nil
}

func (db *Database) chain(class string) ([]*Class, error) {
	var res []*Class
	seen := map[string]bool{}
	for cn := class; cn != ""; {
		if seen[cn] {
			return nil, fmt.Errorf("%w: at %s", ErrSuperclassCycle, cn)
		}
		seen[cn] = true
		c := db.Classes[cn]
		if c == nil {
			break
		}
		res = append(res, c)
		cn = c.Superclass
	}
	return res, nil
}

// Descriptor is the result of a property lookup: the property named in the
// query and the canonical property it stands for, which may be the same.
type Descriptor struct {
	Class     string
	Input     *Property
	Canonical *Property
}

// Lookup finds the property prop of class, walking superclasses. Class is
// the class that declares the property.
func (db *Database) Lookup(class, prop string) *Descriptor {
	if db == nil {
		return nil
	}
	cs, _ := db.chain(class)
	for _, c := range cs {
		p := c.Properties[prop]
		if p == nil {
			continue
		}
		d := &Descriptor{Class: c.Name, Input: p, Canonical: p}
		if p.AliasFor != "" {
			d.Canonical = c.Properties[p.AliasFor]
		}
		return d
	}
	return nil
}

// LookupStored finds the canonical property of class stored under name in
// files. It handles properties that serialize under a different name.
func (db *Database) LookupStored(class, name string) *Descriptor {
	if db == nil {
		return nil
	}
	cs, _ := db.chain(class)
	for _, c := range cs {
		if p := db.stored[c.Name][name]; p != nil {
			return &Descriptor{Class: c.Name, Input: p, Canonical: p}
		}
	}
	return db.Lookup(class, name)
}

// HasClass reports whether class is described.
func (db *Database) HasClass(class string) bool {
	return db != nil && db.Classes[class] != nil
}

// Default returns the default value of prop on class, or nil.
func (db *Database) Default(class, prop string) value.Value {
	d := db.Lookup(class, prop)
	if d == nil {
		return nil
	}
	v, err := d.Canonical.DefaultValue()
	if err != nil {
		return nil
	}
	return v
}
