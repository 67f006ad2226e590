package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the one byte tag identifying a property array's value type.
type Type uint8

const (
	UnknownType            Type = 0x00
	StringType             Type = 0x01
	BoolType               Type = 0x02
	Int32Type              Type = 0x03
	Float32Type            Type = 0x04
	Float64Type            Type = 0x05
	UDimType               Type = 0x06
	UDim2Type              Type = 0x07
	RayType                Type = 0x08
	FacesType              Type = 0x09
	AxesType               Type = 0x0A
	BrickColorType         Type = 0x0B
	Color3Type             Type = 0x0C
	Vector2Type            Type = 0x0D
	Vector3Type            Type = 0x0E
	CFrameType             Type = 0x10
	EnumType               Type = 0x12
	RefType                Type = 0x13
	Vector3int16Type       Type = 0x14
	NumberSequenceType     Type = 0x15
	ColorSequenceType      Type = 0x16
	NumberRangeType        Type = 0x17
	RectType               Type = 0x18
	PhysicalPropertiesType Type = 0x19
	Color3uint8Type        Type = 0x1A
	Int64Type              Type = 0x1B
	SharedStringType       Type = 0x1C
)

var typeNames = map[Type]string{
	StringType:             "String",
	BoolType:               "Bool",
	Int32Type:              "Int32",
	Float32Type:            "Float32",
	Float64Type:            "Float64",
	UDimType:               "UDim",
	UDim2Type:              "UDim2",
	RayType:                "Ray",
	FacesType:              "Faces",
	AxesType:               "Axes",
	BrickColorType:         "BrickColor",
	Color3Type:             "Color3",
	Vector2Type:            "Vector2",
	Vector3Type:            "Vector3",
	CFrameType:             "CFrame",
	EnumType:               "Enum",
	RefType:                "Ref",
	Vector3int16Type:       "Vector3int16",
	NumberSequenceType:     "NumberSequence",
	ColorSequenceType:      "ColorSequence",
	NumberRangeType:        "NumberRange",
	RectType:               "Rect",
	PhysicalPropertiesType: "PhysicalProperties",
	Color3uint8Type:        "Color3uint8",
	Int64Type:              "Int64",
	SharedStringType:       "SharedString",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, n := range typeNames {
		m[n] = t
	}
	return m
}()

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(0x%02x)", uint8(t))
}

// Supported reports whether arrays of t can be decoded and encoded. Named
// types outside this set are recognized but kept as opaque bytes.
func (t Type) Supported() bool {
	switch t {
	case StringType, BoolType, Int32Type, Float32Type, Float64Type,
		UDimType, UDim2Type, RayType, FacesType, AxesType, BrickColorType,
		Color3Type, Vector2Type, Vector3Type, EnumType, RefType,
		Vector3int16Type, NumberRangeType, RectType, Color3uint8Type, Int64Type:
		return true
	default:
		return false
	}
}

func (t Type) MarshalText() ([]byte, error) {
	if s, ok := typeNames[t]; ok {
		return []byte(s), nil
	}
	return []byte(fmt.Sprintf("0x%02x", uint8(t))), nil
}

func (t *Type) UnmarshalText(d []byte) error {
	tt, err := ParseType(string(d))
	if err != nil {
		return err
	}
	*t = tt
	return nil
}

// ParseType accepts a type name or a hexadecimal tag such as 0x1d.
func ParseType(s string) (Type, error) {
	if t, ok := typesByName[s]; ok {
		return t, nil
	}
	if strings.HasPrefix(s, "0x") {
		n, err := strconv.ParseUint(s[2:], 16, 8)
		if err == nil {
			return Type(n), nil
		}
	}
	return UnknownType, fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Types returns the supported types in tag order.
func Types() []Type {
	var res []Type
	for t := Type(0); t < 0x40; t++ {
		if t.Supported() {
			res = append(res, t)
		}
	}
	return res
}
