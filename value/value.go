package value

import "unicode/utf8"

// Value is one property value. The set of implementations is closed: it is
// exactly the types declared in this file.
type Value interface {
	Type() Type
	isValue()
}

// String is a length prefixed byte string. It is usually, but not always,
// UTF-8 text.
type String []byte

// Bool, Int32, Float32, Float64 and Int64 are plain scalars.
type (
	Bool    bool
	Int32   int32
	Float32 float32
	Float64 float64
	Int64   int64
)

// Faces and Axes are bitsets of cube faces and axes.
type (
	Faces uint8
	Axes  uint8
)

type BrickColor uint32

type Enum uint32

// Ref refers to another instance. Inside a file it holds a referent; in a
// decoded tree it holds an instance id. NoRef means none in both.
type Ref int32

const NoRef Ref = -1

type UDim struct {
	Scale  float32
	Offset int32
}

type UDim2 struct {
	X, Y UDim
}

type Vector2 struct {
	X, Y float32
}

type Vector3 struct {
	X, Y, Z float32
}

type Ray struct {
	Origin, Direction Vector3
}

type Color3 struct {
	R, G, B float32
}

type Color3uint8 struct {
	R, G, B uint8
}

type Vector3int16 struct {
	X, Y, Z int16
}

type NumberRange struct {
	Min, Max float32
}

type Rect struct {
	Min, Max Vector2
}

// Valid reports whether s is valid UTF-8.
func (s String) Valid() bool { return utf8.Valid(s) }

func (String) Type() Type       { return StringType }
func (Bool) Type() Type         { return BoolType }
func (Int32) Type() Type        { return Int32Type }
func (Float32) Type() Type      { return Float32Type }
func (Float64) Type() Type      { return Float64Type }
func (UDim) Type() Type         { return UDimType }
func (UDim2) Type() Type        { return UDim2Type }
func (Ray) Type() Type          { return RayType }
func (Faces) Type() Type        { return FacesType }
func (Axes) Type() Type         { return AxesType }
func (BrickColor) Type() Type   { return BrickColorType }
func (Color3) Type() Type       { return Color3Type }
func (Vector2) Type() Type      { return Vector2Type }
func (Vector3) Type() Type      { return Vector3Type }
func (Enum) Type() Type         { return EnumType }
func (Ref) Type() Type          { return RefType }
func (Vector3int16) Type() Type { return Vector3int16Type }
func (NumberRange) Type() Type  { return NumberRangeType }
func (Rect) Type() Type         { return RectType }
func (Color3uint8) Type() Type  { return Color3uint8Type }
func (Int64) Type() Type        { return Int64Type }

func (String) isValue()       {}
func (Bool) isValue()         {}
func (Int32) isValue()        {}
func (Float32) isValue()      {}
func (Float64) isValue()      {}
func (UDim) isValue()         {}
func (UDim2) isValue()        {}
func (Ray) isValue()          {}
func (Faces) isValue()        {}
func (Axes) isValue()         {}
func (BrickColor) isValue()   {}
func (Color3) isValue()       {}
func (Vector2) isValue()      {}
func (Vector3) isValue()      {}
func (Enum) isValue()         {}
func (Ref) isValue()          {}
func (Vector3int16) isValue() {}
func (NumberRange) isValue()  {}
func (Rect) isValue()         {}
func (Color3uint8) isValue()  {}
func (Int64) isValue()        {}

// TypeOf is v.Type(), or UnknownType for a nil value.
func TypeOf(v Value) Type {
	if v == nil {
		return UnknownType
	}
	return v.Type()
}

// Zero returns the zero value of t, or nil when t is not supported.
func Zero(t Type) Value {
	switch t {
	case StringType:
		return String{}
	case BoolType:
		return Bool(false)
	case Int32Type:
		return Int32(0)
	case Float32Type:
		return Float32(0)
	case Float64Type:
		return Float64(0)
	case UDimType:
		return UDim{}
	case UDim2Type:
		return UDim2{}
	case RayType:
		return Ray{}
	case FacesType:
		return Faces(0)
	case AxesType:
		return Axes(0)
	case BrickColorType:
		return BrickColor(0)
	case Color3Type:
		return Color3{}
	case Vector2Type:
		return Vector2{}
	case Vector3Type:
		return Vector3{}
	case EnumType:
		return Enum(0)
	case RefType:
		return NoRef
	case Vector3int16Type:
		return Vector3int16{}
	case NumberRangeType:
		return NumberRange{}
	case RectType:
		return Rect{}
	case Color3uint8Type:
		return Color3uint8{}
	case Int64Type:
		return Int64(0)
	default:
		return nil
	}
}
