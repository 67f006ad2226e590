package value

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/signadot/rbxbin/plane"
)

func as[T Value](vs []Value, t Type) ([]T, error) {
	out := make([]T, len(vs))
	for i, v := range vs {
		x, ok := v.(T)
		if !ok {
			return nil, mismatch(i, v, t)
		}
		out[i] = x
	}
	return out, nil
}

// Encode appends the array encoding of vs, which must all be of type t.
func Encode(dst []byte, t Type, vs []Value) ([]byte, error) {
	if !t.Supported() {
		return dst, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	switch t {
	case StringType:
		xs, err := as[String](vs, t)
		if err != nil {
			return dst, err
		}
		for _, s := range xs {
			dst = AppendBytes(dst, s)
		}

	case BoolType:
		xs, err := as[Bool](vs, t)
		if err != nil {
			return dst, err
		}
		for _, b := range xs {
			if b {
				dst = append(dst, 1)
			} else {
				dst = append(dst, 0)
			}
		}

	case FacesType:
		xs, err := as[Faces](vs, t)
		if err != nil {
			return dst, err
		}
		for _, x := range xs {
			dst = append(dst, byte(x))
		}

	case AxesType:
		xs, err := as[Axes](vs, t)
		if err != nil {
			return dst, err
		}
		for _, x := range xs {
			dst = append(dst, byte(x))
		}

	case Int32Type:
		xs, err := as[Int32](vs, t)
		if err != nil {
			return dst, err
		}
		dst = plane.AppendInt32s(dst, mapSlice(xs, func(x Int32) int32 { return int32(x) }))

	case Float32Type:
		xs, err := as[Float32](vs, t)
		if err != nil {
			return dst, err
		}
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Float32) float32 { return float32(x) }))

	case Float64Type:
		xs, err := as[Float64](vs, t)
		if err != nil {
			return dst, err
		}
		for _, x := range xs {
			dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(float64(x)))
		}

	case Int64Type:
		xs, err := as[Int64](vs, t)
		if err != nil {
			return dst, err
		}
		dst = plane.AppendInt64s(dst, mapSlice(xs, func(x Int64) int64 { return int64(x) }))

	case EnumType:
		xs, err := as[Enum](vs, t)
		if err != nil {
			return dst, err
		}
		dst = plane.AppendUint32s(dst, mapSlice(xs, func(x Enum) uint32 { return uint32(x) }))

	case BrickColorType:
		xs, err := as[BrickColor](vs, t)
		if err != nil {
			return dst, err
		}
		dst = plane.AppendUint32s(dst, mapSlice(xs, func(x BrickColor) uint32 { return uint32(x) }))

	case RefType:
		xs, err := as[Ref](vs, t)
		if err != nil {
			return dst, err
		}
		dst = plane.AppendReferents(dst, mapSlice(xs, func(x Ref) int32 { return int32(x) }))

	case UDimType:
		xs, err := as[UDim](vs, t)
		if err != nil {
			return dst, err
		}
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x UDim) float32 { return x.Scale }))
		dst = plane.AppendInt32s(dst, mapSlice(xs, func(x UDim) int32 { return x.Offset }))

	case UDim2Type:
		xs, err := as[UDim2](vs, t)
		if err != nil {
			return dst, err
		}
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x UDim2) float32 { return x.X.Scale }))
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x UDim2) float32 { return x.Y.Scale }))
		dst = plane.AppendInt32s(dst, mapSlice(xs, func(x UDim2) int32 { return x.X.Offset }))
		dst = plane.AppendInt32s(dst, mapSlice(xs, func(x UDim2) int32 { return x.Y.Offset }))

	case Color3Type:
		xs, err := as[Color3](vs, t)
		if err != nil {
			return dst, err
		}
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Color3) float32 { return x.R }))
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Color3) float32 { return x.G }))
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Color3) float32 { return x.B }))

	case Vector2Type:
		xs, err := as[Vector2](vs, t)
		if err != nil {
			return dst, err
		}
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Vector2) float32 { return x.X }))
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Vector2) float32 { return x.Y }))

	case Vector3Type:
		xs, err := as[Vector3](vs, t)
		if err != nil {
			return dst, err
		}
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Vector3) float32 { return x.X }))
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Vector3) float32 { return x.Y }))
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Vector3) float32 { return x.Z }))

	case RectType:
		xs, err := as[Rect](vs, t)
		if err != nil {
			return dst, err
		}
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Rect) float32 { return x.Min.X }))
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Rect) float32 { return x.Min.Y }))
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Rect) float32 { return x.Max.X }))
		dst = plane.AppendFloat32s(dst, mapSlice(xs, func(x Rect) float32 { return x.Max.Y }))

	case Color3uint8Type:
		xs, err := as[Color3uint8](vs, t)
		if err != nil {
			return dst, err
		}
		for _, x := range xs {
			dst = append(dst, x.R)
		}
		for _, x := range xs {
			dst = append(dst, x.G)
		}
		for _, x := range xs {
			dst = append(dst, x.B)
		}

	case RayType:
		xs, err := as[Ray](vs, t)
		if err != nil {
			return dst, err
		}
		for _, x := range xs {
			dst = appendLEFloats(dst, x.Origin.X, x.Origin.Y, x.Origin.Z,
				x.Direction.X, x.Direction.Y, x.Direction.Z)
		}

	case Vector3int16Type:
		xs, err := as[Vector3int16](vs, t)
		if err != nil {
			return dst, err
		}
		for _, x := range xs {
			dst = binary.LittleEndian.AppendUint16(dst, uint16(x.X))
			dst = binary.LittleEndian.AppendUint16(dst, uint16(x.Y))
			dst = binary.LittleEndian.AppendUint16(dst, uint16(x.Z))
		}

	case NumberRangeType:
		xs, err := as[NumberRange](vs, t)
		if err != nil {
			return dst, err
		}
		for _, x := range xs {
			dst = appendLEFloats(dst, x.Min, x.Max)
		}
	}
	return dst, nil
}

func mapSlice[T, U any](xs []T, f func(T) U) []U {
	res := make([]U, len(xs))
	for i, x := range xs {
		res[i] = f(x)
	}
	return res
}

func appendLEFloats(dst []byte, fs ...float32) []byte {
	for _, f := range fs {
		dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
	}
	return dst
}

// Equal reports whether a and b have the same type and encode to the same
// bytes. Floats are compared bit for bit, so a NaN equals itself.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}
	ea, erra := Encode(nil, a.Type(), []Value{a})
	eb, errb := Encode(nil, b.Type(), []Value{b})
	if erra != nil || errb != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}
