package value

import (
	"fmt"
	"math"
)

// Convert returns v as a value of type want. Only lossless or conventional
// conversions are allowed; anything else fails with ErrConvert.
func Convert(v Value, want Type) (Value, error) {
	have := TypeOf(v)
	if have == want {
		return v, nil
	}
	switch x := v.(type) {
	case Int32:
		switch want {
		case Int64Type:
			return Int64(x), nil
		case EnumType:
			if x >= 0 {
				return Enum(x), nil
			}
		case Float64Type:
			return Float64(x), nil
		}
	case Int64:
		switch want {
		case Int32Type:
			if x >= math.MinInt32 && x <= math.MaxInt32 {
				return Int32(x), nil
			}
		}
	case Enum:
		switch want {
		case Int32Type:
			if x <= math.MaxInt32 {
				return Int32(x), nil
			}
		case Int64Type:
			return Int64(x), nil
		}
	case Float32:
		if want == Float64Type {
			return Float64(x), nil
		}
	case Float64:
		if want == Float32Type {
			return Float32(x), nil
		}
	case Color3uint8:
		if want == Color3Type {
			return Color3{
				R: float32(x.R) / 255,
				G: float32(x.G) / 255,
				B: float32(x.B) / 255,
			}, nil
		}
	case Color3:
		if want == Color3uint8Type {
			return Color3uint8{R: toByte(x.R), G: toByte(x.G), B: toByte(x.B)}, nil
		}
	case BrickColor:
		if want == Int64Type {
			return Int64(x), nil
		}
	}
	return nil, fmt.Errorf("%w: %s to %s", ErrConvert, have, want)
}

func toByte(f float32) uint8 {
	if f != f || f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(math.Round(float64(f) * 255))
}
