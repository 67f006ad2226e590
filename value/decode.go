package value

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/signadot/rbxbin/debug"
)

// Decode reads n values of type t from the front of b. It returns the values
// and the number of bytes consumed. Bytes after the last value are left for
// the caller.
func Decode(t Type, b []byte, n int) ([]Value, int, error) {
	c := NewCursor(b)
	vs, err := DecodeFrom(c, t, n)
	return vs, c.Offset(), err
}

// DecodeFrom reads n values of type t at the cursor. On error, including
// ErrUnknownType, nothing is consumed.
func DecodeFrom(c *Cursor, t Type, n int) ([]Value, error) {
	if !t.Supported() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	// every supported type takes at least one byte per value
	if n < 0 || n > c.Len() {
		return nil, fmt.Errorf("%w: %d %s values, %d bytes left", ErrTruncated, n, t, c.Len())
	}
	start := c.off
	vs, err := decode(c, t, n)
	if err != nil {
		c.off = start
		return nil, fmt.Errorf("decoding %d %s values: %w", n, t, err)
	}
	if debug.Values() {
		debug.Logf("decoded %d %s values from %d bytes\n", n, t, c.off-start)
	}
	return vs, nil
}

func decode(c *Cursor, t Type, n int) ([]Value, error) {
	out := make([]Value, n)
	switch t {
	case StringType:
		for i := range out {
			s, err := c.Bytes()
			if err != nil {
				return nil, err
			}
			out[i] = String(append([]byte(nil), s...))
		}

	case BoolType:
		p, err := c.Take(n)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = Bool(p[i] != 0)
		}

	case FacesType, AxesType:
		p, err := c.Take(n)
		if err != nil {
			return nil, err
		}
		for i := range out {
			if t == FacesType {
				out[i] = Faces(p[i])
			} else {
				out[i] = Axes(p[i])
			}
		}

	case Int32Type:
		xs, err := c.Int32s(n)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = Int32(xs[i])
		}

	case Float32Type:
		xs, err := c.Float32s(n)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = Float32(xs[i])
		}

	case Float64Type:
		p, err := c.Take(n * 8)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = Float64(math.Float64frombits(binary.LittleEndian.Uint64(p[i*8:])))
		}

	case Int64Type:
		xs, err := c.Int64s(n)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = Int64(xs[i])
		}

	case EnumType, BrickColorType:
		xs, err := c.Uint32s(n)
		if err != nil {
			return nil, err
		}
		for i := range out {
			if t == EnumType {
				out[i] = Enum(xs[i])
			} else {
				out[i] = BrickColor(xs[i])
			}
		}

	case RefType:
		xs, err := c.Referents(n)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = Ref(xs[i])
		}

	case UDimType:
		lanes, err := floatLanes(c, n, 1)
		if err != nil {
			return nil, err
		}
		offsets, err := c.Int32s(n)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = UDim{Scale: lanes[0][i], Offset: offsets[i]}
		}

	case UDim2Type:
		scales, err := floatLanes(c, n, 2)
		if err != nil {
			return nil, err
		}
		ox, err := c.Int32s(n)
		if err != nil {
			return nil, err
		}
		oy, err := c.Int32s(n)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = UDim2{
				X: UDim{Scale: scales[0][i], Offset: ox[i]},
				Y: UDim{Scale: scales[1][i], Offset: oy[i]},
			}
		}

	case Color3Type:
		l, err := floatLanes(c, n, 3)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = Color3{R: l[0][i], G: l[1][i], B: l[2][i]}
		}

	case Vector2Type:
		l, err := floatLanes(c, n, 2)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = Vector2{X: l[0][i], Y: l[1][i]}
		}

	case Vector3Type:
		l, err := floatLanes(c, n, 3)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = Vector3{X: l[0][i], Y: l[1][i], Z: l[2][i]}
		}

	case RectType:
		l, err := floatLanes(c, n, 4)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = Rect{
				Min: Vector2{X: l[0][i], Y: l[1][i]},
				Max: Vector2{X: l[2][i], Y: l[3][i]},
			}
		}

	case Color3uint8Type:
		p, err := c.Take(n * 3)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] = Color3uint8{R: p[i], G: p[n+i], B: p[2*n+i]}
		}

	case RayType:
		p, err := c.Take(n * 24)
		if err != nil {
			return nil, err
		}
		for i := range out {
			f := leFloats(p[i*24:], 6)
			out[i] = Ray{
				Origin:    Vector3{X: f[0], Y: f[1], Z: f[2]},
				Direction: Vector3{X: f[3], Y: f[4], Z: f[5]},
			}
		}

	case Vector3int16Type:
		p, err := c.Take(n * 6)
		if err != nil {
			return nil, err
		}
		for i := range out {
			q := p[i*6:]
			out[i] = Vector3int16{
				X: int16(binary.LittleEndian.Uint16(q[0:])),
				Y: int16(binary.LittleEndian.Uint16(q[2:])),
				Z: int16(binary.LittleEndian.Uint16(q[4:])),
			}
		}

	case NumberRangeType:
		p, err := c.Take(n * 8)
		if err != nil {
			return nil, err
		}
		for i := range out {
			f := leFloats(p[i*8:], 2)
			out[i] = NumberRange{Min: f[0], Max: f[1]}
		}

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
	}
	return out, nil
}

func floatLanes(c *Cursor, n, lanes int) ([][]float32, error) {
	res := make([][]float32, lanes)
	for i := range res {
		l, err := c.Float32s(n)
		if err != nil {
			return nil, err
		}
		res[i] = l
	}
	return res, nil
}

func leFloats(b []byte, n int) []float32 {
	res := make([]float32, n)
	for i := range res {
		res[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return res
}
