package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ToJSON returns a form of v that encoding/json can marshal and FromJSON can
// read back bit for bit. Floats JSON cannot express are written as the
// strings "NaN", "Infinity" and "-Infinity"; a NaN other than the quiet NaN
// with an empty payload is written with its bits, as in "NaN(0x7fc00001)".
// Strings that are not UTF-8 are written as {"bytes": <base64>}.
func ToJSON(v Value) any {
	switch x := v.(type) {
	case String:
		if utf8.Valid(x) {
			return string(x)
		}
		return map[string]any{"bytes": []byte(x)}
	case Bool:
		return bool(x)
	case Int32:
		return int64(x)
	case Int64:
		return int64(x)
	case Enum:
		return uint64(x)
	case BrickColor:
		return uint64(x)
	case Faces:
		return uint64(x)
	case Axes:
		return uint64(x)
	case Ref:
		return int64(x)
	case Float32:
		return f32JSON(float32(x))
	case Float64:
		return f64JSON(float64(x))
	case UDim:
		return map[string]any{"scale": f32JSON(x.Scale), "offset": x.Offset}
	case UDim2:
		return map[string]any{"x": ToJSON(x.X), "y": ToJSON(x.Y)}
	case Vector2:
		return map[string]any{"x": f32JSON(x.X), "y": f32JSON(x.Y)}
	case Vector3:
		return map[string]any{"x": f32JSON(x.X), "y": f32JSON(x.Y), "z": f32JSON(x.Z)}
	case Ray:
		return map[string]any{"origin": ToJSON(x.Origin), "direction": ToJSON(x.Direction)}
	case Color3:
		return map[string]any{"r": f32JSON(x.R), "g": f32JSON(x.G), "b": f32JSON(x.B)}
	case Color3uint8:
		return map[string]any{"r": x.R, "g": x.G, "b": x.B}
	case Vector3int16:
		return map[string]any{"x": x.X, "y": x.Y, "z": x.Z}
	case NumberRange:
		return map[string]any{"min": f32JSON(x.Min), "max": f32JSON(x.Max)}
	case Rect:
		return map[string]any{"min": ToJSON(x.Min), "max": ToJSON(x.Max)}
	default:
		return nil
	}
}

const (
	quietNaN32 = 0x7fc00000
	quietNaN64 = 0x7ff8000000000000
)

func f32JSON(f float32) any {
	if bits := math.Float32bits(f); math.IsNaN(float64(f)) && bits != quietNaN32 {
		return fmt.Sprintf("NaN(0x%08x)", bits)
	}
	if s, ok := specialFloat(float64(f)); ok {
		return s
	}
	return json.Number(strconv.FormatFloat(float64(f), 'g', -1, 32))
}

func f64JSON(f float64) any {
	if bits := math.Float64bits(f); math.IsNaN(f) && bits != quietNaN64 {
		return fmt.Sprintf("NaN(0x%016x)", bits)
	}
	if s, ok := specialFloat(f); ok {
		return s
	}
	return json.Number(strconv.FormatFloat(f, 'g', -1, 64))
}

func specialFloat(f float64) (string, bool) {
	switch {
	case math.IsNaN(f):
		return "NaN", true
	case math.IsInf(f, 1):
		return "Infinity", true
	case math.IsInf(f, -1):
		return "-Infinity", true
	}
	return "", false
}

// jnum holds the text of a JSON number, or one of the special float strings.
type jnum string

func (n *jnum) UnmarshalJSON(d []byte) error {
	if len(d) > 0 && d[0] == '"' {
		var s string
		if err := json.Unmarshal(d, &s); err != nil {
			return err
		}
		switch {
		case s == "NaN", s == "Infinity", s == "-Infinity":
			*n = jnum(s)
			return nil
		case strings.HasPrefix(s, "NaN(") && strings.HasSuffix(s, ")"):
			*n = jnum(s)
			return nil
		}
		return fmt.Errorf("bad float %q", s)
	}
	*n = jnum(d)
	return nil
}

// nanBits returns the bits of a "NaN(0x...)" payload NaN.
func (n jnum) nanBits(size int) (uint64, bool, error) {
	s := string(n)
	if !strings.HasPrefix(s, "NaN(") {
		return 0, false, nil
	}
	u, err := strconv.ParseUint(strings.TrimSuffix(strings.TrimPrefix(s, "NaN("), ")"), 0, size)
	if err != nil {
		return 0, true, fmt.Errorf("bad NaN %q: %w", s, err)
	}
	return u, true, nil
}

func (n jnum) float(bits int) (float64, error) {
	switch n {
	case "":
		return 0, nil
	case "NaN":
		return math.Float64frombits(quietNaN64), nil
	case "Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	}
	if u, ok, err := n.nanBits(64); ok {
		return math.Float64frombits(u), err
	}
	return strconv.ParseFloat(string(n), bits)
}

func (n jnum) f32() (float32, error) {
	if n == "NaN" {
		return math.Float32frombits(quietNaN32), nil
	}
	if u, ok, err := n.nanBits(32); ok {
		return math.Float32frombits(uint32(u)), err
	}
	f, err := n.float(32)
	return float32(f), err
}

type jVector2 struct {
	X jnum `json:"x"`
	Y jnum `json:"y"`
}

func (j jVector2) value() (Vector2, error) {
	fs, err := f32s(j.X, j.Y)
	if err != nil {
		return Vector2{}, err
	}
	return Vector2{X: fs[0], Y: fs[1]}, nil
}

type jVector3 struct {
	X jnum `json:"x"`
	Y jnum `json:"y"`
	Z jnum `json:"z"`
}

func (j jVector3) value() (Vector3, error) {
	fs, err := f32s(j.X, j.Y, j.Z)
	if err != nil {
		return Vector3{}, err
	}
	return Vector3{X: fs[0], Y: fs[1], Z: fs[2]}, nil
}

type jUDim struct {
	Scale  jnum  `json:"scale"`
	Offset int32 `json:"offset"`
}

func (j jUDim) value() (UDim, error) {
	s, err := j.Scale.f32()
	return UDim{Scale: s, Offset: j.Offset}, err
}

func f32s(ns ...jnum) ([]float32, error) {
	res := make([]float32, len(ns))
	for i, n := range ns {
		f, err := n.f32()
		if err != nil {
			return nil, err
		}
		res[i] = f
	}
	return res, nil
}

// FromJSON reads a value of type t in the form ToJSON produces.
func FromJSON(t Type, d []byte) (Value, error) {
	v, err := fromJSON(t, d)
	if err != nil {
		return nil, fmt.Errorf("%s from %s: %w", t, abbrev(d), err)
	}
	return v, nil
}

func fromJSON(t Type, d []byte) (Value, error) {
	switch t {
	case StringType:
		if len(d) > 0 && d[0] == '"' {
			var s string
			err := json.Unmarshal(d, &s)
			return String(s), err
		}
		var b struct {
			Bytes []byte `json:"bytes"`
		}
		err := json.Unmarshal(d, &b)
		return String(b.Bytes), err
	case BoolType:
		var b bool
		err := json.Unmarshal(d, &b)
		return Bool(b), err
	case Int32Type:
		var n int32
		err := json.Unmarshal(d, &n)
		return Int32(n), err
	case Int64Type:
		var n int64
		err := json.Unmarshal(d, &n)
		return Int64(n), err
	case EnumType:
		var n uint32
		err := json.Unmarshal(d, &n)
		return Enum(n), err
	case BrickColorType:
		var n uint32
		err := json.Unmarshal(d, &n)
		return BrickColor(n), err
	case FacesType:
		var n uint8
		err := json.Unmarshal(d, &n)
		return Faces(n), err
	case AxesType:
		var n uint8
		err := json.Unmarshal(d, &n)
		return Axes(n), err
	case RefType:
		var n int32
		err := json.Unmarshal(d, &n)
		return Ref(n), err
	case Float32Type:
		var n jnum
		if err := json.Unmarshal(d, &n); err != nil {
			return nil, err
		}
		f, err := n.f32()
		return Float32(f), err
	case Float64Type:
		var n jnum
		if err := json.Unmarshal(d, &n); err != nil {
			return nil, err
		}
		f, err := n.float(64)
		return Float64(f), err
	case UDimType:
		var j jUDim
		if err := json.Unmarshal(d, &j); err != nil {
			return nil, err
		}
		return j.value()
	case UDim2Type:
		var j struct {
			X jUDim `json:"x"`
			Y jUDim `json:"y"`
		}
		if err := json.Unmarshal(d, &j); err != nil {
			return nil, err
		}
		x, err := j.X.value()
		if err != nil {
			return nil, err
		}
		y, err := j.Y.value()
		return UDim2{X: x, Y: y}, err
	case Vector2Type:
		var j jVector2
		if err := json.Unmarshal(d, &j); err != nil {
			return nil, err
		}
		return j.value()
	case Vector3Type:
		var j jVector3
		if err := json.Unmarshal(d, &j); err != nil {
			return nil, err
		}
		return j.value()
	case RayType:
		var j struct {
			Origin    jVector3 `json:"origin"`
			Direction jVector3 `json:"direction"`
		}
		if err := json.Unmarshal(d, &j); err != nil {
			return nil, err
		}
		o, err := j.Origin.value()
		if err != nil {
			return nil, err
		}
		dir, err := j.Direction.value()
		return Ray{Origin: o, Direction: dir}, err
	case Color3Type:
		var j struct {
			R jnum `json:"r"`
			G jnum `json:"g"`
			B jnum `json:"b"`
		}
		if err := json.Unmarshal(d, &j); err != nil {
			return nil, err
		}
		fs, err := f32s(j.R, j.G, j.B)
		if err != nil {
			return nil, err
		}
		return Color3{R: fs[0], G: fs[1], B: fs[2]}, nil
	case Color3uint8Type:
		var j struct {
			R uint8 `json:"r"`
			G uint8 `json:"g"`
			B uint8 `json:"b"`
		}
		err := json.Unmarshal(d, &j)
		return Color3uint8{R: j.R, G: j.G, B: j.B}, err
	case Vector3int16Type:
		var j struct {
			X int16 `json:"x"`
			Y int16 `json:"y"`
			Z int16 `json:"z"`
		}
		err := json.Unmarshal(d, &j)
		return Vector3int16{X: j.X, Y: j.Y, Z: j.Z}, err
	case NumberRangeType:
		var j struct {
			Min jnum `json:"min"`
			Max jnum `json:"max"`
		}
		if err := json.Unmarshal(d, &j); err != nil {
			return nil, err
		}
		fs, err := f32s(j.Min, j.Max)
		if err != nil {
			return nil, err
		}
		return NumberRange{Min: fs[0], Max: fs[1]}, nil
	case RectType:
		var j struct {
			Min jVector2 `json:"min"`
			Max jVector2 `json:"max"`
		}
		if err := json.Unmarshal(d, &j); err != nil {
			return nil, err
		}
		lo, err := j.Min.value()
		if err != nil {
			return nil, err
		}
		hi, err := j.Max.value()
		return Rect{Min: lo, Max: hi}, err
	default:
		return nil, ErrUnknownType
	}
}

func abbrev(d []byte) string {
	d = bytes.TrimSpace(d)
	if len(d) > 32 {
		return string(d[:32]) + "..."
	}
	return string(d)
}
