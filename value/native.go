package value

// Native returns a plain Go view of v for expression environments: strings,
// bools, int64s, float64s, and maps of those for compound values.
func Native(v Value) any {
	switch x := v.(type) {
	case String:
		return string(x)
	case Bool:
		return bool(x)
	case Int32:
		return int64(x)
	case Int64:
		return int64(x)
	case Enum:
		return int64(x)
	case BrickColor:
		return int64(x)
	case Faces:
		return int64(x)
	case Axes:
		return int64(x)
	case Ref:
		return int64(x)
	case Float32:
		return float64(x)
	case Float64:
		return float64(x)
	case UDim:
		return map[string]any{"Scale": float64(x.Scale), "Offset": int64(x.Offset)}
	case UDim2:
		return map[string]any{"X": Native(x.X), "Y": Native(x.Y)}
	case Vector2:
		return map[string]any{"X": float64(x.X), "Y": float64(x.Y)}
	case Vector3:
		return map[string]any{"X": float64(x.X), "Y": float64(x.Y), "Z": float64(x.Z)}
	case Ray:
		return map[string]any{"Origin": Native(x.Origin), "Direction": Native(x.Direction)}
	case Color3:
		return map[string]any{"R": float64(x.R), "G": float64(x.G), "B": float64(x.B)}
	case Color3uint8:
		return map[string]any{"R": int64(x.R), "G": int64(x.G), "B": int64(x.B)}
	case Vector3int16:
		return map[string]any{"X": int64(x.X), "Y": int64(x.Y), "Z": int64(x.Z)}
	case NumberRange:
		return map[string]any{"Min": float64(x.Min), "Max": float64(x.Max)}
	case Rect:
		return map[string]any{"Min": Native(x.Min), "Max": Native(x.Max)}
	default:
		return nil
	}
}
