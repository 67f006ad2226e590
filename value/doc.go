// Package value holds the closed set of property value types and their array
// encodings.
//
// A property array of N values is decoded in one call. Scalars use the
// byte-plane layout from package plane directly; compound values are stored
// as one lane per component, each lane a full array of N scalars, and zipped
// back together after decoding. Lane orders:
//
//	UDim         scale, offset
//	UDim2        scale x, scale y, offset x, offset y
//	Color3       r, g, b
//	Vector2      x, y
//	Vector3      x, y, z
//	Rect         min x, min y, max x, max y
//	Color3uint8  r, g, b (one byte per value per lane)
//
// Ray, Vector3int16 and NumberRange are stored value by value in little
// endian, and Float64 likewise.
package value
