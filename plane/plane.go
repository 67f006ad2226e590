package plane

import (
	"fmt"
	"math"
	"math/bits"
)

// Size returns the number of bytes n interleaved elements of the given width
// occupy.
func Size(n, width int) int {
	return n * width
}

func planes(b []byte, n, width int) ([]uint64, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrTruncated, n)
	}
	size := Size(n, width)
	if len(b) < size {
		return nil, fmt.Errorf("%w: %d values of width %d need %d bytes, have %d",
			ErrTruncated, n, width, size, len(b))
	}
	out := make([]uint64, n)
	for k := 0; k < width; k++ {
		p := b[k*n : (k+1)*n]
		for i, c := range p {
			out[i] = out[i]<<8 | uint64(c)
		}
	}
	return out, nil
}

func appendPlanes(dst []byte, vs []uint64, width int) []byte {
	for k := 0; k < width; k++ {
		shift := uint(8 * (width - 1 - k))
		for _, v := range vs {
			dst = append(dst, byte(v>>shift))
		}
	}
	return dst
}

func FoldInt32(n int32) uint32 {
	return uint32(n<<1) ^ uint32(n>>31)
}

func UnfoldInt32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

func FoldInt64(n int64) uint64 {
	return uint64(n<<1) ^ uint64(n>>63)
}

func UnfoldInt64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// Float32Bits returns the stored bit pattern of f.
func Float32Bits(f float32) uint32 {
	return bits.RotateLeft32(math.Float32bits(f), 1)
}

// Float32FromBits is the inverse of Float32Bits.
func Float32FromBits(u uint32) float32 {
	return math.Float32frombits(bits.RotateLeft32(u, -1))
}

// Uint32s decodes n interleaved uint32 values from the front of b.
func Uint32s(b []byte, n int) ([]uint32, error) {
	raw, err := planes(b, n, 4)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i, v := range raw {
		out[i] = uint32(v)
	}
	return out, nil
}

func AppendUint32s(dst []byte, vs []uint32) []byte {
	raw := make([]uint64, len(vs))
	for i, v := range vs {
		raw[i] = uint64(v)
	}
	return appendPlanes(dst, raw, 4)
}

// Int32s decodes n interleaved, sign folded int32 values from the front of b.
func Int32s(b []byte, n int) ([]int32, error) {
	raw, err := planes(b, n, 4)
	if err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i, v := range raw {
		out[i] = UnfoldInt32(uint32(v))
	}
	return out, nil
}

func AppendInt32s(dst []byte, vs []int32) []byte {
	raw := make([]uint64, len(vs))
	for i, v := range vs {
		raw[i] = uint64(FoldInt32(v))
	}
	return appendPlanes(dst, raw, 4)
}

// Float32s decodes n interleaved float32 values from the front of b.
func Float32s(b []byte, n int) ([]float32, error) {
	raw, err := planes(b, n, 4)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i, v := range raw {
		out[i] = Float32FromBits(uint32(v))
	}
	return out, nil
}

func AppendFloat32s(dst []byte, vs []float32) []byte {
	raw := make([]uint64, len(vs))
	for i, v := range vs {
		raw[i] = uint64(Float32Bits(v))
	}
	return appendPlanes(dst, raw, 4)
}

// Int64s decodes n interleaved, sign folded int64 values from the front of b.
func Int64s(b []byte, n int) ([]int64, error) {
	raw, err := planes(b, n, 8)
	if err != nil {
		return nil, err
	}
	out := make([]int64, n)
	for i, v := range raw {
		out[i] = UnfoldInt64(v)
	}
	return out, nil
}

func AppendInt64s(dst []byte, vs []int64) []byte {
	raw := make([]uint64, len(vs))
	for i, v := range vs {
		raw[i] = FoldInt64(v)
	}
	return appendPlanes(dst, raw, 8)
}

// Referents decodes n referents. The delta chain starts at zero for every
// array and wraps on overflow like the producer's arithmetic does.
func Referents(b []byte, n int) ([]int32, error) {
	out, err := Int32s(b, n)
	if err != nil {
		return nil, err
	}
	var last int32
	for i := range out {
		out[i] += last
		last = out[i]
	}
	return out, nil
}

func AppendReferents(dst []byte, refs []int32) []byte {
	deltas := make([]int32, len(refs))
	var last int32
	for i, r := range refs {
		deltas[i] = r - last
		last = r
	}
	return AppendInt32s(dst, deltas)
}
