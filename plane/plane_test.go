package plane

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   int32
		want uint32
	}{
		{0, 0},
		{-1, 1},
		{1, 2},
		{-2, 3},
		{2, 4},
		{math.MaxInt32, math.MaxUint32 - 1},
		{math.MinInt32, math.MaxUint32},
	}
	for _, tt := range tests {
		if got := FoldInt32(tt.in); got != tt.want {
			t.Errorf("FoldInt32(%d) = %d, want %d", tt.in, got, tt.want)
		}
		if got := UnfoldInt32(tt.want); got != tt.in {
			t.Errorf("UnfoldInt32(%d) = %d, want %d", tt.want, got, tt.in)
		}
	}
	for _, n := range []int64{0, -1, 1, math.MaxInt64, math.MinInt64, 1 << 40, -(1 << 40)} {
		if got := UnfoldInt64(FoldInt64(n)); got != n {
			t.Errorf("int64 fold round trip of %d gave %d", n, got)
		}
	}
}

func TestInt32Layout(t *testing.T) {
	got := AppendInt32s(nil, []int32{2, -1})
	want := []byte{
		0x00, 0x00,
		0x00, 0x00,
		0x00, 0x00,
		0x04, 0x01,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("AppendInt32s = % x, want % x", got, want)
	}
	vs, err := Int32s(got, 2)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int32{2, -1}, vs); diff != "" {
		t.Errorf("Int32s mismatch (-want +got):\n%s", diff)
	}
}

func TestFloat32Layout(t *testing.T) {
	// 1.0 is 0x3f800000, rotated left by one gives 0x7f000000.
	got := AppendFloat32s(nil, []float32{1})
	want := []byte{0x7f, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Fatalf("AppendFloat32s = % x, want % x", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	i32 := []int32{0, -1, 1, math.MaxInt32, math.MinInt32, 12345, -54321}
	b := AppendInt32s(nil, i32)
	got32, err := Int32s(b, len(i32))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(i32, got32); diff != "" {
		t.Errorf("int32 (-want +got):\n%s", diff)
	}

	u32 := []uint32{0, 1, math.MaxUint32, 0xdeadbeef}
	b = AppendUint32s(nil, u32)
	gotU, err := Uint32s(b, len(u32))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(u32, gotU); diff != "" {
		t.Errorf("uint32 (-want +got):\n%s", diff)
	}

	i64 := []int64{0, -1, 1, math.MaxInt64, math.MinInt64, 1 << 33}
	b = AppendInt64s(nil, i64)
	if len(b) != 8*len(i64) {
		t.Fatalf("int64 encoding is %d bytes, want %d", len(b), 8*len(i64))
	}
	got64, err := Int64s(b, len(i64))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(i64, got64); diff != "" {
		t.Errorf("int64 (-want +got):\n%s", diff)
	}

	f32 := []float32{0, float32(math.Copysign(0, -1)), 1, -1, math.MaxFloat32, -math.MaxFloat32,
		math.SmallestNonzeroFloat32, float32(math.Inf(1)), float32(math.Inf(-1)),
		math.Float32frombits(0x7fc00001)}
	b = AppendFloat32s(nil, f32)
	gotF, err := Float32s(b, len(f32))
	if err != nil {
		t.Fatal(err)
	}
	for i := range f32 {
		if math.Float32bits(f32[i]) != math.Float32bits(gotF[i]) {
			t.Errorf("float32 %d: bits %08x, want %08x", i, math.Float32bits(gotF[i]), math.Float32bits(f32[i]))
		}
	}
}

func TestReferents(t *testing.T) {
	refs := []int32{0, 1, 2, 3, -1, 10, 5, math.MaxInt32, math.MinInt32}
	b := AppendReferents(nil, refs)
	got, err := Referents(b, len(refs))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(refs, got); diff != "" {
		t.Errorf("referents (-want +got):\n%s", diff)
	}

	// a run of consecutive referents is stored as deltas of one.
	b = AppendReferents(nil, []int32{5, 6, 7})
	deltas, err := Int32s(b, 3)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int32{5, 1, 1}, deltas); diff != "" {
		t.Errorf("deltas (-want +got):\n%s", diff)
	}
}

func TestTruncated(t *testing.T) {
	b := AppendInt32s(nil, []int32{1, 2, 3})
	if _, err := Int32s(b[:len(b)-1], 3); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
	if _, err := Int64s(make([]byte, 15), 2); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
	if _, err := Referents(nil, -1); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated for negative count, got %v", err)
	}
	vs, err := Float32s(nil, 0)
	if err != nil || len(vs) != 0 {
		t.Errorf("empty decode: %v %v", vs, err)
	}
}
