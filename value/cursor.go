package value

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/signadot/rbxbin/plane"
)

// Cursor reads little endian fields and plane arrays from a chunk payload.
// A failed read leaves the cursor where it was.
type Cursor struct {
	b   []byte
	off int
}

func NewCursor(b []byte) *Cursor {
	return &Cursor{b: b}
}

// Offset is the number of bytes consumed.
func (c *Cursor) Offset() int { return c.off }

// Len is the number of bytes left.
func (c *Cursor) Len() int { return len(c.b) - c.off }

// Rest consumes and returns everything left.
func (c *Cursor) Rest() []byte {
	r := c.b[c.off:]
	c.off = len(c.b)
	return r
}

func (c *Cursor) Take(n int) ([]byte, error) {
	if n < 0 || c.Len() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrTruncated, n, c.off, c.Len())
	}
	r := c.b[c.off : c.off+n]
	c.off += n
	return r, nil
}

func (c *Cursor) Uint8() (uint8, error) {
	b, err := c.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) Uint32() (uint32, error) {
	b, err := c.Take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) float32LE() (float32, error) {
	u, err := c.Uint32()
	return math.Float32frombits(u), err
}

// Bytes reads a u32 length prefixed byte string.
func (c *Cursor) Bytes() ([]byte, error) {
	start := c.off
	n, err := c.Uint32()
	if err != nil {
		return nil, err
	}
	b, err := c.Take(int(n))
	if err != nil {
		c.off = start
		return nil, err
	}
	return b, nil
}

// String reads a length prefixed string without validating it.
func (c *Cursor) String() (string, error) {
	b, err := c.Bytes()
	return string(b), err
}

func (c *Cursor) lane(n, width int) error {
	if c.Len() < plane.Size(n, width) {
		return fmt.Errorf("%w: %d values need %d bytes at offset %d, have %d",
			ErrTruncated, n, plane.Size(n, width), c.off, c.Len())
	}
	return nil
}

func (c *Cursor) Int32s(n int) ([]int32, error) {
	if err := c.lane(n, 4); err != nil {
		return nil, err
	}
	vs, err := plane.Int32s(c.b[c.off:], n)
	if err == nil {
		c.off += plane.Size(n, 4)
	}
	return vs, err
}

func (c *Cursor) Uint32s(n int) ([]uint32, error) {
	if err := c.lane(n, 4); err != nil {
		return nil, err
	}
	vs, err := plane.Uint32s(c.b[c.off:], n)
	if err == nil {
		c.off += plane.Size(n, 4)
	}
	return vs, err
}

func (c *Cursor) Float32s(n int) ([]float32, error) {
	if err := c.lane(n, 4); err != nil {
		return nil, err
	}
	vs, err := plane.Float32s(c.b[c.off:], n)
	if err == nil {
		c.off += plane.Size(n, 4)
	}
	return vs, err
}

func (c *Cursor) Int64s(n int) ([]int64, error) {
	if err := c.lane(n, 8); err != nil {
		return nil, err
	}
	vs, err := plane.Int64s(c.b[c.off:], n)
	if err == nil {
		c.off += plane.Size(n, 8)
	}
	return vs, err
}

func (c *Cursor) Referents(n int) ([]int32, error) {
	if err := c.lane(n, 4); err != nil {
		return nil, err
	}
	vs, err := plane.Referents(c.b[c.off:], n)
	if err == nil {
		c.off += plane.Size(n, 4)
	}
	return vs, err
}

// AppendBytes appends a u32 length prefixed byte string.
func AppendBytes(dst, s []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}

func AppendString(dst []byte, s string) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(s)))
	return append(dst, s...)
}
