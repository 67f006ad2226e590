package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/signadot/rbxbin/dom"
	"github.com/signadot/rbxbin/value"
)

// ParseMeta reads a META payload: a u32 count of key/value string pairs.
func ParseMeta(c *value.Cursor) ([]dom.MetaEntry, error) {
	n, err := c.Uint32()
	if err != nil {
		return nil, fmt.Errorf("%w: META count: %w", ErrMalformed, err)
	}
	// each pair takes at least 8 bytes
	if int64(n)*8 > int64(c.Len()) {
		return nil, fmt.Errorf("%w: META declares %d entries in %d bytes", ErrMalformed, n, c.Len())
	}
	res := make([]dom.MetaEntry, 0, n)
	for i := range int(n) {
		k, err := c.String()
		if err != nil {
			return nil, fmt.Errorf("%w: META key %d: %w", ErrMalformed, i, err)
		}
		v, err := c.String()
		if err != nil {
			return nil, fmt.Errorf("%w: META value %d: %w", ErrMalformed, i, err)
		}
		res = append(res, dom.MetaEntry{Key: k, Value: v})
	}
	return res, nil
}

func AppendMeta(dst []byte, entries []dom.MetaEntry) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(entries)))
	for _, e := range entries {
		dst = value.AppendString(dst, e.Key)
		dst = value.AppendString(dst, e.Value)
	}
	return dst
}

func (s *session) meta(c *value.Cursor) error {
	entries, err := ParseMeta(c)
	if err != nil {
		return err
	}
	s.tree.Meta = append(s.tree.Meta, entries...)
	if c.Len() != 0 {
		s.diag(TrailingBytes, -1, "", "", "%d bytes after META entries", c.Len())
	}
	return nil
}
