package chunk

import (
	"fmt"
	"strings"
)

type Name [4]byte

var (
	Meta = Name{'M', 'E', 'T', 'A'}
	Inst = Name{'I', 'N', 'S', 'T'}
	Prop = Name{'P', 'R', 'O', 'P'}
	Prnt = Name{'P', 'R', 'N', 'T'}
	End  = Name{'E', 'N', 'D', 0}
)

// ParseName accepts up to four bytes; shorter names are padded with NUL as
// the END chunk is.
func ParseName(s string) (Name, error) {
	var n Name
	if len(s) == 0 || len(s) > len(n) {
		return n, fmt.Errorf("%w: %q", ErrBadName, s)
	}
	copy(n[:], s)
	return n, nil
}

func (n Name) String() string {
	return strings.TrimRight(string(n[:]), "\x00")
}

func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Name) UnmarshalText(d []byte) error {
	nn, err := ParseName(string(d))
	if err != nil {
		return err
	}
	*n = nn
	return nil
}

// Known reports whether the name is one of the chunk kinds with a defined
// payload layout.
func (n Name) Known() bool {
	switch n {
	case Meta, Inst, Prop, Prnt, End:
		return true
	default:
		return false
	}
}
