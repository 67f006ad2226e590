package value

import (
	"errors"
	"fmt"

	"github.com/signadot/rbxbin/plane"
)

var (
	ErrTruncated   = plane.ErrTruncated
	ErrUnknownType = errors.New("unknown value type")
	ErrMismatch    = errors.New("value type mismatch")
	ErrConvert     = errors.New("cannot convert value")
)

func mismatch(i int, got Value, want Type) error {
	return fmt.Errorf("%w: value %d is %s, want %s", ErrMismatch, i, TypeOf(got), want)
}
