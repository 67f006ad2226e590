package codec

import (
	"errors"
	"fmt"

	"github.com/signadot/rbxbin/chunk"
)

var (
	ErrReferential   = errors.New("referential error")
	ErrDuplicateType = fmt.Errorf("%w: duplicate type id", ErrReferential)
	ErrMalformed     = fmt.Errorf("%w: malformed chunk payload", chunk.ErrFraming)
	ErrPropertyType  = errors.New("property has values of different types")
)

// ReferentError reports a referent used by a chunk but never declared, or
// declared twice.
type ReferentError struct {
	Chunk    int
	Referent int32
	Reason   string
}

func (e *ReferentError) Unwrap() error {
	return ErrReferential
}

func (e *ReferentError) Error() string {
	return fmt.Sprintf("%s: chunk %d: referent %d %s", ErrReferential, e.Chunk, e.Referent, e.Reason)
}

// CountError reports a property array holding fewer values than its type
// has instances.
type CountError struct {
	Chunk    int
	TypeID   uint32
	Class    string
	Property string
	Want     int
	Err      error
}

func (e *CountError) Unwrap() []error {
	return []error{ErrReferential, e.Err}
}

func (e *CountError) Error() string {
	return fmt.Sprintf("%s: chunk %d: %s.%s (type %d) expects %d values: %v",
		ErrReferential, e.Chunk, e.Class, e.Property, e.TypeID, e.Want, e.Err)
}
