package schema

import "errors"

var (
	ErrBadSchema       = errors.New("bad schema")
	ErrNoSuchClass     = errors.New("no such class")
	ErrSuperclassCycle = errors.New("superclass cycle")
)
