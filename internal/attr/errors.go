package attr

import "errors"

var (
	ErrUnknownType  = errors.New("attr: unknown attribute type")
	ErrTypeExists   = errors.New("attr: attribute type already registered")
	ErrInvalidValue = errors.New("attr: invalid value")
)
