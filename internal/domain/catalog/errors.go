package catalog

import "errors"

// Sentinel kinds for catalog construction errors.
var (
	ErrDuplicateEvent     = errors.New("duplicate event")
	ErrInvalidCoefficient = errors.New("invalid coefficient")
)
