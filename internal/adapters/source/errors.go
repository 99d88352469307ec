package source

import "errors"

// Sentinel kinds for source errors.
var (
	ErrOpen      = errors.New("open source failed")
	ErrRead      = errors.New("read source failed")
	ErrDelimiter = errors.New("invalid delimiter")
)
