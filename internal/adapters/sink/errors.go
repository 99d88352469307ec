package sink

import "errors"

// Sentinel kinds for sink errors.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrCreate        = errors.New("create output failed")
	ErrWrite         = errors.New("write output failed")
)
