package repository

import "errors"

// Sentinel kinds for ranking store errors.
var (
	ErrNotFound     = errors.New("competitor not found")
	ErrInvalidLimit = errors.New("invalid results limit")
)
