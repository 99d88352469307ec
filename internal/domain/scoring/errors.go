package scoring

import (
	"errors"
	"fmt"
)

// Sentinel kinds for scoring errors.
var (
	// ErrInvalidRecord marks a record that must be dropped before ranking.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrPointsOutOfRange marks a mark whose points, or the running total, overflow float64.
	ErrPointsOutOfRange = errors.New("points out of range")
)

// FieldError reports the mark that invalidated a record.
type FieldError struct {
	Row   int
	Name  string
	Event string
	Raw   string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("row %d (%s): event %s: %v", e.Row, e.Name, e.Event, e.Err)
}

// Unwrap exposes both the record-level kind and the parse cause.
func (e *FieldError) Unwrap() []error {
	return []error{ErrInvalidRecord, e.Err}
}
