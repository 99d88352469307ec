// Package source reads competitor rows from delimited text.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/decathlon/internal/domain/catalog"
	"github.com/okian/decathlon/internal/domain/model"
)

// DefaultDelimiter separates fields in competition result files.
const DefaultDelimiter = ';'

// Source yields the complete batch of competitor records.
type Source interface {
	Records(ctx context.Context) ([]model.Record, error)
}

// Option applies a configuration option to the CSVSource.
type Option func(*CSVSource)

// WithDelimiter sets the field separator.
func WithDelimiter(r rune) Option {
	return func(s *CSVSource) {
		s.delimiter = r
	}
}

// WithEvents sets the event identifiers that follow the name column.
func WithEvents(events []string) Option {
	return func(s *CSVSource) {
		if len(events) > 0 {
			s.events = events
		}
	}
}

// CSVSource parses header-less rows of the form name;ev1;ev2;...
type CSVSource struct {
	r         io.Reader
	delimiter rune
	events    []string
}

// NewCSVSource creates a source reading from r.
func NewCSVSource(r io.Reader, opts ...Option) *CSVSource {
	s := &CSVSource{
		r:         r,
		delimiter: DefaultDelimiter,
		events:    catalog.Default().Names(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Open creates a source over the named file. The caller closes the
// returned closer once Records has been consumed.
func Open(path string, opts ...Option) (*CSVSource, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	return NewCSVSource(f, opts...), f, nil
}

// ValidateDelimiter rejects separators that would collide with result values.
func ValidateDelimiter(r rune) error {
	switch {
	case r >= '0' && r <= '9', r == '.', r == '-', r == '+':
		return fmt.Errorf("%w: %q appears in numeric results", ErrDelimiter, r)
	case r == '"', r == '\r', r == '\n', r == 0xFFFD:
		return fmt.Errorf("%w: %q", ErrDelimiter, r)
	}
	return nil
}

// Records reads every row. Short rows keep only the fields present; fields
// past the last event are ignored; blank lines are skipped.
func (s *CSVSource) Records(ctx context.Context) ([]model.Record, error) {
	if err := ValidateDelimiter(s.delimiter); err != nil {
		return nil, err
	}

	cr := csv.NewReader(s.r)
	cr.Comma = s.delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var out []model.Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled: %w", err)
		}
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRead, err)
		}
		line, _ := cr.FieldPos(0)
		if blank(fields) {
			continue
		}
		out = append(out, s.record(line, fields))
	}
	return out, nil
}

func (s *CSVSource) record(line int, fields []string) model.Record {
	rec := model.Record{Row: line, Name: strings.TrimSpace(fields[0])}
	values := fields[1:]
	if len(values) > len(s.events) {
		values = values[:len(s.events)]
	}
	rec.Marks = make([]model.Mark, len(values))
	for i, v := range values {
		rec.Marks[i] = model.Mark{Event: s.events[i], Raw: v}
	}
	return rec
}

func blank(fields []string) bool {
	return len(fields) == 1 && strings.TrimSpace(fields[0]) == ""
}
