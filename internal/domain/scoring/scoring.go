// Package scoring turns a competitor's raw marks into event points and a total.
package scoring

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/decathlon/internal/domain/catalog"
	"github.com/okian/decathlon/internal/domain/measure"
	"github.com/okian/decathlon/internal/domain/model"
)

// Option applies a configuration option to the CatalogScorer.
type Option func(*CatalogScorer)

// WithCatalog replaces the default decathlon catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *CatalogScorer) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithParser replaces the measurement parser.
func WithParser(p func(raw string) (float64, error)) Option {
	return func(s *CatalogScorer) {
		if p != nil {
			s.parse = p
		}
	}
}

// Scorer fills in a record's performances and total.
type Scorer interface {
	// Score returns a *FieldError when any present mark cannot be parsed,
	// in which case the record is left untouched.
	Score(ctx context.Context, rec *model.Record) error
}

// CatalogScorer scores records against an event catalog.
type CatalogScorer struct {
	catalog *catalog.Catalog
	parse   func(raw string) (float64, error)
}

// NewCatalogScorer creates a scorer with configuration options.
func NewCatalogScorer(opts ...Option) *CatalogScorer {
	s := &CatalogScorer{
		catalog: catalog.Default(),
		parse:   measure.Parse,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Score computes points for every mark whose event is in the catalog and sums
// them in catalog order. Marks for unknown events are ignored; absent events
// contribute nothing.
func (s *CatalogScorer) Score(ctx context.Context, rec *model.Record) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	perfs := make([]model.Performance, 0, len(rec.Marks))
	for _, spec := range s.catalog.Events() {
		raw, ok := rec.Mark(spec.Event)
		if !ok {
			continue
		}
		m, err := s.parse(raw)
		if err != nil {
			return &FieldError{Row: rec.Row, Name: rec.Name, Event: spec.Event, Raw: raw, Err: err}
		}
		pts := spec.Points(m)
		if !finite(pts) {
			return &FieldError{Row: rec.Row, Name: rec.Name, Event: spec.Event, Raw: raw, Err: ErrPointsOutOfRange}
		}
		perfs = append(perfs, model.Performance{
			Event:       spec.Event,
			Raw:         raw,
			Measurement: m,
			Points:      pts,
		})
	}

	var total float64
	for _, p := range perfs {
		total += p.Points
		if !finite(total) {
			return &FieldError{Row: rec.Row, Name: rec.Name, Event: p.Event, Raw: p.Raw, Err: ErrPointsOutOfRange}
		}
	}
	rec.Performances = perfs
	rec.Total = total
	return nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
