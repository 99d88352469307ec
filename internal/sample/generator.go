// Package sample generates synthetic decathlon result rows for manual runs
// and benchmarks.
package sample

import (
	"context"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/decathlon/internal/adapters/source"
	"github.com/okian/decathlon/internal/domain/catalog"
)

// Malformed is the value written into a field chosen to be unparseable.
const Malformed = "n/a"

// centsPerMinute splits clock-formatted running times.
const centsPerMinute = 6000

// markRange bounds a plausible mark for one event.
type markRange struct {
	min, max float64
	clock    bool // render as M:SS.cc
}

// Ranges cover club to international level.
var ranges = map[string]markRange{ //nolint:gochecknoglobals // static table
	catalog.Sprint100m:   {min: 10.4, max: 12.8},
	catalog.LongJump:     {min: 5.8, max: 7.9},
	catalog.ShotPut:      {min: 11.0, max: 16.5},
	catalog.HighJump:     {min: 1.75, max: 2.20},
	catalog.Run400m:      {min: 47.5, max: 55.0},
	catalog.Hurdles110m:  {min: 13.8, max: 17.5},
	catalog.DiscusThrow:  {min: 35.0, max: 52.0},
	catalog.PoleVault:    {min: 4.0, max: 5.6},
	catalog.JavelinThrow: {min: 45.0, max: 72.0},
	catalog.Run1500m:     {min: 250.0, max: 320.0, clock: true},
}

// Generator produces rows in catalog order: name;100m;Long_jump;...;1500m.
type Generator struct {
	rows          int
	delimiter     rune
	malformedRate float64
	shortRate     float64
	events        []string

	entropy *rand.ChaCha8
	rng     *rand.Rand
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithRows sets how many rows Write produces.
func WithRows(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.rows = n
		}
	}
}

// WithDelimiter sets the field separator.
func WithDelimiter(r rune) Option {
	return func(g *Generator) {
		g.delimiter = r
	}
}

// WithMalformedRate sets the probability that a row carries one unparseable field.
func WithMalformedRate(p float64) Option {
	return func(g *Generator) {
		if p >= 0 && p <= 1 {
			g.malformedRate = p
		}
	}
}

// WithShortRate sets the probability that a row is truncated before the last event.
func WithShortRate(p float64) Option {
	return func(g *Generator) {
		if p >= 0 && p <= 1 {
			g.shortRate = p
		}
	}
}

// WithSeed makes the output reproducible.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.reseed(seed)
	}
}

// New creates a generator. Without WithSeed every run differs.
func New(opts ...Option) *Generator {
	g := &Generator{
		rows:      10,
		delimiter: source.DefaultDelimiter,
		events:    catalog.Default().Names(),
	}
	g.reseed(rand.Uint64())

	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) reseed(seed uint64) {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	g.entropy = rand.NewChaCha8(key)
	g.rng = rand.New(g.entropy)
}

// Row returns one competitor row as fields.
func (g *Generator) Row() ([]string, error) {
	id, err := uuid.NewRandomFromReader(g.entropy)
	if err != nil {
		return nil, fmt.Errorf("generate name: %w", err)
	}

	fields := make([]string, 0, len(g.events)+1)
	fields = append(fields, "Athlete "+id.String()[:8])
	for _, ev := range g.events {
		fields = append(fields, g.mark(ranges[ev]))
	}

	if g.rng.Float64() < g.shortRate {
		fields = fields[:1+g.rng.IntN(len(g.events))]
	}
	if len(fields) > 1 && g.rng.Float64() < g.malformedRate {
		fields[1+g.rng.IntN(len(fields)-1)] = Malformed
	}
	return fields, nil
}

// Write emits the configured number of rows to w and returns how many were written.
func (g *Generator) Write(ctx context.Context, w io.Writer) (int, error) {
	if err := source.ValidateDelimiter(g.delimiter); err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	cw.Comma = g.delimiter

	for i := 0; i < g.rows; i++ {
		if err := ctx.Err(); err != nil {
			return i, fmt.Errorf("context cancelled: %w", err)
		}
		row, err := g.Row()
		if err != nil {
			return i, err
		}
		if err := cw.Write(row); err != nil {
			return i, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return g.rows, fmt.Errorf("flush rows: %w", err)
	}
	return g.rows, nil
}

func (g *Generator) mark(r markRange) string {
	v := r.min + g.rng.Float64()*(r.max-r.min)
	if !r.clock {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	cents := int(math.Round(v * 100))
	rest := cents % centsPerMinute
	return fmt.Sprintf("%d:%02d.%02d", cents/centsPerMinute, rest/100, rest%100)
}
