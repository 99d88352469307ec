// Package catalog holds the scoring parameters of the ten decathlon events.
package catalog

import (
	"fmt"
	"math"
)

// Event identifiers in the fixed column order of an input row.
const (
	Sprint100m    = "100m"
	LongJump      = "Long_jump"
	ShotPut       = "Shot_put"
	HighJump      = "High_jump"
	Run400m       = "400m"
	Hurdles110m   = "110m_hurdles"
	DiscusThrow   = "Discus_throw"
	PoleVault     = "Pole_vault"
	JavelinThrow  = "Javelin_throw"
	Run1500m      = "1500m"
	eventsPerMeet = 10
)

// Spec carries the coefficients of one event's scoring formula.
type Spec struct {
	Event string
	A     float64 // scale
	B     float64 // offset
	C     float64 // exponent
}

// Points returns A * |m - B| ^ C.
func (s Spec) Points(m float64) float64 {
	return s.A * math.Pow(math.Abs(m-s.B), s.C)
}

// Catalog is an immutable, ordered set of event specs.
type Catalog struct {
	specs []Spec
	index map[string]int
}

var defaultCatalog = mustNew( //nolint:gochecknoglobals // process-wide immutable table
	Spec{Event: Sprint100m, A: 25.4348, B: 18, C: 1.81},
	Spec{Event: LongJump, A: 90.5674, B: 2.2, C: 1.4},
	Spec{Event: ShotPut, A: 51.39, B: 1.5, C: 1.05},
	Spec{Event: HighJump, A: 585.64, B: 0.75, C: 1.42},
	Spec{Event: Run400m, A: 1.53775, B: 82.0, C: 1.81},
	Spec{Event: Hurdles110m, A: 5.74354, B: 28.5, C: 1.92},
	Spec{Event: DiscusThrow, A: 12.91, B: 4.0, C: 1.1},
	Spec{Event: PoleVault, A: 140.182, B: 1.0, C: 1.35},
	Spec{Event: JavelinThrow, A: 10.14, B: 7.0, C: 1.08},
	Spec{Event: Run1500m, A: 0.03768, B: 480.0, C: 1.85},
)

// Default returns the decathlon catalog shared by the whole process.
func Default() *Catalog {
	return defaultCatalog
}

// New builds a catalog from specs, keeping their order.
func New(specs ...Spec) (*Catalog, error) {
	c := &Catalog{
		specs: make([]Spec, 0, len(specs)),
		index: make(map[string]int, len(specs)),
	}
	for _, s := range specs {
		if s.Event == "" {
			return nil, fmt.Errorf("%w: empty event identifier", ErrInvalidCoefficient)
		}
		if _, dup := c.index[s.Event]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEvent, s.Event)
		}
		if !valid(s.A) || !valid(s.C) || math.IsNaN(s.B) || math.IsInf(s.B, 0) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCoefficient, s.Event)
		}
		c.index[s.Event] = len(c.specs)
		c.specs = append(c.specs, s)
	}
	return c, nil
}

func mustNew(specs ...Spec) *Catalog {
	c, err := New(specs...)
	if err != nil {
		panic(err)
	}
	if len(c.specs) != eventsPerMeet {
		panic("decathlon catalog must list ten events")
	}
	return c
}

func valid(x float64) bool {
	return x > 0 && !math.IsInf(x, 0)
}

// Lookup returns the spec for event. ok is false for identifiers that are
// not scoring fields.
func (c *Catalog) Lookup(event string) (Spec, bool) {
	i, ok := c.index[event]
	if !ok {
		return Spec{}, false
	}
	return c.specs[i], true
}

// Events returns the specs in column order. The slice is a copy.
func (c *Catalog) Events() []Spec {
	out := make([]Spec, len(c.specs))
	copy(out, c.specs)
	return out
}

// Names returns the event identifiers in column order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.specs))
	for i, s := range c.specs {
		out[i] = s.Event
	}
	return out
}

// Len reports the number of events.
func (c *Catalog) Len() int { return len(c.specs) }
