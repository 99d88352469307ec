// Package model contains domain models passed between layers.
package model

// Mark is one raw result as it appeared in the input row.
type Mark struct {
	Event string // event identifier, e.g. "100m"
	Raw   string // untouched field text
}

// Performance is a scored mark.
type Performance struct {
	Event       string
	Raw         string
	Measurement float64 // seconds, metres or centimetres as given
	Points      float64
}

// Record is one competitor row flowing through the pipeline.
// Performances, Total and Place are filled in by scoring and ranking.
type Record struct {
	Row   int // 1-based line number in the source
	Name  string
	Marks []Mark

	Performances []Performance
	Total        float64
	Place        string // rank label, e.g. "3" or "4-5"
}

// Mark returns the raw value recorded for event.
func (r *Record) Mark(event string) (string, bool) {
	for _, m := range r.Marks {
		if m.Event == event {
			return m.Raw, true
		}
	}
	return "", false
}
