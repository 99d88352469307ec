// Package types contains common types used across the application
package types

import "github.com/okian/decathlon/internal/domain/model"

// EventResult is one event line of a result entry.
type EventResult struct {
	Event       string  `json:"event" yaml:"event" cbor:"event"`
	Raw         string  `json:"raw" yaml:"raw" cbor:"raw"`
	Measurement float64 `json:"measurement" yaml:"measurement" cbor:"measurement"`
	Points      float64 `json:"points" yaml:"points" cbor:"points"`
}

// Entry represents a ranked result
type Entry struct {
	Position int           `json:"position" yaml:"position" cbor:"position"`
	Place    string        `json:"place" yaml:"place" cbor:"place"`
	Name     string        `json:"name" yaml:"name" cbor:"name"`
	Score    float64       `json:"score" yaml:"score" cbor:"score"`
	Events   []EventResult `json:"events" yaml:"events" cbor:"events"`
}

// NewEntry converts a scored and ranked record. position is the 1-based
// index in output order.
func NewEntry(rec *model.Record, position int) Entry {
	events := make([]EventResult, len(rec.Performances))
	for i, p := range rec.Performances {
		events[i] = EventResult{
			Event:       p.Event,
			Raw:         p.Raw,
			Measurement: p.Measurement,
			Points:      p.Points,
		}
	}
	return Entry{
		Position: position,
		Place:    rec.Place,
		Name:     rec.Name,
		Score:    rec.Total,
		Events:   events,
	}
}
