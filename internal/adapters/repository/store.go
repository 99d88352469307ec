// Package repository holds the published ranking snapshot served to readers.
package repository

import (
	"context"

	"github.com/okian/decathlon/internal/domain/types"
)

// Store provides read/write access to the published ranking.
type Store interface {
	// Publish replaces the current snapshot with entries, which must already
	// be in final ranking order.
	Publish(ctx context.Context, entries []types.Entry) error

	// TopN returns the first n entries in ranking order.
	// Returns ErrInvalidLimit if n < 1.
	TopN(ctx context.Context, n int) ([]types.Entry, error)

	// ByName returns every entry for a competitor name, in ranking order.
	// Returns ErrNotFound if there is none.
	ByName(ctx context.Context, name string) ([]types.Entry, error)

	// Count returns the number of ranked competitors.
	Count(ctx context.Context) int
}
