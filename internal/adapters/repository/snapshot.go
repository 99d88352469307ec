package repository

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/okian/decathlon/internal/domain/types"
	"github.com/okian/decathlon/pkg/metrics"
)

// SnapshotStore is an in-memory Store holding one immutable ranking.
// Publish swaps the whole snapshot; readers never observe a partial one.
type SnapshotStore struct {
	mu        sync.RWMutex
	entries   []types.Entry
	byName    map[string][]int
	foldNames bool
}

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{byName: make(map[string][]int)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish implements Store.Publish.
func (s *SnapshotStore) Publish(ctx context.Context, entries []types.Entry) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}

	snap := slices.Clone(entries)
	index := make(map[string][]int, len(snap))
	for i := range snap {
		key := s.key(snap[i].Name)
		index[key] = append(index[key], i)
	}

	s.mu.Lock()
	s.entries = snap
	s.byName = index
	s.mu.Unlock()

	metrics.RecordSnapshotPublished()
	return nil
}

// TopN implements Store.TopN.
func (s *SnapshotStore) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n = min(n, len(s.entries))
	return slices.Clone(s.entries[:n]), nil
}

// ByName implements Store.ByName.
func (s *SnapshotStore) ByName(ctx context.Context, name string) ([]types.Entry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byName[s.key(name)]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	out := make([]types.Entry, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// Count implements Store.Count.
func (s *SnapshotStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *SnapshotStore) key(name string) string {
	name = strings.TrimSpace(name)
	if s.foldNames {
		return strings.ToLower(name)
	}
	return name
}
