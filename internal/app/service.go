// Package service provides the core business service: it runs the scoring
// and ranking pipeline and answers read queries for the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/decathlon/internal/adapters/repository"
	"github.com/okian/decathlon/internal/adapters/source"
	"github.com/okian/decathlon/internal/domain/model"
	"github.com/okian/decathlon/internal/domain/ranking"
	"github.com/okian/decathlon/internal/domain/scoring"
	"github.com/okian/decathlon/internal/domain/types"
	"github.com/okian/decathlon/pkg/logger"
	"github.com/okian/decathlon/pkg/metrics"
)

// Report summarises one pipeline run.
type Report struct {
	RunID       string
	Entries     []types.Entry // final ranking order
	RowsRead    int
	RowsDropped int
	RowsRanked  int
	TieGroups   int
	StartedAt   time.Time
	Duration    time.Duration
}

// Service implements the pipeline and the API dependencies.
type Service struct {
	mu sync.RWMutex

	// Core components
	scorer scoring.Scorer
	store  repository.Store

	// Injectable for tests
	now   func() time.Time
	runID func() string

	// State
	last *Report

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScorer replaces the catalog scorer.
func WithScorer(scorer scoring.Scorer) Option {
	return func(s *Service) {
		if scorer != nil {
			s.scorer = scorer
		}
	}
}

// WithStore sets the store the finished ranking is published to.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithClock sets the time source used for run timestamps and durations.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRunIDGenerator sets how run identifiers are produced.
func WithRunIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.runID = gen
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		scorer: scoring.NewCatalogScorer(),
		store:  repository.NewSnapshotStore(),
		now:    time.Now,
		runID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Get()
}

// Process reads every record from src, scores it, drops rows with an
// unparseable measurement, ranks the rest and publishes the result.
// Dropped rows are not errors; read, cancellation and publish failures are.
func (s *Service) Process(ctx context.Context, src source.Source) (*Report, error) {
	started := s.now()
	runID := s.runID()
	log := s.log().With(logger.String("run_id", runID))

	records, err := src.Records(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("source", "read")
		return nil, fmt.Errorf("read records: %w", err)
	}
	metrics.RecordRowsRead(len(records))
	log.Debug(ctx, "records read", logger.Int("rows", len(records)))

	scored, dropped, err := s.score(ctx, log, records)
	if err != nil {
		return nil, err
	}

	entries := make([]ranking.Entry, len(scored))
	for i, rec := range scored {
		entries[i] = ranking.Entry{ID: i, Score: rec.Total}
	}
	placements := ranking.Rank(entries)

	out := make([]types.Entry, len(placements))
	for i, p := range placements {
		rec := scored[p.ID]
		rec.Place = p.Label
		out[i] = types.NewEntry(rec, p.Position)
	}

	if err := s.store.Publish(ctx, out); err != nil {
		metrics.RecordErrorByComponent("repository", "publish")
		return nil, fmt.Errorf("publish ranking: %w", err)
	}

	finished := s.now()
	report := &Report{
		RunID:       runID,
		Entries:     out,
		RowsRead:    len(records),
		RowsDropped: dropped,
		RowsRanked:  len(out),
		TieGroups:   ranking.Groups(placements),
		StartedAt:   started,
		Duration:    finished.Sub(started),
	}
	metrics.RecordRunCompleted(report.RowsRanked, report.TieGroups, report.Duration, finished)

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	log.Info(ctx, "ranking complete",
		logger.Int("rowsRead", report.RowsRead),
		logger.Int("rowsDropped", report.RowsDropped),
		logger.Int("rowsRanked", report.RowsRanked),
		logger.Int("tieGroups", report.TieGroups),
		logger.Any("duration", report.Duration),
	)
	return report, nil
}

// score returns the records that scored cleanly, in input order, and the
// number dropped.
func (s *Service) score(ctx context.Context, log logger.Logger, records []model.Record) ([]*model.Record, int, error) {
	scored := make([]*model.Record, 0, len(records))
	dropped := 0
	for i := range records {
		rec := &records[i]
		err := s.scorer.Score(ctx, rec)

		var fe *scoring.FieldError
		switch {
		case err == nil:
		case errors.As(err, &fe):
			log.Warn(ctx, "dropping row with invalid measurement",
				logger.Int("row", fe.Row),
				logger.String("name", fe.Name),
				logger.String("event", fe.Event),
				logger.String("raw", fe.Raw),
				logger.Error(fe.Err),
			)
			reason := metrics.DropUnparseable
			if errors.Is(fe, scoring.ErrPointsOutOfRange) {
				reason = metrics.DropOther
			}
			metrics.RecordRowDropped(reason)
			dropped++
			continue
		case errors.Is(err, scoring.ErrInvalidRecord):
			log.Warn(ctx, "dropping invalid row", logger.Int("row", rec.Row), logger.Error(err))
			metrics.RecordRowDropped(metrics.DropOther)
			dropped++
			continue
		default:
			metrics.RecordErrorByComponent("scoring", "score")
			return nil, 0, fmt.Errorf("score row %d: %w", rec.Row, err)
		}

		metrics.RecordRowScored()
		for _, p := range rec.Performances {
			metrics.RecordEventPoints(p.Event, p.Points)
		}
		scored = append(scored, rec)
	}
	return scored, dropped, nil
}

// LastReport returns the most recent run, or nil before the first one.
func (s *Service) LastReport() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// TopN returns the first n ranked entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	return s.store.TopN(ctx, n)
}

// ByName returns every ranked entry for a competitor name.
func (s *Service) ByName(ctx context.Context, name string) ([]types.Entry, error) {
	return s.store.ByName(ctx, name)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"ready":       s.last != nil,
		"competitors": s.store.Count(context.Background()),
	}

	if s.last != nil {
		stats["runId"] = s.last.RunID
		stats["rowsRead"] = s.last.RowsRead
		stats["rowsDropped"] = s.last.RowsDropped
		stats["rowsRanked"] = s.last.RowsRanked
		stats["tieGroups"] = s.last.TieGroups
		stats["startedAt"] = s.last.StartedAt.UTC().Format(time.RFC3339)
		stats["durationMs"] = s.last.Duration.Milliseconds()
	}

	return stats
}
