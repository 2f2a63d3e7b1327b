// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	groupqueue "github.com/cuatro-costuras/public-baseball/internal/adapters/mq/queue"
	workerpool "github.com/cuatro-costuras/public-baseball/internal/adapters/mq/worker"
	"github.com/cuatro-costuras/public-baseball/internal/adapters/repository"
	"github.com/cuatro-costuras/public-baseball/internal/adapters/statcast"
	"github.com/cuatro-costuras/public-baseball/internal/domain/aggregate"
	"github.com/cuatro-costuras/public-baseball/internal/domain/model"
	"github.com/cuatro-costuras/public-baseball/internal/domain/rank"
	"github.com/cuatro-costuras/public-baseball/internal/domain/scoring"
	"github.com/cuatro-costuras/public-baseball/internal/domain/types"
	"github.com/cuatro-costuras/public-baseball/pkg/logger"
	"github.com/cuatro-costuras/public-baseball/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultLeaderboardLimit = 10
	defaultMaxLeaderboard   = 100
)

// DataLoader loads a season of pitch events from source files.
type DataLoader interface {
	Load(ctx context.Context) (*statcast.Result, error)
}

// leagueCollector accumulates scored groups per pitch type as workers
// finish them. Collect is safe for concurrent use.
type leagueCollector struct {
	mu      sync.Mutex
	results map[string][]scoring.Result
}

func newLeagueCollector() *leagueCollector {
	return &leagueCollector{results: make(map[string][]scoring.Result)}
}

// Collect implements worker.Collector.
func (c *leagueCollector) Collect(ctx context.Context, r scoring.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[r.PitchType] = append(c.results[r.PitchType], r)
}

// Service implements the API dependencies for the pitch consistency system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  *repository.SeasonStore
	loader DataLoader
	agg    *aggregate.Aggregator
	scorer *scoring.Scorer

	// Configuration
	workerCount    int
	queueSize      int
	minSample      int
	maxLeaderboard int
	histogramBins  int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLoader sets the season data loader.
func WithLoader(l DataLoader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithWorkerCount sets the number of scoring worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the minimum capacity of the group job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithMinSample sets the minimum group size required for a consistency score.
func WithMinSample(n int) Option {
	return func(s *Service) {
		if n >= 2 {
			s.minSample = n
		}
	}
}

// WithMaxLeaderboardLimit caps the leaderboard size a caller may request.
func WithMaxLeaderboardLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLeaderboard = n
		}
	}
}

// WithHistogramMaxBins sets the default histogram bin cap for movement summaries.
func WithHistogramMaxBins(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.histogramBins = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      10000,
		minSample:      0, // scorer default applies
		maxLeaderboard: defaultMaxLeaderboard,
		agg:            aggregate.New(),
		logger:         nil, // will be replaced when the service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components. The season itself is
// loaded separately via Load.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting pitch consistency service...")

	s.store = repository.NewSeasonStore()
	if s.loader == nil {
		s.loader = statcast.New()
	}

	var scorerOpts []scoring.Option
	if s.minSample >= 2 {
		scorerOpts = append(scorerOpts, scoring.WithMinSample(s.minSample))
	}
	s.scorer = scoring.New(scorerOpts...)

	s.started = true
	s.logger.Info(ctx, "pitch consistency service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("minSample", s.scorer.MinSample()),
	)

	return nil
}

// Stop shuts the service down. Queries fail with repository.ErrNotLoaded
// on a fresh store after a restart.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "pitch consistency service stopped")
}

// Load reads the season's statcast files, scores every
// (pitcher, pitch type) group through the worker pool and publishes
// the resulting league distributions atomically. Until Load returns,
// queries keep seeing the previous snapshot.
func (s *Service) Load(ctx context.Context) error {
	s.mu.RLock()
	loader := s.loader
	s.mu.RUnlock()

	loadStart := time.Now()
	res, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load season: %w", err)
	}
	metrics.RecordPitchesLoaded(len(res.Events))
	metrics.RecordRowsExcluded(res.Excluded)
	metrics.RecordRowsDuplicate(res.Duplicates)
	metrics.RecordLoadDuration(float64(time.Since(loadStart).Milliseconds()))

	s.logger.Info(ctx, "season files loaded",
		logger.Int("events", len(res.Events)),
		logger.Int("excluded", res.Excluded),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("files", res.FilesRead),
	)

	buildStart := time.Now()
	jobs := groupEvents(res.Events)

	// The queue must hold the whole batch; jobs are all enqueued before
	// the workers are asked to drain to completion.
	capacity := s.queueSize
	if len(jobs) > capacity {
		capacity = len(jobs)
	}
	q := groupqueue.NewInMemoryQueue(
		groupqueue.WithCapacity(capacity),
		groupqueue.WithBufferSize(capacity),
	)

	collector := newLeagueCollector()
	pool := workerpool.NewPool(s.workerCount, q, s.scorer, collector)
	pool.Start(ctx)

	for _, job := range jobs {
		if !q.Enqueue(ctx, job) {
			pool.Stop()
			return fmt.Errorf("enqueue group %s/%s: %w", job.PitcherID, job.PitchType, groupqueue.ErrClosed)
		}
	}
	if err := q.Close(); err != nil {
		return fmt.Errorf("close queue: %w", err)
	}
	if err := pool.Wait(ctx); err != nil {
		return fmt.Errorf("score season: %w", err)
	}

	// Every pitch type seen in the season gets a distribution, even one
	// with too few qualified pitchers for percentiles.
	dists := make(map[string]*rank.Distribution)
	for _, job := range jobs {
		if _, ok := dists[job.PitchType]; !ok {
			dists[job.PitchType] = nil
		}
	}
	collector.mu.Lock()
	for pt := range dists {
		dists[pt] = rank.NewDistribution(pt, collector.results[pt])
	}
	collector.mu.Unlock()

	s.store.Publish(ctx, res.Events, dists, res.Excluded, res.Duplicates)
	metrics.RecordLeagueBuildDuration(float64(time.Since(buildStart).Milliseconds()))

	s.logger.Info(ctx, "league published",
		logger.Int("groups", len(jobs)),
		logger.Int("pitchTypes", len(dists)),
	)
	return nil
}

// groupEvents partitions a season into one job per (pitcher, pitch type).
func groupEvents(events []model.PitchEvent) []model.GroupJob {
	type key struct{ pitcher, pitchType string }
	byGroup := make(map[key][]model.PitchEvent)
	for _, ev := range events {
		k := key{ev.PitcherID, ev.PitchType}
		byGroup[k] = append(byGroup[k], ev)
	}

	jobs := make([]model.GroupJob, 0, len(byGroup))
	for k, evs := range byGroup {
		jobs = append(jobs, model.GroupJob{
			PitcherID: k.pitcher,
			PitchType: k.pitchType,
			Events:    evs,
		})
	}
	return jobs
}

// Ready reports whether a season has been loaded and published.
func (s *Service) Ready(ctx context.Context) bool {
	return s.store.Ready(ctx)
}

// SearchPitchers returns pitcher ids matching the query, sorted.
func (s *Service) SearchPitchers(ctx context.Context, query string) ([]string, error) {
	return s.store.SearchPitchers(ctx, query)
}

// ListPitchTypes returns a pitcher's arsenal with usage counts, most
// thrown first.
func (s *Service) ListPitchTypes(ctx context.Context, pitcherID string) ([]types.PitchTypeInfo, error) {
	return s.store.Arsenal(ctx, pitcherID)
}

// group returns the summarized group for one (pitcher, pitch type).
func (s *Service) group(ctx context.Context, pitcherID, pitchType string) (*model.PitchTypeGroup, error) {
	events, err := s.store.EventsFor(ctx, pitcherID)
	if err != nil {
		return nil, err
	}
	groups, err := s.agg.Group(events, pitcherID)
	if err != nil {
		return nil, err
	}
	g, ok := groups[pitchType]
	if !ok {
		return nil, aggregate.ErrUnknownPitchType
	}
	return g, nil
}

// MovementSummary returns the movement distribution for one pitch type
// of one pitcher. maxBins caps the histogram resolution; zero or less
// uses the service default.
func (s *Service) MovementSummary(ctx context.Context, pitcherID, pitchType string, maxBins int) (*types.MovementSummary, error) {
	g, err := s.group(ctx, pitcherID, pitchType)
	if err != nil {
		return nil, err
	}

	if maxBins <= 0 {
		maxBins = s.histogramBins
	}

	horizontal := make([]float64, len(g.Events))
	vertical := make([]float64, len(g.Events))
	var velocity []float64
	for i, ev := range g.Events {
		horizontal[i] = ev.HorizontalBreak
		vertical[i] = ev.VerticalBreak
		if ev.Velocity != nil {
			velocity = append(velocity, *ev.Velocity)
		}
	}

	sum := &types.MovementSummary{
		PitcherID:           g.PitcherID,
		PitchType:           g.PitchType,
		PitchName:           model.PitchTypeName(g.PitchType),
		Count:               g.Count,
		Horizontal:          g.Horizontal,
		Vertical:            g.Vertical,
		Velocity:            g.Velocity,
		HorizontalHistogram: aggregate.Histogram(horizontal, maxBins),
		VerticalHistogram:   aggregate.Histogram(vertical, maxBins),
	}
	if len(velocity) > 0 {
		sum.VelocityHistogram = aggregate.Histogram(velocity, maxBins)
	}
	return sum, nil
}

// Consistency returns the consistency score and league percentile for
// one (pitcher, pitch type). The percentile is omitted when the league
// distribution is too small to rank against.
func (s *Service) Consistency(ctx context.Context, pitcherID, pitchType string) (*types.Consistency, error) {
	g, err := s.group(ctx, pitcherID, pitchType)
	if err != nil {
		return nil, err
	}

	score, err := s.scorer.Score(g)
	if err != nil {
		return nil, err
	}

	out := &types.Consistency{
		PitcherID:  pitcherID,
		PitchType:  pitchType,
		PitchName:  model.PitchTypeName(pitchType),
		Count:      g.Count,
		Score:      score,
		Dispersion: scoring.Dispersion(score),
	}

	dist, err := s.store.Distribution(ctx, pitchType)
	if err != nil {
		return nil, err
	}
	out.LeagueSize = dist.Size()

	metrics.RecordPercentileQuery()
	pct, err := dist.Percentile(score)
	switch {
	case err == nil:
		out.Percentile = &pct
	case errors.Is(err, rank.ErrInsufficientLeagueData):
		// Score stands on its own; the league is just too small to rank it.
	default:
		return nil, err
	}
	return out, nil
}

// RankArsenal ranks every qualified pitch in a pitcher's arsenal from
// most to least consistent. Returns scoring.ErrInsufficientData when no
// pitch type meets the sample threshold.
func (s *Service) RankArsenal(ctx context.Context, pitcherID string) ([]types.ArsenalRank, error) {
	events, err := s.store.EventsFor(ctx, pitcherID)
	if err != nil {
		return nil, err
	}
	groups, err := s.agg.Group(events, pitcherID)
	if err != nil {
		return nil, err
	}

	out := make([]types.ArsenalRank, 0, len(groups))
	for pitchType, g := range groups {
		score, err := s.scorer.Score(g)
		if err != nil {
			// Unqualified pitch types simply don't rank.
			continue
		}
		entry := types.ArsenalRank{
			PitchType: pitchType,
			PitchName: model.PitchTypeName(pitchType),
			Count:     g.Count,
			Score:     score,
		}
		if dist, derr := s.store.Distribution(ctx, pitchType); derr == nil {
			if pct, perr := dist.Percentile(score); perr == nil {
				entry.Percentile = &pct
			}
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		return nil, scoring.ErrInsufficientData
	}

	// Most consistent first; ties break on pitch type for determinism.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PitchType < out[j].PitchType
	})
	return out, nil
}

// Leaderboard returns the top pitchers for a pitch type, most
// consistent first. A non-positive limit uses the default; limits are
// capped at the configured maximum.
func (s *Service) Leaderboard(ctx context.Context, pitchType string, limit int) ([]types.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > s.maxLeaderboard {
		limit = s.maxLeaderboard
	}

	dist, err := s.store.Distribution(ctx, pitchType)
	if err != nil {
		return nil, err
	}
	return dist.TopN(limit)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"minSample":   0,
	}
	if s.scorer != nil {
		out["minSample"] = s.scorer.MinSample()
	}

	if stats, err := s.store.Stats(ctx); err == nil {
		out["pitchers"] = stats.Pitchers
		out["events"] = stats.Events
		out["excludedRows"] = stats.Excluded
		out["duplicateRows"] = stats.Duplicates
		out["pitchTypes"] = stats.PitchTypes
		out["loadedAt"] = stats.LoadedAt
	}
	return out
}
