// Package repository provides the in-memory season store. A load
// publishes one immutable snapshot of the season's events, per-pitcher
// indexes and league distributions; queries read whichever snapshot is
// current without locking.
package repository

import (
	"context"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cuatro-costuras/public-baseball/internal/domain/model"
	"github.com/cuatro-costuras/public-baseball/internal/domain/rank"
	"github.com/cuatro-costuras/public-baseball/internal/domain/types"
	"github.com/cuatro-costuras/public-baseball/pkg/metrics"
)

// Snapshot is one published season. All fields are read-only after
// Publish; a reload swaps the whole snapshot rather than mutating it.
type snapshot struct {
	byPitcher  map[string][]model.PitchEvent
	arsenals   map[string][]types.PitchTypeInfo
	pitchers   []string // sorted
	dists      map[string]*rank.Distribution
	events     int
	excluded   int
	duplicates int
	loadedAt   time.Time
}

// SeasonStore serves queries against the most recently published
// season snapshot. Safe for concurrent use; Publish may be called
// again to replace the snapshot wholesale.
type SeasonStore struct {
	current atomic.Value // *snapshot
}

// NewSeasonStore returns an empty store. Queries fail with
// ErrNotLoaded until the first Publish.
func NewSeasonStore() *SeasonStore {
	return &SeasonStore{}
}

// Publish indexes the season's events and distributions and swaps them
// in as the current snapshot. Events and dists are retained; callers
// must not mutate them afterwards.
func (s *SeasonStore) Publish(ctx context.Context, events []model.PitchEvent, dists map[string]*rank.Distribution, excluded, duplicates int) {
	snap := &snapshot{
		byPitcher:  make(map[string][]model.PitchEvent),
		arsenals:   make(map[string][]types.PitchTypeInfo),
		dists:      dists,
		events:     len(events),
		excluded:   excluded,
		duplicates: duplicates,
		loadedAt:   time.Now(),
	}
	if snap.dists == nil {
		snap.dists = make(map[string]*rank.Distribution)
	}

	for _, ev := range events {
		snap.byPitcher[ev.PitcherID] = append(snap.byPitcher[ev.PitcherID], ev)
	}

	snap.pitchers = make([]string, 0, len(snap.byPitcher))
	for id, evs := range snap.byPitcher {
		snap.pitchers = append(snap.pitchers, id)
		snap.arsenals[id] = buildArsenal(evs)
	}
	sort.Strings(snap.pitchers)

	s.current.Store(snap)

	metrics.UpdateDatasetPitchers(len(snap.pitchers))
	metrics.UpdateDatasetEvents(snap.events)
	metrics.UpdateLeaguePublishLastUnix(float64(snap.loadedAt.Unix()))
	for pt, d := range snap.dists {
		metrics.UpdateLeagueDistributionSize(pt, d.Size())
	}
}

// buildArsenal counts events per pitch type, most thrown first with
// ties broken on the type code.
func buildArsenal(events []model.PitchEvent) []types.PitchTypeInfo {
	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.PitchType]++
	}
	out := make([]types.PitchTypeInfo, 0, len(counts))
	for pt, n := range counts {
		out = append(out, types.PitchTypeInfo{
			PitchType: pt,
			PitchName: model.PitchTypeName(pt),
			Count:     n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].PitchType < out[j].PitchType
	})
	return out
}

func (s *SeasonStore) snapshot() (*snapshot, error) {
	snap, _ := s.current.Load().(*snapshot)
	if snap == nil {
		return nil, ErrNotLoaded
	}
	return snap, nil
}

// Ready reports whether a season snapshot has been published.
func (s *SeasonStore) Ready(ctx context.Context) bool {
	_, err := s.snapshot()
	return err == nil
}

// EventsFor returns every event the pitcher threw this season.
func (s *SeasonStore) EventsFor(ctx context.Context, pitcherID string) ([]model.PitchEvent, error) {
	start := time.Now()
	defer func() { metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds())) }()

	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	evs, ok := snap.byPitcher[pitcherID]
	if !ok {
		return nil, ErrUnknownPitcher
	}
	return evs, nil
}

// Arsenal returns the pitcher's pitch types with usage counts, most
// thrown first.
func (s *SeasonStore) Arsenal(ctx context.Context, pitcherID string) ([]types.PitchTypeInfo, error) {
	start := time.Now()
	defer func() { metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds())) }()

	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	ar, ok := snap.arsenals[pitcherID]
	if !ok {
		return nil, ErrUnknownPitcher
	}
	return ar, nil
}

// SearchPitchers returns pitcher ids containing query, case folded,
// sorted ascending. An empty query matches everyone.
func (s *SeasonStore) SearchPitchers(ctx context.Context, query string) ([]string, error) {
	start := time.Now()
	defer func() { metrics.RecordQueryLatency(float64(time.Since(start).Milliseconds())) }()

	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if query == "" {
		return snap.pitchers, nil
	}
	q := strings.ToLower(query)
	var out []string
	for _, id := range snap.pitchers {
		if strings.Contains(strings.ToLower(id), q) {
			out = append(out, id)
		}
	}
	return out, nil
}

// Distribution returns the league distribution for a pitch type. The
// distribution exists for every pitch type seen in the season, even
// when too few pitchers qualified for percentiles.
func (s *SeasonStore) Distribution(ctx context.Context, pitchType string) (*rank.Distribution, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	d, ok := snap.dists[pitchType]
	if !ok {
		return nil, ErrUnknownPitchType
	}
	return d, nil
}

// Stats describes the currently published season.
type Stats struct {
	Pitchers      int       `json:"pitchers"`
	Events        int       `json:"events"`
	Excluded      int       `json:"excluded_rows"`
	Duplicates    int       `json:"duplicate_rows"`
	PitchTypes    int       `json:"pitch_types"`
	Distributions int       `json:"league_distributions"`
	LoadedAt      time.Time `json:"loaded_at"`
}

// Stats returns counts for the current snapshot.
func (s *SeasonStore) Stats(ctx context.Context) (Stats, error) {
	snap, err := s.snapshot()
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Pitchers:      len(snap.pitchers),
		Events:        snap.events,
		Excluded:      snap.excluded,
		Duplicates:    snap.duplicates,
		PitchTypes:    len(snap.dists),
		Distributions: len(snap.dists),
		LoadedAt:      snap.loadedAt,
	}, nil
}
