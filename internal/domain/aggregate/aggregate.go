// Package aggregate groups pitch events by (pitcher, pitch type) and
// computes the movement summary statistics the rest of the service
// consumes.
//
// All functions are pure: they never mutate their inputs, and identical
// inputs always produce identical outputs. Callers are expected to hand
// in finite values only; the data loader excludes malformed rows before
// they reach this package.
package aggregate

import (
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/cuatro-costuras/public-baseball/internal/domain/model"
)

// Aggregator computes per-group summary statistics.
type Aggregator struct{}

// New creates an Aggregator.
func New() *Aggregator {
	return &Aggregator{}
}

// Group filters events to one pitcher and partitions them by pitch type.
// Each returned group carries cached summary statistics. Returns
// ErrUnknownPitcher when the pitcher has no events in the input.
func (a *Aggregator) Group(events []model.PitchEvent, pitcherID string) (map[string]*model.PitchTypeGroup, error) {
	byType := make(map[string][]model.PitchEvent)
	for _, e := range events {
		if e.PitcherID != pitcherID {
			continue
		}
		byType[e.PitchType] = append(byType[e.PitchType], e)
	}
	if len(byType) == 0 {
		return nil, ErrUnknownPitcher
	}

	groups := make(map[string]*model.PitchTypeGroup, len(byType))
	for pitchType, evs := range byType {
		groups[pitchType] = a.summarize(pitcherID, pitchType, evs)
	}
	return groups, nil
}

// GroupLeague filters events to one pitch type and partitions them by
// pitcher, one group per pitcher ordered by pitcher id. Returns
// ErrUnknownPitchType when nobody in the input throws that pitch.
func (a *Aggregator) GroupLeague(events []model.PitchEvent, pitchType string) ([]*model.PitchTypeGroup, error) {
	byPitcher := make(map[string][]model.PitchEvent)
	for _, e := range events {
		if e.PitchType != pitchType {
			continue
		}
		byPitcher[e.PitcherID] = append(byPitcher[e.PitcherID], e)
	}
	if len(byPitcher) == 0 {
		return nil, ErrUnknownPitchType
	}

	pitchers := make([]string, 0, len(byPitcher))
	for id := range byPitcher {
		pitchers = append(pitchers, id)
	}
	sort.Strings(pitchers)

	groups := make([]*model.PitchTypeGroup, 0, len(pitchers))
	for _, id := range pitchers {
		groups = append(groups, a.summarize(id, pitchType, byPitcher[id]))
	}
	return groups, nil
}

// Summarize computes the cached statistics for an already-partitioned
// set of events. Exposed so the league build pipeline can summarize a
// GroupJob without re-partitioning the whole season.
func (a *Aggregator) Summarize(job model.GroupJob) *model.PitchTypeGroup {
	return a.summarize(job.PitcherID, job.PitchType, job.Events)
}

func (a *Aggregator) summarize(pitcherID, pitchType string, events []model.PitchEvent) *model.PitchTypeGroup {
	g := &model.PitchTypeGroup{
		PitcherID: pitcherID,
		PitchType: pitchType,
		Events:    events,
		Count:     len(events),
	}

	horizontal := make([]float64, len(events))
	vertical := make([]float64, len(events))
	var velocity []float64
	for i, e := range events {
		horizontal[i] = e.HorizontalBreak
		vertical[i] = e.VerticalBreak
		if e.Velocity != nil {
			velocity = append(velocity, *e.Velocity)
		}
	}

	g.Horizontal = axisStats(horizontal)
	g.Vertical = axisStats(vertical)
	if len(velocity) > 0 {
		vs := axisStats(velocity)
		g.Velocity = &vs
	}
	return g
}

// axisStats summarizes one axis. values must be non-empty and finite.
func axisStats(values []float64) model.AxisStats {
	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	s := model.AxisStats{Mean: mean, Median: median}

	// Spread is undefined for a single observation; leave it nil rather
	// than reporting a misleading zero.
	if len(values) >= 2 {
		sd, err := stats.StandardDeviationSample(values)
		if err == nil {
			s.StdDev = &sd
		}
		iqr := IQR(values)
		s.IQR = &iqr
	}
	return s
}

// Quantile returns the p-th quantile (0 <= p <= 1) of values using
// linear interpolation between order statistics. values must be
// non-empty; the input is not mutated.
func Quantile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}

	h := float64(len(sorted)-1) * p
	lo := int(h)
	frac := h - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// IQR returns the interquartile range (p75 - p25) of values.
func IQR(values []float64) float64 {
	return Quantile(values, 0.75) - Quantile(values, 0.25)
}
