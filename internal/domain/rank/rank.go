// Package rank computes league percentile ranks for consistency scores.
//
// Percentiles use the mean-rank convention:
//
//	percentile = 100 * (L + 0.5*E) / N
//
// where L is the number of league entries strictly below the query
// score, E the number equal to it, and N the distribution size. A
// pitcher who is in the distribution and ties nobody therefore lands at
// 100*(L+0.5)/N rather than a discontinuous 0 or 100; the single best
// of four untied pitchers sits at 87.5. Averaging over ties keeps the
// percentile smooth when many pitchers share a discretized score.
//
// Distributions are keyed by pitch type and scores are only ever
// compared within one distribution; raw dispersion scales differ too
// much across pitch types for a cross-type percentile to mean anything.
package rank

import (
	"sort"

	"github.com/cuatro-costuras/public-baseball/internal/domain/scoring"
	"github.com/cuatro-costuras/public-baseball/internal/domain/types"
)

// minLeagueSize is the smallest distribution a percentile is defined over.
const minLeagueSize = 2

// Distribution holds the league's consistency scores for one pitch
// type, one entry per qualified pitcher. Built once per data load and
// read-only afterwards.
type Distribution struct {
	pitchType string
	scores    []float64 // ascending
	byBest    []scoring.Result
}

// NewDistribution builds a Distribution from scored groups. The input
// slice is not retained or mutated.
func NewDistribution(pitchType string, results []scoring.Result) *Distribution {
	byBest := append([]scoring.Result(nil), results...)
	sort.Slice(byBest, func(i, j int) bool {
		// Most consistent first; ties break on pitcher id for determinism.
		if byBest[i].Score != byBest[j].Score {
			return byBest[i].Score > byBest[j].Score
		}
		return byBest[i].PitcherID < byBest[j].PitcherID
	})

	scores := make([]float64, len(results))
	for i, r := range results {
		scores[i] = r.Score
	}
	sort.Float64s(scores)

	return &Distribution{
		pitchType: pitchType,
		scores:    scores,
		byBest:    byBest,
	}
}

// PitchType returns the pitch type this distribution covers.
func (d *Distribution) PitchType() string {
	return d.pitchType
}

// Size returns the number of qualified pitchers in the distribution.
func (d *Distribution) Size() int {
	return len(d.scores)
}

// Percentile returns where score falls within the distribution, in
// [0, 100], under the mean-rank convention documented on the package.
// Returns ErrInsufficientLeagueData when the distribution holds fewer
// than two entries.
func (d *Distribution) Percentile(score float64) (float64, error) {
	n := len(d.scores)
	if n < minLeagueSize {
		return 0, ErrInsufficientLeagueData
	}
	below := sort.SearchFloat64s(d.scores, score)
	upTo := sort.Search(n, func(i int) bool { return d.scores[i] > score })
	equal := upTo - below
	return 100 * (float64(below) + 0.5*float64(equal)) / float64(n), nil
}

// TopN returns the n most consistent pitchers for this pitch type,
// rank 1 first. Returns ErrInsufficientLeagueData when the distribution
// holds fewer than two entries.
func (d *Distribution) TopN(n int) ([]types.LeaderboardEntry, error) {
	if len(d.byBest) < minLeagueSize {
		return nil, ErrInsufficientLeagueData
	}
	if n > len(d.byBest) {
		n = len(d.byBest)
	}
	out := make([]types.LeaderboardEntry, n)
	for i := 0; i < n; i++ {
		r := d.byBest[i]
		pct, _ := d.Percentile(r.Score)
		out[i] = types.LeaderboardEntry{
			Rank:       i + 1,
			PitcherID:  r.PitcherID,
			PitchType:  d.pitchType,
			Score:      r.Score,
			Percentile: pct,
		}
	}
	return out, nil
}

// Percentile is the package-level form of Distribution.Percentile for
// callers holding a distribution reference.
func Percentile(score float64, d *Distribution) (float64, error) {
	return d.Percentile(score)
}
