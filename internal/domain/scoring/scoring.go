// Package scoring converts a pitch type group's dispersion statistics
// into a single consistency score.
//
// The score is the negated magnitude of the 2-D movement standard
// deviation vector: -sqrt(sd_h^2 + sd_v^2). Negation makes larger mean
// more consistent, so the score sorts naturally for rankings and
// league percentiles. The transform is monotonic in dispersion and the
// raw dispersion is recoverable as -score.
//
// Scores are only comparable within a single pitch type; sliders
// naturally scatter more than four-seam fastballs.
package scoring

import (
	"math"

	"github.com/cuatro-costuras/public-baseball/internal/domain/model"
)

// defaultMinSample is the minimum group size for a trustworthy score.
// Below it the dispersion estimate is noise, so Score refuses to
// produce a number.
const defaultMinSample = 5

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithMinSample sets the minimum group size required to score.
// Values below 2 are ignored; a sample standard deviation needs at
// least two observations.
func WithMinSample(n int) Option {
	return func(s *Scorer) {
		if n >= 2 {
			s.minSample = n
		}
	}
}

// Result carries a scored group through the league build pipeline.
type Result struct {
	PitcherID string
	PitchType string
	Score     float64
}

// Scorer computes consistency scores from group dispersion statistics.
// The zero value is not usable; construct with New.
type Scorer struct {
	minSample int
}

// New creates a Scorer with configuration options.
func New(opts ...Option) *Scorer {
	s := &Scorer{minSample: defaultMinSample}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MinSample returns the configured minimum group size.
func (s *Scorer) MinSample() int {
	return s.minSample
}

// Score computes the consistency score for a group. Returns
// ErrInsufficientData when the group is below the minimum sample size
// or its dispersion statistics are undefined. Deterministic: identical
// input always yields an identical score.
func (s *Scorer) Score(g *model.PitchTypeGroup) (float64, error) {
	if g.Count < s.minSample {
		return 0, ErrInsufficientData
	}
	if g.Horizontal.StdDev == nil || g.Vertical.StdDev == nil {
		return 0, ErrInsufficientData
	}
	sdH := *g.Horizontal.StdDev
	sdV := *g.Vertical.StdDev
	return -math.Sqrt(sdH*sdH + sdV*sdV), nil
}

// Dispersion returns the raw combined movement dispersion for a scored
// group, i.e. the positive magnitude the score negates.
func Dispersion(score float64) float64 {
	return -score
}
