// Package types contains common read-model types shared across layers.
package types

import (
	"github.com/cuatro-costuras/public-baseball/internal/domain/aggregate"
	"github.com/cuatro-costuras/public-baseball/internal/domain/model"
)

// LeaderboardEntry represents one row of a pitch type's league
// consistency leaderboard.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	PitcherID  string  `json:"pitcher_id"`
	PitchType  string  `json:"pitch_type"`
	Score      float64 `json:"score"`
	Percentile float64 `json:"percentile"`
}

// ArsenalRank is one pitch in a pitcher's arsenal consistency ranking,
// ordered most to least consistent.
type ArsenalRank struct {
	PitchType  string   `json:"pitch_type"`
	PitchName  string   `json:"pitch_name"`
	Count      int      `json:"count"`
	Score      float64  `json:"score"`
	Percentile *float64 `json:"percentile,omitempty"` // nil when the league sample is too small
}

// Consistency is the full consistency answer for one (pitcher, pitch type).
type Consistency struct {
	PitcherID  string   `json:"pitcher_id"`
	PitchType  string   `json:"pitch_type"`
	PitchName  string   `json:"pitch_name"`
	Count      int      `json:"count"`
	Score      float64  `json:"score"`
	Dispersion float64  `json:"dispersion"`
	Percentile *float64 `json:"percentile,omitempty"` // nil when the league sample is too small
	LeagueSize int      `json:"league_size"`
}

// MovementSummary describes the distribution of one pitch type's
// movement for one pitcher, including histograms for charting.
type MovementSummary struct {
	PitcherID  string           `json:"pitcher_id"`
	PitchType  string           `json:"pitch_type"`
	PitchName  string           `json:"pitch_name"`
	Count      int              `json:"count"`
	Horizontal model.AxisStats  `json:"horizontal"`
	Vertical   model.AxisStats  `json:"vertical"`
	Velocity   *model.AxisStats `json:"velocity,omitempty"`

	HorizontalHistogram []aggregate.Bin `json:"horizontal_histogram"`
	VerticalHistogram   []aggregate.Bin `json:"vertical_histogram"`
	VelocityHistogram   []aggregate.Bin `json:"velocity_histogram,omitempty"`
}

// PitchTypeInfo describes one entry of a pitcher's arsenal.
type PitchTypeInfo struct {
	PitchType string `json:"pitch_type"`
	PitchName string `json:"pitch_name"`
	Count     int    `json:"count"`
}
