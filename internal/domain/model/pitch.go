// Package model contains domain models passed between layers.
package model

// PitchEvent is a single tracked pitch from the season feed.
// Movement values are in inches relative to a no-spin baseline.
type PitchEvent struct {
	PitcherID       string   // pitcher identifier (player name in the Statcast feed)
	PitchType       string   // pitch type code, e.g. "FF", "SL"
	HorizontalBreak float64  // signed horizontal movement, inches
	VerticalBreak   float64  // signed vertical movement, inches
	Velocity        *float64 // release speed in mph, nil when the feed omits it
}

// AxisStats summarizes one measurement axis of a pitch type group.
// StdDev and IQR are nil when the group has fewer than two events;
// a single pitch says nothing about spread.
type AxisStats struct {
	Mean   float64  `json:"mean"`
	Median float64  `json:"median"`
	StdDev *float64 `json:"std_dev,omitempty"` // sample standard deviation (n-1)
	IQR    *float64 `json:"iqr,omitempty"`     // p75 - p25, linear interpolation
}

// PitchTypeGroup holds one pitcher's events for a single pitch type
// plus the cached summary statistics computed over them.
type PitchTypeGroup struct {
	PitcherID string       `json:"pitcher_id"`
	PitchType string       `json:"pitch_type"`
	Events    []PitchEvent `json:"-"`

	Count      int        `json:"count"`
	Horizontal AxisStats  `json:"horizontal"`
	Vertical   AxisStats  `json:"vertical"`
	Velocity   *AxisStats `json:"velocity,omitempty"` // nil when no event carries a velocity
}

// GroupJob is the unit of work flowing through the league build pipeline:
// one pitcher's events for one pitch type, awaiting aggregation and scoring.
type GroupJob struct {
	PitcherID string
	PitchType string
	Events    []PitchEvent
}
