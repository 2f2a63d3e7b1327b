package rank

import (
	"errors"
	"math"
	"testing"

	"github.com/cuatro-costuras/public-baseball/internal/domain/scoring"
)

const epsilon = 1e-9

func results(scores ...float64) []scoring.Result {
	out := make([]scoring.Result, len(scores))
	for i, s := range scores {
		out[i] = scoring.Result{
			PitcherID: "pitcher-" + string(rune('a'+i)),
			PitchType: "FF",
			Score:     s,
		}
	}
	return out
}

func TestPercentile_MeanRankConvention(t *testing.T) {
	// One entry ties the query score: 2 below, 1 equal, 1 above.
	d := NewDistribution("FF", results(-0.5, -0.3, -0.2, -0.1))

	pct, err := d.Percentile(-0.2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(pct-62.5) > epsilon {
		t.Errorf("expected percentile 62.5, got %v", pct)
	}
}

func TestPercentile_BestOfFourUntied(t *testing.T) {
	d := NewDistribution("FF", results(-0.9, -0.7, -0.5, -0.3))

	pct, err := d.Percentile(-0.3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(pct-87.5) > epsilon {
		t.Errorf("expected percentile 87.5 for the untied best of four, got %v", pct)
	}
}

func TestPercentile_Bounds(t *testing.T) {
	d := NewDistribution("FF", results(-0.9, -0.7, -0.5, -0.3))

	low, err := d.Percentile(-5.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if low != 0 {
		t.Errorf("expected 0 below the whole league, got %v", low)
	}

	high, err := d.Percentile(0.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 100 {
		t.Errorf("expected 100 above the whole league, got %v", high)
	}
}

func TestPercentile_Monotonic(t *testing.T) {
	d := NewDistribution("SL", results(-1.4, -1.1, -0.9, -0.6, -0.6, -0.2))

	prev := -1.0
	for _, score := range []float64{-2.0, -1.2, -0.9, -0.6, -0.4, 0.1} {
		pct, err := d.Percentile(score)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pct < prev {
			t.Fatalf("percentile decreased from %v to %v at score %v", prev, pct, score)
		}
		prev = pct
	}
}

func TestPercentile_InsufficientLeagueData(t *testing.T) {
	single := NewDistribution("KN", results(-0.4))

	if _, err := single.Percentile(-0.4); !errors.Is(err, ErrInsufficientLeagueData) {
		t.Errorf("expected ErrInsufficientLeagueData, got %v", err)
	}
	if _, err := single.TopN(5); !errors.Is(err, ErrInsufficientLeagueData) {
		t.Errorf("expected ErrInsufficientLeagueData from TopN, got %v", err)
	}

	empty := NewDistribution("KN", nil)
	if empty.Size() != 0 {
		t.Errorf("expected empty distribution, got size %d", empty.Size())
	}
	if _, err := empty.Percentile(-0.4); !errors.Is(err, ErrInsufficientLeagueData) {
		t.Errorf("expected ErrInsufficientLeagueData for empty distribution, got %v", err)
	}
}

func TestTopN_Ordering(t *testing.T) {
	d := NewDistribution("FF", []scoring.Result{
		{PitcherID: "wheeler", PitchType: "FF", Score: -0.3},
		{PitcherID: "cole", PitchType: "FF", Score: -0.1},
		{PitcherID: "snell", PitchType: "FF", Score: -0.7},
	})

	top, err := d.TopN(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].PitcherID != "cole" || top[0].Rank != 1 {
		t.Errorf("expected cole first, got %+v", top[0])
	}
	if top[1].PitcherID != "wheeler" || top[1].Rank != 2 {
		t.Errorf("expected wheeler second, got %+v", top[1])
	}
	if top[0].Percentile <= top[1].Percentile {
		t.Errorf("percentiles should fall with rank: %v then %v", top[0].Percentile, top[1].Percentile)
	}
}

func TestTopN_TiesBreakOnPitcherID(t *testing.T) {
	d := NewDistribution("SL", []scoring.Result{
		{PitcherID: "b", PitchType: "SL", Score: -0.4},
		{PitcherID: "a", PitchType: "SL", Score: -0.4},
	})

	top, err := d.TopN(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if top[0].PitcherID != "a" || top[1].PitcherID != "b" {
		t.Errorf("expected tie broken by pitcher id, got %s then %s", top[0].PitcherID, top[1].PitcherID)
	}
}

func TestTopN_CapsAtLeagueSize(t *testing.T) {
	d := NewDistribution("FF", results(-0.5, -0.3))

	top, err := d.TopN(50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(top) != 2 {
		t.Errorf("expected 2 entries, got %d", len(top))
	}
}
