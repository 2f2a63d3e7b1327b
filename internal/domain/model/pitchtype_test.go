package model

import "testing"

func TestPitchTypeName(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"FF", "Four-Seam Fastball"},
		{"SL", "Slider"},
		{"CH", "Changeup"},
		{"XX", "Unknown"},
		{"", "Unknown"},
	}
	for _, c := range cases {
		if got := PitchTypeName(c.code); got != c.want {
			t.Errorf("PitchTypeName(%q) = %q, want %q", c.code, got, c.want)
		}
	}
}

func TestKnownPitchType(t *testing.T) {
	if !KnownPitchType("FF") {
		t.Error("FF should be a known pitch type")
	}
	if KnownPitchType("XX") {
		t.Error("XX should not be a known pitch type")
	}
	if KnownPitchType("") {
		t.Error("empty code should not be a known pitch type")
	}
}
