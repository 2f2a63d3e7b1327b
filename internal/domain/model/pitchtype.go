package model

// pitchTypeNames maps Statcast pitch type codes to display names.
var pitchTypeNames = map[string]string{
	"FF": "Four-Seam Fastball",
	"SL": "Slider",
	"CU": "Curveball",
	"CH": "Changeup",
	"FS": "Splitter",
	"SI": "Sinker",
	"FC": "Cutter",
	"KC": "Knuckle Curve",
	"KN": "Knuckleball",
	"SV": "Slurve",
	"ST": "Sweeper",
	"CS": "Slow Curve",
}

// PitchTypeName returns the display name for a pitch type code,
// or "Unknown" for codes outside the tracked set.
func PitchTypeName(code string) string {
	if name, ok := pitchTypeNames[code]; ok {
		return name
	}
	return "Unknown"
}

// KnownPitchType reports whether code is one of the tracked pitch types.
func KnownPitchType(code string) bool {
	_, ok := pitchTypeNames[code]
	return ok
}
