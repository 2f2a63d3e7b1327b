package rank

import "errors"

// Sentinel kinds for percentile errors.
var (
	// ErrInsufficientLeagueData signals a distribution with fewer than
	// two qualified pitchers; a percentile against zero or one
	// comparison points is undefined.
	ErrInsufficientLeagueData = errors.New("insufficient league data")
)
