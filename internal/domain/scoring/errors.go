package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	// ErrInsufficientData signals a group below the minimum sample size.
	// It is a recoverable condition, not a failure.
	ErrInsufficientData = errors.New("insufficient data")
)
