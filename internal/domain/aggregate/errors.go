package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	ErrUnknownPitcher   = errors.New("unknown pitcher")
	ErrUnknownPitchType = errors.New("unknown pitch type")
)
