package statcast

import "errors"

// Sentinel kinds for loader errors.
var (
	ErrNoSource      = errors.New("no data source configured")
	ErrNoData        = errors.New("no pitch data loaded")
	ErrMissingColumn = errors.New("missing required column")
)
