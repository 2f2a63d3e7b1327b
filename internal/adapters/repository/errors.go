package repository

import "errors"

// Sentinel kinds for season store errors.
var (
	ErrNotLoaded        = errors.New("season not loaded")
	ErrUnknownPitcher   = errors.New("pitcher not found")
	ErrUnknownPitchType = errors.New("pitch type not found")
)
