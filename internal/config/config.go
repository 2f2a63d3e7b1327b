// Package config defines service configuration structures and loading hooks.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir points at a directory of monthly statcast CSV files.
	// When empty, files are fetched from BaseURL instead.
	DataDir string `koanf:"data_dir"`

	// BaseURL is the remote base for monthly statcast files.
	BaseURL string `koanf:"base_url"`

	// Season selects which season's files to load.
	Season int `koanf:"season"`

	// MinSampleSize is the smallest group that earns a consistency score.
	MinSampleSize int `koanf:"min_sample_size"`

	// WorkerCount sets the number of scoring workers for the league build.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory group job queue.
	QueueSize int `koanf:"queue_size"`

	// MaxLeaderboardLimit caps GET /api/v1/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// HistogramMaxBins caps movement summary histogram resolution.
	HistogramMaxBins int `koanf:"histogram_max_bins"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		DataDir:             "",
		BaseURL:             "https://raw.githubusercontent.com/cuatro-costuras/public-baseball/main/data",
		Season:              2024,
		MinSampleSize:       5,
		WorkerCount:         runtime.NumCPU() * 2,
		QueueSize:           10_000,
		MaxLeaderboardLimit: 100,
		HistogramMaxBins:    30,
	}
}
