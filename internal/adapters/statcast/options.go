package statcast

import (
	"net/http"

	"github.com/cuatro-costuras/public-baseball/internal/domain/dedupe"
	"github.com/cuatro-costuras/public-baseball/pkg/logger"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithDataDir reads monthly files from a local directory.
func WithDataDir(dir string) Option {
	return func(l *Loader) {
		l.dataDir = dir
	}
}

// WithBaseURL fetches monthly files from an HTTP base URL. Ignored
// when a data directory is also configured.
func WithBaseURL(url string) Option {
	return func(l *Loader) {
		l.baseURL = url
	}
}

// WithSeason sets the season year used in file names.
func WithSeason(year int) Option {
	return func(l *Loader) {
		if year > 0 {
			l.season = year
		}
	}
}

// WithHTTPClient sets the client used for base-URL fetches.
func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithDeduper sets the duplicate-row suppressor.
func WithDeduper(d dedupe.Deduper) Option {
	return func(l *Loader) {
		if d != nil {
			l.deduper = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}
