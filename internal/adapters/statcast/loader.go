// Package statcast loads a season of per-pitch movement data from the
// periodic batch feed: one CSV (optionally gzip-compressed) per month,
// March through October, named statcast_<season>_<month>.csv.gz.
//
// Files are read either from a local data directory or fetched from an
// HTTP base URL. The loader owns data validation for the core: rows
// with unknown pitch types or unparsable/non-finite movement values are
// excluded deterministically and counted, and exact duplicate rows
// across file boundaries are suppressed. Movement arrives in feet
// (pfx_x/pfx_z) and is converted to inches.
package statcast

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cuatro-costuras/public-baseball/internal/domain/dedupe"
	"github.com/cuatro-costuras/public-baseball/internal/domain/model"
	"github.com/cuatro-costuras/public-baseball/pkg/logger"
)

// Season file layout constants.
const (
	firstMonth    = 3  // March
	lastMonth     = 10 // October
	feetToInches  = 12.0
	defaultSeason = 2024
)

// Required and optional CSV columns.
const (
	colPitcher   = "player_name"
	colPitchType = "pitch_type"
	colPfxX      = "pfx_x"
	colPfxZ      = "pfx_z"
	colVelocity  = "release_speed"
)

// Result summarizes one completed season load.
type Result struct {
	Events     []model.PitchEvent
	Excluded   int // rows dropped for malformed values or unknown pitch types
	Duplicates int // exact duplicate rows suppressed
	FilesRead  int
}

// Loader reads the season's pitch events. Construct with New.
type Loader struct {
	dataDir string
	baseURL string
	season  int
	client  *http.Client
	deduper dedupe.Deduper
	logger  logger.Logger
}

// New creates a Loader with configuration options. Exactly one of
// WithDataDir or WithBaseURL must be provided.
func New(opts ...Option) *Loader {
	l := &Loader{
		season: defaultSeason,
		client: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.deduper == nil {
		l.deduper = dedupe.NewInMemoryDeduper()
	}
	if l.logger == nil {
		l.logger = logger.Get().Named("statcast")
	}
	return l
}

// Load reads every available monthly file for the configured season.
// Missing months are skipped with a warning; the load fails only when
// no source is configured or no file yielded any events.
func (l *Loader) Load(ctx context.Context) (*Result, error) {
	if l.dataDir == "" && l.baseURL == "" {
		return nil, ErrNoSource
	}

	res := &Result{}
	for month := firstMonth; month <= lastMonth; month++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load cancelled: %w", err)
		}
		name := fmt.Sprintf("statcast_%d_%02d.csv.gz", l.season, month)
		rc, err := l.open(ctx, name)
		if err != nil {
			l.logger.Warn(ctx, "skipping month",
				logger.String("file", name),
				logger.Error(err),
			)
			continue
		}
		if err := l.parse(ctx, rc, strings.HasSuffix(name, ".gz"), res); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		if err := rc.Close(); err != nil {
			return nil, fmt.Errorf("close %s: %w", name, err)
		}
		res.FilesRead++
	}

	if len(res.Events) == 0 {
		return nil, ErrNoData
	}

	l.logger.Info(ctx, "season load complete",
		logger.Int("files", res.FilesRead),
		logger.Int("events", len(res.Events)),
		logger.Int("excluded", res.Excluded),
		logger.Int("duplicates", res.Duplicates),
	)
	return res, nil
}

// open returns a reader for the named monthly file, preferring the
// local data directory. A plain .csv fallback is accepted on disk.
func (l *Loader) open(ctx context.Context, name string) (io.ReadCloser, error) {
	if l.dataDir != "" {
		path := filepath.Join(l.dataDir, name)
		f, err := os.Open(path)
		if err == nil {
			return f, nil
		}
		plain := strings.TrimSuffix(path, ".gz")
		pf, perr := os.Open(plain)
		if perr == nil {
			return &plainFile{File: pf}, nil
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	url := strings.TrimSuffix(l.baseURL, "/") + "/" + name
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

// plainFile marks a reader that is already uncompressed.
type plainFile struct {
	*os.File
}

func (l *Loader) parse(ctx context.Context, r io.Reader, compressed bool, res *Result) error {
	if _, plain := r.(*plainFile); compressed && !plain {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return err
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read row: %w", err)
		}

		event, ok := cols.event(record)
		if !ok {
			res.Excluded++
			continue
		}
		if l.deduper.SeenAndRecord(ctx, cols.key(record)) {
			res.Duplicates++
			continue
		}
		res.Events = append(res.Events, event)
	}
}

// columns maps the header names this loader consumes to their indices.
type columns struct {
	pitcher   int
	pitchType int
	pfxX      int
	pfxZ      int
	velocity  int // -1 when the feed omits release_speed
}

func indexColumns(header []string) (*columns, error) {
	c := &columns{pitcher: -1, pitchType: -1, pfxX: -1, pfxZ: -1, velocity: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case colPitcher:
			c.pitcher = i
		case colPitchType:
			c.pitchType = i
		case colPfxX:
			c.pfxX = i
		case colPfxZ:
			c.pfxZ = i
		case colVelocity:
			c.velocity = i
		}
	}
	for name, idx := range map[string]int{
		colPitcher:   c.pitcher,
		colPitchType: c.pitchType,
		colPfxX:      c.pfxX,
		colPfxZ:      c.pfxZ,
	} {
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	return c, nil
}

// event converts one CSV record into a PitchEvent. Returns false for
// rows that must be excluded: blank pitcher, unknown pitch type, or
// unparsable/non-finite movement.
func (c *columns) event(record []string) (model.PitchEvent, bool) {
	pitcher := strings.TrimSpace(record[c.pitcher])
	pitchType := strings.TrimSpace(record[c.pitchType])
	if pitcher == "" || !model.KnownPitchType(pitchType) {
		return model.PitchEvent{}, false
	}

	h, ok := parseFinite(record[c.pfxX])
	if !ok {
		return model.PitchEvent{}, false
	}
	v, ok := parseFinite(record[c.pfxZ])
	if !ok {
		return model.PitchEvent{}, false
	}

	e := model.PitchEvent{
		PitcherID:       pitcher,
		PitchType:       pitchType,
		HorizontalBreak: h * feetToInches,
		VerticalBreak:   v * feetToInches,
	}

	if c.velocity >= 0 {
		if mph, ok := parseFinite(record[c.velocity]); ok {
			e.Velocity = &mph
		}
		// An absent or malformed velocity leaves the field nil rather
		// than excluding the row; velocity is optional.
	}
	return e, true
}

// key builds the dedupe key for a record from the consumed fields.
func (c *columns) key(record []string) string {
	parts := []string{record[c.pitcher], record[c.pitchType], record[c.pfxX], record[c.pfxZ]}
	if c.velocity >= 0 {
		parts = append(parts, record[c.velocity])
	}
	return strings.Join(parts, "|")
}

func parseFinite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
