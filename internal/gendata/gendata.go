// Package gendata writes synthetic monthly statcast CSV files for
// local development and load testing. The shapes are plausible rather
// than faithful: each pitcher gets a small arsenal whose movement
// clusters around the pitch type's typical break, with a per-pitcher
// spread so some arms grade out consistent and others wild.
package gendata

import (
	"compress/gzip"
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/cuatro-costuras/public-baseball/pkg/logger"
)

// Month range of a regular season.
const (
	firstMonth = 3
	lastMonth  = 10
)

// Generation rate constants.
const (
	minArsenalSize     = 2
	maxArsenalSize     = 4
	basePitchesPerMo   = 12
	pitchJitterPerMo   = 8
	malformedRowRate   = 0.002
	unknownTypeRate    = 0.002
	duplicateRowRate   = 0.001
	velocityMissingOdd = 0.05
)

// cluster is the typical movement center for a pitch type, in feet,
// matching the raw pfx_x/pfx_z units of real statcast files.
type cluster struct {
	meanH, meanV float64
	velocity     float64
}

var clusters = map[string]cluster{
	"FF": {meanH: -0.6, meanV: 1.3, velocity: 94.5},
	"SI": {meanH: -1.1, meanV: 0.6, velocity: 93.2},
	"FC": {meanH: 0.1, meanV: 0.8, velocity: 89.8},
	"SL": {meanH: 0.3, meanV: 0.2, velocity: 85.6},
	"ST": {meanH: 1.2, meanV: 0.1, velocity: 82.4},
	"CU": {meanH: 0.7, meanV: -0.8, velocity: 79.3},
	"KC": {meanH: 0.5, meanV: -0.6, velocity: 80.1},
	"CS": {meanH: 0.4, meanV: -1.0, velocity: 73.5},
	"CH": {meanH: -1.1, meanV: 0.4, velocity: 86.7},
	"FS": {meanH: -0.9, meanV: 0.2, velocity: 87.9},
	"SV": {meanH: 0.9, meanV: -0.3, velocity: 81.0},
	"KN": {meanH: 0.0, meanV: 0.1, velocity: 68.9},
}

var clusterCodes = func() []string {
	codes := make([]string, 0, len(clusters))
	for code := range clusters {
		codes = append(codes, code)
	}
	// Map iteration order would leak into the output; sort for
	// reproducible generation under a fixed seed.
	sort.Strings(codes)
	return codes
}()

// Config controls generation.
type Config struct {
	// OutDir receives the statcast_<season>_<month>.csv.gz files.
	OutDir string

	// Season stamps the output file names.
	Season int

	// Pitchers is the number of synthetic pitchers.
	Pitchers int

	// Seed makes output reproducible. Zero picks a random seed.
	Seed int64

	// Compress writes .csv.gz when true, plain .csv otherwise.
	Compress bool
}

// pitcher is one synthetic arm: an arsenal plus a spread multiplier
// that makes the whole arsenal tight or loose.
type pitcher struct {
	name    string
	arsenal []string
	spread  float64
}

// Generate writes one file per month of the season into cfg.OutDir.
func Generate(ctx context.Context, cfg Config) error {
	if cfg.Pitchers < 1 {
		return fmt.Errorf("generate: need at least one pitcher")
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	rng := rand.New(rand.NewSource(seed))

	pitchers := makePitchers(rng, cfg.Pitchers)

	log := logger.Get().Named("gendata")
	log.Info(ctx, "generating season",
		logger.Int("pitchers", len(pitchers)),
		logger.Int("season", cfg.Season),
		logger.String("outDir", cfg.OutDir),
	)

	for month := firstMonth; month <= lastMonth; month++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generate: %w", err)
		}
		if err := writeMonth(cfg, rng, pitchers, month); err != nil {
			return err
		}
	}
	return nil
}

func makePitchers(rng *rand.Rand, n int) []pitcher {
	out := make([]pitcher, n)
	for i := range out {
		// Drawing the uuid from the seeded source keeps names stable
		// across runs with the same seed.
		u, _ := uuid.NewRandomFromReader(rng)
		id := u.String()
		arsenalSize := minArsenalSize + rng.Intn(maxArsenalSize-minArsenalSize+1)
		arsenal := make([]string, 0, arsenalSize)
		for _, j := range rng.Perm(len(clusterCodes))[:arsenalSize] {
			arsenal = append(arsenal, clusterCodes[j])
		}
		out[i] = pitcher{
			name:    "Pitcher " + id[:8],
			arsenal: arsenal,
			// Spread in [0.05, 0.45] feet; the extremes of the league.
			spread: 0.05 + 0.4*rng.Float64(),
		}
	}
	return out
}

func writeMonth(cfg Config, rng *rand.Rand, pitchers []pitcher, month int) error {
	name := fmt.Sprintf("statcast_%d_%02d.csv", cfg.Season, month)
	if cfg.Compress {
		name += ".gz"
	}
	path := filepath.Join(cfg.OutDir, name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("generate month %02d: %w", month, err)
	}
	defer func() { _ = f.Close() }()

	var w rowWriter = newPlainWriter(f)
	if cfg.Compress {
		gz := gzip.NewWriter(f)
		defer func() { _ = gz.Close() }()
		w = gz
	}

	if _, err := w.Write([]byte("player_name,pitch_type,pfx_x,pfx_z,release_speed\n")); err != nil {
		return fmt.Errorf("generate month %02d: %w", month, err)
	}

	for _, p := range pitchers {
		for _, code := range p.arsenal {
			c := clusters[code]
			count := basePitchesPerMo + rng.Intn(pitchJitterPerMo+1)
			for i := 0; i < count; i++ {
				row := makeRow(rng, p, code, c)
				if _, err := w.Write([]byte(row)); err != nil {
					return fmt.Errorf("generate month %02d: %w", month, err)
				}
				if rng.Float64() < duplicateRowRate {
					if _, err := w.Write([]byte(row)); err != nil {
						return fmt.Errorf("generate month %02d: %w", month, err)
					}
				}
			}
		}
	}

	if fl, ok := w.(interface{ Flush() error }); ok {
		if err := fl.Flush(); err != nil {
			return fmt.Errorf("generate month %02d: %w", month, err)
		}
	}
	return nil
}

// makeRow renders one CSV line, occasionally malformed the same ways
// real exports are: blank movement fields or an unmapped pitch code.
func makeRow(rng *rand.Rand, p pitcher, code string, c cluster) string {
	if rng.Float64() < malformedRowRate {
		return p.name + "," + code + ",,,\n"
	}
	if rng.Float64() < unknownTypeRate {
		code = "XX"
	}

	h := c.meanH + p.spread*rng.NormFloat64()
	v := c.meanV + p.spread*rng.NormFloat64()
	velo := ""
	if rng.Float64() >= velocityMissingOdd {
		velo = strconv.FormatFloat(c.velocity+1.5*rng.NormFloat64(), 'f', 1, 64)
	}

	return p.name + "," + code + "," +
		strconv.FormatFloat(h, 'f', 4, 64) + "," +
		strconv.FormatFloat(v, 'f', 4, 64) + "," +
		velo + "\n"
}

type rowWriter interface {
	Write(p []byte) (int, error)
}

type plainWriter struct {
	f *os.File
}

func newPlainWriter(f *os.File) *plainWriter {
	return &plainWriter{f: f}
}

func (p *plainWriter) Write(b []byte) (int, error) {
	n, err := p.f.Write(b)
	if err != nil {
		return n, fmt.Errorf("write: %w", err)
	}
	return n, nil
}
