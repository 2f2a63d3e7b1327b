// Command gen-statcast writes a synthetic season of monthly statcast
// CSV files, useful for running the service without network access.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/cuatro-costuras/public-baseball/internal/gendata"
	"github.com/cuatro-costuras/public-baseball/pkg/logger"
)

func main() {
	outDir := flag.String("out", "data", "output directory for monthly files")
	season := flag.Int("season", 2024, "season to stamp on file names")
	pitchers := flag.Int("pitchers", 250, "number of synthetic pitchers")
	seed := flag.Int64("seed", 0, "random seed; 0 picks one")
	plain := flag.Bool("plain", false, "write uncompressed .csv instead of .csv.gz")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := gendata.Config{
		OutDir:   *outDir,
		Season:   *season,
		Pitchers: *pitchers,
		Seed:     *seed,
		Compress: !*plain,
	}
	if err := gendata.Generate(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "generation failed", logger.Error(err))
		os.Exit(1)
	}
}
