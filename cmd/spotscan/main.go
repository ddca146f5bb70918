// Command spotscan runs the batch spot analysis over a directory of
// fluorescence microscopy TIFF images: segmentation, per-spot measurement,
// SQLite persistence and per-image diagnostic figures.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/JHYUIHGY/Otegui-lab/internal/config"
	"github.com/JHYUIHGY/Otegui-lab/internal/monitoring"
	"github.com/JHYUIHGY/Otegui-lab/internal/pipeline"
)

var (
	configPath = flag.String("config", "", "Path to a JSON config file (optional)")
	srcDir     = flag.String("src", "", "Directory scanned for *.tif inputs")
	outDir     = flag.String("out", "", "Directory for per-image figures and the run report")
	dbPath     = flag.String("db", "", "SQLite database file (recreated each run)")
	minArea    = flag.Int("min-area", 0, "Minimum spot area in pixels (0 = default)")
	closing    = flag.Int("closing-radius", -1, "Disk radius for binary closing (-1 = default)")
	opening    = flag.Int("opening-radius", -1, "Disk radius for binary opening (-1 = default)")
	blockSize  = flag.Int("block-size", 0, "Local threshold window side length, odd (0 = default)")
	dpi        = flag.Float64("dpi", 0, "Figure raster resolution (0 = default)")
	quiet      = flag.Bool("quiet", false, "Suppress per-file progress logging")
)

func main() {
	flag.Parse()

	cfg := &config.Config{}
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	// Flags given on the command line override file values.
	if *srcDir != "" {
		cfg.SourceDir = srcDir
	}
	if *outDir != "" {
		cfg.OutputDir = outDir
	}
	if *dbPath != "" {
		cfg.DBPath = dbPath
	}
	if *minArea > 0 {
		cfg.MinArea = minArea
	}
	if *closing >= 0 {
		cfg.ClosingRadius = closing
	}
	if *opening >= 0 {
		cfg.OpeningRadius = opening
	}
	if *blockSize > 0 {
		cfg.BlockSize = blockSize
	}
	if *dpi > 0 {
		cfg.DPI = dpi
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}

	sum, err := pipeline.New(cfg).Run()
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}

	if sum.Failures() > 0 {
		log.Printf("run %s finished with %d skipped files", sum.RunID, sum.Failures())
		os.Exit(1)
	}
}
