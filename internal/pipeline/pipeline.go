// Package pipeline drives the batch analysis: discover TIFF files, run each
// one through load, segmentation, persistence and visualization, and keep a
// per-file record of successes and faults.
//
// Processing is strictly sequential. A fault in one file is logged and
// skipped; only run-level setup problems (output directory, database)
// terminate the run before any file is processed.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/JHYUIHGY/Otegui-lab/internal/config"
	"github.com/JHYUIHGY/Otegui-lab/internal/db"
	"github.com/JHYUIHGY/Otegui-lab/internal/fsutil"
	"github.com/JHYUIHGY/Otegui-lab/internal/imgio"
	"github.com/JHYUIHGY/Otegui-lab/internal/meta"
	"github.com/JHYUIHGY/Otegui-lab/internal/monitoring"
	"github.com/JHYUIHGY/Otegui-lab/internal/report"
	"github.com/JHYUIHGY/Otegui-lab/internal/segment"
	"github.com/JHYUIHGY/Otegui-lab/internal/visualize"
)

// figureSuffix replaces the input extension in per-image figure names.
const figureSuffix = "_seg.png"

// FileResult records the outcome for one discovered file: either a spot
// count or the fault that made the pipeline skip it.
type FileResult struct {
	File  string
	Spots int
	Err   error
}

// Failed reports whether this file was skipped.
func (r FileResult) Failed() bool { return r.Err != nil }

// Summary is the outcome of one run.
type Summary struct {
	RunID   string
	Results []FileResult
}

// Failures counts skipped files.
func (s *Summary) Failures() int {
	n := 0
	for _, r := range s.Results {
		if r.Failed() {
			n++
		}
	}
	return n
}

// TotalSpots sums the spot counts of successful files.
func (s *Summary) TotalSpots() int {
	n := 0
	for _, r := range s.Results {
		if !r.Failed() {
			n += r.Spots
		}
	}
	return n
}

// Pipeline runs the analysis described by one Config.
type Pipeline struct {
	cfg *config.Config
	fs  fsutil.FileSystem
}

// New builds a pipeline backed by the real filesystem.
func New(cfg *config.Config) *Pipeline {
	return NewWithFS(cfg, fsutil.OSFileSystem{})
}

// NewWithFS builds a pipeline with an explicit filesystem for discovery and
// figure/report output. Image decoding and the SQLite store always use real
// paths.
func NewWithFS(cfg *config.Config, fs fsutil.FileSystem) *Pipeline {
	return &Pipeline{cfg: cfg, fs: fs}
}

// Run executes the pipeline to completion. The returned error is non-nil
// only for run-level faults; per-file faults land in the Summary.
func (pl *Pipeline) Run() (*Summary, error) {
	sum := &Summary{RunID: uuid.New().String()}
	srcDir := pl.cfg.GetSourceDir()

	// A prior run's database is discarded wholesale; there is no
	// incremental accumulation across runs.
	if err := db.Reset(pl.cfg.GetDBPath()); err != nil {
		return nil, err
	}
	if err := pl.fs.MkdirAll(pl.cfg.GetOutputDir(), 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	store, err := db.NewDB(pl.cfg.GetDBPath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if err := store.RecordRun(sum.RunID, srcDir, pl.cfg.String()); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}

	files, err := pl.fs.Glob(filepath.Join(srcDir, "*.tif"))
	if err != nil {
		return nil, fmt.Errorf("discover inputs: %w", err)
	}
	if len(files) == 0 {
		monitoring.Logf("no TIF files found in %s", srcDir)
		return sum, nil
	}
	monitoring.Logf("run %s: found %d TIF files in %s", sum.RunID, len(files), srcDir)

	params := segment.Params{
		MinArea:       pl.cfg.GetMinArea(),
		ClosingRadius: pl.cfg.GetClosingRadius(),
		OpeningRadius: pl.cfg.GetOpeningRadius(),
		BlockSize:     pl.cfg.GetBlockSize(),
	}

	for _, path := range files {
		res := pl.processFile(store, path, params)
		sum.Results = append(sum.Results, res)
		if res.Failed() {
			monitoring.Logf("error processing %s: %v", res.File, res.Err)
		} else {
			monitoring.Logf("%s: %d spots detected and stored", res.File, res.Spots)
		}
	}

	if reportPath := pl.cfg.GetReportPath(); reportPath != "" {
		if err := report.WriteHTML(pl.fs, store, sum.RunID, reportPath); err != nil {
			monitoring.Logf("error writing run report: %v", err)
		}
	}

	monitoring.Logf("run %s: %d files processed, %d skipped, %d spots",
		sum.RunID, len(sum.Results)-sum.Failures(), sum.Failures(), sum.TotalSpots())
	return sum, nil
}

// processFile takes one file through the whole chain. Every failure is a
// per-file fault: reported to the caller, never propagated to the run.
func (pl *Pipeline) processFile(store *db.DB, path string, params segment.Params) FileResult {
	rec := meta.Parse(filepath.Base(path))

	frame, err := imgio.Load(path)
	if err != nil {
		return FileResult{File: path, Err: err}
	}
	norm := imgio.Normalize(frame)

	measurements, mask, labels := segment.Segment(norm, params)

	if err := store.RecordSpots(rec, measurements); err != nil {
		return FileResult{File: path, Err: err}
	}

	if err := visualize.SaveFigure(pl.fs, norm, mask, labels, pl.figurePath(path), pl.cfg.GetDPI()); err != nil {
		return FileResult{File: path, Err: err}
	}

	return FileResult{File: path, Spots: len(measurements)}
}

// figurePath maps an input file to its figure path under the output
// directory, replacing the extension with the figure suffix.
func (pl *Pipeline) figurePath(input string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(pl.cfg.GetOutputDir(), stem+figureSuffix)
}
