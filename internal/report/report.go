// Package report renders a per-run HTML summary of the stored measurements:
// spots per image and the distribution of spot areas. Like the per-image
// figures this is presentation only; a failed report never fails the run.
package report

import (
	"bytes"
	"fmt"
	"math"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/JHYUIHGY/Otegui-lab/internal/db"
	"github.com/JHYUIHGY/Otegui-lab/internal/fsutil"
)

// areaHistogramBins is the number of bins in the spot area histogram.
const areaHistogramBins = 20

// WriteHTML reads the run's measurements back from the store and writes the
// summary page to path.
func WriteHTML(fsys fsutil.FileSystem, store *db.DB, runID, path string) error {
	counts, err := store.SpotCounts()
	if err != nil {
		return fmt.Errorf("read spot counts: %w", err)
	}
	areas, err := store.SpotAreas()
	if err != nil {
		return fmt.Errorf("read spot areas: %w", err)
	}

	page := components.NewPage()
	page.PageTitle = "Spot analysis run " + runID
	page.AddCharts(countChart(counts), areaChart(areas))

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := fsys.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// countChart builds the spots-per-image bar chart.
func countChart(counts []db.SpotCount) *charts.Bar {
	names := make([]string, 0, len(counts))
	values := make([]opts.BarData, 0, len(counts))
	for _, c := range counts {
		names = append(names, c.Filename)
		values = append(values, opts.BarData{Value: c.Count})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Spots per image"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45}}),
	)
	bar.SetXAxis(names).AddSeries("spots", values)
	return bar
}

// areaChart builds a histogram of spot areas with a mean/stddev subtitle.
func areaChart(areas []float64) *charts.Bar {
	bar := charts.NewBar()

	title := opts.Title{Title: "Spot area distribution"}
	if len(areas) > 0 {
		mean, std := stat.MeanStdDev(areas, nil)
		if math.IsNaN(std) {
			std = 0
		}
		title.Subtitle = fmt.Sprintf("n=%d mean=%.1f px stddev=%.1f px", len(areas), mean, std)
	}
	bar.SetGlobalOptions(charts.WithTitleOpts(title))

	labels, values := histogram(areas, areaHistogramBins)
	bar.SetXAxis(labels).AddSeries("spots", values)
	return bar
}

// histogram bins areas into equal-width bins over [min, max].
func histogram(areas []float64, bins int) ([]string, []opts.BarData) {
	if len(areas) == 0 {
		return nil, nil
	}

	lo, hi := areas[0], areas[0]
	for _, a := range areas {
		lo = math.Min(lo, a)
		hi = math.Max(hi, a)
	}
	width := (hi - lo) / float64(bins)
	if width == 0 {
		return []string{fmt.Sprintf("%.0f", lo)}, []opts.BarData{{Value: len(areas)}}
	}

	counts := make([]int, bins)
	for _, a := range areas {
		b := int((a - lo) / width)
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
	}

	labels := make([]string, bins)
	values := make([]opts.BarData, bins)
	for i := range counts {
		labels[i] = fmt.Sprintf("%.0f-%.0f", lo+float64(i)*width, lo+float64(i+1)*width)
		values[i] = opts.BarData{Value: counts[i]}
	}
	return labels, values
}
