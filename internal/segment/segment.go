package segment

import (
	"github.com/JHYUIHGY/Otegui-lab/internal/imgio"
)

// Default segmentation parameters.
const (
	// DefaultMinArea is the smallest surviving component area in pixels.
	DefaultMinArea = 5
	// DefaultClosingRadius is the disk radius for binary closing.
	DefaultClosingRadius = 3
	// DefaultOpeningRadius is the disk radius for binary opening.
	DefaultOpeningRadius = 1
	// DefaultBlockSize is the side length of the local threshold window.
	DefaultBlockSize = 201
)

// Params are the tunables of the segmentation stage. They directly
// determine which structures count as spots; keep them recorded with
// any stored results.
type Params struct {
	MinArea       int
	ClosingRadius int
	OpeningRadius int
	BlockSize     int
}

// DefaultParams returns the parameter set used for 20X overview scans.
func DefaultParams() Params {
	return Params{
		MinArea:       DefaultMinArea,
		ClosingRadius: DefaultClosingRadius,
		OpeningRadius: DefaultOpeningRadius,
		BlockSize:     DefaultBlockSize,
	}
}

// Segment isolates bright spots in a normalized frame and measures them.
//
// The mask holds pixels strictly above their Gaussian-weighted local mean,
// cleaned by closing then opening (order matters: closing first), with
// undersized and border-touching components removed. Measurements are taken
// against the original frame intensities. An all-background frame yields an
// empty measurement list and an all-false mask; that is not an error.
func Segment(f *imgio.Frame, p Params) ([]Measurement, *Mask, *Labeled) {
	mask := ThresholdMask(f, p.BlockSize)
	mask = Close(mask, p.ClosingRadius)
	mask = Open(mask, p.OpeningRadius)

	labels := Prune(Label(mask), p.MinArea)
	return MeasureRegions(labels, f), labels.Mask(), labels
}
