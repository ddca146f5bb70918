package segment

import (
	"math"

	"github.com/JHYUIHGY/Otegui-lab/internal/imgio"
)

// gaussianKernel builds a normalized 1D Gaussian of the given odd length.
// Sigma follows the usual block-size convention sigma = (n-1)/6, so the
// window covers three standard deviations on each side.
func gaussianKernel(n int) []float64 {
	sigma := float64(n-1) / 6
	if sigma <= 0 {
		return []float64{1}
	}

	k := make([]float64, n)
	mid := n / 2
	sum := 0.0
	for i := range k {
		d := float64(i - mid)
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// reflectIndex maps an out-of-range coordinate back into [0, n) by mirroring
// at the edges, repeating the border sample (symmetric reflection).
func reflectIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * n
	i = ((i % period) + period) % period
	if i >= n {
		i = period - 1 - i
	}
	return i
}

// LocalThreshold computes the spatially-varying threshold surface: the
// Gaussian-weighted local mean over a blockSize x blockSize window around
// each pixel. The convolution is separable and edges are reflected.
//
// A single global threshold is not usable here because background
// illumination drifts across the field of view.
func LocalThreshold(f *imgio.Frame, blockSize int) []float64 {
	k := gaussianKernel(blockSize)
	r := len(k) / 2

	// Horizontal pass.
	tmp := make([]float64, len(f.Pix))
	for y := 0; y < f.H; y++ {
		row := f.Pix[y*f.W : (y+1)*f.W]
		for x := 0; x < f.W; x++ {
			acc := 0.0
			for j, kv := range k {
				acc += kv * row[reflectIndex(x+j-r, f.W)]
			}
			tmp[y*f.W+x] = acc
		}
	}

	// Vertical pass.
	out := make([]float64, len(f.Pix))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			acc := 0.0
			for j, kv := range k {
				acc += kv * tmp[reflectIndex(y+j-r, f.H)*f.W+x]
			}
			out[y*f.W+x] = acc
		}
	}
	return out
}

// ThresholdMask marks every pixel strictly exceeding its local threshold.
func ThresholdMask(f *imgio.Frame, blockSize int) *Mask {
	thr := LocalThreshold(f, blockSize)
	m := NewMask(f.W, f.H)
	for i, v := range f.Pix {
		m.Bits[i] = v > thr[i]
	}
	return m
}
