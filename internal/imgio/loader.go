// Package imgio loads microscopy rasters into 2D grayscale frames and
// normalizes them to the 8-bit display range.
package imgio

import (
	"fmt"
	"image"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"

	_ "image/png"

	_ "golang.org/x/image/tiff"
)

// Frame is a single 2D grayscale plane, row-major. Immutable once loaded.
type Frame struct {
	W, H int
	Pix  []float64
}

// NewFrame allocates a zeroed frame of the given dimensions.
func NewFrame(w, h int) *Frame {
	return &Frame{W: w, H: h, Pix: make([]float64, w*h)}
}

// At returns the intensity at (x, y). No bounds check; callers iterate
// within [0,W)x[0,H).
func (f *Frame) At(x, y int) float64 { return f.Pix[y*f.W+x] }

// Set assigns the intensity at (x, y).
func (f *Frame) Set(x, y int, v float64) { f.Pix[y*f.W+x] = v }

// Load decodes the raster at path into a grayscale Frame.
//
// Color images collapse to grayscale by averaging the R, G and B channels.
// For multi-page TIFF stacks only the first page is decoded; remaining
// frames are discarded. This is a documented limitation of the pipeline,
// which treats every z-slice as an independent 2D acquisition.
func Load(path string) (*Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}

	b := img.Bounds()
	f := NewFrame(b.Dx(), b.Dy())
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// 16-bit channel values; grayscale sources have r==g==b so the
			// average is the identity for them.
			f.Set(x, y, (float64(r)+float64(g)+float64(bl))/3)
		}
	}
	return f, nil
}

// Normalize rescales intensities linearly so the observed minimum maps to 0
// and the maximum to 255, quantized to whole 8-bit values. A constant-valued
// frame maps to all zeros rather than dividing by zero.
func Normalize(f *Frame) *Frame {
	out := NewFrame(f.W, f.H)
	if len(f.Pix) == 0 {
		return out
	}

	lo := floats.Min(f.Pix)
	hi := floats.Max(f.Pix)
	if hi == lo {
		return out
	}

	scale := 255 / (hi - lo)
	for i, v := range f.Pix {
		out.Pix[i] = math.Round((v - lo) * scale)
	}
	return out
}
