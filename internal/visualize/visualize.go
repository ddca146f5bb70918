// Package visualize renders per-image diagnostic figures: the original
// frame, its segmentation mask, and a colored overlay of labeled spots,
// side by side. Purely presentational; nothing here feeds back into the
// measurements.
package visualize

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/JHYUIHGY/Otegui-lab/internal/fsutil"
	"github.com/JHYUIHGY/Otegui-lab/internal/imgio"
	"github.com/JHYUIHGY/Otegui-lab/internal/segment"
)

// DefaultDPI is the figure raster resolution when none is configured.
const DefaultDPI = 96

// overlayBlend is the weight of the label color in the overlay panel; the
// remainder keeps the underlying intensity visible.
const overlayBlend = 0.4

// SaveFigure renders the figure to a PNG at path, creating intermediate
// directories as needed. The labeled grid is optional; without it only the
// original and mask panels are drawn. A write failure is a per-file fault
// for the caller, never fatal to the run.
func SaveFigure(fsys fsutil.FileSystem, f *imgio.Frame, mask *segment.Mask, labels *segment.Labeled, path string, dpi float64) error {
	if dpi <= 0 {
		dpi = DefaultDPI
	}

	type panel struct {
		title string
		img   image.Image
	}
	panels := []panel{
		{"original", grayImage(f)},
		{"mask", maskImage(mask)},
	}
	if labels != nil {
		panels = append(panels, panel{"labeled spots", overlayImage(f, labels)})
	}

	plots := make([][]*plot.Plot, 1)
	for _, panel := range panels {
		p := plot.New()
		p.Title.Text = panel.title
		p.X.Label.Text = "x (px)"
		p.Y.Label.Text = "y (px)"
		p.Add(plotter.NewImage(panel.img, 0, 0, float64(f.W), float64(f.H)))
		plots[0] = append(plots[0], p)
	}

	// Canvas sized so each panel rasterizes near the frame's native pixel
	// dimensions at the requested DPI.
	width := vg.Length(float64(len(panels)*(f.W+40))/dpi) * vg.Inch
	height := vg.Length(float64(f.H+60)/dpi) * vg.Inch
	canvas := vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(int(dpi)))
	dc := draw.New(canvas)

	tiles := draw.Tiles{
		Rows: 1,
		Cols: len(panels),
		PadX: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i, p := range plots[0] {
		p.Draw(canvases[0][i])
	}

	var buf bytes.Buffer
	png := vgimg.PngCanvas{Canvas: canvas}
	if _, err := png.WriteTo(&buf); err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fsys.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create figure dir: %w", err)
		}
	}
	if err := fsys.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write figure %s: %w", path, err)
	}
	return nil
}

// grayImage converts a normalized frame to an 8-bit grayscale image.
func grayImage(f *imgio.Frame) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			img.SetGray(x, y, color.Gray{Y: clamp8(f.At(x, y))})
		}
	}
	return img
}

// maskImage renders foreground white on black.
func maskImage(m *segment.Mask) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.At(x, y) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}

// overlayImage blends each labeled component's palette color over the
// original intensities.
func overlayImage(f *imgio.Frame, l *segment.Labeled) *image.RGBA {
	palette := labelPalette(l.N)
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			g := clamp8(f.At(x, y))
			c := color.RGBA{R: g, G: g, B: g, A: 255}
			if id := l.At(x, y); id > 0 {
				lc := palette[id-1]
				c.R = blend(g, lc.R)
				c.G = blend(g, lc.G)
				c.B = blend(g, lc.B)
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func blend(base, over uint8) uint8 {
	return uint8((1-overlayBlend)*float64(base) + overlayBlend*float64(over))
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// labelPalette returns n distinct colors with evenly spaced hues.
func labelPalette(n int) []color.RGBA {
	if n <= 0 {
		return nil
	}
	out := make([]color.RGBA, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		out[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}

// hslToRGB converts HSL to RGB in the 0-255 range.
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
