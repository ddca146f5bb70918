package segment

import (
	"math"
	"testing"

	"github.com/JHYUIHGY/Otegui-lab/internal/imgio"
)

// makeFrame builds a w x h frame filled with a background level.
func makeFrame(w, h int, bg float64) *imgio.Frame {
	f := imgio.NewFrame(w, h)
	for i := range f.Pix {
		f.Pix[i] = bg
	}
	return f
}

// drawDisk fills a disk of the given radius and intensity.
func drawDisk(f *imgio.Frame, cx, cy, r int, v float64) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy > r*r {
				continue
			}
			x, y := cx+dx, cy+dy
			if x >= 0 && x < f.W && y >= 0 && y < f.H {
				f.Set(x, y, v)
			}
		}
	}
}

func TestSegmentMaskDimensions(t *testing.T) {
	f := makeFrame(37, 21, 10)
	drawDisk(f, 18, 10, 4, 200)

	_, mask, labels := Segment(f, DefaultParams())
	if mask.W != f.W || mask.H != f.H {
		t.Errorf("mask dimensions %dx%d != frame %dx%d", mask.W, mask.H, f.W, f.H)
	}
	if labels.W != f.W || labels.H != f.H {
		t.Errorf("labeled dimensions %dx%d != frame %dx%d", labels.W, labels.H, f.W, f.H)
	}
}

func TestSegmentSingleInteriorSpot(t *testing.T) {
	f := makeFrame(60, 60, 10)
	drawDisk(f, 30, 30, 4, 200)

	meas, mask, _ := Segment(f, DefaultParams())
	if len(meas) != 1 {
		t.Fatalf("expected 1 spot, got %d", len(meas))
	}
	if mask.Count() == 0 {
		t.Error("mask has no foreground for a bright interior disk")
	}

	m := meas[0]
	want := math.Pi * 16 // pi * r^2 for r=4
	if m.AreaPixels < 0.7*want || m.AreaPixels > 1.4*want {
		t.Errorf("area %f outside tolerance of pi*r^2=%f", m.AreaPixels, want)
	}
	if m.MeanIntensity < 180 {
		t.Errorf("mean intensity %f should approximate disk fill value 200", m.MeanIntensity)
	}
}

func TestSegmentMeasurementIdentity(t *testing.T) {
	f := makeFrame(80, 60, 10)
	drawDisk(f, 25, 30, 4, 200)
	drawDisk(f, 55, 30, 5, 150)

	meas, _, _ := Segment(f, DefaultParams())
	if len(meas) == 0 {
		t.Fatal("expected measurements")
	}
	for _, m := range meas {
		if got := m.MeanIntensity * m.AreaPixels; math.Abs(got-m.IntegratedIntensity) > 1e-9 {
			t.Errorf("label %d: integrated %f != mean*area %f", m.Label, m.IntegratedIntensity, got)
		}
	}
}

func TestSegmentAreaFloor(t *testing.T) {
	f := makeFrame(60, 60, 10)
	drawDisk(f, 20, 20, 4, 200)
	drawDisk(f, 45, 45, 4, 200)

	p := DefaultParams()
	p.MinArea = 30
	meas, _, _ := Segment(f, p)
	for _, m := range meas {
		if m.AreaPixels < float64(p.MinArea) {
			t.Errorf("label %d: area %f below floor %d", m.Label, m.AreaPixels, p.MinArea)
		}
	}
}

func TestSegmentBorderExclusion(t *testing.T) {
	f := makeFrame(60, 60, 10)
	drawDisk(f, 30, 30, 4, 200) // interior
	drawDisk(f, 2, 30, 4, 200)  // clipped by the left border

	meas, mask, _ := Segment(f, DefaultParams())
	if len(meas) != 1 {
		t.Fatalf("expected only the interior spot, got %d measurements", len(meas))
	}
	for x := 0; x < mask.W; x++ {
		if mask.At(x, 0) || mask.At(x, mask.H-1) {
			t.Fatal("mask retains foreground on the top/bottom border")
		}
	}
	for y := 0; y < mask.H; y++ {
		if mask.At(0, y) || mask.At(mask.W-1, y) {
			t.Fatal("mask retains foreground on the left/right border")
		}
	}
}

func TestSegmentEmptyInput(t *testing.T) {
	for _, bg := range []float64{0, 77} {
		f := makeFrame(48, 32, bg)
		meas, mask, labels := Segment(f, DefaultParams())
		if len(meas) != 0 {
			t.Errorf("bg=%g: expected no measurements, got %d", bg, len(meas))
		}
		if mask.Count() != 0 {
			t.Errorf("bg=%g: expected all-false mask, %d pixels set", bg, mask.Count())
		}
		if labels.N != 0 {
			t.Errorf("bg=%g: expected zero components, got %d", bg, labels.N)
		}
	}
}

func TestSegmentTwoDiskRoundTrip(t *testing.T) {
	const r = 4
	const fill = 200.0
	f := makeFrame(80, 60, 10)
	drawDisk(f, 25, 30, r, fill)
	drawDisk(f, 55, 30, r, fill)

	meas, _, _ := Segment(f, DefaultParams())
	if len(meas) != 2 {
		t.Fatalf("expected 2 spots, got %d", len(meas))
	}

	want := math.Pi * r * r
	for _, m := range meas {
		if m.AreaPixels < 0.7*want || m.AreaPixels > 1.4*want {
			t.Errorf("label %d: area %f outside tolerance of %f", m.Label, m.AreaPixels, want)
		}
		if m.MeanIntensity < 0.9*fill || m.MeanIntensity > fill {
			t.Errorf("label %d: mean %f should approximate fill %f", m.Label, m.MeanIntensity, fill)
		}
	}
}

func TestSegmentLabelsMatchMeasurements(t *testing.T) {
	f := makeFrame(80, 60, 10)
	drawDisk(f, 25, 30, 4, 200)
	drawDisk(f, 55, 30, 5, 150)

	meas, _, labels := Segment(f, DefaultParams())
	if labels.N != len(meas) {
		t.Fatalf("labeled grid has %d components but %d measurements", labels.N, len(meas))
	}
	seen := make(map[int]bool)
	for _, m := range meas {
		if m.Label < 1 || m.Label > labels.N {
			t.Errorf("label %d outside [1,%d]", m.Label, labels.N)
		}
		if seen[m.Label] {
			t.Errorf("duplicate label %d", m.Label)
		}
		seen[m.Label] = true
	}
}
