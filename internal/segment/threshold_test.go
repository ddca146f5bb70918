package segment

import (
	"math"
	"testing"

	"github.com/JHYUIHGY/Otegui-lab/internal/imgio"
)

func TestGaussianKernelNormalized(t *testing.T) {
	for _, n := range []int{1, 3, 15, 201} {
		k := gaussianKernel(n)
		if len(k) != n && n > 1 {
			t.Errorf("n=%d: kernel length %d", n, len(k))
		}
		sum := 0.0
		for _, v := range k {
			sum += v
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("n=%d: kernel sums to %f", n, sum)
		}
		// Symmetric and peaked at the center.
		for i := range k {
			if math.Abs(k[i]-k[len(k)-1-i]) > 1e-12 {
				t.Errorf("n=%d: kernel asymmetric at %d", n, i)
			}
		}
	}
}

func TestReflectIndex(t *testing.T) {
	tests := []struct{ i, n, want int }{
		{0, 5, 0},
		{4, 5, 4},
		{5, 5, 4},
		{6, 5, 3},
		{-1, 5, 0},
		{-2, 5, 1},
		{-7, 5, 3},
		{13, 5, 3},
		{3, 1, 0},
	}
	for _, tt := range tests {
		if got := reflectIndex(tt.i, tt.n); got != tt.want {
			t.Errorf("reflectIndex(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
	// Reflected indices always land in range.
	for i := -50; i <= 50; i++ {
		if got := reflectIndex(i, 7); got < 0 || got >= 7 {
			t.Fatalf("reflectIndex(%d, 7) = %d out of range", i, got)
		}
	}
}

func TestLocalThresholdZeroFrame(t *testing.T) {
	f := imgio.NewFrame(20, 15)
	thr := LocalThreshold(f, 9)
	for i, v := range thr {
		if v != 0 {
			t.Fatalf("threshold of zero frame is %f at %d", v, i)
		}
	}
}

func TestLocalThresholdTracksBackgroundDrift(t *testing.T) {
	// A wide window over a slowly climbing background should stay close to
	// the local level everywhere, so a flat-background global mean would
	// misclassify one side while the local surface does not.
	f := imgio.NewFrame(100, 10)
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			f.Set(x, y, float64(x))
		}
	}

	thr := LocalThreshold(f, 31)
	for x := 10; x < 90; x++ {
		if math.Abs(thr[5*f.W+x]-float64(x)) > 10 {
			t.Errorf("threshold at x=%d is %f, far from local level %d", x, thr[5*f.W+x], x)
		}
	}
}

func TestThresholdMaskIsolatesSpot(t *testing.T) {
	f := makeFrame(40, 40, 10)
	drawDisk(f, 20, 20, 3, 250)

	m := ThresholdMask(f, 21)
	if !m.At(20, 20) {
		t.Error("spot center not foreground")
	}
	if m.At(2, 2) {
		t.Error("far background marked foreground")
	}
}
