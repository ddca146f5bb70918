package segment

import (
	"github.com/JHYUIHGY/Otegui-lab/internal/imgio"
)

// Measurement holds the region properties of one surviving spot. The
// integrated intensity is defined as mean x area, never summed separately,
// so the identity IntegratedIntensity == MeanIntensity*AreaPixels is exact.
type Measurement struct {
	Label               int
	AreaPixels          float64
	MeanIntensity       float64
	IntegratedIntensity float64
}

// MeasureRegions computes, for every component in the labeled grid, its
// pixel count, the arithmetic mean of the underlying frame intensities,
// and their product. Intensities come from the original normalized frame,
// not from the mask. Results follow label order.
func MeasureRegions(l *Labeled, f *imgio.Frame) []Measurement {
	if l.N == 0 {
		return nil
	}

	area := make([]float64, l.N+1)
	sum := make([]float64, l.N+1)
	for i, id := range l.Lab {
		if id > 0 {
			area[id]++
			sum[id] += f.Pix[i]
		}
	}

	out := make([]Measurement, 0, l.N)
	for id := 1; id <= l.N; id++ {
		mean := sum[id] / area[id]
		out = append(out, Measurement{
			Label:               id,
			AreaPixels:          area[id],
			MeanIntensity:       mean,
			IntegratedIntensity: mean * area[id],
		})
	}
	return out
}
