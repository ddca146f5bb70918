// Package segment isolates bright fluorescent spots in a normalized frame
// and measures their geometric and intensity properties.
//
// The stages are: Gaussian-weighted local mean thresholding, binary closing
// then opening with disk structuring elements, connected-component labeling
// (8-connectivity throughout), small-component and border-component removal,
// and per-component region measurement against the original intensities.
package segment

// Mask is a binary grid congruent with its source frame; true marks
// foreground. Masks are produced by segmentation and never persisted.
type Mask struct {
	W, H int
	Bits []bool
}

// NewMask allocates an all-background mask.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Bits: make([]bool, w*h)}
}

// At reports whether (x, y) is foreground.
func (m *Mask) At(x, y int) bool { return m.Bits[y*m.W+x] }

// Set marks (x, y) as foreground or background.
func (m *Mask) Set(x, y int, v bool) { m.Bits[y*m.W+x] = v }

// Count returns the number of foreground pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Labeled is an integer grid where 0 is background and each value in
// [1, N] identifies one connected foreground component. Label values are
// unique within one frame's result set but not globally.
type Labeled struct {
	W, H int
	N    int // number of components
	Lab  []int
}

// NewLabeled allocates an all-background labeled grid.
func NewLabeled(w, h int) *Labeled {
	return &Labeled{W: w, H: h, Lab: make([]int, w*h)}
}

// At returns the component label at (x, y), 0 for background.
func (l *Labeled) At(x, y int) int { return l.Lab[y*l.W+x] }

// Mask derives the binary mask of all labeled pixels.
func (l *Labeled) Mask() *Mask {
	m := NewMask(l.W, l.H)
	for i, lab := range l.Lab {
		m.Bits[i] = lab > 0
	}
	return m
}
