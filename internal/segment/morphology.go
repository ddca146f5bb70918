package segment

// diskOffsets enumerates the (dx, dy) offsets of a disk structuring element:
// every cell within Euclidean distance r of the center, center included.
func diskOffsets(r int) [][2]int {
	var offs [][2]int
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				offs = append(offs, [2]int{dx, dy})
			}
		}
	}
	return offs
}

// Dilate grows foreground by the disk of radius r. Pixels beyond the frame
// contribute nothing.
func Dilate(m *Mask, r int) *Mask {
	if r <= 0 {
		return m
	}
	offs := diskOffsets(r)
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.At(x, y) {
				continue
			}
			for _, o := range offs {
				nx, ny := x+o[0], y+o[1]
				if nx >= 0 && nx < m.W && ny >= 0 && ny < m.H {
					out.Set(nx, ny, true)
				}
			}
		}
	}
	return out
}

// Erode shrinks foreground by the disk of radius r. Pixels beyond the frame
// count as foreground, so clipped structures keep their border contact and
// fall to the border-exclusion rule instead of being silently shrunk.
func Erode(m *Mask, r int) *Mask {
	if r <= 0 {
		return m
	}
	offs := diskOffsets(r)
	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
	pixel:
		for x := 0; x < m.W; x++ {
			for _, o := range offs {
				nx, ny := x+o[0], y+o[1]
				if nx < 0 || nx >= m.W || ny < 0 || ny >= m.H {
					continue
				}
				if !m.At(nx, ny) {
					continue pixel
				}
			}
			out.Set(x, y, true)
		}
	}
	return out
}

// Close performs binary closing (dilation then erosion), filling small holes
// and bridging near gaps within spots.
func Close(m *Mask, r int) *Mask {
	return Erode(Dilate(m, r), r)
}

// Open performs binary opening (erosion then dilation), stripping thin
// protrusions and isolated noise pixels.
func Open(m *Mask, r int) *Mask {
	return Dilate(Erode(m, r), r)
}
