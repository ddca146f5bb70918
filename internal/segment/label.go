package segment

// neighbors8 is the 8-connectivity neighborhood used for all component
// labeling in this package. The choice is fixed: diagonal contact joins
// pixels into one spot.
var neighbors8 = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Label partitions the mask's foreground into connected components using a
// raster-scan seeded flood fill with an explicit queue. Labels start at 1
// and follow discovery order; numbering is internally consistent for a run
// but carries no meaning across runs.
func Label(m *Mask) *Labeled {
	l := NewLabeled(m.W, m.H)
	var queue [][2]int

	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.At(x, y) || l.At(x, y) != 0 {
				continue
			}

			l.N++
			id := l.N
			l.Lab[y*m.W+x] = id
			queue = append(queue[:0], [2]int{x, y})

			for len(queue) > 0 {
				p := queue[len(queue)-1]
				queue = queue[:len(queue)-1]
				for _, d := range neighbors8 {
					nx, ny := p[0]+d[0], p[1]+d[1]
					if nx < 0 || nx >= m.W || ny < 0 || ny >= m.H {
						continue
					}
					if m.At(nx, ny) && l.At(nx, ny) == 0 {
						l.Lab[ny*m.W+nx] = id
						queue = append(queue, [2]int{nx, ny})
					}
				}
			}
		}
	}
	return l
}

// Prune removes components smaller than minArea pixels and components
// touching any frame border, then renumbers the survivors 1..N preserving
// discovery order.
func Prune(l *Labeled, minArea int) *Labeled {
	area := make([]int, l.N+1)
	touchesBorder := make([]bool, l.N+1)

	for y := 0; y < l.H; y++ {
		for x := 0; x < l.W; x++ {
			id := l.At(x, y)
			if id == 0 {
				continue
			}
			area[id]++
			if x == 0 || y == 0 || x == l.W-1 || y == l.H-1 {
				touchesBorder[id] = true
			}
		}
	}

	remap := make([]int, l.N+1)
	next := 0
	for id := 1; id <= l.N; id++ {
		if area[id] >= minArea && !touchesBorder[id] {
			next++
			remap[id] = next
		}
	}

	out := NewLabeled(l.W, l.H)
	out.N = next
	for i, id := range l.Lab {
		if id > 0 {
			out.Lab[i] = remap[id]
		}
	}
	return out
}
