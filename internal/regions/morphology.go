package regions

import "image"

// diskOffsets returns the offsets of a Euclidean disk structuring element
// of the given radius (x² + y² <= r²), center included.
func diskOffsets(radius int) []image.Point {
	offsets := make([]image.Point, 0, (2*radius+1)*(2*radius+1))
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= r2 {
				offsets = append(offsets, image.Point{X: dx, Y: dy})
			}
		}
	}
	return offsets
}

// Dilate grows the mask by a Euclidean disk of the given radius. The
// result is clipped to the mask bounds; callers that must not lose grown
// pixels pad the mask first. Radius 0 returns a clone.
//
// Only boundary pixels (set pixels with an unset 8-neighbor) stamp the
// disk; every point within the radius of an interior pixel is already
// within the radius of some boundary pixel, so the result is exact.
func Dilate(m *Mask, radius int) *Mask {
	out := m.Clone()
	if radius <= 0 {
		return out
	}
	offsets := diskOffsets(radius)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.bits[y*m.W+x] || !isBoundary(m, x, y) {
				continue
			}
			for _, d := range offsets {
				out.Set(x+d.X, y+d.Y, true)
			}
		}
	}
	return out
}

// Erode shrinks the mask by a Euclidean disk of the given radius. A pixel
// survives only if the entire disk around it is set; the image edge
// counts as background, so regions touching the edge erode there too.
// Radius 0 returns a clone.
func Erode(m *Mask, radius int) *Mask {
	out := NewMask(m.W, m.H)
	if radius <= 0 {
		copy(out.bits, m.bits)
		return out
	}
	offsets := diskOffsets(radius)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.bits[y*m.W+x] {
				continue
			}
			keep := true
			for _, d := range offsets {
				if !m.At(x+d.X, y+d.Y) {
					keep = false
					break
				}
			}
			out.bits[y*m.W+x] = keep
		}
	}
	return out
}

// CloseMask dilates then erodes, bridging small gaps between nearby
// candidate pixels.
func CloseMask(m *Mask, radius int) *Mask {
	if radius <= 0 {
		return m.Clone()
	}
	return Erode(Dilate(m, radius), radius)
}

// OpenMask erodes then dilates, removing specks thinner than the disk.
func OpenMask(m *Mask, radius int) *Mask {
	if radius <= 0 {
		return m.Clone()
	}
	return Dilate(Erode(m, radius), radius)
}

// FillHoles sets every unset pixel that is not 4-connected to the mask
// border, closing enclosed background pockets. Idempotent.
func FillHoles(m *Mask) *Mask {
	if m.W == 0 || m.H == 0 {
		return m.Clone()
	}

	// Flood the background from a virtual border ring; unreached unset
	// pixels are holes.
	outside := make([]bool, m.W*m.H)
	stack := make([]image.Point, 0, 2*(m.W+m.H))
	push := func(x, y int) {
		if x < 0 || x >= m.W || y < 0 || y >= m.H {
			return
		}
		i := y*m.W + x
		if outside[i] || m.bits[i] {
			return
		}
		outside[i] = true
		stack = append(stack, image.Point{X: x, Y: y})
	}
	for x := 0; x < m.W; x++ {
		push(x, 0)
		push(x, m.H-1)
	}
	for y := 0; y < m.H; y++ {
		push(0, y)
		push(m.W-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X+1, p.Y)
		push(p.X-1, p.Y)
		push(p.X, p.Y+1)
		push(p.X, p.Y-1)
	}

	out := NewMask(m.W, m.H)
	for i := range out.bits {
		out.bits[i] = m.bits[i] || !outside[i]
	}
	return out
}

// isBoundary reports whether the set pixel (x, y) has an unset 8-neighbor.
// The image edge counts as background.
func isBoundary(m *Mask, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if !m.At(x+dx, y+dy) {
				return true
			}
		}
	}
	return false
}
