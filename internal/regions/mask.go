package regions

import "image"

// Mask is a binary pixel classification over an image: true marks pixels
// that belong to continuous-tone regions, false marks binary content.
// Together with its inverse it covers every pixel exactly once.
type Mask struct {
	W, H int
	bits []bool
}

// NewMask allocates an all-false mask of the given dimensions.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, bits: make([]bool, w*h)}
}

// At reports whether (x, y) is set. Out-of-bounds coordinates are false.
func (m *Mask) At(x, y int) bool {
	if x < 0 || x >= m.W || y < 0 || y >= m.H {
		return false
	}
	return m.bits[y*m.W+x]
}

// Set assigns v at (x, y). Out-of-bounds coordinates are ignored.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || x >= m.W || y < 0 || y >= m.H {
		return
	}
	m.bits[y*m.W+x] = v
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}
	return n
}

// Empty reports whether no pixel is set.
func (m *Mask) Empty() bool {
	for _, b := range m.bits {
		if b {
			return false
		}
	}
	return true
}

// Bounds returns the tight bounding box of set pixels, or the zero
// rectangle when the mask is empty.
func (m *Mask) Bounds() image.Rectangle {
	minX, minY := m.W, m.H
	maxX, maxY := -1, -1
	for y := 0; y < m.H; y++ {
		row := y * m.W
		for x := 0; x < m.W; x++ {
			if m.bits[row+x] {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}
	if maxX < 0 {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := NewMask(m.W, m.H)
	copy(out.bits, m.bits)
	return out
}

// Invert returns a new mask with every pixel flipped.
func (m *Mask) Invert() *Mask {
	out := NewMask(m.W, m.H)
	for i, b := range m.bits {
		out.bits[i] = !b
	}
	return out
}

// Equal reports whether two masks have identical dimensions and pixels.
func (m *Mask) Equal(o *Mask) bool {
	if m.W != o.W || m.H != o.H {
		return false
	}
	for i, b := range m.bits {
		if b != o.bits[i] {
			return false
		}
	}
	return true
}

// Union sets every pixel that is set in o. Dimensions must match.
func (m *Mask) Union(o *Mask) {
	if m.W != o.W || m.H != o.H {
		return
	}
	for i, b := range o.bits {
		if b {
			m.bits[i] = true
		}
	}
}

// Contains reports whether every set pixel of o is also set in m.
func (m *Mask) Contains(o *Mask) bool {
	if m.W != o.W || m.H != o.H {
		return false
	}
	for i, b := range o.bits {
		if b && !m.bits[i] {
			return false
		}
	}
	return true
}
