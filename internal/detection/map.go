package detection

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// Map is a per-pixel probability grid in row-major order. Values are
// expected to stay within [0, 1]; Clamp01 enforces the range after
// arithmetic that may drift.
type Map struct {
	W, H int
	Pix  []float64
}

// NewMap allocates a zeroed probability map of the given dimensions.
func NewMap(w, h int) *Map {
	return &Map{W: w, H: h, Pix: make([]float64, w*h)}
}

// At returns the value at (x, y). No bounds checking is performed.
func (m *Map) At(x, y int) float64 {
	return m.Pix[y*m.W+x]
}

// Set stores v at (x, y). No bounds checking is performed.
func (m *Map) Set(x, y int, v float64) {
	m.Pix[y*m.W+x] = v
}

// Fill sets every pixel to v.
func (m *Map) Fill(v float64) {
	for i := range m.Pix {
		m.Pix[i] = v
	}
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	out := NewMap(m.W, m.H)
	copy(out.Pix, m.Pix)
	return out
}

// Mean returns the average value over all pixels, or 0 for an empty map.
func (m *Map) Mean() float64 {
	if len(m.Pix) == 0 {
		return 0
	}
	var sum float64
	for _, v := range m.Pix {
		sum += v
	}
	return sum / float64(len(m.Pix))
}

// Clamp01 clips every value into [0, 1] in place.
func (m *Map) Clamp01() {
	parallel.Line(m.H, func(start, end int) {
		for i := start * m.W; i < end*m.W; i++ {
			if m.Pix[i] < 0 {
				m.Pix[i] = 0
			} else if m.Pix[i] > 1 {
				m.Pix[i] = 1
			}
		}
	})
}

// ResizeTo returns a bilinearly interpolated copy of the map at the given
// dimensions. Sampling is center-aligned so that upscaled window results
// land on the pixels their source windows covered. Returns the receiver
// when dimensions already match.
func (m *Map) ResizeTo(w, h int) *Map {
	if w == m.W && h == m.H {
		return m
	}
	out := NewMap(w, h)
	sx := float64(m.W) / float64(w)
	sy := float64(m.H) / float64(h)
	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			fy := (float64(y)+0.5)*sy - 0.5
			y0 := int(math.Floor(fy))
			ty := fy - float64(y0)
			y1 := y0 + 1
			if y0 < 0 {
				y0 = 0
			}
			if y1 > m.H-1 {
				y1 = m.H - 1
			}
			if y0 > m.H-1 {
				y0 = m.H - 1
			}
			for x := 0; x < w; x++ {
				fx := (float64(x)+0.5)*sx - 0.5
				x0 := int(math.Floor(fx))
				tx := fx - float64(x0)
				x1 := x0 + 1
				if x0 < 0 {
					x0 = 0
				}
				if x1 > m.W-1 {
					x1 = m.W - 1
				}
				if x0 > m.W-1 {
					x0 = m.W - 1
				}
				top := m.Pix[y0*m.W+x0]*(1-tx) + m.Pix[y0*m.W+x1]*tx
				bot := m.Pix[y1*m.W+x0]*(1-tx) + m.Pix[y1*m.W+x1]*tx
				out.Pix[y*w+x] = top*(1-ty) + bot*ty
			}
		}
	})
	return out
}

// SmoothGaussian returns a Gaussian-blurred copy of the map. The kernel
// radius is ceil(3*sigma) and borders replicate edge values. A sigma of
// zero or less returns the receiver unchanged.
func (m *Map) SmoothGaussian(sigma float64) *Map {
	if sigma <= 0 {
		return m
	}
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	var ksum float64
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		ksum += v
	}
	for i := range kernel {
		kernel[i] /= ksum
	}

	// Horizontal pass.
	tmp := NewMap(m.W, m.H)
	parallel.Line(m.H, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < m.W; x++ {
				var acc float64
				for k := -radius; k <= radius; k++ {
					sx := x + k
					if sx < 0 {
						sx = 0
					} else if sx > m.W-1 {
						sx = m.W - 1
					}
					acc += m.Pix[y*m.W+sx] * kernel[k+radius]
				}
				tmp.Pix[y*m.W+x] = acc
			}
		}
	})

	// Vertical pass.
	out := NewMap(m.W, m.H)
	parallel.Line(m.H, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < m.W; x++ {
				var acc float64
				for k := -radius; k <= radius; k++ {
					sy := y + k
					if sy < 0 {
						sy = 0
					} else if sy > m.H-1 {
						sy = m.H - 1
					}
					acc += tmp.Pix[sy*m.W+x] * kernel[k+radius]
				}
				out.Pix[y*m.W+x] = acc
			}
		}
	})
	return out
}
