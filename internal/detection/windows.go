package detection

// windowGeometry returns the effective sliding-window size and stride for
// an image of the given dimensions. Images smaller than the configured
// window shrink it to the shorter image side with a half-window stride, so
// every image yields at least one window.
func windowGeometry(w, h, windowSize, stride int) (int, int) {
	if w >= windowSize && h >= windowSize {
		return windowSize, stride
	}
	ws := min(w, h, windowSize)
	if ws < 1 {
		ws = 1
	}
	return ws, max(1, ws/2)
}

// windowAccum averages overlapping window contributions per pixel. Pixels
// no window covers keep the value zero.
type windowAccum struct {
	w, h  int
	sum   []float64
	count []float64
}

func newWindowAccum(w, h int) *windowAccum {
	return &windowAccum{
		w:     w,
		h:     h,
		sum:   make([]float64, w*h),
		count: make([]float64, w*h),
	}
}

// add spreads a window's value over its ws x ws pixel extent.
func (a *windowAccum) add(x0, y0, ws int, v float64) {
	for y := y0; y < y0+ws && y < a.h; y++ {
		row := y * a.w
		for x := x0; x < x0+ws && x < a.w; x++ {
			a.sum[row+x] += v
			a.count[row+x]++
		}
	}
}

// result divides accumulated sums by coverage counts.
func (a *windowAccum) result() *Map {
	out := NewMap(a.w, a.h)
	for i := range a.sum {
		if a.count[i] > 0 {
			out.Pix[i] = a.sum[i] / a.count[i]
		}
	}
	return out
}

// covered reports whether any window contributed to (x, y).
func (a *windowAccum) covered(x, y int) bool {
	return a.count[y*a.w+x] > 0
}
