package imaging

import "image"

// Integral holds summed-area tables over a grayscale image, enabling
// constant-time computation of the sum and variance of pixel values in any
// rectangular window.
type Integral struct {
	w, h int
	sum  []float64 // (w+1) x (h+1) prefix sums of pixel values
	sq   []float64 // (w+1) x (h+1) prefix sums of squared pixel values
}

// NewIntegral builds summed-area tables for g.
//
// Parameters:
//   - g: Source grayscale image.
//
// Returns:
//   - *Integral: Prefix-sum tables supporting Sum and Variance queries.
//
// # Algorithm
//
// Both tables have an extra zero row and column so window queries need no
// boundary special cases. Construction is a single pass:
//
//	sum[y+1][x+1] = pix[y][x] + sum[y][x+1] + sum[y+1][x] - sum[y][x]
func NewIntegral(g *image.Gray) *Integral {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	it := &Integral{
		w:   w,
		h:   h,
		sum: make([]float64, (w+1)*(h+1)),
		sq:  make([]float64, (w+1)*(h+1)),
	}
	stride := w + 1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := float64(g.Pix[y*g.Stride+x])
			i := (y+1)*stride + (x + 1)
			it.sum[i] = v + it.sum[i-stride] + it.sum[i-1] - it.sum[i-stride-1]
			it.sq[i] = v*v + it.sq[i-stride] + it.sq[i-1] - it.sq[i-stride-1]
		}
	}
	return it
}

// Sum returns the sum of pixel values over the half-open window
// [x0,x1) x [y0,y1). Coordinates are clamped to the image bounds.
func (it *Integral) Sum(x0, y0, x1, y1 int) float64 {
	x0, y0, x1, y1 = it.clamp(x0, y0, x1, y1)
	stride := it.w + 1
	return it.sum[y1*stride+x1] - it.sum[y0*stride+x1] -
		it.sum[y1*stride+x0] + it.sum[y0*stride+x0]
}

// Variance returns the population variance of pixel values over the
// half-open window [x0,x1) x [y0,y1). An empty window yields 0.
func (it *Integral) Variance(x0, y0, x1, y1 int) float64 {
	x0, y0, x1, y1 = it.clamp(x0, y0, x1, y1)
	n := float64((x1 - x0) * (y1 - y0))
	if n <= 0 {
		return 0
	}
	stride := it.w + 1
	s := it.sum[y1*stride+x1] - it.sum[y0*stride+x1] -
		it.sum[y1*stride+x0] + it.sum[y0*stride+x0]
	sq := it.sq[y1*stride+x1] - it.sq[y0*stride+x1] -
		it.sq[y1*stride+x0] + it.sq[y0*stride+x0]
	mean := s / n
	v := sq/n - mean*mean
	if v < 0 {
		// Guard against negative results from floating-point cancellation.
		return 0
	}
	return v
}

func (it *Integral) clamp(x0, y0, x1, y1 int) (int, int, int, int) {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > it.w {
		x1 = it.w
	}
	if y1 > it.h {
		y1 = it.h
	}
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return x0, y0, x1, y1
}
