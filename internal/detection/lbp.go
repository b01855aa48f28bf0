package detection

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// lbpCircle holds the precomputed sampling offsets for one local binary
// pattern configuration.
type lbpCircle struct {
	points int
	radius int
	dx, dy []float64
}

func newLBPCircle(points, radius int) *lbpCircle {
	c := &lbpCircle{
		points: points,
		radius: radius,
		dx:     make([]float64, points),
		dy:     make([]float64, points),
	}
	for k := 0; k < points; k++ {
		angle := 2 * math.Pi * float64(k) / float64(points)
		c.dx[k] = float64(radius) * math.Cos(angle)
		c.dy[k] = -float64(radius) * math.Sin(angle)
	}
	return c
}

// codes computes the uniform rotation-invariant local binary pattern code
// for every pixel of g.
//
// For each pixel, the points neighbors on a circle of the configured radius
// are sampled with bilinear interpolation and compared against the center
// (neighbor >= center sets the bit). Patterns with at most two 0/1
// transitions around the circle are "uniform" and code to their count of
// set bits (0..points); all other patterns share the single non-uniform
// code points+1, giving points+2 distinct codes. Pixels within radius of
// the border take code 0.
func (c *lbpCircle) codes(g *image.Gray) []uint8 {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	out := make([]uint8, w*h)
	r := c.radius
	if w <= 2*r || h <= 2*r {
		return out
	}

	sample := func(fx, fy float64) float64 {
		x0 := int(math.Floor(fx))
		y0 := int(math.Floor(fy))
		tx := fx - float64(x0)
		ty := fy - float64(y0)
		x1, y1 := x0+1, y0+1
		if x1 > w-1 {
			x1 = w - 1
		}
		if y1 > h-1 {
			y1 = h - 1
		}
		top := float64(g.Pix[y0*g.Stride+x0])*(1-tx) + float64(g.Pix[y0*g.Stride+x1])*tx
		bot := float64(g.Pix[y1*g.Stride+x0])*(1-tx) + float64(g.Pix[y1*g.Stride+x1])*tx
		return top*(1-ty) + bot*ty
	}

	parallel.Line(h-2*r, func(start, end int) {
		bits := make([]bool, c.points)
		for y := start + r; y < end+r; y++ {
			for x := r; x < w-r; x++ {
				center := float64(g.Pix[y*g.Stride+x])
				ones := 0
				for k := 0; k < c.points; k++ {
					v := sample(float64(x)+c.dx[k], float64(y)+c.dy[k])
					bits[k] = v >= center
					if bits[k] {
						ones++
					}
				}
				transitions := 0
				for k := 0; k < c.points; k++ {
					if bits[k] != bits[(k+1)%c.points] {
						transitions++
					}
				}
				if transitions <= 2 {
					out[y*w+x] = uint8(ones)
				} else {
					out[y*w+x] = uint8(c.points + 1)
				}
			}
		}
	})
	return out
}
