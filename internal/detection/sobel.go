package detection

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// sobelMagnitude computes the normalized Sobel gradient magnitude of a
// grayscale image. Pixel values are treated as [0, 1], the 3x3 kernels are
// scaled by 1/4 and the magnitude by 1/sqrt(2), so the result stays within
// [0, 1]. Borders replicate edge pixels.
func sobelMagnitude(g *image.Gray) *Map {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	out := NewMap(w, h)
	if w == 0 || h == 0 {
		return out
	}

	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		} else if x > w-1 {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y > h-1 {
			y = h - 1
		}
		return float64(g.Pix[y*g.Stride+x]) / 255.0
	}

	parallel.Line(h, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				tl := at(x-1, y-1)
				tc := at(x, y-1)
				tr := at(x+1, y-1)
				ml := at(x-1, y)
				mr := at(x+1, y)
				bl := at(x-1, y+1)
				bc := at(x, y+1)
				br := at(x+1, y+1)

				gx := ((tr + 2*mr + br) - (tl + 2*ml + bl)) / 4
				gy := ((bl + 2*bc + br) - (tl + 2*tc + tr)) / 4
				out.Pix[y*w+x] = math.Sqrt(gx*gx+gy*gy) / math.Sqrt2
			}
		}
	})
	return out
}
