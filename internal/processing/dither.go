package processing

import (
	"image"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/regions"
)

// bayer4 is the classic 4x4 ordered dithering matrix.
var bayer4 = [4][4]int{
	{0, 8, 2, 10},
	{12, 4, 14, 6},
	{3, 11, 1, 9},
	{15, 7, 13, 5},
}

// ditherOrdered thresholds selected pixels against a level perturbed by
// the tiled Bayer matrix. Fixed patterning instead of error diffusion, so
// the result is stable under recompression.
func ditherOrdered(out *image.Gray, src *image.NRGBA, sel *regions.Mask, level int) {
	for y := 0; y < sel.H; y++ {
		row := y * out.Stride
		for x := 0; x < sel.W; x++ {
			if !sel.At(x, y) {
				continue
			}
			v := float64(src.Pix[y*src.Stride+x*4])
			cut := float64(level) + float64(bayer4[y%4][x%4])*255.0/16.0 - 127.5
			if v > cut {
				out.Pix[row+x] = 255
			} else {
				out.Pix[row+x] = 0
			}
		}
	}
}

// ditherDiffusion is masked Floyd-Steinberg dithering. Quantization error
// diffuses over the two-dimensional raster with the usual 7/16, 3/16,
// 5/16, 1/16 shares, but never crosses the selection boundary: pixels
// outside the selection neither contribute nor absorb error.
func ditherDiffusion(out *image.Gray, src *image.NRGBA, sel *regions.Mask, level int) {
	w, h := sel.W, sel.H
	buf := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			buf[y*w+x] = float64(src.Pix[y*src.Stride+x*4])
		}
	}

	spread := func(x, y int, share float64) {
		if x < 0 || x >= w || y >= h || !sel.At(x, y) {
			return
		}
		buf[y*w+x] += share
	}

	for y := 0; y < h; y++ {
		row := y * out.Stride
		for x := 0; x < w; x++ {
			if !sel.At(x, y) {
				continue
			}
			old := buf[y*w+x]
			var v uint8
			if old >= float64(level) {
				v = 255
			}
			out.Pix[row+x] = v
			err := old - float64(v)
			spread(x+1, y, err*7/16)
			spread(x-1, y+1, err*3/16)
			spread(x, y+1, err*5/16)
			spread(x+1, y+1, err*1/16)
		}
	}
}
