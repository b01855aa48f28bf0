package processing

import (
	"image"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/regions"
)

// selectedHistogram counts gray levels over the selected pixels only.
func selectedHistogram(g *image.Gray, sel *regions.Mask) [256]int {
	var hist [256]int
	for y := 0; y < sel.H; y++ {
		row := y * g.Stride
		for x := 0; x < sel.W; x++ {
			if sel.At(x, y) {
				hist[g.Pix[row+x]]++
			}
		}
	}
	return hist
}

// otsuLevel picks the threshold maximizing between-class variance over the
// histogram. Pixels at or above the returned level count as white.
//
// Degenerate histograms, empty or concentrated in a single bin, have no
// meaningful split; the mid-scale fallback 128 is returned.
func otsuLevel(hist [256]int) int {
	total := 0
	sum := 0.0
	for v, c := range hist {
		total += c
		sum += float64(v) * float64(c)
	}
	if total == 0 {
		return 128
	}

	sumB := 0.0
	wB := 0
	best := -1.0
	bestT := -1
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])
		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			bestT = t
		}
	}
	if bestT < 0 {
		return 128
	}
	return bestT + 1
}
