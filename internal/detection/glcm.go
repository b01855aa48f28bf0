package detection

import (
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
)

// cooccurrenceDescriptor computes a normalized texture descriptor for one
// window from its gray-level co-occurrence matrix.
//
// Gray values are quantized to levels buckets. Pair counts are accumulated
// symmetrically at offsets (1,0) and (0,1), normalized to a distribution,
// and reduced to entropy. The entropy is normalized by ln(levels^2), scaled
// by 2 to spread typical document textures across [0, 1], and clamped.
// Photographic windows have diffuse co-occurrence mass (high entropy);
// bilevel text concentrates mass in a few cells (low entropy).
func cooccurrenceDescriptor(g *image.Gray, x0, y0, ws, levels int) float64 {
	counts := make([]float64, levels*levels)
	quant := func(x, y int) int {
		return int(g.Pix[y*g.Stride+x]) * levels / 256
	}

	var total float64
	for y := y0; y < y0+ws; y++ {
		for x := x0; x < x0+ws; x++ {
			a := quant(x, y)
			if x+1 < x0+ws {
				b := quant(x+1, y)
				counts[a*levels+b]++
				counts[b*levels+a]++
				total += 2
			}
			if y+1 < y0+ws {
				b := quant(x, y+1)
				counts[a*levels+b]++
				counts[b*levels+a]++
				total += 2
			}
		}
	}
	if total == 0 {
		return 0
	}
	for i := range counts {
		counts[i] /= total
	}

	entropy := stat.Entropy(counts)
	norm := entropy / math.Log(float64(levels*levels))
	if v := 2 * norm; v < 1 {
		return v
	}
	return 1
}
