package detection

import (
	"errors"
	"fmt"

	"github.com/anthonynsimon/bild/parallel"
)

// Fuse blends probability maps into one by per-pixel weighted average.
//
// Parameters:
//   - maps: Estimator outputs, all with identical dimensions.
//   - weights: One non-negative weight per map. Weights are normalized to
//     sum to 1, so only their ratios matter. A nil slice weights all maps
//     equally.
//
// Returns:
//   - *Map: The fused probability map.
//   - error: Non-nil for an empty input, a weight count mismatch, negative
//     weights, an all-zero weight sum, or mismatched map dimensions.
//
// Fusion is order-independent: permuting maps together with their weights
// produces an identical result.
func Fuse(maps []*Map, weights []float64) (*Map, error) {
	if len(maps) == 0 {
		return nil, errors.New("no probability maps to fuse")
	}
	if weights == nil {
		weights = make([]float64, len(maps))
		for i := range weights {
			weights[i] = 1
		}
	}
	if len(weights) != len(maps) {
		return nil, fmt.Errorf("got %d weights for %d maps", len(weights), len(maps))
	}

	var sum float64
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative weight %g", w)
		}
		sum += w
	}
	if sum == 0 {
		return nil, errors.New("weights sum to zero")
	}
	norm := make([]float64, len(weights))
	for i, w := range weights {
		norm[i] = w / sum
	}

	w, h := maps[0].W, maps[0].H
	for i, m := range maps {
		if m.W != w || m.H != h {
			return nil, fmt.Errorf("map %d is %dx%d, want %dx%d", i, m.W, m.H, w, h)
		}
	}

	out := NewMap(w, h)
	parallel.Line(h, func(start, end int) {
		for i := start * w; i < end*w; i++ {
			var v float64
			for j, m := range maps {
				v += m.Pix[i] * norm[j]
			}
			out.Pix[i] = v
		}
	})
	return out, nil
}
