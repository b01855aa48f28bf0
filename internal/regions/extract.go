package regions

import (
	"errors"
	"image"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/detection"
)

// Extract thresholds a probability map into candidate pixels and groups
// them into connected blobs.
//
// Parameters:
//   - m: Fused probability map.
//   - cfg: Extraction settings. Pixels with probability strictly above
//     ProbabilityThreshold become candidates; optional disk closing and
//     opening clean the candidate mask before labeling; components
//     smaller than MinRegionSize pixels are dropped.
//
// Returns:
//   - []*Blob: Connected components in raster order of their seed pixel,
//     labeled 1..n. The order and labels are deterministic for identical
//     input.
//   - error: Non-nil for a nil or empty probability map.
//
// # Connectivity
//
// Components are 8-connected (diagonal neighbors join), matching the
// perimeter definition used by the shape descriptors. Labeling uses an
// iterative stack-based flood fill, so blob size is bounded by memory,
// not by goroutine stack depth.
func Extract(m *detection.Map, cfg config.Extraction) ([]*Blob, error) {
	if m == nil || m.W == 0 || m.H == 0 {
		return nil, errors.New("empty probability map")
	}

	cand := NewMask(m.W, m.H)
	for i, v := range m.Pix {
		cand.bits[i] = v > cfg.ProbabilityThreshold
	}
	if cfg.CloseRadius > 0 {
		cand = CloseMask(cand, cfg.CloseRadius)
	}
	if cfg.OpenRadius > 0 {
		cand = OpenMask(cand, cfg.OpenRadius)
	}

	visited := make([]bool, len(cand.bits))
	var blobs []*Blob
	label := 0
	for y := 0; y < cand.H; y++ {
		for x := 0; x < cand.W; x++ {
			if !cand.bits[y*cand.W+x] || visited[y*cand.W+x] {
				continue
			}
			label++
			points := floodFill(cand, visited, x, y)
			if len(points) < cfg.MinRegionSize {
				continue
			}
			blobs = append(blobs, newBlob(label, points))
		}
	}
	return blobs, nil
}

// floodFill collects the 8-connected component containing the start
// pixel, marking it visited.
func floodFill(m *Mask, visited []bool, startX, startY int) []image.Point {
	var points []image.Point
	stack := []image.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= m.W || p.Y < 0 || p.Y >= m.H {
			continue
		}
		i := p.Y*m.W + p.X
		if visited[i] || !m.bits[i] {
			continue
		}
		visited[i] = true
		points = append(points, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, image.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
	return points
}
