package detection

import (
	"errors"
	"fmt"
	"image"

	"gopkg.in/yaml.v3"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/imaging"
)

// EdgeOptions configures the edge-density estimator.
type EdgeOptions struct {
	// EdgeThreshold is the normalized Sobel magnitude above which a pixel
	// counts as an edge.
	EdgeThreshold float64 `yaml:"edge_threshold"`

	// MinEdgeDensity and MaxEdgeDensity bound the photographic band.
	// Windows below the minimum read as blank paper, above the maximum
	// as dense text strokes.
	MinEdgeDensity float64 `yaml:"min_edge_density"`
	MaxEdgeDensity float64 `yaml:"max_edge_density"`

	// SmoothRadius controls the final Gaussian smoothing
	// (sigma = radius/2). Zero disables smoothing.
	SmoothRadius int `yaml:"smooth_radius"`

	// Scales lists the pyramid scales to analyze; results are averaged.
	Scales []float64 `yaml:"scales"`
}

func defaultEdgeOptions() EdgeOptions {
	return EdgeOptions{
		EdgeThreshold:  0.1,
		MinEdgeDensity: 0.05,
		MaxEdgeDensity: 0.3,
		SmoothRadius:   5,
		Scales:         []float64{1.0, 0.5},
	}
}

const (
	edgeWindowSize = 32
	edgeStride     = 16
)

func init() {
	Register("edge", func(opts *yaml.Node) (Estimator, error) {
		o := defaultEdgeOptions()
		if err := decodeOptions(opts, &o); err != nil {
			return nil, err
		}
		if o.EdgeThreshold <= 0 || o.EdgeThreshold >= 1 {
			return nil, fmt.Errorf("edge_threshold must be in (0, 1), got %g", o.EdgeThreshold)
		}
		if o.MinEdgeDensity < 0 || o.MaxEdgeDensity > 1 || o.MinEdgeDensity >= o.MaxEdgeDensity {
			return nil, fmt.Errorf("edge density band [%g, %g] invalid", o.MinEdgeDensity, o.MaxEdgeDensity)
		}
		if o.SmoothRadius < 0 {
			return nil, fmt.Errorf("smooth_radius must be >= 0, got %d", o.SmoothRadius)
		}
		if len(o.Scales) == 0 {
			return nil, errors.New("scales must not be empty")
		}
		for _, s := range o.Scales {
			if s <= 0 || s > 1 {
				return nil, fmt.Errorf("scale %g outside (0, 1]", s)
			}
		}
		return &edgeEstimator{opts: o}, nil
	})
}

// edgeEstimator scores windows by their density of Sobel edges.
//
// # Algorithm
//
// Per scale, the normalized gradient magnitude is thresholded into an
// edge mask and each sliding window's edge density is mapped through
// fixed bands:
//
//	density < min          -> 0.2  (blank paper)
//	density > max          -> 0.3  (dense strokes, reads as text)
//	otherwise              -> 0.7 + 0.3 * (density-min)/(max-min)
//
// Right and bottom margins no window covers copy their nearest covered
// pixel, then the whole map is Gaussian-smoothed. This estimator's main
// contribution to the fused map is softening region transitions, not
// labeling regions on its own, which is why its default fusion weight is
// the smallest of the three built-ins.
type edgeEstimator struct {
	opts EdgeOptions
}

func (e *edgeEstimator) Name() string { return "edge" }

func (e *edgeEstimator) Estimate(g *image.Gray) (*Map, error) {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("empty image")
	}

	final := NewMap(w, h)
	invScales := 1.0 / float64(len(e.opts.Scales))

	for _, scale := range e.opts.Scales {
		sg := imaging.Scaled(g, scale)
		sw, sh := sg.Bounds().Dx(), sg.Bounds().Dy()
		mag := sobelMagnitude(sg)
		ws, stride := windowGeometry(sw, sh, edgeWindowSize, edgeStride)

		acc := newWindowAccum(sw, sh)
		for y := 0; y+ws <= sh; y += stride {
			for x := 0; x+ws <= sw; x += stride {
				edges := 0
				for wy := y; wy < y+ws; wy++ {
					row := wy * sw
					for wx := x; wx < x+ws; wx++ {
						if mag.Pix[row+wx] > e.opts.EdgeThreshold {
							edges++
						}
					}
				}
				density := float64(edges) / float64(ws*ws)
				acc.add(x, y, ws, e.bandValue(density))
			}
		}

		out := acc.result()
		fillMargins(out, acc, ws, stride)
		out = out.SmoothGaussian(float64(e.opts.SmoothRadius) / 2)
		scaled := out.ResizeTo(w, h)
		for i := range final.Pix {
			final.Pix[i] += scaled.Pix[i] * invScales
		}
	}

	final.Clamp01()
	return final, nil
}

func (e *edgeEstimator) bandValue(density float64) float64 {
	switch {
	case density < e.opts.MinEdgeDensity:
		return 0.2
	case density > e.opts.MaxEdgeDensity:
		return 0.3
	default:
		t := (density - e.opts.MinEdgeDensity) / (e.opts.MaxEdgeDensity - e.opts.MinEdgeDensity)
		return 0.7 + 0.3*t
	}
}

// fillMargins copies the nearest covered value into the right and bottom
// strips the window grid never reached.
func fillMargins(m *Map, acc *windowAccum, ws, stride int) {
	coveredW := ((m.W-ws)/stride)*stride + ws
	coveredH := ((m.H-ws)/stride)*stride + ws
	if coveredW >= m.W && coveredH >= m.H {
		return
	}
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if acc.covered(x, y) {
				continue
			}
			sx, sy := x, y
			if sx > coveredW-1 {
				sx = coveredW - 1
			}
			if sy > coveredH-1 {
				sy = coveredH - 1
			}
			m.Pix[y*m.W+x] = m.Pix[sy*m.W+sx]
		}
	}
}
