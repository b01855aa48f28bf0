package detection

import (
	"errors"
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/imaging"
)

// TextureOptions configures the texture estimator.
type TextureOptions struct {
	// WindowSize is the sliding window side length in pixels.
	WindowSize int `yaml:"window_size"`

	// Stride is the window step in pixels.
	Stride int `yaml:"stride"`

	// LBPRadius is the local binary pattern sampling circle radius.
	LBPRadius int `yaml:"lbp_radius"`

	// LBPPoints is the number of samples on the circle.
	LBPPoints int `yaml:"lbp_points"`

	// TextureThreshold scales the blended texture score; scores at or
	// above the threshold saturate to probability 1.
	TextureThreshold float64 `yaml:"texture_threshold"`

	// CooccurrenceLevels is the gray quantization for the slow
	// co-occurrence descriptor.
	CooccurrenceLevels int `yaml:"cooccurrence_levels"`

	// AmbiguityMidpoint and AmbiguityWidth bound the fast-score band
	// |fast - midpoint| <= width inside which the slow descriptor is
	// consulted. Width 0 disables the slow path except for exact
	// midpoint hits.
	AmbiguityMidpoint float64 `yaml:"ambiguity_midpoint"`
	AmbiguityWidth    float64 `yaml:"ambiguity_width"`
}

func defaultTextureOptions() TextureOptions {
	return TextureOptions{
		WindowSize:         32,
		Stride:             16,
		LBPRadius:          3,
		LBPPoints:          24,
		TextureThreshold:   0.3,
		CooccurrenceLevels: 32,
		AmbiguityMidpoint:  0.5,
		AmbiguityWidth:     0.15,
	}
}

func init() {
	Register("texture", func(opts *yaml.Node) (Estimator, error) {
		o := defaultTextureOptions()
		if err := decodeOptions(opts, &o); err != nil {
			return nil, err
		}
		if o.WindowSize < 2 {
			return nil, fmt.Errorf("window_size must be >= 2, got %d", o.WindowSize)
		}
		if o.Stride < 1 {
			return nil, fmt.Errorf("stride must be >= 1, got %d", o.Stride)
		}
		if o.LBPRadius < 1 {
			return nil, fmt.Errorf("lbp_radius must be >= 1, got %d", o.LBPRadius)
		}
		if o.LBPPoints < 4 || o.LBPPoints > 64 {
			return nil, fmt.Errorf("lbp_points must be in [4, 64], got %d", o.LBPPoints)
		}
		if o.TextureThreshold <= 0 {
			return nil, fmt.Errorf("texture_threshold must be > 0, got %g", o.TextureThreshold)
		}
		if o.CooccurrenceLevels < 2 || o.CooccurrenceLevels > 256 {
			return nil, fmt.Errorf("cooccurrence_levels must be in [2, 256], got %d", o.CooccurrenceLevels)
		}
		if o.AmbiguityMidpoint < 0 || o.AmbiguityMidpoint > 1 {
			return nil, fmt.Errorf("ambiguity_midpoint must be in [0, 1], got %g", o.AmbiguityMidpoint)
		}
		if o.AmbiguityWidth < 0 {
			return nil, fmt.Errorf("ambiguity_width must be >= 0, got %g", o.AmbiguityWidth)
		}
		return &textureEstimator{
			opts:   o,
			circle: newLBPCircle(o.LBPPoints, o.LBPRadius),
		}, nil
	})
}

// textureEstimator scores windows by local pattern diversity.
//
// # Algorithm
//
// The fast path runs once per image: uniform rotation-invariant local
// binary pattern codes for every pixel, plus integral tables for O(1)
// window variance. Each window then blends two cues equally:
//
//   - entropy of the window's LBP code histogram, normalized by the
//     maximum entropy ln(points+2). Photographs exercise many patterns;
//     clean text repeats a few strokes. The radius-wide border ring has
//     no full sampling circle and is left out of the histograms.
//   - window gray variance normalized by 2500 and clamped to 1, which
//     separates flat paper from toned areas.
//
// The blend is divided by the texture threshold and clamped, so scores at
// or above the threshold saturate to 1.
//
// The co-occurrence descriptor is an order of magnitude slower per
// window, so it is consulted only where the fast score is ambiguous
// (within the configured band around the midpoint). There the window
// probability becomes the mean of the fast and slow scores; everywhere
// else the fast score stands alone.
type textureEstimator struct {
	opts   TextureOptions
	circle *lbpCircle
}

func (e *textureEstimator) Name() string { return "texture" }

func (e *textureEstimator) Estimate(g *image.Gray) (*Map, error) {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("empty image")
	}

	codes := e.circle.codes(g)
	integral := imaging.NewIntegral(g)
	nbins := e.opts.LBPPoints + 2
	maxEntropy := math.Log(float64(nbins))

	ws, stride := windowGeometry(w, h, e.opts.WindowSize, e.opts.Stride)
	acc := newWindowAccum(w, h)
	hist := make([]float64, nbins)

	// Codes are undefined on the radius-wide border ring, so window
	// histograms count interior samples only. A flat page must score zero
	// texture right up to the image edge.
	r := e.opts.LBPRadius

	for y := 0; y+ws <= h; y += stride {
		for x := 0; x+ws <= w; x += stride {
			for i := range hist {
				hist[i] = 0
			}
			y0, y1 := max(y, r), min(y+ws, h-r)
			x0, x1 := max(x, r), min(x+ws, w-r)
			n := 0.0
			for wy := y0; wy < y1; wy++ {
				row := wy * w
				for wx := x0; wx < x1; wx++ {
					hist[codes[row+wx]]++
					n++
				}
			}
			entropyNorm := 0.0
			if n > 0 {
				for i := range hist {
					hist[i] /= n
				}
				entropyNorm = stat.Entropy(hist) / maxEntropy
			}

			varNorm := integral.Variance(x, y, x+ws, y+ws) / 2500
			if varNorm > 1 {
				varNorm = 1
			}

			fast := (0.5*entropyNorm + 0.5*varNorm) / e.opts.TextureThreshold
			if fast > 1 {
				fast = 1
			}

			p := fast
			if math.Abs(fast-e.opts.AmbiguityMidpoint) <= e.opts.AmbiguityWidth {
				slow := cooccurrenceDescriptor(g, x, y, ws, e.opts.CooccurrenceLevels)
				p = (fast + slow) / 2
			}
			acc.add(x, y, ws, p)
		}
	}

	out := acc.result()
	out.Clamp01()
	return out, nil
}
