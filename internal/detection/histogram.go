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

// HistogramOptions configures the bimodality estimator.
type HistogramOptions struct {
	// WindowSize is the sliding window side length in pixels.
	WindowSize int `yaml:"window_size"`

	// Stride is the window step in pixels. Windows overlap when the
	// stride is smaller than the window.
	Stride int `yaml:"stride"`

	// BimodalityThreshold scales Sarle's coefficient before it is mapped
	// to a probability. Lower values make the estimator read more windows
	// as binary.
	BimodalityThreshold float64 `yaml:"bimodality_threshold"`

	// Scales lists the pyramid scales to analyze; results are averaged.
	Scales []float64 `yaml:"scales"`
}

func defaultHistogramOptions() HistogramOptions {
	return HistogramOptions{
		WindowSize:          32,
		Stride:              16,
		BimodalityThreshold: 0.5,
		Scales:              []float64{1.0, 0.5, 0.25},
	}
}

func init() {
	Register("histogram", func(opts *yaml.Node) (Estimator, error) {
		o := defaultHistogramOptions()
		if err := decodeOptions(opts, &o); err != nil {
			return nil, err
		}
		if o.WindowSize < 2 {
			return nil, fmt.Errorf("window_size must be >= 2, got %d", o.WindowSize)
		}
		if o.Stride < 1 {
			return nil, fmt.Errorf("stride must be >= 1, got %d", o.Stride)
		}
		if o.BimodalityThreshold <= 0 {
			return nil, fmt.Errorf("bimodality_threshold must be > 0, got %g", o.BimodalityThreshold)
		}
		if len(o.Scales) == 0 {
			return nil, errors.New("scales must not be empty")
		}
		for _, s := range o.Scales {
			if s <= 0 || s > 1 {
				return nil, fmt.Errorf("scale %g outside (0, 1]", s)
			}
		}
		return &histogramEstimator{opts: o}, nil
	})
}

// histogramEstimator scores windows by how bimodal their intensity
// histogram is.
//
// # Algorithm
//
// For each scale, the grayscale image is resized and scanned with a
// sliding window. Each window's 256-bin intensity histogram yields
// weighted central moments, from which Sarle's bimodality coefficient is
// computed:
//
//	b = (skewness² + 1) / kurtosis
//
// A two-peaked histogram (black text on white paper) drives b toward 1; a
// unimodal spread (photographic tone ramps) drives it toward 1/3 and
// below the uniform-distribution value 5/9. The window probability is
//
//	p = max(0.2, 1 - min(0.8, b/threshold))
//
// so strongly bimodal windows floor at 0.2 and strongly unimodal windows
// approach 1.0. A zero-variance window is uniform paper or solid ink and
// carries no continuous-tone evidence at all; it scores 0.0 rather than
// taking the unimodal branch, which keeps blank pages out of the
// candidate pool.
//
// Overlapping window scores are averaged per pixel, scale results are
// resized back to full resolution and averaged across scales.
type histogramEstimator struct {
	opts HistogramOptions
}

func (e *histogramEstimator) Name() string { return "histogram" }

func (e *histogramEstimator) Estimate(g *image.Gray) (*Map, error) {
	w, h := g.Bounds().Dx(), g.Bounds().Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("empty image")
	}

	final := NewMap(w, h)
	invScales := 1.0 / float64(len(e.opts.Scales))
	hist := make([]float64, 256)

	for _, scale := range e.opts.Scales {
		sg := imaging.Scaled(g, scale)
		sw, sh := sg.Bounds().Dx(), sg.Bounds().Dy()
		ws, stride := windowGeometry(sw, sh, e.opts.WindowSize, e.opts.Stride)

		acc := newWindowAccum(sw, sh)
		for y := 0; y+ws <= sh; y += stride {
			for x := 0; x+ws <= sw; x += stride {
				for i := range hist {
					hist[i] = 0
				}
				for wy := y; wy < y+ws; wy++ {
					row := wy * sg.Stride
					for wx := x; wx < x+ws; wx++ {
						hist[sg.Pix[row+wx]]++
					}
				}
				acc.add(x, y, ws, bimodalityProbability(hist, e.opts.BimodalityThreshold))
			}
		}

		scaled := acc.result().ResizeTo(w, h)
		for i := range final.Pix {
			final.Pix[i] += scaled.Pix[i] * invScales
		}
	}

	final.Clamp01()
	return final, nil
}

// intensityBins holds the bin center values 0..255 used as sample
// positions for the weighted moments.
var intensityBins = func() []float64 {
	bins := make([]float64, 256)
	for i := range bins {
		bins[i] = float64(i)
	}
	return bins
}()

// bimodalityProbability maps one window histogram to a continuous-tone
// probability. Degenerate windows (all pixels one value) return 0.
func bimodalityProbability(hist []float64, threshold float64) float64 {
	var total float64
	for _, c := range hist {
		total += c
	}
	if total == 0 {
		return 0
	}

	mean := stat.Mean(intensityBins, hist)
	variance := stat.MomentAbout(2, intensityBins, mean, hist)
	if variance <= 0 {
		return 0
	}
	m3 := stat.MomentAbout(3, intensityBins, mean, hist)
	m4 := stat.MomentAbout(4, intensityBins, mean, hist)

	skew := m3 / math.Pow(variance, 1.5)
	kurt := m4 / (variance * variance)
	b := (skew*skew + 1) / kurt

	p := 1 - math.Min(0.8, b/threshold)
	if p < 0.2 {
		p = 0.2
	}
	return p
}
