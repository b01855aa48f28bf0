package processing

import (
	"fmt"
	"image"
	"slices"

	"github.com/disintegration/imaging"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/regions"
)

// erodeSelectionAbove is the selection size over which the selection is
// shrunk by one pixel before rendering. Region borders carry thresholding
// halos from the scan; eroding keeps them out of the enhanced output.
const erodeSelectionAbove = 1000

func init() {
	Register("grayscale", func(cfg *config.Processing) (Strategy, error) {
		gs := cfg.Grayscale
		if gs.Brightness < -1 || gs.Brightness > 1 {
			return nil, fmt.Errorf("brightness must be in [-1, 1], got %g", gs.Brightness)
		}
		if gs.Contrast < 0 || gs.Contrast > 2 {
			return nil, fmt.Errorf("contrast must be in [0, 2], got %g", gs.Contrast)
		}
		if gs.Threshold < 0 || gs.Threshold > 255 {
			return nil, fmt.Errorf("threshold must be in [0, 255], got %d", gs.Threshold)
		}
		if !slices.Contains(config.DitherTypes, gs.DitherType) {
			return nil, fmt.Errorf("unknown dither type %q", gs.DitherType)
		}
		return &grayscaleStrategy{cfg: gs}, nil
	})
}

// grayscaleStrategy renders continuous-tone regions. Tone is remapped by a
// sigmoid driven by the brightness and contrast settings; the result is
// either kept as enhanced grayscale or reduced to black and white with the
// configured dithering.
type grayscaleStrategy struct {
	cfg config.Grayscale
}

func (s *grayscaleStrategy) Name() string { return "grayscale" }

func (s *grayscaleStrategy) Process(g *image.Gray, sel *regions.Mask) (*image.Gray, error) {
	if err := checkSelection(g, sel); err != nil {
		return nil, err
	}
	out := cloneGray(g)
	if sel.Empty() {
		return out, nil
	}

	// Shrink large selections one pixel so enhancement does not pick up
	// the halo pixels along the region border. Selections thin enough to
	// erode away keep their full extent.
	work := sel
	if sel.Count() > erodeSelectionAbove {
		if eroded := regions.Erode(sel, 1); !eroded.Empty() {
			work = eroded
		}
	}

	adjusted := adjustTone(g, s.cfg.Brightness, s.cfg.Contrast)

	if s.cfg.PreserveGrayscale {
		sharpenInto(out, adjusted, work)
		return out, nil
	}

	level := s.cfg.Threshold
	if level == 0 {
		level = otsuLevel(adjustedHistogram(adjusted, work))
	}

	switch s.cfg.DitherType {
	case "floyd-steinberg":
		ditherDiffusion(out, adjusted, work, level)
	case "ordered":
		ditherOrdered(out, adjusted, work, level)
	case "none":
		for y := 0; y < work.H; y++ {
			row := y * out.Stride
			for x := 0; x < work.W; x++ {
				if !work.At(x, y) {
					continue
				}
				if int(adjusted.Pix[y*adjusted.Stride+x*4]) >= level {
					out.Pix[row+x] = 255
				} else {
					out.Pix[row+x] = 0
				}
			}
		}
	default:
		return nil, fmt.Errorf("unknown dither type %q", s.cfg.DitherType)
	}
	return out, nil
}

// adjustTone applies the sigmoid tone curve. Brightness shifts the curve
// midpoint, contrast scales its slope.
func adjustTone(g *image.Gray, brightness, contrast float64) *image.NRGBA {
	cutoff := 0.5 - brightness/2
	gain := contrast * 5
	return imaging.AdjustSigmoid(g, cutoff, gain)
}

// sharpenInto writes an unsharp-enhanced rendition of the selected pixels:
// the adjusted image blended 85/15 with its sharpened version, a mild lift
// of local contrast that keeps photographic tone intact.
func sharpenInto(out *image.Gray, adjusted *image.NRGBA, sel *regions.Mask) {
	sharpened := imaging.Sharpen(adjusted, 1.0)
	for y := 0; y < sel.H; y++ {
		row := y * out.Stride
		for x := 0; x < sel.W; x++ {
			if !sel.At(x, y) {
				continue
			}
			a := float64(adjusted.Pix[y*adjusted.Stride+x*4])
			sh := float64(sharpened.Pix[y*sharpened.Stride+x*4])
			out.Pix[row+x] = clampByte(0.85*a + 0.15*sh)
		}
	}
}

// adjustedHistogram counts the red channel of an NRGBA image over the
// selection. The sigmoid output of a grayscale source has equal channels,
// so red stands for the gray value.
func adjustedHistogram(p *image.NRGBA, sel *regions.Mask) [256]int {
	var hist [256]int
	for y := 0; y < sel.H; y++ {
		for x := 0; x < sel.W; x++ {
			if sel.At(x, y) {
				hist[p.Pix[y*p.Stride+x*4]]++
			}
		}
	}
	return hist
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
