package processing

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/segment"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/regions"
)

func init() {
	Register("binary", func(cfg *config.Processing) (Strategy, error) {
		if cfg.Binary.Threshold < 0 || cfg.Binary.Threshold > 255 {
			return nil, fmt.Errorf("binary threshold must be in [0, 255], got %d", cfg.Binary.Threshold)
		}
		return &binaryStrategy{cfg: cfg.Binary}, nil
	})
}

// binaryStrategy reduces text and line-art regions to pure black and
// white. The threshold level is either fixed or chosen by Otsu's method
// from the selected pixels, so a dark plate elsewhere on the page cannot
// skew the cut used for the text.
type binaryStrategy struct {
	cfg config.Binary
}

func (s *binaryStrategy) Name() string { return "binary" }

func (s *binaryStrategy) Process(g *image.Gray, sel *regions.Mask) (*image.Gray, error) {
	if err := checkSelection(g, sel); err != nil {
		return nil, err
	}
	out := cloneGray(g)
	if sel.Empty() {
		return out, nil
	}

	level := s.cfg.Threshold
	if level == 0 {
		level = otsuLevel(selectedHistogram(g, sel))
	}

	bw := segment.Threshold(g, uint8(level))
	for y := 0; y < sel.H; y++ {
		row := y * out.Stride
		bwRow := y * bw.Stride
		for x := 0; x < sel.W; x++ {
			if !sel.At(x, y) {
				continue
			}
			v := bw.Pix[bwRow+x]
			if s.cfg.Invert {
				v = 255 - v
			}
			out.Pix[row+x] = v
		}
	}
	return out, nil
}
