package processing

import (
	"fmt"
	"image"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/regions"
)

// Apply renders a classified page: the grayscale strategy over the region
// mask, then the binary strategy over its inverse. Because the mask and
// its inverse partition the page, every pixel is rendered by exactly one
// strategy.
func Apply(g *image.Gray, mask *regions.Mask, cfg *config.Config) (*image.Gray, error) {
	grayStrategy, err := New("grayscale", &cfg.Processing)
	if err != nil {
		return nil, err
	}
	binStrategy, err := New("binary", &cfg.Processing)
	if err != nil {
		return nil, err
	}

	out, err := grayStrategy.Process(g, mask)
	if err != nil {
		return nil, fmt.Errorf("failed to render grayscale regions: %w", err)
	}
	out, err = binStrategy.Process(out, mask.Invert())
	if err != nil {
		return nil, fmt.Errorf("failed to render binary regions: %w", err)
	}
	return out, nil
}
