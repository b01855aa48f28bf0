package config

import (
	"errors"
	"fmt"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/detection"
)

// Error reports one invalid configuration value. Validation returns all
// violations joined, so a config file is fixed in one pass.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Validate checks the whole configuration and returns every violation
// joined into one error, or nil. A non-nil result means the configuration
// must not be applied, not even partially.
func (c *Config) Validate() error {
	var errs []error
	bad := func(field, format string, args ...interface{}) {
		errs = append(errs, &Error{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if len(c.Detection.Strategies) == 0 {
		bad("detection.strategies", "at least one estimator is required")
	}
	known := detection.Names()
	var weightSum float64
	for i, s := range c.Detection.Strategies {
		field := fmt.Sprintf("detection.strategies[%d]", i)
		if s.Name == "" {
			bad(field+".name", "estimator name is required")
		} else if !contains(known, s.Name) {
			bad(field+".name", "unknown estimator %q (registered: %v)", s.Name, known)
		}
		if s.Weight < 0 {
			bad(field+".weight", "must be >= 0, got %g", s.Weight)
		}
		weightSum += s.Weight
	}
	if len(c.Detection.Strategies) > 0 && weightSum <= 0 {
		bad("detection.strategies", "weights must sum to a positive value")
	}

	x := c.Extraction
	if x.ProbabilityThreshold < 0 || x.ProbabilityThreshold > 1 {
		bad("region_extraction.probability_threshold", "must be in [0, 1], got %g", x.ProbabilityThreshold)
	}
	if x.MinRegionSize < 0 {
		bad("region_extraction.min_region_size", "must be >= 0, got %d", x.MinRegionSize)
	}
	if x.CloseRadius < 0 {
		bad("region_extraction.close_radius", "must be >= 0, got %d", x.CloseRadius)
	}
	if x.OpenRadius < 0 {
		bad("region_extraction.open_radius", "must be >= 0, got %d", x.OpenRadius)
	}
	if x.ExpandPixels < 0 {
		bad("region_extraction.expand_pixels", "must be >= 0, got %d", x.ExpandPixels)
	}
	if x.MaxPerimeterAreaRatio <= 0 {
		bad("region_extraction.max_perimeter_area_ratio", "must be > 0, got %g", x.MaxPerimeterAreaRatio)
	}
	if x.MinBlobArea <= 0 {
		bad("region_extraction.min_blob_area", "must be > 0, got %d", x.MinBlobArea)
	}
	if x.BlobCircularity > 1 {
		bad("region_extraction.blob_circularity", "must be <= 1, got %g", x.BlobCircularity)
	}
	if x.VeryLargeRegionMultiplier <= 0 {
		bad("region_extraction.very_large_region_multiplier", "must be > 0, got %g", x.VeryLargeRegionMultiplier)
	}
	if x.LargeRegionRatioMultiplier < 0 {
		bad("region_extraction.large_region_ratio_multiplier", "must be >= 0, got %g", x.LargeRegionRatioMultiplier)
	}
	if x.LargeRegionCircularityMultiplier < 0 {
		bad("region_extraction.large_region_circularity_multiplier", "must be >= 0, got %g", x.LargeRegionCircularityMultiplier)
	}
	if x.MediumRegionDivider <= 0 {
		bad("region_extraction.medium_region_divider", "must be > 0, got %g", x.MediumRegionDivider)
	}
	if x.MediumRegionRatioMultiplier < 0 {
		bad("region_extraction.medium_region_ratio_multiplier", "must be >= 0, got %g", x.MediumRegionRatioMultiplier)
	}
	if x.MediumRegionCircularityMultiplier < 0 {
		bad("region_extraction.medium_region_circularity_multiplier", "must be >= 0, got %g", x.MediumRegionCircularityMultiplier)
	}
	if x.SmallRegionRatioMultiplier < 0 {
		bad("region_extraction.small_region_ratio_multiplier", "must be >= 0, got %g", x.SmallRegionRatioMultiplier)
	}
	if x.SmallRegionCircularityMultiplier < 0 {
		bad("region_extraction.small_region_circularity_multiplier", "must be >= 0, got %g", x.SmallRegionCircularityMultiplier)
	}
	if x.SmallRegionMinArea < 0 {
		bad("region_extraction.small_region_min_area", "must be >= 0, got %d", x.SmallRegionMinArea)
	}
	if x.TextDetection.TextPerimeterAreaThreshold < 0 {
		bad("region_extraction.text_detection.text_perimeter_area_threshold", "must be >= 0, got %g", x.TextDetection.TextPerimeterAreaThreshold)
	}
	if x.TextDetection.MinTextCircularity < 0 || x.TextDetection.MinTextCircularity > 1 {
		bad("region_extraction.text_detection.min_text_circularity", "must be in [0, 1], got %g", x.TextDetection.MinTextCircularity)
	}

	if c.Processing.Binary.Threshold < 0 || c.Processing.Binary.Threshold > 255 {
		bad("processing.binary.threshold", "must be in [0, 255], got %d", c.Processing.Binary.Threshold)
	}
	gs := c.Processing.Grayscale
	if gs.Brightness < -1 || gs.Brightness > 1 {
		bad("processing.grayscale.brightness", "must be in [-1, 1], got %g", gs.Brightness)
	}
	if gs.Contrast < 0 || gs.Contrast > 2 {
		bad("processing.grayscale.contrast", "must be in [0, 2], got %g", gs.Contrast)
	}
	if !contains(DitherTypes, gs.DitherType) {
		bad("processing.grayscale.dither_type", "must be one of %v, got %q", DitherTypes, gs.DitherType)
	}
	if gs.Threshold < 0 || gs.Threshold > 255 {
		bad("processing.grayscale.threshold", "must be in [0, 255], got %d", gs.Threshold)
	}

	if c.Batch.Workers < 0 {
		bad("batch.workers", "must be >= 0, got %d", c.Batch.Workers)
	}

	return errors.Join(errs...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
