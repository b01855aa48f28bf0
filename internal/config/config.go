// Package config defines the classification engine's configuration
// schema, its defaults, and fail-fast validation. Configuration is loaded
// once, validated before any image is touched, and passed explicitly into
// every stage; there is no global state.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Detection  Detection  `yaml:"detection"`
	Extraction Extraction `yaml:"region_extraction"`
	Processing Processing `yaml:"processing"`
	Output     Output     `yaml:"output"`
	Batch      Batch      `yaml:"batch"`
}

// Detection configures the estimator stack.
type Detection struct {
	// Strategies lists the estimators to run. Order fixes the estimator
	// execution order; weights are normalized at fusion time.
	Strategies []Strategy `yaml:"strategies"`
}

// Strategy selects one registered estimator with its fusion weight and
// estimator-specific options. Options stay an undecoded YAML node here;
// the estimator's own factory decodes them, so this package needs no
// knowledge of per-estimator option shapes.
type Strategy struct {
	Name    string     `yaml:"name"`
	Weight  float64    `yaml:"weight"`
	Options *yaml.Node `yaml:"options,omitempty"`
}

// Extraction configures candidate extraction, the blob shape tiers, and
// mask refinement.
type Extraction struct {
	// ProbabilityThreshold admits pixels with fused probability strictly
	// above it into the candidate mask. Deliberately low: precision comes
	// from shape classification, not from this cut.
	ProbabilityThreshold float64 `yaml:"probability_threshold"`

	// MinRegionSize drops connected components below this pixel count
	// before any shape analysis.
	MinRegionSize int `yaml:"min_region_size"`

	// CloseRadius and OpenRadius optionally clean the candidate mask
	// with disk closing and opening before labeling. Zero disables.
	CloseRadius int `yaml:"close_radius"`
	OpenRadius  int `yaml:"open_radius"`

	// ExpandPixels dilates each accepted region outward.
	ExpandPixels int `yaml:"expand_pixels"`

	// FillHoles closes enclosed background pockets inside accepted
	// regions.
	FillHoles bool `yaml:"fill_holes"`

	// MaxPerimeterAreaRatio and BlobCircularity are the base shape
	// thresholds the tier multipliers scale. BlobCircularity <= 0
	// disables the circularity check entirely.
	MaxPerimeterAreaRatio float64 `yaml:"max_perimeter_area_ratio"`
	MinBlobArea           int     `yaml:"min_blob_area"`
	BlobCircularity       float64 `yaml:"blob_circularity"`

	VeryLargeRegionMultiplier         float64 `yaml:"very_large_region_multiplier"`
	LargeRegionRatioMultiplier        float64 `yaml:"large_region_ratio_multiplier"`
	LargeRegionCircularityMultiplier  float64 `yaml:"large_region_circularity_multiplier"`
	MediumRegionDivider               float64 `yaml:"medium_region_divider"`
	MediumRegionRatioMultiplier       float64 `yaml:"medium_region_ratio_multiplier"`
	MediumRegionCircularityMultiplier float64 `yaml:"medium_region_circularity_multiplier"`
	SmallRegionRatioMultiplier        float64 `yaml:"small_region_ratio_multiplier"`
	SmallRegionCircularityMultiplier  float64 `yaml:"small_region_circularity_multiplier"`
	SmallRegionMinArea                int     `yaml:"small_region_min_area"`

	TextDetection TextDetection `yaml:"text_detection"`
}

// TextDetection configures the overriding text veto: accepted blobs with
// ratio above the threshold and circularity below the floor are rejected
// as merged print.
type TextDetection struct {
	TextPerimeterAreaThreshold float64 `yaml:"text_perimeter_area_threshold"`
	MinTextCircularity         float64 `yaml:"min_text_circularity"`
}

// Processing configures how the two region classes are rendered.
type Processing struct {
	Binary    Binary    `yaml:"binary"`
	Grayscale Grayscale `yaml:"grayscale"`
}

// Binary configures thresholding of binary (text and line art) regions.
type Binary struct {
	// Threshold is the fixed cut level 1..255; 0 selects Otsu's method
	// over the region's own histogram.
	Threshold int  `yaml:"threshold"`
	Invert    bool `yaml:"invert"`
}

// Grayscale configures rendering of continuous-tone regions.
type Grayscale struct {
	// Brightness in [-1, 1] and Contrast in [0, 2] drive a sigmoid
	// remapping before any thresholding.
	Brightness float64 `yaml:"brightness"`
	Contrast   float64 `yaml:"contrast"`

	// DitherType is "floyd-steinberg", "ordered", or "none".
	DitherType string `yaml:"dither_type"`

	// PreserveGrayscale keeps continuous tone (with unsharp enhancement)
	// instead of reducing the region to black and white.
	PreserveGrayscale bool `yaml:"preserve_grayscale"`

	// Threshold is the dithering cut level 1..255; 0 selects Otsu.
	Threshold int `yaml:"threshold"`
}

// Output configures optional per-image artifacts.
type Output struct {
	SaveVisualization bool   `yaml:"save_visualization"`
	VisualizationPath string `yaml:"visualization_path"`
	SaveReport        bool   `yaml:"save_report"`
	ReportPath        string `yaml:"report_path"`
}

// Batch configures the directory runner.
type Batch struct {
	// Workers bounds concurrent image jobs; 0 means one per CPU.
	Workers int `yaml:"workers"`
}

// DitherTypes lists the accepted grayscale dither_type values.
var DitherTypes = []string{"floyd-steinberg", "ordered", "none"}

// Default returns the configuration the engine ships with. Scanned-book
// pages with occasional photographic plates classify well with these
// values.
func Default() *Config {
	return &Config{
		Detection: Detection{
			Strategies: []Strategy{
				{Name: "histogram", Weight: 0.4},
				{Name: "texture", Weight: 0.4},
				{Name: "edge", Weight: 0.2},
			},
		},
		Extraction: Extraction{
			ProbabilityThreshold:              0.05,
			MinRegionSize:                     1000,
			ExpandPixels:                      5,
			FillHoles:                         true,
			MaxPerimeterAreaRatio:             0.1,
			MinBlobArea:                       1000,
			BlobCircularity:                   0.2,
			VeryLargeRegionMultiplier:         10,
			LargeRegionRatioMultiplier:        1.2,
			LargeRegionCircularityMultiplier:  0.6,
			MediumRegionDivider:               4,
			MediumRegionRatioMultiplier:       0.9,
			MediumRegionCircularityMultiplier: 0.8,
			SmallRegionRatioMultiplier:        0.5,
			SmallRegionCircularityMultiplier:  2.0,
			SmallRegionMinArea:                2000,
			TextDetection: TextDetection{
				TextPerimeterAreaThreshold: 0.08,
				MinTextCircularity:         0.1,
			},
		},
		Processing: Processing{
			Binary: Binary{Threshold: 0, Invert: false},
			Grayscale: Grayscale{
				Brightness:        0,
				Contrast:          1,
				DitherType:        "floyd-steinberg",
				PreserveGrayscale: false,
				Threshold:         0,
			},
		},
		Output: Output{
			VisualizationPath: ".",
			ReportPath:        ".",
		},
		Batch: Batch{Workers: 0},
	}
}

// Load reads a YAML configuration file over the defaults and validates
// the result. Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
