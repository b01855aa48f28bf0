package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/engine"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/regions"
)

// histogramBins is the fixed bin count of the probability histogram.
const histogramBins = 10

// BBox is a bounding box in image coordinates.
type BBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RegionEntry describes one accepted continuous-tone region.
type RegionEntry struct {
	Label       int          `json:"label"`
	Tier        regions.Tier `json:"tier"`
	Area        int          `json:"area"`
	Perimeter   int          `json:"perimeter"`
	Ratio       float64      `json:"perimeter_area_ratio"`
	Circularity float64      `json:"circularity"`
	Confidence  float64      `json:"confidence"`
	BBox        BBox         `json:"bounding_box"`
}

// Histogram is the distribution of fused probabilities over fixed bins.
type Histogram struct {
	// Bins holds the lower edge of each bin over [0, 1].
	Bins []float64 `json:"bins"`

	// Counts holds the pixel count per bin.
	Counts []int `json:"counts"`
}

// Configuration echoes the settings that shaped the result, so a report
// is interpretable without the config file it was produced with.
type Configuration struct {
	ProbabilityThreshold  float64            `json:"probability_threshold"`
	MinRegionSize         int                `json:"min_region_size"`
	MinBlobArea           int                `json:"min_blob_area"`
	MaxPerimeterAreaRatio float64            `json:"max_perimeter_area_ratio"`
	BlobCircularity       float64            `json:"blob_circularity"`
	SmallRegionMinArea    int                `json:"small_region_min_area"`
	ExpandPixels          int                `json:"expand_pixels"`
	FillHoles             bool               `json:"fill_holes"`
	StrategyWeights       map[string]float64 `json:"strategy_weights"`
}

// Report is the JSON document summarizing one classification run.
type Report struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source,omitempty"`

	ImageWidth  int `json:"image_width"`
	ImageHeight int `json:"image_height"`
	TotalPixels int `json:"total_pixels"`

	GrayscaleRegions int     `json:"grayscale_regions_count"`
	GrayscalePixels  int     `json:"grayscale_pixels"`
	GrayscalePercent float64 `json:"grayscale_percentage"`
	BinaryPercent    float64 `json:"binary_percentage"`

	AverageProbability   float64   `json:"average_probability"`
	ProbabilityHistogram Histogram `json:"probability_histogram"`

	Regions  []RegionEntry `json:"regions"`
	Failures []Failure     `json:"estimator_failures,omitempty"`

	ElapsedMS     int64         `json:"elapsed_ms"`
	Configuration Configuration `json:"configuration"`
}

// Failure mirrors an estimator failure record.
type Failure struct {
	Estimator string `json:"estimator"`
	Reason    string `json:"reason"`
}

// Build assembles a report from a classification result. Source names the
// input image for the reader; it may be empty.
func Build(result *engine.Result, cfg *config.Config, source string) *Report {
	mask := result.Mask
	total := mask.W * mask.H

	grayPixels := mask.Count()
	grayPercent := 0.0
	if total > 0 {
		grayPercent = float64(grayPixels) / float64(total) * 100
	}

	r := &Report{
		RunID:            uuid.NewString(),
		Timestamp:        time.Now().Format("20060102_150405"),
		Source:           source,
		ImageWidth:       mask.W,
		ImageHeight:      mask.H,
		TotalPixels:      total,
		GrayscaleRegions: len(result.Regions),
		GrayscalePixels:  grayPixels,
		GrayscalePercent: round2(grayPercent),
		BinaryPercent:    round2(100 - grayPercent),

		AverageProbability:   round4(result.Probability.Mean()),
		ProbabilityHistogram: probabilityHistogram(result.Probability.Pix),

		ElapsedMS:     result.Elapsed.Milliseconds(),
		Configuration: echoConfig(cfg),
	}

	for _, info := range result.Regions {
		r.Regions = append(r.Regions, RegionEntry{
			Label:       info.Label,
			Tier:        info.Tier,
			Area:        info.Area,
			Perimeter:   info.Perimeter,
			Ratio:       round4(info.Ratio),
			Circularity: round4(info.Circularity),
			Confidence:  round4(info.Confidence),
			BBox: BBox{
				X:      info.BBox.Min.X,
				Y:      info.BBox.Min.Y,
				Width:  info.BBox.Dx(),
				Height: info.BBox.Dy(),
			},
		})
	}
	for _, f := range result.Failures {
		r.Failures = append(r.Failures, Failure{Estimator: f.Estimator, Reason: f.Reason})
	}
	return r
}

// WriteJSON writes the report into dir as
// detection_report_<timestamp>.json and returns the file path. The
// directory is created if needed.
func (r *Report) WriteJSON(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("detection_report_%s.json", r.Timestamp))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}

// probabilityHistogram bins probabilities into histogramBins equal bins
// over [0, 1]. Out-of-range values land in the edge bins.
func probabilityHistogram(pix []float64) Histogram {
	h := Histogram{
		Bins:   make([]float64, histogramBins),
		Counts: make([]int, histogramBins),
	}
	for i := range h.Bins {
		h.Bins[i] = float64(i) / histogramBins
	}
	for _, v := range pix {
		idx := int(v * histogramBins)
		if idx < 0 {
			idx = 0
		} else if idx >= histogramBins {
			idx = histogramBins - 1
		}
		h.Counts[idx]++
	}
	return h
}

func echoConfig(cfg *config.Config) Configuration {
	weights := make(map[string]float64, len(cfg.Detection.Strategies))
	for _, s := range cfg.Detection.Strategies {
		weights[s.Name] = s.Weight
	}
	ext := cfg.Extraction
	return Configuration{
		ProbabilityThreshold:  ext.ProbabilityThreshold,
		MinRegionSize:         ext.MinRegionSize,
		MinBlobArea:           ext.MinBlobArea,
		MaxPerimeterAreaRatio: ext.MaxPerimeterAreaRatio,
		BlobCircularity:       ext.BlobCircularity,
		SmallRegionMinArea:    ext.SmallRegionMinArea,
		ExpandPixels:          ext.ExpandPixels,
		FillHoles:             ext.FillHoles,
		StrategyWeights:       weights,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
