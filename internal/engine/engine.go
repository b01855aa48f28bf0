package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/detection"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/imaging"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/regions"
)

// ErrEmptyImage reports a nil input image or one with zero pixels.
var ErrEmptyImage = errors.New("image is nil or has no pixels")

// RegionInfo describes one accepted continuous-tone region.
type RegionInfo struct {
	// Label is the blob's raster-order label, stable across runs.
	Label int

	// Tier is the size class the blob was accepted in.
	Tier regions.Tier

	// Shape descriptors measured before refinement.
	Area        int
	Perimeter   int
	Ratio       float64
	Circularity float64

	// Confidence is the mean fused probability over the blob's pixels.
	Confidence float64

	// BBox is the blob's bounding box in image coordinates.
	BBox image.Rectangle
}

// Result is the outcome of classifying one image.
type Result struct {
	// Mask marks continuous-tone pixels; its inverse marks binary
	// content. Every pixel belongs to exactly one of the two.
	Mask *regions.Mask

	// Probability is the fused per-pixel map the mask was derived from,
	// kept for reporting and visualization.
	Probability *detection.Map

	// Regions lists the accepted blobs with tier, shape, and confidence.
	Regions []RegionInfo

	// Failures records estimators that errored and were replaced by a
	// neutral map, in configuration order.
	Failures []detection.Failure

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}

// Engine is a reusable classifier: the configuration is validated and the
// estimators are built once, then Classify may be called for any number of
// images, concurrently if desired.
type Engine struct {
	cfg        *config.Config
	estimators []detection.Estimator
	weights    []float64
	tiers      *regions.TierTable
}

// New builds an engine from the configuration. A nil configuration uses
// the defaults. Invalid configurations and unknown or misconfigured
// estimators fail here, before any image is touched.
func New(cfg *config.Config) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:   cfg,
		tiers: regions.NewTierTable(cfg.Extraction),
	}
	for _, s := range cfg.Detection.Strategies {
		est, err := detection.New(s.Name, s.Options)
		if err != nil {
			return nil, err
		}
		e.estimators = append(e.estimators, est)
		e.weights = append(e.weights, s.Weight)
	}
	return e, nil
}

// ClassifyRegions classifies a single image with a one-off engine. Callers
// processing many images should build an Engine once instead.
func ClassifyRegions(ctx context.Context, img image.Image, cfg *config.Config) (*Result, error) {
	e, err := New(cfg)
	if err != nil {
		return nil, err
	}
	return e.Classify(ctx, img)
}

// Classify separates the image into continuous-tone and binary regions.
//
// Returns:
//   - *Result: the region mask, fused probability map, accepted regions,
//     and any isolated estimator failures
//   - error: ErrEmptyImage for unusable input, or a fatal pipeline error;
//     no partial result accompanies an error
func (e *Engine) Classify(ctx context.Context, img image.Image) (*Result, error) {
	start := time.Now()
	if img == nil {
		return nil, ErrEmptyImage
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}

	gray := imaging.ToGray(img)

	// Failures are collected per slot so the surviving order matches the
	// configuration regardless of goroutine scheduling.
	maps := make([]*detection.Map, len(e.estimators))
	failed := make([]*detection.Failure, len(e.estimators))

	g, gctx := errgroup.WithContext(ctx)
	for i, est := range e.estimators {
		i, est := i, est
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, err := est.Estimate(gray)
			if err != nil {
				failed[i] = &detection.Failure{
					Estimator: est.Name(),
					Reason:    failureReason(err),
				}
				neutral := detection.NewMap(w, h)
				neutral.Fill(0.5)
				maps[i] = neutral
				return nil
			}
			maps[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fused, err := detection.Fuse(maps, e.weights)
	if err != nil {
		return nil, fmt.Errorf("failed to fuse probability maps: %w", err)
	}

	blobs, err := regions.Extract(fused, e.cfg.Extraction)
	if err != nil {
		return nil, err
	}

	decisions, err := e.tiers.ClassifyAll(ctx, blobs)
	if err != nil {
		return nil, err
	}

	var accepted []*regions.Blob
	var infos []RegionInfo
	for i, d := range decisions {
		if !d.Accepted {
			continue
		}
		b := blobs[i]
		s := b.Shape()
		accepted = append(accepted, b)
		infos = append(infos, RegionInfo{
			Label:       b.Label,
			Tier:        d.Tier,
			Area:        s.Area,
			Perimeter:   s.Perimeter,
			Ratio:       s.Ratio,
			Circularity: s.Circularity,
			Confidence:  b.MeanProbability(fused),
			BBox:        b.BBox,
		})
	}

	mask := regions.Refine(accepted, w, h, e.cfg.Extraction)

	var failures []detection.Failure
	for _, f := range failed {
		if f != nil {
			failures = append(failures, *f)
		}
	}

	return &Result{
		Mask:        mask,
		Probability: fused,
		Regions:     infos,
		Failures:    failures,
		Elapsed:     time.Since(start),
	}, nil
}

// failureReason strips the estimator-name prefix that detection.Error adds,
// since Failure records the name separately.
func failureReason(err error) string {
	var derr *detection.Error
	if errors.As(err, &derr) && derr.Err != nil {
		return derr.Err.Error()
	}
	return err.Error()
}
