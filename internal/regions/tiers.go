package regions

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
)

// Tier names the size class a blob was evaluated in.
type Tier string

const (
	TierVeryLarge Tier = "very-large"
	TierLarge     Tier = "large"
	TierMedium    Tier = "medium"
	TierSmall     Tier = "small"

	// TierNone marks blobs too small for any tier.
	TierNone Tier = ""
)

// tierRule is one row of the classification table: an area entry
// condition plus the shape thresholds that apply inside the tier.
type tierRule struct {
	tier      Tier
	areaMin   float64
	inclusive bool // enter on area >= areaMin instead of strict >
	maxRatio  float64
	minCirc   float64
}

// TierTable classifies blob shapes against size-dependent thresholds.
//
// Rows are ordered largest tier first and evaluated top-down; the first
// row whose area condition holds assigns the tier. Boundary areas land
// in the stricter (smaller) tier because entry is strict except for the
// small tier's absolute floor. Blobs below that floor match no row and
// are rejected outright.
//
// Within a tier a blob is accepted when its perimeter-to-area ratio is
// at most the tier's ratio threshold and, if the circularity check is
// enabled (base circularity > 0), its circularity is at least the
// tier's circularity threshold. Larger tiers relax both thresholds:
// legitimate photographs dominate the large-area population, while small
// candidates need compelling shape evidence.
//
// An accepted blob is still vetoed when it looks like merged print:
// ratio above the text threshold and circularity below the text
// circularity floor, together. The veto outranks every tier.
type TierTable struct {
	rules       []tierRule
	circEnabled bool
	textRatio   float64
	textCirc    float64
}

// NewTierTable builds the classification table from extraction settings.
func NewTierTable(cfg config.Extraction) *TierTable {
	baseRatio := cfg.MaxPerimeterAreaRatio
	baseCirc := cfg.BlobCircularity
	blobArea := float64(cfg.MinBlobArea)

	return &TierTable{
		rules: []tierRule{
			{
				tier:     TierVeryLarge,
				areaMin:  blobArea * cfg.VeryLargeRegionMultiplier,
				maxRatio: baseRatio * cfg.LargeRegionRatioMultiplier,
				minCirc:  baseCirc * cfg.LargeRegionCircularityMultiplier,
			},
			{
				tier:     TierLarge,
				areaMin:  blobArea,
				maxRatio: baseRatio * cfg.LargeRegionRatioMultiplier,
				minCirc:  baseCirc * cfg.LargeRegionCircularityMultiplier,
			},
			{
				tier:     TierMedium,
				areaMin:  blobArea / cfg.MediumRegionDivider,
				maxRatio: baseRatio * cfg.MediumRegionRatioMultiplier,
				minCirc:  baseCirc * cfg.MediumRegionCircularityMultiplier,
			},
			{
				tier:      TierSmall,
				areaMin:   float64(cfg.SmallRegionMinArea),
				inclusive: true,
				maxRatio:  baseRatio * cfg.SmallRegionRatioMultiplier,
				minCirc:   baseCirc * cfg.SmallRegionCircularityMultiplier,
			},
		},
		circEnabled: baseCirc > 0,
		textRatio:   cfg.TextDetection.TextPerimeterAreaThreshold,
		textCirc:    cfg.TextDetection.MinTextCircularity,
	}
}

// Decision is the outcome of classifying one blob shape.
type Decision struct {
	// Tier the blob was evaluated in; TierNone when no row matched.
	Tier Tier

	// Accepted reports whether the blob passed its tier's thresholds and
	// survived the text veto.
	Accepted bool

	// Vetoed reports whether the blob passed its tier but was rejected
	// by the text veto.
	Vetoed bool
}

// Classify evaluates one shape against the table.
func (t *TierTable) Classify(s Shape) Decision {
	area := float64(s.Area)
	for _, r := range t.rules {
		entered := area > r.areaMin
		if r.inclusive {
			entered = area >= r.areaMin
		}
		if !entered {
			continue
		}

		accepted := s.Ratio <= r.maxRatio
		if t.circEnabled && s.Circularity < r.minCirc {
			accepted = false
		}
		if accepted && s.Ratio > t.textRatio && s.Circularity < t.textCirc {
			return Decision{Tier: r.tier, Vetoed: true}
		}
		return Decision{Tier: r.tier, Accepted: accepted}
	}
	return Decision{Tier: TierNone}
}

// ClassifyAll classifies blobs concurrently, preserving input order in
// the result. Classification is pure arithmetic; the only error source
// is context cancellation.
func (t *TierTable) ClassifyAll(ctx context.Context, blobs []*Blob) ([]Decision, error) {
	decisions := make([]Decision, len(blobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, b := range blobs {
		i, b := i, b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			decisions[i] = t.Classify(b.Shape())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return decisions, nil
}
