package engine

import (
	"context"
	"errors"
	"image"
	"math/rand"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/detection"
)

// failingEstimator always errors, standing in for an estimator that
// cannot handle a given input.
type failingEstimator struct{}

func (failingEstimator) Name() string { return "fails" }

func (failingEstimator) Estimate(*image.Gray) (*detection.Map, error) {
	return nil, errors.New("synthetic failure")
}

func init() {
	detection.Register("fails", func(*yaml.Node) (detection.Estimator, error) {
		return failingEstimator{}, nil
	})
}

// whitePage builds a uniform white grayscale image.
func whitePage(w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	return g
}

// stampNoise fills a rectangle with seeded uniform noise, simulating a
// photographic plate on the page.
func stampNoise(g *image.Gray, r image.Rectangle, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			g.Pix[y*g.Stride+x] = uint8(rng.Intn(256))
		}
	}
}

func TestClassifyAllWhitePage(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	res, err := e.Classify(context.Background(), whitePage(200, 200))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			if p := res.Probability.At(x, y); p >= 0.05 {
				t.Fatalf("fused probability at (%d,%d) = %v, want < 0.05 on a blank page", x, y, p)
			}
		}
	}
	if !res.Mask.Empty() {
		t.Errorf("mask has %d pixels set, want none", res.Mask.Count())
	}
	if len(res.Regions) != 0 {
		t.Errorf("got %d regions, want 0", len(res.Regions))
	}
	if len(res.Failures) != 0 {
		t.Errorf("got failures %v, want none", res.Failures)
	}
}

func TestClassifyFindsPhotoPlate(t *testing.T) {
	page := whitePage(300, 300)
	plate := image.Rect(80, 80, 200, 200)
	stampNoise(page, plate, 7)

	e, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := e.Classify(context.Background(), page)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if len(res.Regions) == 0 {
		t.Fatal("no regions accepted for a page with a photographic plate")
	}
	if res.Mask.Empty() {
		t.Fatal("mask is empty")
	}
	if !res.Mask.At(140, 140) {
		t.Error("plate center not in the mask")
	}
	if res.Mask.At(10, 10) {
		t.Error("blank corner wrongly in the mask")
	}
	for _, r := range res.Regions {
		if r.Confidence <= 0.05 || r.Confidence > 1 {
			t.Errorf("region %d confidence = %v, want in (0.05, 1]", r.Label, r.Confidence)
		}
		if r.Tier == "" {
			t.Errorf("region %d has no tier", r.Label)
		}
	}
}

func TestClassifyDeterministic(t *testing.T) {
	page := whitePage(300, 300)
	stampNoise(page, image.Rect(60, 90, 180, 210), 11)

	e, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	first, err := e.Classify(context.Background(), page)
	if err != nil {
		t.Fatalf("first Classify failed: %v", err)
	}
	second, err := e.Classify(context.Background(), page)
	if err != nil {
		t.Fatalf("second Classify failed: %v", err)
	}

	if !first.Mask.Equal(second.Mask) {
		t.Error("masks differ between identical runs")
	}
	if !reflect.DeepEqual(first.Regions, second.Regions) {
		t.Errorf("regions differ: %v vs %v", first.Regions, second.Regions)
	}
	for i, p := range first.Probability.Pix {
		if p != second.Probability.Pix[i] {
			t.Fatalf("fused maps differ at index %d: %v vs %v", i, p, second.Probability.Pix[i])
		}
	}
}

func TestClassifyIsolatesEstimatorFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Detection.Strategies = []config.Strategy{
		{Name: "histogram", Weight: 0.5},
		{Name: "fails", Weight: 0.5},
	}

	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	res, err := e.Classify(context.Background(), whitePage(100, 100))
	if err != nil {
		t.Fatalf("Classify should isolate the failure, got: %v", err)
	}

	if len(res.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(res.Failures))
	}
	if res.Failures[0].Estimator != "fails" {
		t.Errorf("failure estimator = %q, want %q", res.Failures[0].Estimator, "fails")
	}
	if res.Failures[0].Reason != "synthetic failure" {
		t.Errorf("failure reason = %q, want %q", res.Failures[0].Reason, "synthetic failure")
	}
	if res.Mask == nil {
		t.Error("result should still carry a mask")
	}
}

func TestClassifyEmptyImage(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := e.Classify(context.Background(), nil); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("nil image error = %v, want ErrEmptyImage", err)
	}
	empty := image.NewGray(image.Rect(0, 0, 0, 0))
	if _, err := e.Classify(context.Background(), empty); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("zero-dimension error = %v, want ErrEmptyImage", err)
	}
}

func TestClassifyCancelledContext(t *testing.T) {
	e, err := New(nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Classify(ctx, whitePage(50, 50)); err == nil {
		t.Error("cancelled context should abort classification")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Extraction.ProbabilityThreshold = 2
	if _, err := New(cfg); err == nil {
		t.Error("out-of-range threshold should fail")
	}

	cfg = config.Default()
	cfg.Detection.Strategies = []config.Strategy{{Name: "fourier", Weight: 1}}
	if _, err := New(cfg); err == nil {
		t.Error("unknown strategy should fail")
	}
}

func TestClassifyRegionsOneOff(t *testing.T) {
	res, err := ClassifyRegions(context.Background(), whitePage(120, 120), nil)
	if err != nil {
		t.Fatalf("ClassifyRegions failed: %v", err)
	}
	if !res.Mask.Empty() {
		t.Errorf("blank page mask has %d pixels set", res.Mask.Count())
	}
	if res.Elapsed <= 0 {
		t.Error("elapsed time not recorded")
	}
}
