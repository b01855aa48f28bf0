package processing

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
)

func newGrayscale(t *testing.T, cfg config.Grayscale) Strategy {
	t.Helper()
	p := config.Default().Processing
	p.Grayscale = cfg
	s, err := New("grayscale", &p)
	if err != nil {
		t.Fatalf("New(grayscale): %v", err)
	}
	return s
}

// defaultGrayscale keeps the shipped settings except for the overrides
// applied by mutate.
func defaultGrayscale(mutate func(*config.Grayscale)) config.Grayscale {
	cfg := config.Default().Processing.Grayscale
	if mutate != nil {
		mutate(&cfg)
	}
	return cfg
}

// binaryOnly reports whether every selected pixel is pure black or white.
func binaryOnly(t *testing.T, out *image.Gray, r image.Rectangle) bool {
	t.Helper()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if v := out.GrayAt(x, y).Y; v != 0 && v != 255 {
				return false
			}
		}
	}
	return true
}

func TestGrayscaleDitherConfinedToSelection(t *testing.T) {
	g := grayPage(40, 40, func(x, y int) uint8 { return 128 })
	// 20x20 selection: small enough to skip the border erosion.
	sel := rectMask(40, 40, image.Rect(10, 10, 30, 30))

	s := newGrayscale(t, defaultGrayscale(nil))
	out, err := s.Process(g, sel)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if !binaryOnly(t, out, image.Rect(10, 10, 30, 30)) {
		t.Error("selected pixels should be dithered to pure black/white")
	}
	// A row fully outside the selection is untouched.
	if diff := cmp.Diff(g.Pix[:10*g.Stride], out.Pix[:10*out.Stride]); diff != "" {
		t.Errorf("unselected rows changed (-want +got):\n%s", diff)
	}
}

func TestGrayscaleDitherFollowsTone(t *testing.T) {
	// Dark upper half, bright lower half inside the selection.
	g := grayPage(30, 30, func(x, y int) uint8 {
		if y < 15 {
			return 20
		}
		return 235
	})
	sel := rectMask(30, 30, image.Rect(0, 0, 30, 30))

	s := newGrayscale(t, defaultGrayscale(nil))
	out, err := s.Process(g, sel)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	white := func(r image.Rectangle) int {
		n := 0
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if out.GrayAt(x, y).Y == 255 {
					n++
				}
			}
		}
		return n
	}
	darkWhite := white(image.Rect(0, 0, 30, 15))
	brightWhite := white(image.Rect(0, 15, 30, 30))
	if brightWhite <= darkWhite {
		t.Errorf("bright half has %d white pixels, dark half %d; dithering should follow tone",
			brightWhite, darkWhite)
	}
}

func TestGrayscaleOrderedDitherProducesBinaryOutput(t *testing.T) {
	g := grayPage(30, 30, func(x, y int) uint8 { return uint8(x * 8) })
	sel := rectMask(30, 30, image.Rect(0, 0, 30, 30))

	s := newGrayscale(t, defaultGrayscale(func(c *config.Grayscale) {
		c.DitherType = "ordered"
	}))
	out, err := s.Process(g, sel)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !binaryOnly(t, out, image.Rect(0, 0, 30, 30)) {
		t.Error("ordered dithering should produce only pure black/white")
	}
}

func TestGrayscaleNoneThresholds(t *testing.T) {
	g := grayPage(20, 10, func(x, y int) uint8 {
		if x < 10 {
			return 40
		}
		return 220
	})
	sel := rectMask(20, 10, image.Rect(0, 0, 20, 10))

	s := newGrayscale(t, defaultGrayscale(func(c *config.Grayscale) {
		c.DitherType = "none"
		c.Threshold = 128
	}))
	out, err := s.Process(g, sel)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if got := out.GrayAt(5, 5).Y; got != 0 {
		t.Errorf("dark pixel = %d, want 0", got)
	}
	if got := out.GrayAt(15, 5).Y; got != 255 {
		t.Errorf("bright pixel = %d, want 255", got)
	}
}

func TestGrayscalePreserveKeepsTone(t *testing.T) {
	g := grayPage(30, 30, func(x, y int) uint8 { return 180 })
	sel := rectMask(30, 30, image.Rect(5, 5, 25, 25))

	s := newGrayscale(t, defaultGrayscale(func(c *config.Grayscale) {
		c.PreserveGrayscale = true
	}))
	out, err := s.Process(g, sel)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	// Tone preserved: no reduction to pure black/white, values stay in the
	// neighborhood of the source tone.
	v := out.GrayAt(15, 15).Y
	if v < 140 || v > 230 {
		t.Errorf("preserved pixel = %d, want near 180", v)
	}
}

func TestGrayscaleFactoryRejectsBadConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Grayscale)
	}{
		{"brightness out of range", func(c *config.Grayscale) { c.Brightness = 2 }},
		{"contrast out of range", func(c *config.Grayscale) { c.Contrast = 3 }},
		{"threshold out of range", func(c *config.Grayscale) { c.Threshold = 256 }},
		{"unknown dither type", func(c *config.Grayscale) { c.DitherType = "random" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := config.Default().Processing
			p.Grayscale = defaultGrayscale(tc.mutate)
			if _, err := New("grayscale", &p); err == nil {
				t.Errorf("expected configuration error")
			}
		})
	}
}

func TestApplyRendersEveryPixel(t *testing.T) {
	g := grayPage(40, 40, func(x, y int) uint8 {
		if x < 20 {
			return 60
		}
		return 190
	})
	// Left half grayscale, right half binary.
	mask := rectMask(40, 40, image.Rect(0, 0, 20, 40))

	cfg := config.Default()
	out, err := Apply(g, mask, cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// Both strategies reduce their class to pure black/white under the
	// default settings, so full coverage means no intermediate value
	// survives anywhere.
	if !binaryOnly(t, out, image.Rect(0, 0, 40, 40)) {
		t.Error("some pixel was rendered by neither strategy")
	}
}

func TestApplyDeterministic(t *testing.T) {
	g := grayPage(40, 40, func(x, y int) uint8 { return uint8((x*7 + y*13) % 256) })
	mask := rectMask(40, 40, image.Rect(8, 8, 32, 32))
	cfg := config.Default()

	a, err := Apply(g, mask, cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	b, err := Apply(g, mask, cfg)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if diff := cmp.Diff(a.Pix, b.Pix); diff != "" {
		t.Errorf("two runs differ (-first +second):\n%s", diff)
	}
}
