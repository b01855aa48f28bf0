package visualize

import (
	"image"
	"image/color"
	"testing"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/detection"
	"github.com/iankonradjohnson/BatchImageProcessor/internal/regions"
)

// flatGray builds a uniform grayscale image.
func flatGray(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func TestOverlayDimensionsMatchInput(t *testing.T) {
	img := flatGray(40, 30, 200)
	mask := regions.NewMask(40, 30)

	out := Overlay(img, mask)
	if out.Rect.Dx() != 40 || out.Rect.Dy() != 30 {
		t.Fatalf("overlay size = %dx%d, want 40x30", out.Rect.Dx(), out.Rect.Dy())
	}
}

func TestOverlayTintsByClass(t *testing.T) {
	img := flatGray(60, 60, 128)
	mask := regions.NewMask(60, 60)
	for y := 30; y < 60; y++ {
		for x := 0; x < 60; x++ {
			mask.Set(x, y, true)
		}
	}

	out := Overlay(img, mask)

	// Bottom half is a grayscale region: red must dominate blue.
	c := out.RGBAAt(30, 45)
	if c.R <= c.B {
		t.Errorf("grayscale region pixel = %+v, want red-dominant", c)
	}
	// Top-right is binary (away from the legend): blue must dominate red.
	c = out.RGBAAt(55, 10)
	if c.B <= c.R {
		t.Errorf("binary region pixel = %+v, want blue-dominant", c)
	}
}

func TestOverlayDarkensBackground(t *testing.T) {
	img := flatGray(60, 60, 250)
	mask := regions.NewMask(60, 60)

	out := Overlay(img, mask)

	// With a 60% tint over halved luminance, no channel should reach the
	// original brightness.
	c := out.RGBAAt(40, 40)
	if c.R >= 250 && c.G >= 250 && c.B >= 250 {
		t.Errorf("background pixel = %+v, want darkened", c)
	}
}

func TestHeatmapEndpoints(t *testing.T) {
	m := detection.NewMap(2, 1)
	m.Set(0, 0, 0)
	m.Set(1, 0, 1)

	out := Heatmap(m)

	if got := out.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("p=0 pixel = %+v, want black", got)
	}
	if got := out.RGBAAt(1, 0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("p=1 pixel = %+v, want white", got)
	}
}

func TestHeatmapMonotoneBrightness(t *testing.T) {
	m := detection.NewMap(11, 1)
	for x := 0; x <= 10; x++ {
		m.Set(x, 0, float64(x)/10)
	}

	out := Heatmap(m)

	prev := -1
	for x := 0; x <= 10; x++ {
		c := out.RGBAAt(x, 0)
		sum := int(c.R) + int(c.G) + int(c.B)
		if sum < prev {
			t.Fatalf("brightness decreased at p=%.1f: %d < %d", float64(x)/10, sum, prev)
		}
		prev = sum
	}
}

func TestHeatmapClampsOutOfRange(t *testing.T) {
	m := detection.NewMap(2, 1)
	m.Set(0, 0, -0.5)
	m.Set(1, 0, 1.5)

	out := Heatmap(m)

	if got := out.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("p<0 pixel = %+v, want black", got)
	}
	if got := out.RGBAAt(1, 0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("p>1 pixel = %+v, want white", got)
	}
}
