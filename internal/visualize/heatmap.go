package visualize

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/detection"
)

// heatAnchors define the probability color ramp: black through red and
// yellow to white, anchored at fixed probability stops.
var heatAnchors = []struct {
	pos float64
	col colorful.Color
}{
	{0.0, colorful.Color{R: 0, G: 0, B: 0}},
	{0.35, colorful.Color{R: 1, G: 0, B: 0}},
	{0.7, colorful.Color{R: 1, G: 1, B: 0}},
	{1.0, colorful.Color{R: 1, G: 1, B: 1}},
}

// heatColor interpolates the ramp at v in [0, 1].
func heatColor(v float64) colorful.Color {
	if v <= heatAnchors[0].pos {
		return heatAnchors[0].col
	}
	for i := 1; i < len(heatAnchors); i++ {
		a, b := heatAnchors[i-1], heatAnchors[i]
		if v <= b.pos {
			t := (v - a.pos) / (b.pos - a.pos)
			return a.col.BlendRgb(b.col, t)
		}
	}
	return heatAnchors[len(heatAnchors)-1].col
}

// Heatmap renders a probability map as a false-color image, low
// probability dark and high probability bright. Values outside [0, 1]
// are clamped.
func Heatmap(m *detection.Map) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			v := m.At(x, y)
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			r, g, b := heatColor(v).RGB255()
			out.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return out
}
