package visualize

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/regions"
)

// Region overlay palette: red for continuous-tone regions, blue for
// binary content, matching the scheme scanner operators are used to.
var (
	tintGrayscale = colorful.Color{R: 1.0, G: 100. / 255, B: 100. / 255}
	tintBinary    = colorful.Color{R: 100. / 255, G: 100. / 255, B: 1.0}
)

// Overlay paints the region classification over a darkened copy of the
// source image. Pixels inside continuous-tone regions blend toward red,
// binary pixels toward blue; the halved source luminance underneath keeps
// the page content readable through the tint. A small legend is drawn in
// the top-left corner.
//
// The mask dimensions must match the image; mismatched input returns an
// overlay of the overlapping area only.
func Overlay(img image.Image, mask *regions.Mask) *image.RGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c, ok := colorful.MakeColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			if !ok {
				c = colorful.Color{}
			}
			// Darkened background, then the class tint blended on top.
			base := colorful.Color{R: c.R / 2, G: c.G / 2, B: c.B / 2}
			tint := tintBinary
			if mask.At(x, y) {
				tint = tintGrayscale
			}
			r, g, b := base.BlendRgb(tint, 0.6).RGB255()
			out.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 255})
		}
	}

	drawLegend(out)
	return out
}

// legendEntry pairs a swatch color with its label.
type legendEntry struct {
	tint  colorful.Color
	label string
}

// drawLegend draws color swatches with labels in the top-left corner.
// Skipped entirely when the image is too small to hold it.
func drawLegend(out *image.RGBA) {
	entries := []legendEntry{
		{tintGrayscale, "grayscale"},
		{tintBinary, "binary"},
	}

	const (
		swatch  = 10
		pad     = 4
		rowStep = 16
	)
	face := basicfont.Face7x13
	if out.Rect.Dx() < 100 || out.Rect.Dy() < pad+len(entries)*rowStep {
		return
	}

	for i, e := range entries {
		top := pad + i*rowStep
		r, g, b := e.tint.RGB255()
		sw := image.Rect(pad, top, pad+swatch, top+swatch)
		draw.Draw(out, sw, image.NewUniform(color.RGBA{R: r, G: g, B: b, A: 255}), image.Point{}, draw.Src)

		d := font.Drawer{
			Dst:  out,
			Src:  image.NewUniform(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
			Face: face,
			Dot:  fixed.P(pad+swatch+pad, top+swatch),
		}
		d.DrawString(e.label)
	}
}
