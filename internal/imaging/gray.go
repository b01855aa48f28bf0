package imaging

import (
	"image"

	"github.com/disintegration/imaging"
)

// ToGray converts an image to 8-bit grayscale using the mean of the red,
// green, and blue channels.
//
// Parameters:
//   - img: Source image in any color model.
//
// Returns:
//   - *image.Gray: Grayscale copy with bounds translated to origin (0,0).
//
// # Conversion
//
// Each pixel becomes (R + G + B) / 3 on the 8-bit channel values. This is a
// channel mean rather than a perceptual luma weighting, so pure red, green,
// and blue map to the same gray level. Gray and Gray16 inputs are passed
// through (Gray16 is truncated to the high byte).
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < h; y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+w],
				src.Pix[(y+bounds.Min.Y-src.Rect.Min.Y)*src.Stride+(bounds.Min.X-src.Rect.Min.X):])
		}
	case *image.Gray16:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := src.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
				out.Pix[y*out.Stride+x] = src.Pix[i]
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
				sum := (r >> 8) + (g >> 8) + (b >> 8)
				out.Pix[y*out.Stride+x] = uint8(sum / 3)
			}
		}
	}
	return out
}

// Scaled resizes a grayscale image by the given factor using bilinear
// interpolation. Target dimensions are floored and clamped to at least
// 1 pixel each. A scale of 1.0 returns the input unchanged.
func Scaled(g *image.Gray, scale float64) *image.Gray {
	if scale == 1.0 {
		return g
	}
	w := int(float64(g.Bounds().Dx()) * scale)
	h := int(float64(g.Bounds().Dy()) * scale)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	resized := imaging.Resize(g, w, h, imaging.Linear)

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			// NRGBA output from the resizer; all channels are equal for
			// grayscale input, so read the red channel directly.
			out.Pix[y*out.Stride+x] = resized.Pix[y*resized.Stride+x*4]
		}
	}
	return out
}
