package regions

import (
	"github.com/iankonradjohnson/BatchImageProcessor/internal/config"
)

// Refine builds the final region mask from accepted blobs.
//
// Per blob, independently controlled by the settings:
//   - hole filling (FillHoles): enclosed background pockets, typically
//     dark photo areas that fell below the probability threshold, join
//     the region.
//   - expansion (ExpandPixels): dilation by a Euclidean disk, so region
//     borders are not clipped by conservative detection. Expansion is
//     monotonic in the radius.
//
// Refined blobs are unioned into a mask of the given image dimensions.
// Union order cannot affect the result, so per-blob refinement is safe
// to reorder.
func Refine(blobs []*Blob, w, h int, cfg config.Extraction) *Mask {
	out := NewMask(w, h)
	for _, b := range blobs {
		local := b.mask
		if cfg.FillHoles {
			local = FillHoles(local)
		}
		offX, offY := b.BBox.Min.X, b.BBox.Min.Y
		if cfg.ExpandPixels > 0 {
			local = Dilate(padMask(local, cfg.ExpandPixels), cfg.ExpandPixels)
			offX -= cfg.ExpandPixels
			offY -= cfg.ExpandPixels
		}
		orInto(out, local, offX, offY)
	}
	return out
}

// padMask copies m into the center of a mask grown by r pixels on every
// side, giving dilation room beyond the original bounding box.
func padMask(m *Mask, r int) *Mask {
	out := NewMask(m.W+2*r, m.H+2*r)
	for y := 0; y < m.H; y++ {
		copy(out.bits[(y+r)*out.W+r:(y+r)*out.W+r+m.W], m.bits[y*m.W:(y+1)*m.W])
	}
	return out
}

// orInto unions src into dst at the given offset, clipping to dst.
func orInto(dst, src *Mask, offX, offY int) {
	for y := 0; y < src.H; y++ {
		dy := y + offY
		if dy < 0 || dy >= dst.H {
			continue
		}
		for x := 0; x < src.W; x++ {
			if !src.bits[y*src.W+x] {
				continue
			}
			dx := x + offX
			if dx < 0 || dx >= dst.W {
				continue
			}
			dst.bits[dy*dst.W+dx] = true
		}
	}
}
