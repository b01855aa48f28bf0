package regions

import (
	"image"
	"math"

	"github.com/iankonradjohnson/BatchImageProcessor/internal/detection"
)

// Blob is one connected candidate region. Its bitmap is stored relative
// to the bounding box; descriptors are computed once at extraction.
type Blob struct {
	// Label is the 1-based extraction order of the component (raster
	// order of the seed pixel), stable for identical input.
	Label int

	// Area is the number of pixels in the blob.
	Area int

	// BBox is the tight bounding box in image coordinates.
	BBox image.Rectangle

	mask  *Mask
	shape Shape
}

// Shape holds the descriptors the tier classifier consumes.
type Shape struct {
	Area        int
	Perimeter   int
	Ratio       float64
	Circularity float64
}

// newBlob builds a blob from its pixels in image coordinates.
func newBlob(label int, points []image.Point) *Blob {
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	bbox := image.Rect(minX, minY, maxX+1, maxY+1)

	mask := NewMask(bbox.Dx(), bbox.Dy())
	for _, p := range points {
		mask.bits[(p.Y-minY)*mask.W+(p.X-minX)] = true
	}

	b := &Blob{
		Label: label,
		Area:  len(points),
		BBox:  bbox,
		mask:  mask,
	}
	b.shape = computeShape(mask, b.Area)
	return b
}

// Shape returns the blob's precomputed descriptors.
func (b *Blob) Shape() Shape { return b.shape }

// At reports whether the image pixel (x, y) belongs to the blob.
func (b *Blob) At(x, y int) bool {
	return b.mask.At(x-b.BBox.Min.X, y-b.BBox.Min.Y)
}

// MeanProbability averages the probability map over the blob's pixels.
// This is the blob's confidence before any mask refinement.
func (b *Blob) MeanProbability(m *detection.Map) float64 {
	if b.Area == 0 {
		return 0
	}
	var sum float64
	for y := 0; y < b.mask.H; y++ {
		for x := 0; x < b.mask.W; x++ {
			if b.mask.bits[y*b.mask.W+x] {
				sum += m.At(x+b.BBox.Min.X, y+b.BBox.Min.Y)
			}
		}
	}
	return sum / float64(b.Area)
}

// computeShape derives perimeter, ratio and circularity from a blob
// bitmap. The perimeter counts blob pixels with at least one background
// 8-neighbor; anything outside the tight bounding box is background, so
// the local bitmap edge behaves exactly like the image edge.
func computeShape(mask *Mask, area int) Shape {
	perimeter := 0
	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			if mask.bits[y*mask.W+x] && isBoundary(mask, x, y) {
				perimeter++
			}
		}
	}

	s := Shape{Area: area, Perimeter: perimeter}
	if area > 0 {
		s.Ratio = float64(perimeter) / float64(area)
	}
	if perimeter > 0 {
		s.Circularity = math.Min(1, 4*math.Pi*float64(area)/float64(perimeter*perimeter))
	}
	return s
}
