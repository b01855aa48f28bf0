// Package regions turns a fused probability map into the final region
// mask that separates continuous-tone regions from binary content.
//
// The pipeline inside this package has three stages:
//
//  1. Extraction: threshold the probability map into candidate pixels,
//     group them into connected blobs (8-connectivity), and drop tiny
//     fragments. The threshold is deliberately permissive; shape
//     classification provides the precision.
//  2. Classification: score each blob's shape against a size-tiered
//     threshold table. Photographs are compact (low perimeter-to-area
//     ratio, high circularity); merged lines of print are wiry (high
//     ratio, low circularity). Larger blobs get more lenient thresholds
//     because legitimate photos dominate the large-area population.
//  3. Refinement: fill enclosed holes in accepted blobs (dark photo
//     areas that fell below the probability threshold) and expand each
//     blob outward so region borders are not clipped.
//
// # Shape Descriptors
//
// For a blob with area A and perimeter P (blob pixels touching
// background by any of their 8 neighbors; the image edge counts as
// background):
//
//	ratio       = P / A
//	circularity = min(1, 4*pi*A / P^2)
//
// A perfect disk has circularity near 1; a one-pixel-wide line has
// circularity near 0 and ratio near 2.
//
// # Tier Table
//
// Tier rules live in a table evaluated top-down; the first row whose
// area condition holds assigns the tier, and no matching row rejects the
// blob outright. Acceptance within a tier compares ratio and circularity
// against the tier's thresholds. An overriding text veto then rejects
// accepted blobs that still look like merged print (high ratio and low
// circularity together), regardless of tier.
//
// # Coordinate System
//
// Masks and blobs use the standard image convention: origin at top-left,
// X rightward, Y downward. Blob bitmaps are stored relative to their
// bounding box.
package regions
