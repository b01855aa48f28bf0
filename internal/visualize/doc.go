// Package visualize renders debug images for classification results: a
// region overlay that paints the two region classes over a darkened copy
// of the page, and a probability heatmap of the fused detection map.
//
// The engine itself never draws anything; these renderers consume the
// mask and map it exposes. Output images use the standard image.RGBA
// type and can be written with imaging.Save.
package visualize
