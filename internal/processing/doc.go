// Package processing renders the two region classes of a classified page
// into output pixels: binary regions are thresholded to pure black and
// white, continuous-tone regions keep their tonality or are dithered.
//
// # Strategies
//
// Each region class is rendered by a named Strategy. A Strategy receives
// the grayscale page and a selection mask and returns a full-size image in
// which only selected pixels were rewritten; pixels outside the selection
// pass through unchanged. Composing the grayscale strategy over the region
// mask with the binary strategy over its inverse therefore rewrites every
// pixel exactly once.
//
// # Registry
//
// Strategies register by name in an init function, the same pattern the
// detection estimators use. New builds a configured strategy by name.
//
// # Thresholds
//
// Both strategies accept a fixed threshold level 1..255 or level 0, which
// selects Otsu's method computed from the histogram of the selected pixels
// only, so dark plates do not skew the cut chosen for the text.
package processing
