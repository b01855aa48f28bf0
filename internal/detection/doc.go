// Package detection estimates, per pixel, the probability that a scanned
// document pixel belongs to a continuous-tone (photographic) region rather
// than a binary (text or line art) region.
//
// This package implements the feature-estimation and fusion stages of the
// region classification pipeline. It produces probability maps; it does not
// decide regions. Candidate extraction and shape classification operate on
// the fused map downstream.
//
// # Estimators
//
// Three complementary estimators ship with the package, each registered
// under a stable name:
//
//   - "histogram": Sarle's bimodality coefficient over sliding-window
//     intensity histograms at multiple scales. Bimodal (two-peaked) windows
//     read as binary content, unimodal spreads as continuous tone.
//   - "texture": local binary pattern entropy blended with local gray
//     variance, with a slower co-occurrence descriptor consulted only in
//     the ambiguous middle band.
//   - "edge": Sobel edge density mapped through fixed bands. Sparse edges
//     read as empty paper, dense edges as text, moderate density as
//     photographic detail.
//
// Each estimator returns a Map over the full image; window results are
// averaged where windows overlap. The maps are fused by Fuse into a single
// probability map using normalized weights.
//
// # Probability Convention
//
// All maps hold values in [0, 1]:
//   - 1.0 = Certainly continuous-tone (photograph, halftone)
//   - 0.0 = Certainly binary (text, line art, blank paper)
//   - 0.5 = No evidence either way
//
// A uniform window (zero variance) carries no continuous-tone evidence and
// scores 0.0, so blank pages fuse to a near-zero map and produce no
// candidate regions.
//
// # Registry
//
// Estimators self-register in init by name. New configures an estimator
// from a deferred YAML options node, so configuration files can carry
// estimator-specific options without the config package knowing their
// shapes. Unknown names are rejected at configuration time.
//
// # Failure Isolation
//
// An estimator failure is recoverable: the caller substitutes a neutral
// 0.5 map, records a Failure, and fusion proceeds with the remaining
// estimators. Error carries the estimator name for diagnostics.
//
// # Coordinate System
//
// Maps use the standard image convention: origin at top-left, X rightward,
// Y downward, row-major storage.
package detection
