// Package engine runs the full region classification pipeline and is the
// only entry point callers need: an image and a configuration go in, a
// region mask with per-region detail comes out.
//
// # Pipeline
//
// Classification proceeds in fixed stages:
//
//  1. Grayscale conversion of the input image.
//  2. All configured estimators run concurrently, each producing a
//     per-pixel probability map.
//  3. The maps fuse into one by normalized weighted average.
//  4. Connected candidate regions are extracted above the probability
//     threshold and classified by the size-tiered shape table.
//  5. Accepted regions are refined (hole filling, expansion) and unioned
//     into the final mask.
//
// # Failure Isolation
//
// An estimator that returns an error does not abort the run: its map is
// replaced by a neutral 0.5 map and the failure is recorded in
// Result.Failures. Only fatal conditions (nil or zero-dimension input,
// context cancellation) surface as errors, and then no partial result is
// returned.
//
// # Determinism
//
// Identical image and configuration produce an identical Result. The
// estimator order comes from the configuration, blob labels follow raster
// scan order, concurrent stages write to index-addressed slots, and the
// mask union is commutative.
package engine
