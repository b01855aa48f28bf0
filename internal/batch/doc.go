// Package batch processes a directory of scanned pages through the full
// pipeline: load, classify regions, render both region classes, and save
// the output, with optional per-image reports and debug visualizations.
//
// Images are independent, so the runner fans them out over a bounded
// worker pool. A failing image is recorded in the summary and does not
// stop the run; only a canceled context aborts early.
package batch
