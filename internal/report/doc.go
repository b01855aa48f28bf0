// Package report summarizes a classification run as a JSON document:
// region counts and coverage percentages, probability statistics, the
// accepted regions with their shape descriptors, and an echo of the
// configuration that produced them. Operators use these reports to tune
// thresholds against a corpus without rerunning the pipeline.
package report
