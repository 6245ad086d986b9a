// Package coreset builds small weighted point subsets (coresets) that
// approximate the k-means clustering cost of a much larger dataset.
//
// Three interchangeable construction strategies are provided:
//
//   - uniform sampling: every point equally likely, constant weight n/m
//   - sensitivity sampling: importance sampling with inverse-probability
//     weights derived from a reference clustering
//   - group sampling: stratified sampling over exponential sensitivity bands,
//     trading a small bias for low variance on heavy-tailed distributions
//
// # Quick Start
//
//	r := rng.New(42)
//	algo := coreset.NewSensitivitySampling(2*k, m, r)
//	cs, err := algo.Run(points) // points is a gonum *mat.Dense
//
// The resulting coreset holds (index, weight) pairs only; coordinates are
// joined in from the point matrix at export time (see the export package).
//
// All randomness flows through a single rng.RNG created once per run, so a
// fixed seed reproduces the exact (index, weight) sequence.
package coreset
