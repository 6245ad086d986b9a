// Package testutil provides synthetic datasets for tests and benchmarks.
package testutil

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gocoreset/coreset/rng"
)

// GaussianClusters generates pointsPerCluster points around each of the given
// centers, perturbed by zero-mean Gaussian noise with the given standard
// deviation. Points are laid out cluster by cluster, so the true cluster of
// row i is i / pointsPerCluster.
func GaussianClusters(r *rng.RNG, centers [][]float64, pointsPerCluster int, stddev float64) *mat.Dense {
	dim := len(centers[0])
	n := len(centers) * pointsPerCluster

	data := make([]float64, 0, n*dim)
	for _, center := range centers {
		for i := 0; i < pointsPerCluster; i++ {
			for _, c := range center {
				data = append(data, c+r.NormFloat64()*stddev)
			}
		}
	}

	return mat.NewDense(n, dim, data)
}

// RandomMatrix generates an n x d matrix with coordinates uniform in [0,1).
func RandomMatrix(r *rng.RNG, n, d int) *mat.Dense {
	data := make([]float64, n*d)
	for i := range data {
		data[i] = r.Float64()
	}
	return mat.NewDense(n, d, data)
}

// WeightedCost returns the weighted k-means cost of the given (point, weight)
// pairs against a fixed candidate center set: sum over pairs of weight times
// squared Euclidean distance to the nearest center.
func WeightedCost(points mat.Matrix, indices []int, weights []float64, centers [][]float64) float64 {
	_, d := points.Dims()

	total := 0.0
	for i, idx := range indices {
		best := 0.0
		for c, center := range centers {
			dist := 0.0
			for j := 0; j < d; j++ {
				diff := points.At(idx, j) - center[j]
				dist += diff * diff
			}
			if c == 0 || dist < best {
				best = dist
			}
		}
		total += weights[i] * best
	}
	return total
}

// TrueCost returns the unweighted k-means cost of the full matrix against a
// fixed candidate center set.
func TrueCost(points mat.Matrix, centers [][]float64) float64 {
	n, _ := points.Dims()

	indices := make([]int, n)
	weights := make([]float64, n)
	for i := range indices {
		indices[i] = i
		weights[i] = 1
	}

	return WeightedCost(points, indices, weights, centers)
}
