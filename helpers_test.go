package coreset

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/gocoreset/coreset/rng"
	"github.com/gocoreset/coreset/testutil"
)

// threeCenters is the fixed candidate center set used by the Monte Carlo
// tests: three well-separated cluster locations in the plane.
var threeCenters = [][]float64{
	{0, 0},
	{10, 0},
	{0, 10},
}

// testClusters builds a synthetic dataset of three well-separated Gaussian
// clusters around threeCenters.
func testClusters(t *testing.T, pointsPerCluster int) *mat.Dense {
	t.Helper()
	return testutil.GaussianClusters(rng.New(1), threeCenters, pointsPerCluster, 0.5)
}

// entrySlices splits a coreset into parallel index and weight slices.
func entrySlices(cs *Coreset) ([]int, []float64) {
	indices := make([]int, 0, cs.Len())
	weights := make([]float64, 0, cs.Len())
	for _, e := range cs.Entries() {
		indices = append(indices, e.Index)
		weights = append(weights, e.Weight)
	}
	return indices, weights
}
