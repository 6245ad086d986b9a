package coreset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocoreset/coreset/rng"
	"github.com/gocoreset/coreset/testutil"
)

func TestSensitivitySampling(t *testing.T) {
	points := testClusters(t, 100) // n = 300

	algo := NewSensitivitySampling(6, 60, rng.New(42))
	cs, err := algo.Run(points)
	require.NoError(t, err)

	assert.Equal(t, 60, cs.Len())
	for _, e := range cs.Entries() {
		assert.Greater(t, e.Weight, 0.0)
		assert.GreaterOrEqual(t, e.Index, 0)
		assert.Less(t, e.Index, 300)
	}
}

func TestSensitivitySampling_Deterministic(t *testing.T) {
	points := testClusters(t, 50)

	cs1, err := NewSensitivitySampling(6, 25, rng.New(123)).Run(points)
	require.NoError(t, err)
	cs2, err := NewSensitivitySampling(6, 25, rng.New(123)).Run(points)
	require.NoError(t, err)

	assert.Equal(t, cs1.Entries(), cs2.Entries())
}

func TestSensitivitySampling_TotalWeightNearN(t *testing.T) {
	// The inverse-probability weights make E[total weight] = n; the Monte
	// Carlo mean over many seeds must land close to it.
	points := testClusters(t, 100) // n = 300

	const trials = 200
	sum := 0.0
	for seed := int64(0); seed < trials; seed++ {
		cs, err := NewSensitivitySampling(6, 60, rng.New(seed)).Run(points)
		require.NoError(t, err)
		sum += cs.TotalWeight()
	}

	mean := sum / trials
	assert.InEpsilon(t, 300.0, mean, 0.10)
}

func TestSensitivitySampling_UnbiasedCost(t *testing.T) {
	// For a fixed candidate center set, the mean weighted coreset cost over
	// repeated draws converges to the true full-dataset cost.
	points := testClusters(t, 200) // n = 600
	trueCost := testutil.TrueCost(points, threeCenters)
	require.Greater(t, trueCost, 0.0)

	const trials = 100
	sum := 0.0
	for seed := int64(0); seed < trials; seed++ {
		cs, err := NewSensitivitySampling(6, 100, rng.New(seed)).Run(points)
		require.NoError(t, err)

		indices, weights := entrySlices(cs)
		sum += testutil.WeightedCost(points, indices, weights, threeCenters)
	}

	mean := sum / trials
	assert.InEpsilon(t, trueCost, mean, 0.15)
}

func TestSensitivitySampling_ParameterErrors(t *testing.T) {
	points := testClusters(t, 10) // n = 30

	var pe *ParameterError

	_, err := NewSensitivitySampling(6, 0, rng.New(1)).Run(points)
	assert.ErrorAs(t, err, &pe)

	// Reference clustering cannot have more centers than points.
	_, err = NewSensitivitySampling(31, 5, rng.New(1)).Run(points)
	assert.ErrorAs(t, err, &pe)

	_, err = NewSensitivitySampling(0, 5, rng.New(1)).Run(points)
	assert.ErrorAs(t, err, &pe)
}
