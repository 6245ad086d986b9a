package coreset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocoreset/coreset/rng"
)

func TestUniformSampling(t *testing.T) {
	points := testClusters(t, 100) // n = 300

	algo := NewUniformSampling(30, rng.New(42))
	cs, err := algo.Run(points)
	require.NoError(t, err)

	assert.Equal(t, 30, cs.Len())

	// Every weight is exactly n/m.
	for _, e := range cs.Entries() {
		assert.Equal(t, 10.0, e.Weight)
	}
	assert.InDelta(t, 300, cs.TotalWeight(), 1e-9)

	// Distinct indices.
	seen := make(map[int]bool)
	for _, e := range cs.Entries() {
		assert.False(t, seen[e.Index])
		seen[e.Index] = true
	}
}

func TestUniformSampling_Deterministic(t *testing.T) {
	points := testClusters(t, 50)

	cs1, err := NewUniformSampling(20, rng.New(9)).Run(points)
	require.NoError(t, err)
	cs2, err := NewUniformSampling(20, rng.New(9)).Run(points)
	require.NoError(t, err)

	assert.Equal(t, cs1.Entries(), cs2.Entries())
}

func TestUniformSampling_ParameterErrors(t *testing.T) {
	points := testClusters(t, 10) // n = 30

	var pe *ParameterError

	_, err := NewUniformSampling(0, rng.New(1)).Run(points)
	assert.ErrorAs(t, err, &pe)

	_, err = NewUniformSampling(31, rng.New(1)).Run(points)
	assert.ErrorAs(t, err, &pe)
}
