package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChooseUniform(t *testing.T) {
	r := New(42)

	picked, err := r.ChooseUniform(100, 10)
	require.NoError(t, err)
	assert.Len(t, picked, 10)

	seen := make(map[int]bool)
	for _, idx := range picked {
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 100)
		assert.False(t, seen[idx], "index %d drawn twice", idx)
		seen[idx] = true
	}
}

func TestChooseUniform_FullPopulation(t *testing.T) {
	r := New(1)

	picked, err := r.ChooseUniform(5, 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, picked)
}

func TestChooseUniform_Errors(t *testing.T) {
	r := New(1)

	_, err := r.ChooseUniform(0, 1)
	assert.ErrorIs(t, err, ErrEmptyPopulation)

	_, err = r.ChooseUniform(10, 0)
	assert.ErrorIs(t, err, ErrInvalidSampleSize)

	_, err = r.ChooseUniform(5, 6)
	assert.ErrorIs(t, err, ErrSampleTooLarge)
}

func TestChooseWeighted_WithReplacement(t *testing.T) {
	r := New(42)

	weights := []float64{0, 1, 0, 3, 0}

	picked, err := r.ChooseWeighted(weights, 1000, true)
	require.NoError(t, err)
	require.Len(t, picked, 1000)

	counts := make(map[int]int)
	for _, idx := range picked {
		counts[idx]++
	}

	assert.Zero(t, counts[0], "zero-weight index drawn")
	assert.Zero(t, counts[2], "zero-weight index drawn")
	assert.Zero(t, counts[4], "zero-weight index drawn")

	// Index 3 carries 3x the weight of index 1; allow generous slack.
	assert.Greater(t, counts[3], counts[1])
}

func TestChooseWeighted_WithoutReplacement(t *testing.T) {
	r := New(42)

	weights := []float64{1, 2, 0, 4, 8, 0, 16, 32}

	picked, err := r.ChooseWeighted(weights, 4, false)
	require.NoError(t, err)
	require.Len(t, picked, 4)

	seen := make(map[int]bool)
	for _, idx := range picked {
		assert.False(t, seen[idx], "index %d drawn twice", idx)
		seen[idx] = true
		assert.NotZero(t, weights[idx], "zero-weight index drawn")
	}
}

func TestChooseWeighted_HeavyWeightDominates(t *testing.T) {
	// With one weight carrying nearly all the mass, it should be selected in
	// virtually every without-replacement draw.
	hits := 0
	for seed := int64(0); seed < 100; seed++ {
		r := New(seed)
		weights := []float64{1, 1, 1, 1, 10000}
		picked, err := r.ChooseWeighted(weights, 1, false)
		require.NoError(t, err)
		if picked[0] == 4 {
			hits++
		}
	}
	assert.Greater(t, hits, 95)
}

func TestChooseWeighted_Errors(t *testing.T) {
	r := New(1)

	_, err := r.ChooseWeighted(nil, 1, true)
	assert.ErrorIs(t, err, ErrEmptyPopulation)

	_, err = r.ChooseWeighted([]float64{0, 0, 0}, 1, true)
	assert.ErrorIs(t, err, ErrZeroTotalWeight)

	_, err = r.ChooseWeighted([]float64{0, 0, 0}, 1, false)
	assert.ErrorIs(t, err, ErrZeroTotalWeight)

	_, err = r.ChooseWeighted([]float64{1, 2}, 0, true)
	assert.ErrorIs(t, err, ErrInvalidSampleSize)

	// Without replacement only positive-weight candidates are selectable.
	_, err = r.ChooseWeighted([]float64{1, 0, 0}, 2, false)
	assert.ErrorIs(t, err, ErrSampleTooLarge)
}

func TestDeterminism(t *testing.T) {
	weights := []float64{1, 2, 3, 4, 5, 6, 7, 8}

	r1 := New(7)
	r2 := New(7)

	u1, err := r1.ChooseUniform(8, 4)
	require.NoError(t, err)
	u2, err := r2.ChooseUniform(8, 4)
	require.NoError(t, err)
	assert.Equal(t, u1, u2)

	w1, err := r1.ChooseWeighted(weights, 6, true)
	require.NoError(t, err)
	w2, err := r2.ChooseWeighted(weights, 6, true)
	require.NoError(t, err)
	assert.Equal(t, w1, w2)

	v1, err := r1.ChooseWeighted(weights, 3, false)
	require.NoError(t, err)
	v2, err := r2.ChooseWeighted(weights, 3, false)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestSeed(t *testing.T) {
	r := New(1234)
	assert.Equal(t, int64(1234), r.Seed())
}
