package kmeans

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/gocoreset/coreset/rng"
)

func twoClusterMatrix() *mat.Dense {
	// 3 points near (0,0), 3 points near (100,100).
	return mat.NewDense(6, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		100, 100,
		100, 101,
		101, 100,
	})
}

func TestRun(t *testing.T) {
	solver := NewSolver(2, rng.New(42))

	result, err := solver.Run(twoClusterMatrix())
	require.NoError(t, err)

	rows, cols := result.Centers.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 2, cols)

	assert.Len(t, result.Assignments, 6)
	assert.Len(t, result.Costs, 6)

	// The two spatial clusters end up in different partitions.
	assert.Equal(t, result.Assignments[0], result.Assignments[1])
	assert.Equal(t, result.Assignments[0], result.Assignments[2])
	assert.Equal(t, result.Assignments[3], result.Assignments[4])
	assert.Equal(t, result.Assignments[3], result.Assignments[5])
	assert.NotEqual(t, result.Assignments[0], result.Assignments[3])

	assert.Equal(t, []int{3, 3}, result.ClusterSizes)

	total := 0.0
	for _, c := range result.Costs {
		assert.GreaterOrEqual(t, c, 0.0)
		total += c
	}
	assert.InDelta(t, total, result.TotalCost, 1e-9)
}

func TestRun_SingleCluster(t *testing.T) {
	solver := NewSolver(1, rng.New(7))

	result, err := solver.Run(twoClusterMatrix())
	require.NoError(t, err)

	// With k=1 the center is the global mean.
	assert.InDelta(t, 302.0/6, result.Centers.At(0, 0), 1e-9)
	assert.InDelta(t, 302.0/6, result.Centers.At(0, 1), 1e-9)
	assert.Equal(t, []int{6}, result.ClusterSizes)
}

func TestRun_KEqualsN(t *testing.T) {
	solver := NewSolver(6, rng.New(3))

	result, err := solver.Run(twoClusterMatrix())
	require.NoError(t, err)

	// Every point gets its own center at zero cost.
	assert.InDelta(t, 0, result.TotalCost, 1e-9)
}

type emptyMatrix struct{}

func (emptyMatrix) Dims() (int, int)    { return 0, 0 }
func (emptyMatrix) At(i, j int) float64 { panic("empty matrix") }
func (emptyMatrix) T() mat.Matrix       { return emptyMatrix{} }

func TestRun_ParameterErrors(t *testing.T) {
	points := twoClusterMatrix()

	_, err := NewSolver(0, rng.New(1)).Run(points)
	assert.ErrorIs(t, err, ErrInvalidK)

	_, err = NewSolver(7, rng.New(1)).Run(points)
	assert.ErrorIs(t, err, ErrTooFewPoints)

	_, err = NewSolver(1, rng.New(1)).Run(emptyMatrix{})
	assert.ErrorIs(t, err, ErrNoPoints)
}

func TestRun_NonFiniteInput(t *testing.T) {
	points := mat.NewDense(3, 2, []float64{
		0, 0,
		1, math.NaN(),
		2, 2,
	})

	_, err := NewSolver(1, rng.New(1)).Run(points)

	var nf *ErrNonFinite
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, 1, nf.Row)
	assert.Equal(t, 1, nf.Col)
}

func TestRun_Deterministic(t *testing.T) {
	points := twoClusterMatrix()

	r1, err := NewSolver(2, rng.New(99)).Run(points)
	require.NoError(t, err)
	r2, err := NewSolver(2, rng.New(99)).Run(points)
	require.NoError(t, err)

	assert.Equal(t, r1.Assignments, r2.Assignments)
	assert.Equal(t, r1.Costs, r2.Costs)
	assert.True(t, mat.Equal(r1.Centers, r2.Centers))
}

func TestRun_WorkerCountDoesNotChangeResult(t *testing.T) {
	points := twoClusterMatrix()

	sequential, err := NewSolver(2, rng.New(5)).Run(points)
	require.NoError(t, err)

	parallel, err := NewSolver(2, rng.New(5), func(o *Options) {
		o.NumWorkers = 4
	}).Run(points)
	require.NoError(t, err)

	assert.Equal(t, sequential.Assignments, parallel.Assignments)
	assert.Equal(t, sequential.Costs, parallel.Costs)
	assert.True(t, mat.Equal(sequential.Centers, parallel.Centers))
}

func TestRun_DuplicatePoints(t *testing.T) {
	// All points identical: seeding falls back to uniform draws and the
	// total cost is zero.
	points := mat.NewDense(4, 2, []float64{
		3, 3,
		3, 3,
		3, 3,
		3, 3,
	})

	result, err := NewSolver(2, rng.New(11)).Run(points)
	require.NoError(t, err)
	assert.InDelta(t, 0, result.TotalCost, 1e-12)
}

func TestRun_IterationCap(t *testing.T) {
	solver := NewSolver(2, rng.New(42), func(o *Options) {
		o.MaxIterations = 1
	})

	result, err := solver.Run(twoClusterMatrix())
	require.NoError(t, err)

	// Costs must be consistent with the returned centers even when the cap
	// stops refinement early.
	for i, c := range result.Assignments {
		diff0 := twoClusterMatrix().At(i, 0) - result.Centers.At(c, 0)
		diff1 := twoClusterMatrix().At(i, 1) - result.Centers.At(c, 1)
		assert.InDelta(t, diff0*diff0+diff1*diff1, result.Costs[i], 1e-9)
	}
}
