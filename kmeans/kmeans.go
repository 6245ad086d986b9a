// Package kmeans implements an approximate k-means solver: k-means++ seeding
// followed by Lloyd refinement. Its per-point costs are the raw signal the
// sensitivity-based coreset algorithms are built on.
package kmeans

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/gocoreset/coreset/rng"
)

// DefaultMaxIterations caps the Lloyd refinement loop.
const DefaultMaxIterations = 100

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrNoPoints is returned when the point matrix has no rows.
	ErrNoPoints = errors.New("point matrix is empty")

	// ErrTooFewPoints is returned when k exceeds the number of points.
	ErrTooFewPoints = errors.New("k exceeds the number of points")
)

// ErrNonFinite indicates a NaN or infinite coordinate in the input matrix.
type ErrNonFinite struct {
	Row, Col int
	Value    float64
}

func (e *ErrNonFinite) Error() string {
	return fmt.Sprintf("non-finite coordinate %v at (%d,%d)", e.Value, e.Row, e.Col)
}

// Options configures a Solver.
type Options struct {
	// MaxIterations caps the Lloyd refinement loop.
	MaxIterations int

	// NumWorkers sets the fan-out of the assignment step. Values <= 1 keep
	// it sequential. The assignment step consumes no randomness, so results
	// are identical for any worker count.
	NumWorkers int

	// Logger receives per-run diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Solver clusters a point matrix into k centers.
type Solver struct {
	k    int
	rng  *rng.RNG
	opts Options
}

// NewSolver creates a Solver for k centers drawing all randomness from r.
func NewSolver(k int, r *rng.RNG, optFns ...func(o *Options)) *Solver {
	opts := Options{
		MaxIterations: DefaultMaxIterations,
		NumWorkers:    1,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.MaxIterations <= 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.NumWorkers < 1 {
		opts.NumWorkers = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Solver{k: k, rng: r, opts: opts}
}

// Result holds the final clustering.
type Result struct {
	// Centers is the k x d matrix of frozen cluster centers.
	Centers *mat.Dense

	// Assignments maps each point index to its nearest center.
	Assignments []int

	// Costs holds the squared Euclidean distance from each point to its
	// assigned center.
	Costs []float64

	// TotalCost is the sum of Costs.
	TotalCost float64

	// ClusterSizes counts the points assigned to each center.
	ClusterSizes []int
}

// Run clusters the given points. The matrix is treated as a read-only view;
// it is never mutated.
func (s *Solver) Run(points mat.Matrix) (*Result, error) {
	n, d := points.Dims()

	if s.k <= 0 {
		return nil, ErrInvalidK
	}
	if n == 0 {
		return nil, ErrNoPoints
	}
	if s.k > n {
		return nil, fmt.Errorf("%w: k=%d n=%d", ErrTooFewPoints, s.k, n)
	}

	rows, err := extractRows(points)
	if err != nil {
		return nil, err
	}

	centers, err := s.seed(rows, d)
	if err != nil {
		return nil, err
	}

	assignments := make([]int, n)
	for i := range assignments {
		assignments[i] = -1
	}
	costs := make([]float64, n)

	iterations := 0
	for iter := 0; iter < s.opts.MaxIterations; iter++ {
		iterations = iter + 1

		changed := s.assign(rows, centers, assignments, costs)
		if !changed {
			break
		}

		s.update(rows, centers, assignments, costs)
	}

	// The update step may have moved centers after the last assignment;
	// run one final pass so costs match the frozen centers.
	s.assign(rows, centers, assignments, costs)

	sizes := make([]int, s.k)
	total := 0.0
	for i, c := range assignments {
		sizes[c]++
		total += costs[i]
	}

	s.opts.Logger.Debug("kmeans finished",
		"k", s.k, "n", n, "iterations", iterations, "total_cost", total)

	flat := make([]float64, 0, s.k*d)
	for _, c := range centers {
		flat = append(flat, c...)
	}

	return &Result{
		Centers:      mat.NewDense(s.k, d, flat),
		Assignments:  assignments,
		Costs:        costs,
		TotalCost:    total,
		ClusterSizes: sizes,
	}, nil
}

// seed picks k initial centers with k-means++: the first uniformly at random,
// each subsequent one weighted by squared distance to the nearest center
// already chosen.
func (s *Solver) seed(rows [][]float64, d int) ([][]float64, error) {
	n := len(rows)

	centers := make([][]float64, 0, s.k)

	first, err := s.rng.ChooseUniform(n, 1)
	if err != nil {
		return nil, err
	}
	centers = append(centers, copyRow(rows[first[0]]))

	dists := make([]float64, n)
	for i, row := range rows {
		dists[i] = squaredDistance(row, centers[0])
	}

	for len(centers) < s.k {
		next, err := s.rng.ChooseWeighted(dists, 1, true)
		if errors.Is(err, rng.ErrZeroTotalWeight) {
			// Every remaining point coincides with a chosen center;
			// fall back to a uniform draw.
			next, err = s.rng.ChooseUniform(n, 1)
		}
		if err != nil {
			return nil, err
		}

		center := copyRow(rows[next[0]])
		centers = append(centers, center)

		for i, row := range rows {
			if dist := squaredDistance(row, center); dist < dists[i] {
				dists[i] = dist
			}
		}
	}

	return centers, nil
}

// assign maps every point to its nearest center and records the squared
// distance as its cost. Returns true if any assignment changed.
func (s *Solver) assign(rows [][]float64, centers [][]float64, assignments []int, costs []float64) bool {
	n := len(rows)

	workers := s.opts.NumWorkers
	if workers > n {
		workers = n
	}

	assignChunk := func(lo, hi int) bool {
		changed := false
		for i := lo; i < hi; i++ {
			best := -1
			bestDist := math.MaxFloat64
			for c, center := range centers {
				if dist := squaredDistance(rows[i], center); dist < bestDist {
					bestDist = dist
					best = c
				}
			}
			costs[i] = bestDist
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		return changed
	}

	if workers <= 1 {
		return assignChunk(0, n)
	}

	chunkChanged := make([]bool, workers)
	chunkSize := (n + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		lo := w * chunkSize
		hi := lo + chunkSize
		if hi > n {
			hi = n
		}
		g.Go(func() error {
			chunkChanged[w] = assignChunk(lo, hi)
			return nil
		})
	}
	_ = g.Wait()

	for _, c := range chunkChanged {
		if c {
			return true
		}
	}
	return false
}

// update recomputes each center as the mean of its assigned points. An empty
// cluster is reseeded from the point with the current largest cost so its
// center never goes stale.
func (s *Solver) update(rows [][]float64, centers [][]float64, assignments []int, costs []float64) {
	d := len(centers[0])
	k := len(centers)

	sums := make([][]float64, k)
	for j := range sums {
		sums[j] = make([]float64, d)
	}
	counts := make([]int, k)

	for i, row := range rows {
		c := assignments[i]
		counts[c]++
		for j, v := range row {
			sums[c][j] += v
		}
	}

	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			inv := 1 / float64(counts[c])
			for j := 0; j < d; j++ {
				centers[c][j] = sums[c][j] * inv
			}
			continue
		}

		worst := 0
		for i, cost := range costs {
			if cost > costs[worst] {
				worst = i
			}
		}
		copy(centers[c], rows[worst])
		s.opts.Logger.Debug("reseeded empty cluster", "cluster", c, "point", worst)
	}
}

// extractRows materializes the matrix as per-row slices, validating that all
// coordinates are finite. For *mat.Dense this is zero-copy.
func extractRows(points mat.Matrix) ([][]float64, error) {
	n, _ := points.Dims()
	rows := make([][]float64, n)

	if dense, ok := points.(*mat.Dense); ok {
		for i := 0; i < n; i++ {
			rows[i] = dense.RawRowView(i)
		}
	} else {
		for i := 0; i < n; i++ {
			rows[i] = mat.Row(nil, i, points)
		}
	}

	for i, row := range rows {
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ErrNonFinite{Row: i, Col: j, Value: v}
			}
		}
	}

	return rows, nil
}

func copyRow(row []float64) []float64 {
	out := make([]float64, len(row))
	copy(out, row)
	return out
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i, v := range a {
		diff := v - b[i]
		sum += diff * diff
	}
	return sum
}
