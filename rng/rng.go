// Package rng provides the seeded random source and the sampling primitives
// shared by all coreset algorithms.
//
// A single RNG is created per run and threaded by reference into every
// component that samples. All draws come from one sequential stream, so a
// fixed seed yields identical output regardless of parallelism elsewhere.
package rng

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

var (
	// ErrEmptyPopulation is returned when sampling from an empty population.
	ErrEmptyPopulation = errors.New("population is empty")

	// ErrSampleTooLarge is returned when more distinct samples are requested
	// than the population holds.
	ErrSampleTooLarge = errors.New("sample size exceeds population size")

	// ErrZeroTotalWeight is returned when every candidate weight is zero.
	ErrZeroTotalWeight = errors.New("total weight is zero")

	// ErrInvalidSampleSize is returned when the requested sample size is not
	// positive.
	ErrInvalidSampleSize = errors.New("sample size must be positive")
)

// RNG encapsulates a seeded pseudo-random source.
//
// It is not safe for concurrent use; all sampling decisions must be confined
// to the orchestrating goroutine.
type RNG struct {
	rand *rand.Rand
	seed int64
}

// New creates a new RNG with the given seed.
func New(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec
		seed: seed,
	}
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	return r.rand.Float64()
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	return r.rand.Intn(n)
}

// NormFloat64 returns a normally distributed float64 with mean 0 and
// standard deviation 1.
func (r *RNG) NormFloat64() float64 {
	return r.rand.NormFloat64()
}

// ChooseUniform returns k distinct indices drawn uniformly from [0,n)
// without replacement, in draw order.
func (r *RNG) ChooseUniform(n, k int) ([]int, error) {
	if n == 0 {
		return nil, ErrEmptyPopulation
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidSampleSize, k)
	}
	if k > n {
		return nil, fmt.Errorf("%w: k=%d n=%d", ErrSampleTooLarge, k, n)
	}

	// Partial Fisher-Yates: only the first k swaps are materialized.
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}

	picked := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + r.rand.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
		picked[i] = pool[i]
	}

	return picked, nil
}

// ChooseWeighted draws k indices with probability proportional to weights.
//
// With replacement it performs k independent draws by cumulative-sum
// inversion. Without replacement it uses a weighted reservoir: each candidate
// gets priority key u^(1/w) for u drawn uniformly from (0,1), and the k
// largest keys win, so every index appears at most once and selection
// probability grows monotonically with weight.
//
// Candidates with zero weight are never selected. If all weights are zero,
// ErrZeroTotalWeight is returned.
func (r *RNG) ChooseWeighted(weights []float64, k int, withReplacement bool) ([]int, error) {
	n := len(weights)
	if n == 0 {
		return nil, ErrEmptyPopulation
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidSampleSize, k)
	}

	if withReplacement {
		return r.chooseWeightedReplacing(weights, k)
	}

	return r.chooseWeightedReservoir(weights, k)
}

func (r *RNG) chooseWeightedReplacing(weights []float64, k int) ([]int, error) {
	n := len(weights)

	cumulative := make([]float64, n)
	total := 0.0
	for i, w := range weights {
		total += w
		cumulative[i] = total
	}
	if total <= 0 {
		return nil, ErrZeroTotalWeight
	}

	picked := make([]int, k)
	for i := 0; i < k; i++ {
		target := r.rand.Float64() * total
		idx := sort.SearchFloat64s(cumulative, target)
		// SearchFloat64s returns the first cumulative value >= target, but a
		// zero-weight candidate shares its cumulative value with its
		// predecessor; skip forward to the owner of the probability mass.
		for idx < n-1 && weights[idx] == 0 {
			idx++
		}
		if idx >= n {
			idx = n - 1
		}
		picked[i] = idx
	}

	return picked, nil
}

type reservoirItem struct {
	index int
	key   float64
}

// reservoirHeap is a min-heap on key so the smallest of the kept k keys is
// always at the root.
type reservoirHeap []reservoirItem

func (h reservoirHeap) Len() int            { return len(h) }
func (h reservoirHeap) Less(i, j int) bool  { return h[i].key < h[j].key }
func (h reservoirHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *reservoirHeap) Push(x interface{}) { *h = append(*h, x.(reservoirItem)) }
func (h *reservoirHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (r *RNG) chooseWeightedReservoir(weights []float64, k int) ([]int, error) {
	positive := 0
	for _, w := range weights {
		if w > 0 {
			positive++
		}
	}
	if positive == 0 {
		return nil, ErrZeroTotalWeight
	}
	if k > positive {
		return nil, fmt.Errorf("%w: k=%d positive-weight candidates=%d", ErrSampleTooLarge, k, positive)
	}

	h := make(reservoirHeap, 0, k)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		u := r.rand.Float64()
		for u == 0 {
			u = r.rand.Float64()
		}
		key := math.Pow(u, 1/w)
		if len(h) < k {
			heap.Push(&h, reservoirItem{index: i, key: key})
		} else if key > h[0].key {
			h[0] = reservoirItem{index: i, key: key}
			heap.Fix(&h, 0)
		}
	}

	// Winners ordered by descending key so the draw order is deterministic.
	sort.Slice(h, func(i, j int) bool { return h[i].key > h[j].key })

	picked := make([]int, k)
	for i, item := range h {
		picked[i] = item.index
	}

	return picked, nil
}
