package coreset

import (
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/mat"

	"github.com/gocoreset/coreset/kmeans"
	"github.com/gocoreset/coreset/rng"
)

// Group sampling defaults, matching the reference parameterization.
const (
	// DefaultBeta caps each point's sensitivity at Beta/n of the total mass.
	DefaultBeta = 10000

	// DefaultRangeGrowth is the growth factor between sensitivity bands.
	DefaultRangeGrowth = 4

	// DefaultMinGroupSamples is the floor on each non-empty group's quota.
	DefaultMinGroupSamples = 1
)

// GroupOptions tunes the stratification of GroupSampling.
type GroupOptions struct {
	Options

	// Beta is the clipping bound: no point keeps more than Beta/n of the
	// total sensitivity mass, bounding the influence of extreme outliers.
	Beta float64

	// RangeGrowth is the growth factor r > 1 between bands: band i covers
	// sensitivities in [T*r^i, T*r^(i+1)).
	RangeGrowth float64

	// MinGroupSamples raises each non-empty group's quota to at least this
	// floor so low-mass groups are not starved.
	MinGroupSamples int
}

// GroupSampling stratifies points into exponential sensitivity bands and
// samples each band uniformly without replacement. Every point drawn from a
// band gets the band's average weight (band size over quota), trading a
// small bias for much lower variance than inverse-probability weighting on
// heavy-tailed sensitivity distributions.
//
// The realized coreset size is a target, not a contract: per-group floors
// can push it above m, and small groups can pull it below.
type GroupSampling struct {
	numCenters int
	targetSize int
	rng        *rng.RNG
	opts       GroupOptions
}

// NewGroupSampling creates a group sampler that builds its reference
// clustering with numCenters centers and targets m coreset entries.
func NewGroupSampling(numCenters, targetSize int, r *rng.RNG, optFns ...func(*Options)) *GroupSampling {
	return NewGroupSamplingWithOptions(numCenters, targetSize, r, func(o *GroupOptions) {
		for _, fn := range optFns {
			fn(&o.Options)
		}
	})
}

// NewGroupSamplingWithOptions creates a group sampler with tunable
// stratification parameters.
func NewGroupSamplingWithOptions(numCenters, targetSize int, r *rng.RNG, optFns ...func(*GroupOptions)) *GroupSampling {
	opts := GroupOptions{
		Options:         defaultOptions(),
		Beta:            DefaultBeta,
		RangeGrowth:     DefaultRangeGrowth,
		MinGroupSamples: DefaultMinGroupSamples,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}

	return &GroupSampling{
		numCenters: numCenters,
		targetSize: targetSize,
		rng:        r,
		opts:       opts,
	}
}

// Run draws the coreset.
func (a *GroupSampling) Run(points mat.Matrix) (*Coreset, error) {
	n, _ := points.Dims()

	if a.targetSize <= 0 {
		return nil, &ParameterError{Param: "m", Message: "must be positive"}
	}
	if a.opts.RangeGrowth <= 1 {
		return nil, &ParameterError{Param: "rangeGrowth", Message: "must be greater than 1"}
	}
	if a.opts.MinGroupSamples <= 0 {
		return nil, &ParameterError{Param: "minGroupSamples", Message: "must be positive"}
	}
	if n == 0 {
		return nil, &ParameterError{Param: "n", Message: "dataset is empty"}
	}

	probs, err := a.distribution(points)
	if err != nil {
		return nil, err
	}

	clipped, total := a.clip(probs, n)

	groups, masses, err := a.partition(clipped)
	if err != nil {
		return nil, err
	}

	cs := New(a.targetSize)

	for g, group := range groups {
		if group == nil || group.IsEmpty() {
			continue
		}

		size := int(group.GetCardinality())

		quota := int(math.Round(float64(a.targetSize) * masses[g] / total))
		if quota < a.opts.MinGroupSamples {
			quota = a.opts.MinGroupSamples
		}
		if quota > size {
			quota = size
		}

		members := group.ToArray()

		picked, err := a.rng.ChooseUniform(size, quota)
		if err != nil {
			return nil, translateError(err)
		}

		// Intra-band sensitivities are comparable by construction, so the
		// band's average weight stands in for per-point weights.
		weight := float64(size) / float64(quota)
		for _, pos := range picked {
			if err := cs.AddPoint(int(members[pos]), weight); err != nil {
				return nil, err
			}
		}
	}

	a.opts.Logger.Debug("group sampling finished",
		"m", a.targetSize, "entries", cs.Len(), "groups", len(groups), "total_weight", cs.TotalWeight())

	return cs, nil
}

func (a *GroupSampling) distribution(points mat.Matrix) ([]float64, error) {
	solver := kmeans.NewSolver(a.numCenters, a.rng, func(o *kmeans.Options) {
		o.NumWorkers = a.opts.NumWorkers
		o.Logger = a.opts.Logger.Logger
	})

	result, err := solver.Run(points)
	if err != nil {
		return nil, translateError(err)
	}

	return SensitivityDistribution(result)
}

// clip caps each sensitivity at Beta/n of the total mass and returns the
// clipped scores together with their new total.
func (a *GroupSampling) clip(probs []float64, n int) ([]float64, float64) {
	bound := a.opts.Beta / float64(n)

	clipped := make([]float64, len(probs))
	total := 0.0
	for i, p := range probs {
		if p > bound {
			p = bound
		}
		clipped[i] = p
		total += p
	}

	return clipped, total
}

// partition buckets point indices into exponential sensitivity bands
// [T*r^g, T*r^(g+1)), where T is the smallest positive clipped sensitivity.
// Returns per-band membership bitmaps and per-band sensitivity mass.
func (a *GroupSampling) partition(clipped []float64) ([]*roaring.Bitmap, []float64, error) {
	minS := math.Inf(1)
	maxS := 0.0
	for _, p := range clipped {
		if p <= 0 {
			continue
		}
		if p < minS {
			minS = p
		}
		if p > maxS {
			maxS = p
		}
	}
	if maxS == 0 {
		return nil, nil, &NumericError{Message: "total sensitivity mass is zero"}
	}

	logGrowth := math.Log(a.opts.RangeGrowth)
	numGroups := int(math.Floor(math.Log(maxS/minS)/logGrowth)) + 1

	groups := make([]*roaring.Bitmap, numGroups)
	masses := make([]float64, numGroups)

	for i, p := range clipped {
		if p <= 0 {
			continue
		}

		g := int(math.Floor(math.Log(p/minS) / logGrowth))
		if g < 0 {
			g = 0
		}
		if g >= numGroups {
			g = numGroups - 1
		}

		if groups[g] == nil {
			groups[g] = roaring.New()
		}
		groups[g].Add(uint32(i))
		masses[g] += p
	}

	return groups, masses, nil
}
