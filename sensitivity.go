package coreset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gocoreset/coreset/kmeans"
	"github.com/gocoreset/coreset/rng"
)

// SensitivitySampling draws m points with replacement proportional to their
// sensitivity and weights each draw by the inverse of its selection
// probability (Horvitz-Thompson), so the weighted coreset cost is an
// unbiased estimator of the true total cost for any fixed center set.
type SensitivitySampling struct {
	// numCenters is the size of the reference clustering, conventionally 2k:
	// over-provisioned relative to the true k to stabilize the cost estimate.
	numCenters int
	targetSize int
	rng        *rng.RNG
	opts       Options
}

// NewSensitivitySampling creates a sensitivity sampler that builds its
// reference clustering with numCenters centers and targets m coreset entries.
func NewSensitivitySampling(numCenters, targetSize int, r *rng.RNG, optFns ...func(*Options)) *SensitivitySampling {
	return &SensitivitySampling{
		numCenters: numCenters,
		targetSize: targetSize,
		rng:        r,
		opts:       applyOptions(optFns),
	}
}

// Run draws the coreset. Repeated indices are kept as separate entries.
func (a *SensitivitySampling) Run(points mat.Matrix) (*Coreset, error) {
	if a.targetSize <= 0 {
		return nil, &ParameterError{Param: "m", Message: "must be positive"}
	}

	probs, err := a.distribution(points)
	if err != nil {
		return nil, err
	}

	sampled, err := a.rng.ChooseWeighted(probs, a.targetSize, true)
	if err != nil {
		return nil, translateError(err)
	}

	m := float64(a.targetSize)

	cs := New(a.targetSize)
	for _, idx := range sampled {
		p := probs[idx]
		if p <= 0 {
			return nil, &SamplingError{Index: idx, Message: "drew a zero-probability point"}
		}
		if err := cs.AddPoint(idx, 1/(m*p)); err != nil {
			return nil, err
		}
	}

	a.opts.Logger.Debug("sensitivity sampling finished",
		"m", a.targetSize, "total_weight", cs.TotalWeight())

	return cs, nil
}

func (a *SensitivitySampling) distribution(points mat.Matrix) ([]float64, error) {
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
