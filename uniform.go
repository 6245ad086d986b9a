package coreset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/gocoreset/coreset/rng"
)

// UniformSampling draws m distinct points uniformly at random and gives each
// the constant weight n/m, the classical unweighted importance-sampling
// estimator: every point is equally likely, so the weighted coreset is an
// unbiased estimator of any additive objective over the full set.
type UniformSampling struct {
	targetSize int
	rng        *rng.RNG
	opts       Options
}

// NewUniformSampling creates a uniform sampler targeting m coreset entries.
func NewUniformSampling(targetSize int, r *rng.RNG, optFns ...func(*Options)) *UniformSampling {
	return &UniformSampling{
		targetSize: targetSize,
		rng:        r,
		opts:       applyOptions(optFns),
	}
}

// Run draws the coreset. It fails with a ParameterError if m == 0, n == 0 or
// m > n; on success the coreset has exactly m entries.
func (a *UniformSampling) Run(points mat.Matrix) (*Coreset, error) {
	n, _ := points.Dims()

	if a.targetSize <= 0 {
		return nil, &ParameterError{Param: "m", Message: "must be positive"}
	}
	if n == 0 {
		return nil, &ParameterError{Param: "n", Message: "dataset is empty"}
	}

	sampled, err := a.rng.ChooseUniform(n, a.targetSize)
	if err != nil {
		return nil, translateError(err)
	}

	weight := float64(n) / float64(a.targetSize)

	cs := New(a.targetSize)
	for _, idx := range sampled {
		if err := cs.AddPoint(idx, weight); err != nil {
			return nil, err
		}
	}

	a.opts.Logger.Debug("uniform sampling finished",
		"n", n, "m", a.targetSize, "weight", weight)

	return cs, nil
}
