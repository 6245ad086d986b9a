package coreset

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/gocoreset/coreset/rng"
)

// Algorithm produces a coreset from a point matrix. The matrix is a
// read-only view owned by the caller; implementations never mutate it.
type Algorithm interface {
	Run(points mat.Matrix) (*Coreset, error)
}

// Kind identifies one of the coreset construction strategies. The set is
// closed: dispatch happens over these tags, never over raw strings.
type Kind int

const (
	// KindUniform samples m points uniformly, each with weight n/m.
	KindUniform Kind = iota

	// KindSensitivity samples m points with replacement proportional to
	// sensitivity, with inverse-probability weights.
	KindSensitivity

	// KindGroup stratifies points into exponential sensitivity bands and
	// samples uniformly inside each band.
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindUniform:
		return "uniform-sampling"
	case KindSensitivity:
		return "sensitivity-sampling"
	case KindGroup:
		return "group-sampling"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// ParseKind resolves a canonical algorithm name to its Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "uniform-sampling":
		return KindUniform, nil
	case "sensitivity-sampling":
		return KindSensitivity, nil
	case "group-sampling":
		return KindGroup, nil
	default:
		return 0, fmt.Errorf("unknown algorithm: %q", name)
	}
}

// Options configures cross-cutting algorithm behavior.
type Options struct {
	// Logger receives run diagnostics. Defaults to a discarding logger.
	Logger *Logger

	// NumWorkers is forwarded to the k-means assignment step. Values <= 1
	// keep it sequential. Worker count never affects results.
	NumWorkers int
}

func defaultOptions() Options {
	return Options{
		Logger:     NoopLogger(),
		NumWorkers: 1,
	}
}

func applyOptions(optFns []func(*Options)) Options {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}
	return opts
}

// WithLogger sets the logger used by an algorithm.
func WithLogger(logger *Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// WithNumWorkers sets the fan-out of the k-means assignment step.
func WithNumWorkers(numWorkers int) func(*Options) {
	return func(o *Options) {
		o.NumWorkers = numWorkers
	}
}

// Params bundles the invocation parameters shared by the strategies.
type Params struct {
	// K is the number of clusters the coreset should preserve. The
	// sensitivity-based strategies build their reference clustering with 2k
	// centers to stabilize the cost estimate.
	K int

	// TargetSize is the desired number of coreset entries m. Group sampling
	// treats it as a target rather than an exact contract.
	TargetSize int
}

// NewAlgorithm constructs the strategy identified by kind, drawing all
// randomness from r. Group sampling uses its documented defaults; construct
// GroupSampling directly to tune them.
func NewAlgorithm(kind Kind, params Params, r *rng.RNG, optFns ...func(*Options)) (Algorithm, error) {
	switch kind {
	case KindUniform:
		return NewUniformSampling(params.TargetSize, r, optFns...), nil
	case KindSensitivity:
		return NewSensitivitySampling(2*params.K, params.TargetSize, r, optFns...), nil
	case KindGroup:
		return NewGroupSampling(2*params.K, params.TargetSize, r, optFns...), nil
	default:
		return nil, fmt.Errorf("unknown algorithm kind: %d", int(kind))
	}
}
