package coreset

import (
	"github.com/gocoreset/coreset/kmeans"
)

// SensitivityDistribution converts a reference clustering into a normalized
// per-point sampling distribution.
//
// Each point's raw sensitivity is the sum of two terms: its share of the
// total clustering cost, which oversamples poorly-served points, and the
// reciprocal of its cluster size, which keeps points in small clusters
// selectable even at zero marginal cost. The raw scores are normalized to
// sum to 1.
//
// Every point in a non-empty cluster receives strictly positive probability.
func SensitivityDistribution(result *kmeans.Result) ([]float64, error) {
	n := len(result.Costs)
	if n == 0 {
		return nil, &ParameterError{Param: "n", Message: "reference clustering is empty"}
	}

	probs := make([]float64, n)
	total := 0.0

	for i, cost := range result.Costs {
		s := 1 / float64(result.ClusterSizes[result.Assignments[i]])
		if result.TotalCost > 0 {
			s += cost / result.TotalCost
		}
		probs[i] = s
		total += s
	}

	if total <= 0 {
		return nil, &NumericError{Message: "total sensitivity mass is zero"}
	}

	inv := 1 / total
	for i := range probs {
		probs[i] *= inv
	}

	return probs, nil
}
