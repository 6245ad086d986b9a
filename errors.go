package coreset

import (
	"errors"
	"fmt"

	"github.com/gocoreset/coreset/kmeans"
	"github.com/gocoreset/coreset/rng"
)

// ParameterError reports an invalid run parameter (k, m, or the dataset
// size). No computation is attempted once one is detected.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ParameterError struct {
	Param   string
	Message string
	cause   error
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Message)
}

func (e *ParameterError) Unwrap() error { return e.cause }

// NumericError reports a numeric failure: non-finite input coordinates or a
// degenerate sensitivity distribution.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type NumericError struct {
	Message string
	cause   error
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("numeric error: %s", e.Message)
}

func (e *NumericError) Unwrap() error { return e.cause }

// SamplingError reports a weighted draw that selected a zero-probability
// candidate. It indicates an invariant violation upstream and is fatal.
type SamplingError struct {
	Index   int
	Message string
}

func (e *SamplingError) Error() string {
	return fmt.Sprintf("sampling error at index %d: %s", e.Index, e.Message)
}

// translateError normalizes errors from the rng and kmeans packages into the
// public taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, rng.ErrEmptyPopulation):
		return &ParameterError{Param: "n", Message: "dataset is empty", cause: err}
	case errors.Is(err, rng.ErrSampleTooLarge):
		return &ParameterError{Param: "m", Message: "sample size exceeds population", cause: err}
	case errors.Is(err, rng.ErrInvalidSampleSize):
		return &ParameterError{Param: "m", Message: "sample size must be positive", cause: err}
	case errors.Is(err, rng.ErrZeroTotalWeight):
		return &NumericError{Message: "total sensitivity mass is zero", cause: err}
	case errors.Is(err, kmeans.ErrInvalidK):
		return &ParameterError{Param: "k", Message: "must be positive", cause: err}
	case errors.Is(err, kmeans.ErrNoPoints):
		return &ParameterError{Param: "n", Message: "dataset is empty", cause: err}
	case errors.Is(err, kmeans.ErrTooFewPoints):
		return &ParameterError{Param: "k", Message: "exceeds the number of points", cause: err}
	}

	var nf *kmeans.ErrNonFinite
	if errors.As(err, &nf) {
		return &NumericError{Message: nf.Error(), cause: err}
	}

	return err
}
