// Package dataset turns raw dataset files into dense point matrices.
//
// Each supported dataset hides its file format behind the Parser interface;
// the coreset algorithms only ever see the resulting matrix.
package dataset

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Parser loads a dataset file into an n x d point matrix.
type Parser interface {
	Parse(path string) (*mat.Dense, error)
}

// ForName resolves a dataset name to its parser. The set of names is closed:
// census, covertype, tower, and csv for generic gzip-compressed CSV data.
func ForName(name string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "census":
		return &CensusParser{}, nil
	case "covertype":
		return &CovertypeParser{}, nil
	case "tower":
		return &TowerParser{}, nil
	case "csv":
		return &CSVParser{}, nil
	default:
		return nil, fmt.Errorf("unknown dataset: %q", name)
	}
}
