package dataset

import "gonum.org/v1/gonum/mat"

// CovertypeParser loads the Covertype dataset: comma-separated, no header,
// with a trailing cover-type classification column that is dropped.
type CovertypeParser struct{}

// Parse implements Parser.
func (p *CovertypeParser) Parse(path string) (*mat.Dense, error) {
	return readCSVMatrix(path, csvOptions{dropLast: true})
}
