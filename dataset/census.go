package dataset

import "gonum.org/v1/gonum/mat"

// CensusParser loads the US Census 1990 dataset: comma-separated with a
// header row and a leading caseid column, both of which are dropped.
type CensusParser struct{}

// Parse implements Parser.
func (p *CensusParser) Parse(path string) (*mat.Dense, error) {
	return readCSVMatrix(path, csvOptions{skipHeader: true, dropFirst: true})
}
