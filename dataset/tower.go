package dataset

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// towerDimensions is the fixed dimensionality of the Tower dataset.
const towerDimensions = 3

// TowerParser loads the Tower dataset: one coordinate value per line,
// reshaped into an n x 3 matrix.
type TowerParser struct{}

// Parse implements Parser.
func (p *TowerParser) Parse(path string) (*mat.Dense, error) {
	r, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var (
		data []float64
		line int
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)

	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		data = append(data, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if len(data) == 0 || len(data)%towerDimensions != 0 {
		return nil, fmt.Errorf("%s: %d values is not a multiple of %d", path, len(data), towerDimensions)
	}

	return mat.NewDense(len(data)/towerDimensions, towerDimensions, data), nil
}
