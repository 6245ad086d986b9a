package coreset

import (
	"bufio"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// Entry is a single coreset member: a row index into the original point
// matrix and a strictly positive weight. The same index may appear more than
// once; multiplicities are meaningful and never deduplicated.
type Entry struct {
	Index  int
	Weight float64
}

// Coreset is an ordered collection of weighted point references. It never
// owns or copies point data; coordinates are joined in from the point matrix
// only at export time.
type Coreset struct {
	entries []Entry
}

// New creates an empty Coreset with capacity for size entries.
func New(size int) *Coreset {
	return &Coreset{
		entries: make([]Entry, 0, size),
	}
}

// AddPoint appends an entry. The weight must be strictly positive.
func (c *Coreset) AddPoint(index int, weight float64) error {
	if weight <= 0 {
		return &ParameterError{
			Param:   "weight",
			Message: fmt.Sprintf("must be positive, got %v for point %d", weight, index),
		}
	}

	c.entries = append(c.entries, Entry{Index: index, Weight: weight})
	return nil
}

// Len returns the number of entries.
func (c *Coreset) Len() int {
	return len(c.entries)
}

// Entries returns the ordered entries. The returned slice is owned by the
// Coreset and must not be mutated.
func (c *Coreset) Entries() []Entry {
	return c.entries
}

// TotalWeight returns the sum of all entry weights. For an unbiased coreset
// it is close to the number of points in the original dataset.
func (c *Coreset) TotalWeight() float64 {
	total := 0.0
	for _, e := range c.entries {
		total += e.Weight
	}
	return total
}

// Export materializes the coreset against the original point matrix and
// writes it to w as a line-oriented text stream: a header line with the
// entry count and dimensionality, then one line per entry holding the weight
// followed by the point coordinates, space-separated.
func (c *Coreset) Export(points mat.Matrix, w io.Writer) error {
	_, d := points.Dims()

	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%d %d\n", len(c.entries), d); err != nil {
		return err
	}

	for _, e := range c.entries {
		if _, err := fmt.Fprintf(bw, "%g", e.Weight); err != nil {
			return err
		}
		for j := 0; j < d; j++ {
			if _, err := fmt.Fprintf(bw, " %g", points.At(e.Index, j)); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString("\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}
