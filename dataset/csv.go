package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"gonum.org/v1/gonum/mat"
)

// CSVParser loads generic comma-separated numeric data. Files ending in .gz
// are decompressed on the fly. Every row must have the same number of
// columns.
type CSVParser struct{}

// Parse implements Parser.
func (p *CSVParser) Parse(path string) (*mat.Dense, error) {
	return readCSVMatrix(path, csvOptions{})
}

// csvOptions tweaks the shared CSV reader for the dataset-specific parsers.
type csvOptions struct {
	skipHeader bool
	dropFirst  bool // drop the leading column (row ids)
	dropLast   bool // drop the trailing column (class labels)
}

func readCSVMatrix(path string, opts csvOptions) (*mat.Dense, error) {
	r, closeFn, err := openMaybeGzip(path)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var (
		data []float64
		cols int
		rows int
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
		if opts.skipHeader && rows == 0 && line == 1 {
			continue
		}

		fields := strings.Split(text, ",")
		if opts.dropFirst {
			fields = fields[1:]
		}
		if opts.dropLast {
			fields = fields[:len(fields)-1]
		}
		if len(fields) == 0 {
			return nil, fmt.Errorf("%s:%d: no columns left after dropping id/label columns", path, line)
		}

		if cols == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("%s:%d: expected %d columns, got %d", path, line, cols, len(fields))
		}

		for _, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("%s:%d: %w", path, line, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	return mat.NewDense(rows, cols, data), nil
}

// openMaybeGzip opens path, transparently decompressing .gz files.
func openMaybeGzip(path string) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	if !strings.HasSuffix(path, ".gz") {
		return f, f.Close, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("open gzip %s: %w", path, err)
	}

	closeFn := func() error {
		if err := gz.Close(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}

	return gz, closeFn, nil
}
