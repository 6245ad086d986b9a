// Package export writes coreset results to an output sink.
//
// The exporter materializes the coreset against the original point matrix,
// compresses it, and publishes it together with a sentinel file (done.out)
// that orchestration tooling polls for. The sentinel is written only after
// the result file has been fully flushed, and sinks publish atomically, so a
// failed run never leaves output that looks complete.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
	"gonum.org/v1/gonum/mat"

	"github.com/gocoreset/coreset"
)

const (
	resultsBaseName = "results.txt"
	sentinelName    = "done.out"
	sentinelBody    = "done\n"
)

// Compression selects the codec applied to the result stream.
type Compression int

const (
	// CompressionGzip writes results.txt.gz at best compression.
	CompressionGzip Compression = iota

	// CompressionLZ4 writes results.txt.lz4.
	CompressionLZ4

	// CompressionNone writes plain results.txt.
	CompressionNone
)

func (c Compression) String() string {
	switch c {
	case CompressionGzip:
		return "gzip"
	case CompressionLZ4:
		return "lz4"
	case CompressionNone:
		return "none"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ParseCompression resolves a codec name.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gzip", "gz":
		return CompressionGzip, nil
	case "lz4":
		return CompressionLZ4, nil
	case "none":
		return CompressionNone, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

func (c Compression) extension() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

func (c Compression) wrap(w io.Writer) (io.WriteCloser, error) {
	switch c {
	case CompressionGzip:
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionNone:
		return nopWriteCloser{w}, nil
	default:
		return nil, fmt.Errorf("unknown compression: %d", int(c))
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// Options configures an Exporter.
type Options struct {
	// Compression selects the result stream codec. Defaults to gzip.
	Compression Compression

	// Logger receives export diagnostics. Defaults to a discarding logger.
	Logger *slog.Logger
}

// Exporter publishes a coreset to a sink.
type Exporter struct {
	sink Sink
	opts Options
}

// NewExporter creates an Exporter writing to the given sink.
func NewExporter(sink Sink, optFns ...func(*Options)) *Exporter {
	opts := Options{
		Compression: CompressionGzip,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Exporter{sink: sink, opts: opts}
}

// Export materializes cs against points, writes the compressed result file,
// and then writes the completion sentinel.
func (e *Exporter) Export(ctx context.Context, cs *coreset.Coreset, points mat.Matrix) error {
	name := resultsBaseName + e.opts.Compression.extension()

	out, err := e.sink.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	if err := e.writeResults(cs, points, out); err != nil {
		abort(out)
		return fmt.Errorf("write %s: %w", name, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("publish %s: %w", name, err)
	}

	if err := e.writeSentinel(ctx); err != nil {
		return err
	}

	e.opts.Logger.Debug("coreset exported",
		"file", name, "entries", cs.Len(), "compression", e.opts.Compression.String())

	return nil
}

func (e *Exporter) writeResults(cs *coreset.Coreset, points mat.Matrix, out io.Writer) error {
	cw, err := e.opts.Compression.wrap(out)
	if err != nil {
		return err
	}

	if err := cs.Export(points, cw); err != nil {
		_ = cw.Close()
		return err
	}

	return cw.Close()
}

func (e *Exporter) writeSentinel(ctx context.Context) error {
	sentinel, err := e.sink.Create(ctx, sentinelName)
	if err != nil {
		return fmt.Errorf("create %s: %w", sentinelName, err)
	}
	if _, err := io.WriteString(sentinel, sentinelBody); err != nil {
		abort(sentinel)
		return fmt.Errorf("write %s: %w", sentinelName, err)
	}
	return sentinel.Close()
}

func abort(w io.WriteCloser) {
	if a, ok := w.(Aborter); ok {
		_ = a.Abort()
		return
	}
	_ = w.Close()
}
