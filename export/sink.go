package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink is the destination for exported result files.
type Sink interface {
	// Create opens a named output for writing. The output becomes visible
	// under its final name only after Close succeeds.
	Create(ctx context.Context, name string) (io.WriteCloser, error)
}

// Aborter is an optional interface for sink writers that can discard a
// partially written output instead of publishing it.
type Aborter interface {
	Abort() error
}

// LocalSink writes result files to a directory on the local filesystem.
// Files are written under a temporary name and renamed into place on Close,
// so a crashed run never leaves a partial file that looks complete.
type LocalSink struct {
	dir string
}

// NewLocalSink creates a LocalSink rooted at dir, creating it if needed.
func NewLocalSink(dir string) (*LocalSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &LocalSink{dir: dir}, nil
}

// Create implements Sink.
func (s *LocalSink) Create(_ context.Context, name string) (io.WriteCloser, error) {
	final := filepath.Join(s.dir, name)
	tmp := final + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return nil, err
	}

	return &localFile{file: f, tmp: tmp, final: final}, nil
}

type localFile struct {
	file  *os.File
	tmp   string
	final string
}

func (f *localFile) Write(p []byte) (int, error) {
	return f.file.Write(p)
}

// Close flushes the file to disk and publishes it under its final name.
func (f *localFile) Close() error {
	if err := f.file.Sync(); err != nil {
		_ = f.file.Close()
		_ = os.Remove(f.tmp)
		return err
	}
	if err := f.file.Close(); err != nil {
		_ = os.Remove(f.tmp)
		return err
	}
	return os.Rename(f.tmp, f.final)
}

// Abort discards the temporary file without publishing it.
func (f *localFile) Abort() error {
	_ = f.file.Close()
	return os.Remove(f.tmp)
}
