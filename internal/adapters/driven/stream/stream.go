// Package stream opens line-oriented files with transparent compression.
// The compression layer is selected by filename suffix: ".gz" for gzip,
// ".zst" for zstandard, anything else is read or written as-is.
package stream

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/custodia-labs/embedprep-cli/internal/core/ports/driven"
)

// Ensure Streams implements the interface.
var _ driven.LineStreamer = (*Streams)(nil)

// Streams is the filesystem-backed LineStreamer.
type Streams struct{}

// New creates a new filesystem streamer.
func New() *Streams {
	return &Streams{}
}

// OpenReader opens path for reading, wrapping a decompressor when the
// suffix calls for one. Closing the returned reader closes the
// decompressor and the underlying file.
func (s *Streams) OpenReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}

	switch filepath.Ext(path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open gzip source: %w", err)
		}
		return &readCloser{Reader: zr, closers: []io.Closer{zr, f}}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open zstd source: %w", err)
		}
		return &readCloser{Reader: zr, closers: []io.Closer{closerFunc(func() error {
			zr.Close()
			return nil
		}), f}}, nil
	default:
		return f, nil
	}
}

// CreateWriter creates path for writing, wrapping a compressor when the
// suffix calls for one. Closing the returned writer flushes the
// compressor trailer before closing the underlying file.
func (s *Streams) CreateWriter(path string) (io.WriteCloser, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create sink: %w", err)
	}

	switch filepath.Ext(path) {
	case ".gz":
		zw := gzip.NewWriter(f)
		return &writeCloser{Writer: zw, closers: []io.Closer{zw, f}}, nil
	case ".zst":
		zw, err := zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create zstd sink: %w", err)
		}
		return &writeCloser{Writer: zw, closers: []io.Closer{zw, f}}, nil
	default:
		return f, nil
	}
}

// readCloser closes a chain of closers in order, keeping the first error.
type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	return closeAll(r.closers)
}

// writeCloser closes a chain of closers in order, keeping the first error.
// The compressor must come before the file so its trailer is flushed.
type writeCloser struct {
	io.Writer
	closers []io.Closer
}

func (w *writeCloser) Close() error {
	return closeAll(w.closers)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func closeAll(closers []io.Closer) error {
	var first error
	for _, c := range closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
