package driven

import "io"

// LineStreamer opens line-oriented sources and sinks. Implementations
// select a decompression or compression layer from the path's filename
// suffix and hand back plain byte streams.
type LineStreamer interface {
	// OpenReader opens a source for reading. The caller must close it.
	OpenReader(path string) (io.ReadCloser, error)

	// CreateWriter creates (truncating) a sink for writing. The caller
	// must close it; compressed sinks flush their trailer on Close.
	CreateWriter(path string) (io.WriteCloser, error)
}
