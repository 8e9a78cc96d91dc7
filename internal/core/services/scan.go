package services

import (
	"bufio"
	"io"
)

const (
	// initialScanBuffer is the starting line buffer size.
	initialScanBuffer = 64 * 1024

	// maxScanBuffer bounds a single input line. Review bodies can run
	// long but a line past this size is corrupt framing, not data.
	maxScanBuffer = 32 * 1024 * 1024

	// progressInterval is how often streaming progress is logged.
	progressInterval = 100_000
)

// newLineScanner returns a line scanner sized for large JSONL rows.
func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, initialScanBuffer), maxScanBuffer)
	return scanner
}
