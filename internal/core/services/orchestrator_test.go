package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/embedprep-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/embedprep-cli/internal/core/domain"
	"github.com/custodia-labs/embedprep-cli/internal/core/ports/driven"
	"github.com/custodia-labs/embedprep-cli/internal/core/ports/driving"
	"github.com/custodia-labs/embedprep-cli/internal/logger"
)

// --- Mock implementations ---

// mockStreamer implements driven.LineStreamer over in-memory buffers.
type mockStreamer struct {
	sources map[string]string
	outputs map[string]*bytes.Buffer
	openErr error
}

func newMockStreamer() *mockStreamer {
	return &mockStreamer{
		sources: make(map[string]string),
		outputs: make(map[string]*bytes.Buffer),
	}
}

func (m *mockStreamer) OpenReader(path string) (io.ReadCloser, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	content, ok := m.sources[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, domain.ErrNotFound)
	}
	return io.NopCloser(strings.NewReader(content)), nil
}

func (m *mockStreamer) CreateWriter(path string) (io.WriteCloser, error) {
	buf := &bytes.Buffer{}
	m.outputs[path] = buf
	return nopWriteCloser{buf}, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.LineStreamer = (*mockStreamer)(nil)
	var _ driving.JoinRunner = (*JoinOrchestrator)(nil)
}

func TestOrchestratorRun(t *testing.T) {
	streams := newMockStreamer()
	streams.sources["meta.jsonl"] = metaLine + "\n" + `{"asin":"B2"}` + "\n"
	streams.sources["reviews.jsonl"] = reviewLine + "\n" + `{"asin":"B9"}` + "\n"

	orchestrator := NewJoinOrchestrator(streams, memory.NewMetadataStore())
	summary, err := orchestrator.Run(context.Background(), driving.JoinRequest{
		MetaPath:        "meta.jsonl",
		ReviewsPath:     "reviews.jsonl",
		OutputPath:      "out.jsonl",
		DropMissingMeta: true,
	})
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, domain.JoinStats{Read: 2, Written: 1, MissingMeta: 1}, summary.Stats)
	assert.Equal(t, 2, summary.UniqueASINsMeta)

	out := streams.outputs["out.jsonl"].String()
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, `"id":"B1_R1_1243296000"`)
}

func TestOrchestratorRun_RequiresPaths(t *testing.T) {
	orchestrator := NewJoinOrchestrator(newMockStreamer(), memory.NewMetadataStore())

	_, err := orchestrator.Run(context.Background(), driving.JoinRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrchestratorRun_MetadataOpenFailure(t *testing.T) {
	streams := newMockStreamer()
	streams.openErr = fmt.Errorf("disk gone")

	orchestrator := NewJoinOrchestrator(streams, memory.NewMetadataStore())
	_, err := orchestrator.Run(context.Background(), driving.JoinRequest{
		MetaPath:    "meta.jsonl",
		ReviewsPath: "reviews.jsonl",
		OutputPath:  "out.jsonl",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open metadata source")
}

func TestOrchestratorRun_MalformedMetadataAborts(t *testing.T) {
	streams := newMockStreamer()
	streams.sources["meta.jsonl"] = "{broken\n"
	streams.sources["reviews.jsonl"] = reviewLine + "\n"

	orchestrator := NewJoinOrchestrator(streams, memory.NewMetadataStore())
	_, err := orchestrator.Run(context.Background(), driving.JoinRequest{
		MetaPath:        "meta.jsonl",
		ReviewsPath:     "reviews.jsonl",
		OutputPath:      "out.jsonl",
		DropMissingMeta: true,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedLine)

	// Nothing was written: the run aborted before the join phase.
	_, opened := streams.outputs["out.jsonl"]
	assert.False(t, opened)
}

func TestOrchestratorRun_WarnsOnMissingMeta(t *testing.T) {
	defer func() {
		logger.SetVerbose(false)
		logger.SetOutput(os.Stderr)
	}()
	var logs bytes.Buffer
	logger.SetOutput(&logs)
	logger.SetVerbose(true)

	streams := newMockStreamer()
	streams.sources["meta.jsonl"] = metaLine + "\n"
	streams.sources["reviews.jsonl"] = `{"asin":"B9"}` + "\n"

	orchestrator := NewJoinOrchestrator(streams, memory.NewMetadataStore())
	_, err := orchestrator.Run(context.Background(), driving.JoinRequest{
		MetaPath:        "meta.jsonl",
		ReviewsPath:     "reviews.jsonl",
		OutputPath:      "out.jsonl",
		DropMissingMeta: true,
	})
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "[WARN] 1 reviews had no metadata entry")
}

func TestOrchestratorRun_RowCapFlowsThrough(t *testing.T) {
	streams := newMockStreamer()
	streams.sources["meta.jsonl"] = `{"asin":"B1"}` + "\n" + `{"asin":"B2"}` + "\n" + `{"asin":"B3"}` + "\n"
	streams.sources["reviews.jsonl"] = ""

	orchestrator := NewJoinOrchestrator(streams, memory.NewMetadataStore())
	summary, err := orchestrator.Run(context.Background(), driving.JoinRequest{
		MetaPath:        "meta.jsonl",
		ReviewsPath:     "reviews.jsonl",
		OutputPath:      "out.jsonl",
		DropMissingMeta: true,
		MaxMetaRows:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.UniqueASINsMeta)
}
