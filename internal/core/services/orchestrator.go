package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/embedprep-cli/internal/core/domain"
	"github.com/custodia-labs/embedprep-cli/internal/core/ports/driven"
	"github.com/custodia-labs/embedprep-cli/internal/core/ports/driving"
	"github.com/custodia-labs/embedprep-cli/internal/logger"
)

// Ensure JoinOrchestrator implements the interface.
var _ driving.JoinRunner = (*JoinOrchestrator)(nil)

// JoinOrchestrator coordinates one complete run: build the metadata
// index to completion, then stream the reviews through the join. Both
// phases are single-threaded and synchronous; the index is read-only by
// the time the join starts.
type JoinOrchestrator struct {
	streams driven.LineStreamer
	store   driven.MetadataStore
}

// NewJoinOrchestrator creates a join orchestrator over the injected
// stream opener and metadata store.
func NewJoinOrchestrator(streams driven.LineStreamer, store driven.MetadataStore) *JoinOrchestrator {
	return &JoinOrchestrator{streams: streams, store: store}
}

// Run executes the request. Every opened source and the sink are closed
// on all exit paths, including when a parse error aborts mid-stream; on
// a fatal error no summary is returned.
func (o *JoinOrchestrator) Run(ctx context.Context, req driving.JoinRequest) (*driving.JoinSummary, error) {
	if req.MetaPath == "" || req.ReviewsPath == "" || req.OutputPath == "" {
		return nil, fmt.Errorf("%w: metadata, reviews and output paths are required", domain.ErrInvalidInput)
	}

	runID := uuid.New().String()
	logger.Section("join run " + runID)

	// Phase 1: metadata index, built fully before any review is read.
	logger.Info("Indexing metadata from %s", req.MetaPath)
	metaIn, err := o.streams.OpenReader(req.MetaPath)
	if err != nil {
		return nil, fmt.Errorf("open metadata source: %w", err)
	}

	builder := NewIndexBuilder(req.KeepFields, req.MaxMetaRows)
	if err := builder.Build(ctx, metaIn, o.store); err != nil {
		metaIn.Close()
		return nil, fmt.Errorf("build metadata index: %w", err)
	}
	if err := metaIn.Close(); err != nil {
		return nil, fmt.Errorf("close metadata source: %w", err)
	}

	unique, err := o.store.Len(ctx)
	if err != nil {
		return nil, fmt.Errorf("count metadata index: %w", err)
	}
	logger.Info("Indexed %d unique ASINs", unique)

	// Phase 2: streaming join, one line read, one line written.
	logger.Info("Joining reviews from %s into %s", req.ReviewsPath, req.OutputPath)
	reviewsIn, err := o.streams.OpenReader(req.ReviewsPath)
	if err != nil {
		return nil, fmt.Errorf("open review source: %w", err)
	}
	defer reviewsIn.Close()

	out, err := o.streams.CreateWriter(req.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("create output sink: %w", err)
	}

	joiner := NewJoiner(o.store, req.DropMissingMeta)
	stats, runErr := joiner.Run(ctx, reviewsIn, out)
	closeErr := out.Close()
	if runErr != nil {
		return nil, runErr
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close output sink: %w", closeErr)
	}

	if stats.MissingMeta > 0 {
		logger.Warn("%d reviews had no metadata entry", stats.MissingMeta)
	}
	logger.Info("Join complete: read=%d written=%d missing_meta=%d",
		stats.Read, stats.Written, stats.MissingMeta)

	return &driving.JoinSummary{Stats: stats, UniqueASINsMeta: unique}, nil
}
