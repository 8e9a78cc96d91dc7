package driving

import (
	"context"

	"github.com/custodia-labs/embedprep-cli/internal/core/domain"
)

// JoinRequest carries everything one join run needs. All knobs are
// explicit parameters; there is no configuration file and no environment.
type JoinRequest struct {
	// MetaPath is the product-metadata JSONL source (optionally .gz/.zst).
	MetaPath string

	// ReviewsPath is the review JSONL source (optionally .gz/.zst).
	ReviewsPath string

	// OutputPath is the JSONL sink. A .gz/.zst suffix compresses output.
	OutputPath string

	// DropMissingMeta skips reviews whose ASIN has no metadata entry,
	// counting them in JoinStats.MissingMeta. When false such reviews
	// are emitted with an empty metadata fallback. Default true.
	DropMissingMeta bool

	// MaxMetaRows truncates metadata ingestion after that many input
	// lines (not retained rows). Zero means no cap.
	MaxMetaRows int

	// KeepFields overrides the projected metadata field set.
	// Nil selects the default set.
	KeepFields []string
}

// JoinSummary is the run result printed on success.
type JoinSummary struct {
	Stats           domain.JoinStats `json:"stats"`
	UniqueASINsMeta int              `json:"unique_asins_meta"`
}

// JoinRunner executes one complete metadata/review join run:
// build the metadata index to completion, then stream the reviews
// through the join and emit one record per accepted review.
type JoinRunner interface {
	Run(ctx context.Context, req JoinRequest) (*JoinSummary, error)
}
