package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/custodia-labs/embedprep-cli/internal/core/domain"
	"github.com/custodia-labs/embedprep-cli/internal/core/ports/driven"
	"github.com/custodia-labs/embedprep-cli/internal/logger"
	"github.com/custodia-labs/embedprep-cli/internal/normalisers/date"
)

// Joiner streams the review dataset once, joins each row against the
// metadata index and emits one JSON line per accepted review, in input
// order. It holds no per-review state: memory use is constant regardless
// of review dataset size.
type Joiner struct {
	store       driven.MetadataStore
	dropMissing bool
}

// NewJoiner creates a joiner over a fully built metadata store.
// dropMissing selects the inclusion policy for reviews whose ASIN has no
// metadata entry: drop and count, or emit with an empty metadata fallback.
func NewJoiner(store driven.MetadataStore, dropMissing bool) *Joiner {
	return &Joiner{store: store, dropMissing: dropMissing}
}

// Run processes every review line from r and writes accepted records to
// w. Counters: Read counts non-blank lines, Written counts emitted
// records, MissingMeta counts rows dropped by the missing-metadata
// policy. Rows without an ASIN are counted as read and skipped silently.
//
// Malformed JSON framing is fatal, identical to the metadata policy.
func (j *Joiner) Run(ctx context.Context, r io.Reader, w io.Writer) (domain.JoinStats, error) {
	var stats domain.JoinStats

	scanner := newLineScanner(r)
	enc := json.NewEncoder(w)
	// Keep raw review text byte-identical in the output; the sink is a
	// file, not a browser.
	enc.SetEscapeHTML(false)

	lineNo := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		lineNo++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		stats.Read++

		var rev domain.Review
		if err := json.Unmarshal(line, &rev); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				return stats, fmt.Errorf("review line %d: %w: %v", lineNo, domain.ErrMalformedLine, err)
			}
			// A mistyped field value is not broken framing: the field
			// degrades to null and the rest of the row is kept.
			logger.Debug("review line %d: field %s has unexpected type, dropped", lineNo, typeErr.Field)
		}
		if rev.ASIN == "" {
			continue
		}

		meta, err := j.store.Get(ctx, rev.ASIN)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return stats, fmt.Errorf("lookup metadata for %s: %w", rev.ASIN, err)
			}
			if j.dropMissing {
				stats.MissingMeta++
				continue
			}
			meta = nil
		}

		if err := enc.Encode(buildRecord(meta, &rev)); err != nil {
			return stats, fmt.Errorf("write record at line %d: %w", lineNo, err)
		}
		stats.Written++

		if stats.Read%progressInterval == 0 {
			logger.Debug("processed %d review lines", stats.Read)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("reading review source: %w", err)
	}

	return stats, nil
}

// buildRecord assembles the output unit for one accepted review.
// meta is nil when the review had no metadata entry and the
// keep-missing-metadata policy is active.
func buildRecord(meta *domain.ProductMetadata, rev *domain.Review) domain.JoinedRecord {
	recordMeta := domain.RecordMeta{
		ReviewTime:    date.Resolve(rev.ReviewTime, rev.UnixReviewTime),
		Rating:        rev.Overall,
		Verified:      rev.Verified,
		ReviewSummary: rev.Summary,
		ReviewText:    rev.ReviewText,
	}
	if meta != nil {
		recordMeta.ProductTitle = meta.Title
		recordMeta.Brand = meta.Brand
		recordMeta.MainCat = meta.MainCat
		recordMeta.Categories = meta.Categories
		recordMeta.Price = meta.Price
		recordMeta.AlsoBuy = meta.AlsoBuy
		recordMeta.AlsoView = meta.AlsoView
	}

	return domain.JoinedRecord{
		ID:            rev.RecordID(),
		ASIN:          rev.ASIN,
		EmbeddingText: BuildEmbeddingText(meta, rev),
		Meta:          recordMeta,
	}
}
