package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/custodia-labs/embedprep-cli/internal/core/domain"
	"github.com/custodia-labs/embedprep-cli/internal/core/ports/driven"
	"github.com/custodia-labs/embedprep-cli/internal/logger"
	"github.com/custodia-labs/embedprep-cli/internal/normalisers/price"
	"github.com/custodia-labs/embedprep-cli/internal/normalisers/text"
)

// DefaultKeepFields is the metadata field set projected into the index
// when no override is given.
var DefaultKeepFields = []string{"title", "brand", "main_cat", "category", "price", "rank"}

// IndexBuilder streams the metadata dataset once and fills a
// MetadataStore with field-projected, normalised records.
type IndexBuilder struct {
	keep    map[string]bool
	maxRows int
}

// NewIndexBuilder creates an index builder. keepFields selects which
// source fields are projected (nil means DefaultKeepFields); maxRows
// truncates ingestion after that many input lines, zero meaning no cap.
func NewIndexBuilder(keepFields []string, maxRows int) *IndexBuilder {
	if keepFields == nil {
		keepFields = DefaultKeepFields
	}
	keep := make(map[string]bool, len(keepFields))
	for _, f := range keepFields {
		keep[f] = true
	}
	return &IndexBuilder{keep: keep, maxRows: maxRows}
}

// metadataRow is the wire shape of one metadata source line. Category
// and price arrive in more than one JSON type, so they decode raw.
type metadataRow struct {
	ASIN     string          `json:"asin"`
	Title    *string         `json:"title"`
	Brand    *string         `json:"brand"`
	MainCat  *string         `json:"main_cat"`
	Category json.RawMessage `json:"category"`
	Price    json.RawMessage `json:"price"`
	Rank     json.RawMessage `json:"rank"`
	AlsoBuy  []string        `json:"also_buy"`
	AlsoView []string        `json:"also_view"`
}

// Build reads one JSON object per non-blank line from r and stores the
// projection of every row that carries an ASIN. Rows without an ASIN are
// skipped without being counted; duplicate ASINs apply last-write-wins.
//
// Malformed JSON framing is fatal for the whole run. Malformed field
// values are not: they degrade to absent during projection.
func (b *IndexBuilder) Build(ctx context.Context, r io.Reader, store driven.MetadataStore) error {
	scanner := newLineScanner(r)

	lineNo := 0
	stored := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var row metadataRow
		if err := json.Unmarshal(line, &row); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				return fmt.Errorf("metadata line %d: %w: %v", lineNo, domain.ErrMalformedLine, err)
			}
			// A mistyped field value is not broken framing: the field
			// degrades to absent and the rest of the row is kept.
			logger.Debug("metadata line %d: field %s has unexpected type, dropped", lineNo, typeErr.Field)
		}
		if row.ASIN == "" {
			continue
		}

		if err := store.Put(ctx, b.project(row)); err != nil {
			return fmt.Errorf("store metadata for %s: %w", row.ASIN, err)
		}
		stored++

		if stored%progressInterval == 0 {
			logger.Debug("indexed %d metadata rows", stored)
		}
		if b.maxRows > 0 && lineNo >= b.maxRows {
			logger.Info("metadata row cap reached at line %d", lineNo)
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading metadata source: %w", err)
	}

	logger.Debug("metadata index complete: %d rows retained from %d lines", stored, lineNo)
	return nil
}

// project copies the kept fields of a source row into a domain record,
// normalising as it goes: text fields are sanitised, the price is parsed
// tolerantly and a scalar category becomes a one-element sequence.
func (b *IndexBuilder) project(row metadataRow) domain.ProductMetadata {
	rec := domain.ProductMetadata{ASIN: row.ASIN}

	if b.keep["title"] && row.Title != nil {
		s := text.Sanitise(*row.Title)
		rec.Title = &s
	}
	if b.keep["brand"] && row.Brand != nil {
		s := text.Sanitise(*row.Brand)
		rec.Brand = &s
	}
	if b.keep["main_cat"] && row.MainCat != nil {
		s := text.Sanitise(*row.MainCat)
		rec.MainCat = &s
	}
	if b.keep["category"] {
		rec.Categories = parseCategories(row.Category)
	}
	if b.keep["price"] {
		rec.Price = parsePrice(row.Price)
	}
	if b.keep["rank"] && rawPresent(row.Rank) {
		// Rank stays in source representation; no normalisation.
		rec.Rank = row.Rank
	}
	if b.keep["also_buy"] {
		rec.AlsoBuy = row.AlsoBuy
	}
	if b.keep["also_view"] {
		rec.AlsoView = row.AlsoView
	}
	return rec
}

// parseCategories normalises the category field so downstream consumers
// always see a sequence: a scalar category becomes a one-element slice.
// Unusable shapes degrade to nil.
func parseCategories(raw json.RawMessage) []string {
	if !rawPresent(raw) {
		return nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{text.Sanitise(single)}
	}

	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		for i, c := range many {
			many[i] = text.Sanitise(c)
		}
		return many
	}
	return nil
}

// parsePrice coerces the noisy price field to a string and runs the
// tolerant extractor. Numeric zero is treated as absent, mirroring the
// empty-string case.
func parsePrice(raw json.RawMessage) *float64 {
	if !rawPresent(raw) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return price.Parse(s)
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		if v == 0 {
			return nil
		}
		return price.Parse(strconv.FormatFloat(v, 'f', -1, 64))
	}
	return nil
}

func rawPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}
