package driven

import (
	"context"

	"github.com/custodia-labs/embedprep-cli/internal/core/domain"
)

// MetadataStore is the ASIN-keyed product metadata index.
//
// The index builder calls Put for every retained metadata row; the join
// pipeline then only calls Get and Len. Implementations must apply
// last-write-wins semantics for duplicate ASINs. The store is scoped to a
// single run and must not persist state past Close.
type MetadataStore interface {
	// Put stores or replaces the record for its ASIN.
	Put(ctx context.Context, rec domain.ProductMetadata) error

	// Get returns the record for an ASIN, or domain.ErrNotFound.
	Get(ctx context.Context, asin string) (*domain.ProductMetadata, error)

	// Len returns the number of unique ASINs stored.
	Len(ctx context.Context) (int, error)

	// Close releases the store's resources.
	Close() error
}
