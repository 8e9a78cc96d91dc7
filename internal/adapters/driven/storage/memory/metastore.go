// Package memory provides the default in-memory metadata index. It is a
// plain key-value map with no eviction: the whole metadata projection
// must fit in memory, which is the pipeline's principal scalability
// constraint. The sqlite package offers a disk-backed alternative with
// the same contract.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/embedprep-cli/internal/core/domain"
	"github.com/custodia-labs/embedprep-cli/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

// MetadataStore is an in-memory implementation of driven.MetadataStore.
type MetadataStore struct {
	mu    sync.RWMutex
	items map[string]domain.ProductMetadata
}

// NewMetadataStore creates a new in-memory metadata store.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{
		items: make(map[string]domain.ProductMetadata),
	}
}

// Put stores or replaces the record for its ASIN.
func (s *MetadataStore) Put(_ context.Context, rec domain.ProductMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.items == nil {
		return domain.ErrStoreClosed
	}
	s.items[rec.ASIN] = rec
	return nil
}

// Get retrieves the record for an ASIN.
func (s *MetadataStore) Get(_ context.Context, asin string) (*domain.ProductMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.items[asin]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// Len returns the number of unique ASINs stored.
func (s *MetadataStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

// Close releases the map.
func (s *MetadataStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}
