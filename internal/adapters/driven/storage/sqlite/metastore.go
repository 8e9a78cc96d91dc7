// Package sqlite provides a disk-backed metadata index for metadata
// datasets that do not fit in memory. It implements the same
// MetadataStore contract as the in-memory map: built once, read-only
// afterwards, scoped to a single run.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/embedprep-cli/internal/core/domain"
	"github.com/custodia-labs/embedprep-cli/internal/core/ports/driven"
)

// Ensure MetadataStore implements the interface.
var _ driven.MetadataStore = (*MetadataStore)(nil)

// MetadataStore is a SQLite-backed implementation of driven.MetadataStore.
// Records are serialised as JSON in a single ASIN-keyed table.
type MetadataStore struct {
	db        *sql.DB
	path      string
	ephemeral bool
}

// NewMetadataStore creates a SQLite metadata store at path. An empty
// path selects a temporary database file that is removed on Close, so
// no state persists between runs.
func NewMetadataStore(path string) (*MetadataStore, error) {
	ephemeral := path == ""
	if ephemeral {
		path = filepath.Join(os.TempDir(), fmt.Sprintf("embedprep-index-%s.db", uuid.New().String()))
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(OFF)")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS product_metadata (
			asin   TEXT PRIMARY KEY,
			record TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating product_metadata table: %w", err)
	}

	return &MetadataStore{db: db, path: path, ephemeral: ephemeral}, nil
}

// Path returns the database file path.
func (s *MetadataStore) Path() string {
	return s.path
}

// Put stores or replaces the record for its ASIN.
func (s *MetadataStore) Put(ctx context.Context, rec domain.ProductMetadata) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding metadata record: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO product_metadata (asin, record) VALUES (?, ?)
		ON CONFLICT(asin) DO UPDATE SET record = excluded.record
	`, rec.ASIN, string(payload))
	if err != nil {
		return fmt.Errorf("storing metadata record: %w", err)
	}
	return nil
}

// Get retrieves the record for an ASIN.
func (s *MetadataStore) Get(ctx context.Context, asin string) (*domain.ProductMetadata, error) {
	var payload string
	row := s.db.QueryRowContext(ctx, "SELECT record FROM product_metadata WHERE asin = ?", asin)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("loading metadata record: %w", err)
	}

	var rec domain.ProductMetadata
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, fmt.Errorf("decoding metadata record: %w", err)
	}
	return &rec, nil
}

// Len returns the number of unique ASINs stored.
func (s *MetadataStore) Len(ctx context.Context) (int, error) {
	var n int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM product_metadata")
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("counting metadata records: %w", err)
	}
	return n, nil
}

// Close closes the database and removes the file if it was ephemeral.
func (s *MetadataStore) Close() error {
	err := s.db.Close()
	if s.ephemeral {
		if rmErr := os.Remove(s.path); rmErr != nil && err == nil && !os.IsNotExist(rmErr) {
			err = rmErr
		}
		// WAL sidecars are best effort.
		os.Remove(s.path + "-wal")
		os.Remove(s.path + "-shm")
	}
	return err
}
