package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// BlobStore is the persistence collaborator: an opaque mapping from a
// collection key to a JSON blob. Get returns (nil, nil) when the key has
// never been written.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, blob []byte) error
}

// PostgresBlobStore keeps each collection as a single row in the
// collections table.
type PostgresBlobStore struct {
	db *sqlx.DB
}

// NewPostgresBlobStore creates a new PostgreSQL-backed blob store
func NewPostgresBlobStore(db *sqlx.DB) *PostgresBlobStore {
	return &PostgresBlobStore{
		db: db,
	}
}

func (s *PostgresBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT data FROM collections WHERE key = $1`

	var blob []byte
	err := s.db.GetContext(ctx, &blob, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Collection not written yet
		}
		return nil, err
	}

	return blob, nil
}

func (s *PostgresBlobStore) Set(ctx context.Context, key string, blob []byte) error {
	query := `
		INSERT INTO collections (key, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, key, blob, time.Now().UTC())
	return err
}

// MemoryBlobStore is an in-process BlobStore used by tests.
type MemoryBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryBlobStore creates an empty in-memory blob store
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		blobs: make(map[string][]byte),
	}
}

func (s *MemoryBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, ok := s.blobs[key]
	if !ok {
		return nil, nil
	}

	// Copy so callers can't mutate the stored blob
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

func (s *MemoryBlobStore) Set(ctx context.Context, key string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(blob))
	copy(stored, blob)
	s.blobs[key] = stored
	return nil
}
