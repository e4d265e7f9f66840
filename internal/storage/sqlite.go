package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/getto-dev/smeta/internal/db"
)

// Namespace is the fixed key under which the invoice snapshot is stored.
// It matches the storage key of earlier releases, so existing data survives.
const Namespace = "santech-storage"

// SnapshotRepo is a SQLite implementation of SnapshotStore
type SnapshotRepo struct {
	db        *db.DB
	namespace string
}

// NewSnapshotRepo creates a new SnapshotRepo
func NewSnapshotRepo(database *db.DB) *SnapshotRepo {
	return &SnapshotRepo{db: database, namespace: Namespace}
}

// Load reads the persisted snapshot payload
func (r *SnapshotRepo) Load(ctx context.Context) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		"SELECT payload FROM snapshots WHERE namespace = ?", r.namespace,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return []byte(payload), nil
}

// Save upserts the snapshot payload
func (r *SnapshotRepo) Save(ctx context.Context, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (namespace, payload, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(namespace) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, r.namespace, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// CatalogCacheRepo is a SQLite implementation of CatalogCache
type CatalogCacheRepo struct {
	db *db.DB
}

// NewCatalogCacheRepo creates a new CatalogCacheRepo
func NewCatalogCacheRepo(database *db.DB) *CatalogCacheRepo {
	return &CatalogCacheRepo{db: database}
}

// LoadFeed reads the last cached catalog feed
func (r *CatalogCacheRepo) LoadFeed(ctx context.Context) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		"SELECT payload FROM catalog_cache WHERE id = 1",
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoCachedFeed
		}
		return nil, fmt.Errorf("failed to load cached catalog: %w", err)
	}
	return []byte(payload), nil
}

// SaveFeed upserts the cached catalog feed (singleton row)
func (r *CatalogCacheRepo) SaveFeed(ctx context.Context, payload []byte, updated string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO catalog_cache (id, payload, updated, fetched_at)
		VALUES (1, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			updated = excluded.updated,
			fetched_at = excluded.fetched_at
	`, string(payload), updated)
	if err != nil {
		return fmt.Errorf("failed to cache catalog: %w", err)
	}
	return nil
}
