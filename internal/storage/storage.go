package storage

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by Load when nothing has been persisted yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// ErrNoCachedFeed is returned by LoadFeed when no catalog feed has been cached.
var ErrNoCachedFeed = errors.New("no cached catalog feed")

// SnapshotStore persists the serialized invoice snapshot. The store writes
// through this port after every mutation and reads it back once on startup.
type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
}

// CatalogCache keeps the last successfully fetched catalog feed so browsing
// still works offline.
type CatalogCache interface {
	LoadFeed(ctx context.Context) ([]byte, error)
	SaveFeed(ctx context.Context, payload []byte, updated string) error
}
