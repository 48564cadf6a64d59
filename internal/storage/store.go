package storage

import (
	"context"
	"errors"
)

// Record is one row of the key-sorted store. PK partitions records, SK orders
// them within a partition, and Attrs carries the entity's flat string fields.
type Record struct {
	PK    string
	SK    string
	Attrs map[string]string
}

var ErrNotFound = errors.New("record not found")

// Store is the narrow key-sorted interface the booking core runs against.
// Query must return records in ascending sort-key order, and reads must see
// the latest committed state at call time (no caching layer in between).
// Writes are atomic per record; nothing here spans two records.
type Store interface {
	Get(ctx context.Context, pk, sk string) (Record, error)
	Query(ctx context.Context, pk, skPrefix string) ([]Record, error)
	Put(ctx context.Context, rec Record) error
	Delete(ctx context.Context, pk, sk string) (bool, error)
}
