package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned when a key is not found in the payload store
var ErrKeyNotFound = errors.New("key not found")

// PayloadEntry is a single cached artifact with metadata.
type PayloadEntry struct {
	Key       string    `json:"key"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PayloadStorage defines durable key -> payload persistence for the cache
// store. Implementations must tolerate concurrent writers to the same key
// via idempotent overwrite; no locking is required.
type PayloadStorage interface {
	// Get retrieves a payload by key, returns ErrKeyNotFound if absent
	Get(ctx context.Context, key string) ([]byte, error)

	// GetEntry retrieves a full PayloadEntry by key
	GetEntry(ctx context.Context, key string) (*PayloadEntry, error)

	// Put inserts or overwrites a payload for a key
	Put(ctx context.Context, key string, payload []byte) error

	// Delete removes an entry, returns ErrKeyNotFound if absent
	Delete(ctx context.Context, key string) error

	// DeleteAll removes every entry from storage
	DeleteAll(ctx context.Context) error

	// Keys returns all stored keys
	Keys(ctx context.Context) ([]string, error)

	// Count returns the number of stored entries
	Count(ctx context.Context) (int, error)
}

// StorageManager provides access to the storage backends and owns the
// underlying database connection.
type StorageManager interface {
	PayloadStorage() PayloadStorage
	Close() error
}
