package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/swiftgrasp/swiftgrasp/internal/common"
	"github.com/swiftgrasp/swiftgrasp/internal/interfaces"
	"github.com/swiftgrasp/swiftgrasp/internal/models"

	"github.com/ternarybob/arbor"
)

// Store is a get-or-compute cache over durable payload storage. It has no
// TTL and no eviction; entries stay until explicitly cleared. Concurrent
// computes for the same key are tolerated, the last overwrite wins.
type Store struct {
	storage interfaces.PayloadStorage
	logger  arbor.ILogger
}

// New creates a Store on top of a payload storage backend.
func New(storage interfaces.PayloadStorage) *Store {
	return &Store{
		storage: storage,
		logger:  common.GetLogger(),
	}
}

// GetOrCompute returns the cached payload for key, or invokes compute,
// stores its result and returns it. Compute errors are returned unwrapped
// so callers keep their sentinel semantics; nothing is stored on error.
func (s *Store) GetOrCompute(ctx context.Context, key string, compute func() ([]byte, error)) ([]byte, error) {
	payload, err := s.storage.Get(ctx, key)
	if err == nil {
		return payload, nil
	}
	if !errors.Is(err, interfaces.ErrKeyNotFound) {
		return nil, fmt.Errorf("cache read failed for %s: %w", key, err)
	}

	payload, err = compute()
	if err != nil {
		return nil, err
	}

	if err := s.storage.Put(ctx, key, payload); err != nil {
		return nil, fmt.Errorf("cache write failed for %s: %w", key, err)
	}

	s.logger.Debug().Str("key", key).Int("bytes", len(payload)).Msg("Cache entry computed")
	return payload, nil
}

// GetOrComputeValue is GetOrCompute for JSON-encoded values. A hit that no
// longer deserializes is treated as a miss and overwritten; corruption
// never surfaces to the caller.
func (s *Store) GetOrComputeValue(ctx context.Context, key string, out interface{}, compute func() (interface{}, error)) error {
	payload, err := s.storage.Get(ctx, key)
	if err == nil {
		if unmarshalErr := json.Unmarshal(payload, out); unmarshalErr == nil {
			return nil
		}
		// corrupt entry, fall through to recompute
		s.logger.Warn().Str("key", key).Err(models.ErrCacheCorrupt).Msg("Discarding unreadable cache entry")
	} else if !errors.Is(err, interfaces.ErrKeyNotFound) {
		return fmt.Errorf("cache read failed for %s: %w", key, err)
	}

	value, err := compute()
	if err != nil {
		return err
	}

	payload, err = json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode failed for %s: %w", key, err)
	}
	if err := s.storage.Put(ctx, key, payload); err != nil {
		return fmt.Errorf("cache write failed for %s: %w", key, err)
	}

	return json.Unmarshal(payload, out)
}

// Get returns the cached payload for key, or interfaces.ErrKeyNotFound.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	return s.storage.Get(ctx, key)
}

// Put stores a payload directly, bypassing compute.
func (s *Store) Put(ctx context.Context, key string, payload []byte) error {
	return s.storage.Put(ctx, key, payload)
}

// Clear removes every cached entry.
func (s *Store) Clear(ctx context.Context) error {
	count, err := s.storage.Count(ctx)
	if err != nil {
		return fmt.Errorf("cache clear failed: %w", err)
	}
	if err := s.storage.DeleteAll(ctx); err != nil {
		return fmt.Errorf("cache clear failed: %w", err)
	}

	s.logger.Info().Int("entries", count).Msg("Cache cleared")
	return nil
}

// Size returns the number of cached entries.
func (s *Store) Size(ctx context.Context) (int, error) {
	return s.storage.Count(ctx)
}
