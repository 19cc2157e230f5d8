package badger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/interfaces"

	"github.com/timshannon/badgerhold/v4"
)

// PayloadStorage is the badgerhold-backed implementation of
// interfaces.PayloadStorage.
type PayloadStorage struct {
	store *badgerhold.Store
}

// NewPayloadStorage creates a payload storage backend on top of an open
// badgerhold store.
func NewPayloadStorage(store *badgerhold.Store) *PayloadStorage {
	return &PayloadStorage{store: store}
}

// normalizeKey trims surrounding whitespace; keys are otherwise stored
// verbatim so the cache key builder stays the single source of key shape.
func normalizeKey(key string) string {
	return strings.TrimSpace(key)
}

func (s *PayloadStorage) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.GetEntry(ctx, key)
	if err != nil {
		return nil, err
	}
	return entry.Payload, nil
}

func (s *PayloadStorage) GetEntry(_ context.Context, key string) (*interfaces.PayloadEntry, error) {
	key = normalizeKey(key)
	if key == "" {
		return nil, fmt.Errorf("key cannot be empty")
	}

	var entry interfaces.PayloadEntry
	if err := s.store.Get(key, &entry); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, interfaces.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get entry %s: %w", key, err)
	}
	return &entry, nil
}

func (s *PayloadStorage) Put(ctx context.Context, key string, payload []byte) error {
	key = normalizeKey(key)
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	now := time.Now().UTC()
	entry := interfaces.PayloadEntry{
		Key:       key,
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Preserve CreatedAt across overwrites
	if existing, err := s.GetEntry(ctx, key); err == nil {
		entry.CreatedAt = existing.CreatedAt
	}

	if err := s.store.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to put entry %s: %w", key, err)
	}
	return nil
}

func (s *PayloadStorage) Delete(_ context.Context, key string) error {
	key = normalizeKey(key)
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if err := s.store.Delete(key, &interfaces.PayloadEntry{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return interfaces.ErrKeyNotFound
		}
		return fmt.Errorf("failed to delete entry %s: %w", key, err)
	}
	return nil
}

func (s *PayloadStorage) DeleteAll(_ context.Context) error {
	if err := s.store.DeleteMatching(&interfaces.PayloadEntry{}, nil); err != nil {
		return fmt.Errorf("failed to delete all entries: %w", err)
	}
	return nil
}

func (s *PayloadStorage) Keys(_ context.Context) ([]string, error) {
	var entries []interfaces.PayloadEntry
	if err := s.store.Find(&entries, nil); err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, entry.Key)
	}
	return keys, nil
}

func (s *PayloadStorage) Count(_ context.Context) (int, error) {
	count, err := s.store.Count(&interfaces.PayloadEntry{}, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return int(count), nil
}
