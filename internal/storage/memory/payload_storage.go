// Package memory provides an in-memory PayloadStorage used by tests and
// ephemeral runs where no durable cache is wanted.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/interfaces"
)

// PayloadStorage is a map-backed interfaces.PayloadStorage. Safe for
// concurrent use.
type PayloadStorage struct {
	mu      sync.RWMutex
	entries map[string]interfaces.PayloadEntry
}

// NewPayloadStorage creates an empty in-memory payload storage.
func NewPayloadStorage() *PayloadStorage {
	return &PayloadStorage{
		entries: make(map[string]interfaces.PayloadEntry),
	}
}

func (s *PayloadStorage) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.GetEntry(ctx, key)
	if err != nil {
		return nil, err
	}
	return entry.Payload, nil
}

func (s *PayloadStorage) GetEntry(_ context.Context, key string) (*interfaces.PayloadEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, interfaces.ErrKeyNotFound
	}
	copied := entry
	copied.Payload = append([]byte(nil), entry.Payload...)
	return &copied, nil
}

func (s *PayloadStorage) Put(_ context.Context, key string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	entry := interfaces.PayloadEntry{
		Key:       key,
		Payload:   append([]byte(nil), payload...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, ok := s.entries[key]; ok {
		entry.CreatedAt = existing.CreatedAt
	}
	s.entries[key] = entry
	return nil
}

func (s *PayloadStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return interfaces.ErrKeyNotFound
	}
	delete(s.entries, key)
	return nil
}

func (s *PayloadStorage) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]interfaces.PayloadEntry)
	return nil
}

func (s *PayloadStorage) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *PayloadStorage) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries), nil
}
