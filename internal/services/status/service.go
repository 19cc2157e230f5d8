package status

import (
	"context"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/catalog"
	"github.com/swiftgrasp/swiftgrasp/internal/common"
	"github.com/swiftgrasp/swiftgrasp/internal/services/cachestore"
)

// Status is the application status snapshot served by /api/status.
type Status struct {
	State        string    `json:"state"`
	Version      string    `json:"version"`
	Environment  string    `json:"environment"`
	StartedAt    time.Time `json:"started_at"`
	Uptime       string    `json:"uptime"`
	CatalogSize  int       `json:"catalog_size"`
	CacheEntries int       `json:"cache_entries"`
}

// Service reports application status.
type Service struct {
	environment string
	catalog     *catalog.Catalog
	cache       *cachestore.Store
	startedAt   time.Time
}

// NewService creates the status service.
func NewService(environment string, cat *catalog.Catalog, cache *cachestore.Store) *Service {
	return &Service{
		environment: environment,
		catalog:     cat,
		cache:       cache,
		startedAt:   time.Now().UTC(),
	}
}

// GetStatus returns the current status snapshot. Cache metrics are best
// effort; a storage error leaves the count at zero rather than failing the
// status call.
func (s *Service) GetStatus(ctx context.Context) *Status {
	cacheEntries, err := s.cache.Size(ctx)
	if err != nil {
		cacheEntries = 0
	}

	return &Status{
		State:        "running",
		Version:      common.GetVersion(),
		Environment:  s.environment,
		StartedAt:    s.startedAt,
		Uptime:       time.Since(s.startedAt).Round(time.Second).String(),
		CatalogSize:  s.catalog.Len(),
		CacheEntries: cacheEntries,
	}
}
