package handlers

import (
	"net/http"

	"github.com/swiftgrasp/swiftgrasp/internal/services/cachestore"

	"github.com/ternarybob/arbor"
)

// CacheHandler exposes manual cache invalidation.
type CacheHandler struct {
	cache  *cachestore.Store
	logger arbor.ILogger
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(cache *cachestore.Store, logger arbor.ILogger) *CacheHandler {
	return &CacheHandler{
		cache:  cache,
		logger: logger,
	}
}

// ClearHandler handles DELETE /api/cache
func (h *CacheHandler) ClearHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	if err := h.cache.Clear(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("Cache clear failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(w, "cache cleared")
}
