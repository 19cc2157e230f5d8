package handlers

import (
	"net/http"

	"github.com/swiftgrasp/swiftgrasp/internal/catalog"
	"github.com/swiftgrasp/swiftgrasp/internal/resolver"

	"github.com/ternarybob/arbor"
)

// CatalogHandler serves the listing catalog and ticker resolution.
type CatalogHandler struct {
	catalog  *catalog.Catalog
	resolver *resolver.Resolver
	logger   arbor.ILogger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(cat *catalog.Catalog, res *resolver.Resolver, logger arbor.ILogger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  cat,
		resolver: res,
		logger:   logger,
	}
}

// tickerEntry is the dropdown-friendly listing shape.
type tickerEntry struct {
	Ticker      string `json:"ticker"`
	CompanyName string `json:"company_name"`
	Exchange    string `json:"exchange"`
}

// TickersHandler handles GET /api/tickers
func (h *CatalogHandler) TickersHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	records := h.catalog.All()
	entries := make([]tickerEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, tickerEntry{
			Ticker:      record.Ticker,
			CompanyName: record.CompanyName,
			Exchange:    string(record.Exchange),
		})
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(entries),
		"tickers": entries,
	})
}

// ResolveHandler handles GET /api/resolve?q=
func (h *CatalogHandler) ResolveHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	// an unmatchable input is an empty candidate list, never an error
	resolved := h.resolver.Resolve(query)
	WriteJSON(w, http.StatusOK, resolved)
}
