package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// UI page
	mux.HandleFunc("/", s.app.PageHandler.IndexHandler)

	// API routes - catalog and resolution
	mux.HandleFunc("/api/tickers", s.app.CatalogHandler.TickersHandler)
	mux.HandleFunc("/api/resolve", s.app.CatalogHandler.ResolveHandler)

	// API routes - market data
	mux.HandleFunc("/api/statements", s.app.MarketDataHandler.StatementsHandler)
	mux.HandleFunc("/api/prices", s.app.MarketDataHandler.PricesHandler)

	// API routes - change analysis
	mux.HandleFunc("/api/analysis", s.app.AnalysisHandler.AnalyzeHandler)
	mux.HandleFunc("/api/analysis/anchors", s.app.AnalysisHandler.AnchorsHandler)
	mux.HandleFunc("/api/analysis/figure", s.app.AnalysisHandler.FigureHandler)

	// API routes - cache administration
	mux.HandleFunc("/api/cache", s.app.CacheHandler.ClearHandler)

	// API routes - application status
	mux.HandleFunc("/api/status", s.app.StatusHandler.GetStatusHandler)
	mux.HandleFunc("/api/health", s.app.StatusHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.StatusHandler.VersionHandler)

	return mux
}
