package handlers

import (
	"net/http"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/models"
	"github.com/swiftgrasp/swiftgrasp/internal/services/marketdata"

	"github.com/ternarybob/arbor"
)

// MarketDataHandler serves financial statements and price history.
type MarketDataHandler struct {
	service *marketdata.Service
	logger  arbor.ILogger
}

// NewMarketDataHandler creates a new MarketDataHandler.
func NewMarketDataHandler(service *marketdata.Service, logger arbor.ILogger) *MarketDataHandler {
	return &MarketDataHandler{
		service: service,
		logger:  logger,
	}
}

// StatementsHandler handles GET /api/statements?ticker=&type=&granularity=
func (h *MarketDataHandler) StatementsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "query parameter 'ticker' is required")
		return
	}

	stmtType, err := parseStatementType(r.URL.Query().Get("type"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	granularity, err := parseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	table, err := h.service.FetchStatements(r.Context(), ticker, stmtType, granularity)
	if err != nil {
		h.logger.Warn().Str("ticker", ticker).Err(err).Msg("Statement fetch failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, table)
}

// PricesHandler handles GET /api/prices?ticker=&from=&to=
func (h *MarketDataHandler) PricesHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "query parameter 'ticker' is required")
		return
	}

	// default range: the trailing year
	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(-1, 0, 0)

	var err error
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid 'from' date, expected YYYY-MM-DD")
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid 'to' date, expected YYYY-MM-DD")
			return
		}
	}
	if !to.After(from) {
		WriteError(w, http.StatusBadRequest, "'from' must be before 'to'")
		return
	}

	prices, err := h.service.FetchPrices(r.Context(), ticker, from, to)
	if err != nil {
		h.logger.Warn().Str("ticker", ticker).Err(err).Msg("Price fetch failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, prices)
}

// parseStatementType parses the type parameter, defaulting to balance.
func parseStatementType(value string) (models.StatementType, error) {
	if value == "" {
		return models.StatementBalance, nil
	}
	return models.ParseStatementType(value)
}

// parseGranularity parses the granularity parameter, defaulting to quarterly.
func parseGranularity(value string) (models.Granularity, error) {
	if value == "" {
		return models.GranularityQuarterly, nil
	}
	return models.ParseGranularity(value)
}
