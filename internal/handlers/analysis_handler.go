package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/interfaces"
	"github.com/swiftgrasp/swiftgrasp/internal/services/analysis"

	"github.com/ternarybob/arbor"
)

// AnalysisHandler serves change analyses and their rendered figures.
type AnalysisHandler struct {
	service *analysis.Service
	logger  arbor.ILogger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(service *analysis.Service, logger arbor.ILogger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		logger:  logger,
	}
}

// analyzeRequest is the POST /api/analysis body.
type analyzeRequest struct {
	Ticker      string `json:"ticker"`
	AnchorDate  string `json:"anchor_date"`
	Granularity string `json:"granularity"`
}

// AnalyzeHandler handles POST /api/analysis
func (h *AnalysisHandler) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Ticker == "" {
		WriteError(w, http.StatusBadRequest, "'ticker' is required")
		return
	}
	anchor, err := time.Parse("2006-01-02", req.AnchorDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "invalid 'anchor_date', expected YYYY-MM-DD")
		return
	}
	granularity, err := parseGranularity(req.Granularity)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Analyze(r.Context(), req.Ticker, anchor, granularity)
	if err != nil {
		h.logger.Warn().Str("ticker", req.Ticker).Err(err).Msg("Analysis failed")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// AnchorsHandler handles GET /api/analysis/anchors?ticker=&granularity=
func (h *AnalysisHandler) AnchorsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	ticker := r.URL.Query().Get("ticker")
	if ticker == "" {
		WriteError(w, http.StatusBadRequest, "query parameter 'ticker' is required")
		return
	}
	granularity, err := parseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	anchors, err := h.service.AnchorDates(r.Context(), ticker, granularity)
	if err != nil {
		h.logger.Warn().Str("ticker", ticker).Err(err).Msg("Anchor listing failed")
		WriteServiceError(w, err)
		return
	}

	dates := make([]string, 0, len(anchors))
	for _, anchor := range anchors {
		dates = append(dates, anchor.Format("2006-01-02"))
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":      ticker,
		"granularity": string(granularity),
		"anchors":     dates,
	})
}

// FigureHandler handles GET /api/analysis/figure?id=
func (h *AnalysisHandler) FigureHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "query parameter 'id' is required")
		return
	}

	figure, err := h.service.Figure(r.Context(), id)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			WriteError(w, http.StatusNotFound, "no figure for id "+id)
			return
		}
		WriteServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", analysis.FigureContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(figure)
}
