package cachestore

import (
	"strings"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/common"
	"github.com/swiftgrasp/swiftgrasp/internal/models"
)

// Cache keys are canonical segment-joined strings. Every distinct request
// shape must map to a distinct key, so segments are fixed-position and
// dates are always formatted as 2006-01-02.

const keySeparator = "/"

const (
	kindStatements = "statements"
	kindPrices     = "prices"
	kindAnalysis   = "analysis"
	kindFigure     = "figure"
	kindFirstTrade = "firsttrade"
)

func joinKey(segments ...string) string {
	return strings.Join(segments, keySeparator)
}

func dateSegment(t time.Time) string {
	return t.Format("2006-01-02")
}

// StatementsKey identifies a fetched statement table.
func StatementsKey(ticker string, stmtType models.StatementType, granularity models.Granularity) string {
	return joinKey(kindStatements, common.NormalizeSymbol(ticker), string(stmtType), string(granularity))
}

// PricesKey identifies a fetched daily price series over [from, to].
func PricesKey(ticker string, from, to time.Time) string {
	return joinKey(kindPrices, common.NormalizeSymbol(ticker), dateSegment(from), dateSegment(to))
}

// AnalysisKey identifies a change analysis result.
func AnalysisKey(ticker string, anchor time.Time, granularity models.Granularity) string {
	return joinKey(kindAnalysis, common.NormalizeSymbol(ticker), dateSegment(anchor), string(granularity))
}

// FigureKey identifies a rendered analysis figure by artifact ID.
func FigureKey(id string) string {
	return joinKey(kindFigure, id)
}

// FirstTradeKey identifies a ticker's first trade date lookup.
func FirstTradeKey(ticker string) string {
	return joinKey(kindFirstTrade, common.NormalizeSymbol(ticker))
}
