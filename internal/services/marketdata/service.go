package marketdata

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/catalog"
	"github.com/swiftgrasp/swiftgrasp/internal/common"
	"github.com/swiftgrasp/swiftgrasp/internal/models"
	"github.com/swiftgrasp/swiftgrasp/internal/services/cachestore"
	"github.com/swiftgrasp/swiftgrasp/internal/yahoo"

	"github.com/ternarybob/arbor"
)

// Provider is the market data source the gateway pulls from. Satisfied by
// *yahoo.Client; tests substitute a deterministic stub.
type Provider interface {
	Chart(ctx context.Context, symbol string, from, to time.Time) (*yahoo.ChartResult, error)
	FundamentalsTimeseries(ctx context.Context, symbol string, metrics []string, from, to time.Time) ([]yahoo.Series, error)
}

// Service is the market data gateway. It validates tickers against the
// catalog before any provider contact, retries transient failures once,
// and serves every fetch read-through from the cache.
type Service struct {
	provider Provider
	catalog  *catalog.Catalog
	cache    *cachestore.Store
	logger   arbor.ILogger
}

// NewService creates the market data gateway.
func NewService(provider Provider, cat *catalog.Catalog, cache *cachestore.Store) *Service {
	return &Service{
		provider: provider,
		catalog:  cat,
		cache:    cache,
		logger:   common.GetLogger(),
	}
}

// fundamentalsEpoch bounds how far back statement history is requested.
var fundamentalsEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// FetchStatements returns the statement table for a ticker, rows ordered
// by period end date descending.
func (s *Service) FetchStatements(ctx context.Context, ticker string, stmtType models.StatementType, granularity models.Granularity) (*models.StatementTable, error) {
	record, ok := s.catalog.Lookup(ticker)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownTicker, ticker)
	}

	key := cachestore.StatementsKey(record.Ticker, stmtType, granularity)
	var table models.StatementTable
	err := s.cache.GetOrComputeValue(ctx, key, &table, func() (interface{}, error) {
		return s.fetchStatements(ctx, record.Ticker, stmtType, granularity)
	})
	if err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("%w: no %s %s statements for %s", models.ErrNoData, granularity, stmtType, record.Ticker)
	}
	return &table, nil
}

func (s *Service) fetchStatements(ctx context.Context, ticker string, stmtType models.StatementType, granularity models.Granularity) (*models.StatementTable, error) {
	metrics := yahoo.PrefixedMetrics(granularityPrefix(granularity), statementMetrics(stmtType))

	var series []yahoo.Series
	err := s.withRetry(ctx, func() error {
		var fetchErr error
		series, fetchErr = s.provider.FundamentalsTimeseries(ctx, ticker, metrics, fundamentalsEpoch, time.Now())
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	table := &models.StatementTable{
		Ticker:        ticker,
		StatementType: stmtType,
		Granularity:   granularity,
		FetchedAt:     time.Now().UTC(),
	}

	// Pivot per-metric series into per-period rows.
	byPeriod := make(map[time.Time]map[string]float64)
	for _, metric := range series {
		name := strings.TrimPrefix(metric.Type, granularityPrefix(granularity))
		for _, point := range metric.Points {
			period := point.AsOfDate.UTC()
			if byPeriod[period] == nil {
				byPeriod[period] = make(map[string]float64)
			}
			byPeriod[period][name] = point.Value
		}
	}
	for period, lineItems := range byPeriod {
		table.Rows = append(table.Rows, models.StatementRow{
			PeriodEnd: period,
			LineItems: lineItems,
		})
	}
	sort.Slice(table.Rows, func(i, j int) bool {
		return table.Rows[i].PeriodEnd.After(table.Rows[j].PeriodEnd)
	})

	s.logger.Debug().
		Str("ticker", ticker).
		Str("type", string(stmtType)).
		Int("periods", len(table.Rows)).
		Msg("Statements fetched from provider")

	return table, nil
}

// FetchPrices returns daily price bars for [from, to] in ascending date
// order. The range is clamped to the instrument's first trade date.
func (s *Service) FetchPrices(ctx context.Context, ticker string, from, to time.Time) (*models.PriceSeries, error) {
	record, ok := s.catalog.Lookup(ticker)
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownTicker, ticker)
	}
	if !to.After(from) {
		return nil, fmt.Errorf("invalid range: from %s is not before to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	if firstTrade, err := s.FirstTradeDate(ctx, record.Ticker); err == nil && from.Before(firstTrade) {
		from = firstTrade
	}

	key := cachestore.PricesKey(record.Ticker, from, to)
	var prices models.PriceSeries
	err := s.cache.GetOrComputeValue(ctx, key, &prices, func() (interface{}, error) {
		return s.fetchPrices(ctx, record.Ticker, from, to)
	})
	if err != nil {
		return nil, err
	}
	if len(prices.Bars) == 0 {
		return nil, fmt.Errorf("%w: no prices for %s in range", models.ErrNoData, record.Ticker)
	}
	return &prices, nil
}

func (s *Service) fetchPrices(ctx context.Context, ticker string, from, to time.Time) (*models.PriceSeries, error) {
	var chart *yahoo.ChartResult
	err := s.withRetry(ctx, func() error {
		var fetchErr error
		chart, fetchErr = s.provider.Chart(ctx, ticker, from, to)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}

	prices := &models.PriceSeries{
		Ticker:    ticker,
		From:      from,
		To:        to,
		FetchedAt: time.Now().UTC(),
	}
	for _, bar := range chart.Bars {
		prices.Bars = append(prices.Bars, models.PriceBar{
			Date:   bar.Date,
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: bar.Volume,
		})
	}

	s.logger.Debug().
		Str("ticker", ticker).
		Int("bars", len(prices.Bars)).
		Msg("Prices fetched from provider")

	return prices, nil
}

// firstTradeRecord is the cached shape of a first trade date lookup.
type firstTradeRecord struct {
	Ticker         string    `json:"ticker"`
	FirstTradeDate time.Time `json:"first_trade_date"`
}

// FirstTradeDate returns the first trading day of a ticker, derived from
// chart metadata and cached indefinitely.
func (s *Service) FirstTradeDate(ctx context.Context, ticker string) (time.Time, error) {
	record, ok := s.catalog.Lookup(ticker)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s", models.ErrUnknownTicker, ticker)
	}

	key := cachestore.FirstTradeKey(record.Ticker)
	var cached firstTradeRecord
	err := s.cache.GetOrComputeValue(ctx, key, &cached, func() (interface{}, error) {
		var chart *yahoo.ChartResult
		retryErr := s.withRetry(ctx, func() error {
			var fetchErr error
			now := time.Now()
			chart, fetchErr = s.provider.Chart(ctx, record.Ticker, now.AddDate(0, 0, -7), now)
			return fetchErr
		})
		if retryErr != nil {
			return nil, retryErr
		}
		if chart.FirstTradeDate.IsZero() {
			return nil, fmt.Errorf("%w: no first trade date for %s", models.ErrNoData, record.Ticker)
		}
		return &firstTradeRecord{Ticker: record.Ticker, FirstTradeDate: chart.FirstTradeDate}, nil
	})
	if err != nil {
		return time.Time{}, err
	}
	return cached.FirstTradeDate, nil
}

// withRetry runs fn, retrying once immediately on a transient failure.
// Persistent transient failure maps to ErrProviderUnavailable; a definitive
// provider response that carries no data maps to ErrNoData.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if !isTransient(err) {
		return fmt.Errorf("%w: %v", models.ErrNoData, err)
	}

	s.logger.Warn().Err(err).Msg("Provider request failed, retrying")
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, ctx.Err())
	}

	if err := fn(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrProviderUnavailable, err)
	}
	return nil
}

// isTransient reports whether a provider error is worth retrying. Definitive
// API answers (4xx other than 429) are not.
func isTransient(err error) bool {
	var apiErr *yahoo.APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429 || apiErr.StatusCode >= 500
	}
	var rateErr *yahoo.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	// network-level failure
	return true
}

func granularityPrefix(granularity models.Granularity) string {
	if granularity == models.GranularityYearly {
		return yahoo.AnnualPrefix
	}
	return yahoo.QuarterlyPrefix
}

func statementMetrics(stmtType models.StatementType) []string {
	switch stmtType {
	case models.StatementIncome:
		return yahoo.IncomeStatementMetrics
	case models.StatementCashflow:
		return yahoo.CashFlowMetrics
	default:
		return yahoo.BalanceSheetMetrics
	}
}
