package marketdata

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/catalog"
	"github.com/swiftgrasp/swiftgrasp/internal/models"
	"github.com/swiftgrasp/swiftgrasp/internal/services/cachestore"
	"github.com/swiftgrasp/swiftgrasp/internal/storage/memory"
	"github.com/swiftgrasp/swiftgrasp/internal/yahoo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider is a deterministic Provider with call counting.
type stubProvider struct {
	chartCalls        int
	fundamentalsCalls int

	chartResult  *yahoo.ChartResult
	series       []yahoo.Series
	chartErr     error
	seriesErr    error
	failuresLeft int // errors returned before succeeding
}

func (p *stubProvider) Chart(_ context.Context, symbol string, from, to time.Time) (*yahoo.ChartResult, error) {
	p.chartCalls++
	if p.failuresLeft > 0 {
		p.failuresLeft--
		return nil, p.chartErr
	}
	if p.chartErr != nil {
		return nil, p.chartErr
	}
	return p.chartResult, nil
}

func (p *stubProvider) FundamentalsTimeseries(_ context.Context, symbol string, metrics []string, from, to time.Time) ([]yahoo.Series, error) {
	p.fundamentalsCalls++
	if p.failuresLeft > 0 {
		p.failuresLeft--
		return nil, p.seriesErr
	}
	if p.seriesErr != nil {
		return nil, p.seriesErr
	}
	return p.series, nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	listing := `Symbol,Company Name,Security Name
AAPL,Apple Inc.,Apple Inc. - Common Stock
MSFT,Microsoft Corporation,Microsoft Corporation - Common Stock
`
	path := filepath.Join(t.TempDir(), "listing.csv")
	require.NoError(t, os.WriteFile(path, []byte(listing), 0644))
	cat, err := catalog.Load(path)
	require.NoError(t, err)
	return cat
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func stubChart() *yahoo.ChartResult {
	return &yahoo.ChartResult{
		Symbol:         "AAPL",
		Currency:       "USD",
		FirstTradeDate: day("1980-12-12"),
		Bars: []yahoo.Bar{
			{Date: day("2024-01-02"), Open: 184.2, High: 185.9, Low: 183.4, Close: 185.6, Volume: 52000000},
			{Date: day("2024-01-03"), Open: 184.0, High: 185.0, Low: 182.7, Close: 184.3, Volume: 49000000},
			{Date: day("2024-01-04"), Open: 182.1, High: 183.1, Low: 180.9, Close: 181.9, Volume: 48000000},
		},
	}
}

func stubSeries() []yahoo.Series {
	return []yahoo.Series{
		{
			Type: "quarterlyTotalAssets",
			Points: []yahoo.SeriesPoint{
				{AsOfDate: day("2023-06-30"), Value: 335038000000},
				{AsOfDate: day("2023-09-30"), Value: 352583000000},
			},
		},
		{
			Type: "quarterlyStockholdersEquity",
			Points: []yahoo.SeriesPoint{
				{AsOfDate: day("2023-09-30"), Value: 62146000000},
			},
		},
	}
}

func newTestService(t *testing.T, provider Provider) *Service {
	t.Helper()
	return NewService(provider, testCatalog(t), cachestore.New(memory.NewPayloadStorage()))
}

func TestFetchStatements(t *testing.T) {
	provider := &stubProvider{series: stubSeries()}
	service := newTestService(t, provider)

	table, err := service.FetchStatements(context.Background(), "AAPL", models.StatementBalance, models.GranularityQuarterly)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", table.Ticker)
	require.Len(t, table.Rows, 2)

	// descending period order, prefix stripped from line item names
	assert.True(t, table.Rows[0].PeriodEnd.After(table.Rows[1].PeriodEnd))
	assert.Equal(t, 352583000000.0, table.Rows[0].LineItems["TotalAssets"])
	assert.Equal(t, 62146000000.0, table.Rows[0].LineItems["StockholdersEquity"])
	assert.NotContains(t, table.Rows[1].LineItems, "StockholdersEquity")
}

func TestFetchStatementsUnknownTickerSkipsProvider(t *testing.T) {
	provider := &stubProvider{series: stubSeries()}
	service := newTestService(t, provider)

	_, err := service.FetchStatements(context.Background(), "ZZZZ", models.StatementBalance, models.GranularityQuarterly)
	require.ErrorIs(t, err, models.ErrUnknownTicker)
	assert.Equal(t, 0, provider.fundamentalsCalls)
}

func TestFetchStatementsSecondCallServedFromCache(t *testing.T) {
	provider := &stubProvider{series: stubSeries()}
	service := newTestService(t, provider)
	ctx := context.Background()

	first, err := service.FetchStatements(ctx, "AAPL", models.StatementBalance, models.GranularityQuarterly)
	require.NoError(t, err)
	second, err := service.FetchStatements(ctx, "aapl", models.StatementBalance, models.GranularityQuarterly)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.fundamentalsCalls)
	assert.Equal(t, first.Rows, second.Rows)
}

func TestFetchStatementsEmptyResultIsNoData(t *testing.T) {
	provider := &stubProvider{series: nil}
	service := newTestService(t, provider)

	_, err := service.FetchStatements(context.Background(), "AAPL", models.StatementCashflow, models.GranularityYearly)
	assert.ErrorIs(t, err, models.ErrNoData)
}

func TestFetchStatementsRetriesTransientFailure(t *testing.T) {
	provider := &stubProvider{
		series:       stubSeries(),
		seriesErr:    &yahoo.APIError{StatusCode: http.StatusBadGateway, Message: "upstream", Endpoint: "/AAPL"},
		failuresLeft: 1,
	}
	service := newTestService(t, provider)

	table, err := service.FetchStatements(context.Background(), "AAPL", models.StatementBalance, models.GranularityQuarterly)
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, 2, provider.fundamentalsCalls)
}

func TestFetchStatementsPersistentFailure(t *testing.T) {
	provider := &stubProvider{
		seriesErr: errors.New("connection refused"),
	}
	service := newTestService(t, provider)

	_, err := service.FetchStatements(context.Background(), "AAPL", models.StatementBalance, models.GranularityQuarterly)
	require.ErrorIs(t, err, models.ErrProviderUnavailable)
	assert.Equal(t, 2, provider.fundamentalsCalls)
}

func TestFetchPrices(t *testing.T) {
	provider := &stubProvider{chartResult: stubChart()}
	service := newTestService(t, provider)

	prices, err := service.FetchPrices(context.Background(), "AAPL", day("2024-01-01"), day("2024-01-05"))
	require.NoError(t, err)

	require.Len(t, prices.Bars, 3)
	for i := 1; i < len(prices.Bars); i++ {
		assert.True(t, prices.Bars[i].Date.After(prices.Bars[i-1].Date))
	}
}

func TestFetchPricesClampsToFirstTrade(t *testing.T) {
	provider := &stubProvider{chartResult: stubChart()}
	service := newTestService(t, provider)

	prices, err := service.FetchPrices(context.Background(), "AAPL", day("1970-01-01"), day("2024-01-05"))
	require.NoError(t, err)
	assert.True(t, prices.From.Equal(day("1980-12-12")))
}

func TestFetchPricesInvalidRange(t *testing.T) {
	provider := &stubProvider{chartResult: stubChart()}
	service := newTestService(t, provider)

	_, err := service.FetchPrices(context.Background(), "AAPL", day("2024-01-05"), day("2024-01-01"))
	assert.Error(t, err)
	assert.Equal(t, 0, provider.chartCalls)
}

func TestFirstTradeDateCached(t *testing.T) {
	provider := &stubProvider{chartResult: stubChart()}
	service := newTestService(t, provider)
	ctx := context.Background()

	first, err := service.FirstTradeDate(ctx, "AAPL")
	require.NoError(t, err)
	assert.True(t, first.Equal(day("1980-12-12")))

	_, err = service.FirstTradeDate(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.chartCalls)
}
