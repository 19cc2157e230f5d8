package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "AAPL", "currency": "USD", "firstTradeDate": 345479400},
      "timestamp": [1704153600, 1704240000, 1704326400],
      "indicators": {
        "quote": [{
          "open":   [184.2, null, 182.0],
          "high":   [185.9, null, 183.1],
          "low":    [183.4, null, 180.9],
          "close":  [185.6, null, 181.9],
          "volume": [52000000, null, 48000000]
        }]
      }
    }],
    "error": null
  }
}`

const timeseriesBody = `{
  "timeseries": {
    "result": [
      {
        "meta": {"symbol": ["AAPL"], "type": ["annualTotalRevenue"]},
        "timestamp": [1664496000, 1696032000],
        "annualTotalRevenue": [
          {"asOfDate": "2022-09-30", "periodType": "12M", "reportedValue": {"raw": 394328000000, "fmt": "394.33B"}},
          null,
          {"asOfDate": "2023-09-30", "periodType": "12M", "reportedValue": {"raw": 383285000000, "fmt": "383.29B"}}
        ]
      },
      {
        "meta": {"symbol": ["AAPL"], "type": ["annualNetIncome"]},
        "annualNetIncome": [
          {"asOfDate": "2023-09-30", "periodType": "12M", "reportedValue": {"raw": 96995000000, "fmt": "97.00B"}}
        ]
      }
    ],
    "error": null
  }
}`

func TestChart(t *testing.T) {
	var gotPath, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(chartBody))
	}))
	defer server.Close()

	client := NewClient(WithChartBaseURL(server.URL))
	result, err := client.Chart(context.Background(), "AAPL",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "/AAPL", gotPath)
	assert.Equal(t, DefaultUserAgent, gotUA)
	assert.Equal(t, "AAPL", result.Symbol)
	assert.Equal(t, "USD", result.Currency)
	assert.Equal(t, 1980, result.FirstTradeDate.Year())

	// the null bar is dropped, remaining bars stay in ascending order
	require.Len(t, result.Bars, 2)
	assert.True(t, result.Bars[0].Date.Before(result.Bars[1].Date))
	assert.Equal(t, 185.6, result.Bars[0].Close)
	assert.Equal(t, int64(48000000), result.Bars[1].Volume)
}

func TestChartAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer server.Close()

	client := NewClient(WithChartBaseURL(server.URL))
	_, err := client.Chart(context.Background(), "NOPE", time.Now().AddDate(0, -1, 0), time.Now())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "delisted")
}

func TestChartHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(WithChartBaseURL(server.URL))
	_, err := client.Chart(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestFundamentalsTimeseries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Contains(t, r.URL.Query().Get("type"), "annualTotalRevenue")
		w.Write([]byte(timeseriesBody))
	}))
	defer server.Close()

	client := NewClient(WithFundamentalsBaseURL(server.URL))
	metrics := PrefixedMetrics(AnnualPrefix, []string{"TotalRevenue", "NetIncome"})
	series, err := client.FundamentalsTimeseries(context.Background(), "AAPL", metrics,
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.Now())
	require.NoError(t, err)
	require.Len(t, series, 2)

	revenue := series[0]
	assert.Equal(t, "annualTotalRevenue", revenue.Type)
	require.Len(t, revenue.Points, 2) // null entry dropped
	assert.Equal(t, 394328000000.0, revenue.Points[0].Value)
	assert.Equal(t, "2022-09-30", revenue.Points[0].AsOfDate.Format("2006-01-02"))
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(chartBody))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	client := NewClient(WithChartBaseURL(server.URL))
	_, err := client.Chart(ctx, "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	assert.Error(t, err)
}

func TestPrefixedMetrics(t *testing.T) {
	metrics := PrefixedMetrics(QuarterlyPrefix, []string{"TotalRevenue", "NetIncome"})
	assert.Equal(t, []string{"quarterlyTotalRevenue", "quarterlyNetIncome"}, metrics)
}
