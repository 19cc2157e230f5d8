package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"
)

const (
	// DefaultChartBaseURL is the base URL for the v8 chart endpoint.
	DefaultChartBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

	// DefaultFundamentalsBaseURL is the base URL for the
	// fundamentals-timeseries endpoint.
	DefaultFundamentalsBaseURL = "https://query1.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries"

	// DefaultTimeout is the default HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is the default rate limit (requests per second).
	DefaultRateLimit = 5

	// DefaultUserAgent is sent with every request; the endpoints reject
	// requests without a browser-like user agent.
	DefaultUserAgent = "Mozilla/5.0"
)

// Client is a Yahoo Finance API client.
type Client struct {
	chartBaseURL        string
	fundamentalsBaseURL string
	userAgent           string
	httpClient          *http.Client
	logger              arbor.ILogger
	limiter             *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithChartBaseURL sets a custom chart endpoint base URL.
func WithChartBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.chartBaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithFundamentalsBaseURL sets a custom fundamentals endpoint base URL.
func WithFundamentalsBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.fundamentalsBaseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a logger.
func WithLogger(logger arbor.ILogger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// NewClient creates a new Yahoo Finance API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		chartBaseURL:        DefaultChartBaseURL,
		fundamentalsBaseURL: DefaultFundamentalsBaseURL,
		userAgent:           DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get performs a GET request against one of the API endpoints.
func (c *Client) get(ctx context.Context, baseURL, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &RateLimitError{RetryAfter: time.Second}
	}

	reqURL := baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	if c.logger != nil {
		c.logger.Debug().
			Str("url", baseURL+path).
			Msg("Yahoo API request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Chart retrieves daily OHLCV bars for a symbol over [from, to]. Bars are
// returned in ascending date order; null bars (holidays) are skipped.
func (c *Client) Chart(ctx context.Context, symbol string, from, to time.Time) (*ChartResult, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("period1", fmt.Sprintf("%d", from.Unix()))
	params.Set("period2", fmt.Sprintf("%d", to.Unix()))

	var response chartResponse
	if err := c.get(ctx, c.chartBaseURL, "/"+url.PathEscape(symbol), params, &response); err != nil {
		return nil, err
	}

	if response.Chart.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    response.Chart.Error.Description,
			Endpoint:   "/" + symbol,
		}
	}
	if len(response.Chart.Result) == 0 {
		return &ChartResult{Symbol: symbol}, nil
	}

	raw := response.Chart.Result[0]
	result := &ChartResult{
		Symbol:   raw.Meta.Symbol,
		Currency: raw.Meta.Currency,
	}
	if raw.Meta.FirstTradeDateSecs > 0 {
		result.FirstTradeDate = time.Unix(raw.Meta.FirstTradeDateSecs, 0).UTC()
	}
	if len(raw.Indicators.Quote) == 0 {
		return result, nil
	}

	quote := raw.Indicators.Quote[0]
	for i, ts := range raw.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := Bar{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		result.Bars = append(result.Bars, bar)
	}

	sort.Slice(result.Bars, func(i, j int) bool {
		return result.Bars[i].Date.Before(result.Bars[j].Date)
	})

	return result, nil
}

// FundamentalsTimeseries retrieves the given prefixed metrics for a symbol
// over [from, to]. One Series is returned per metric the endpoint reported.
func (c *Client) FundamentalsTimeseries(ctx context.Context, symbol string, metrics []string, from, to time.Time) ([]Series, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("type", strings.Join(metrics, ","))
	params.Set("period1", fmt.Sprintf("%d", from.Unix()))
	params.Set("period2", fmt.Sprintf("%d", to.Unix()))

	var response timeseriesResponse
	if err := c.get(ctx, c.fundamentalsBaseURL, "/"+url.PathEscape(symbol), params, &response); err != nil {
		return nil, err
	}

	if response.Timeseries.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    response.Timeseries.Error.Description,
			Endpoint:   "/" + symbol,
		}
	}

	var series []Series
	for _, raw := range response.Timeseries.Result {
		s, ok, err := decodeSeries(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode timeseries result: %w", err)
		}
		if ok {
			series = append(series, s)
		}
	}

	return series, nil
}

// decodeSeries extracts one metric series from a result object. The values
// live under a dynamic key named by the result's own meta.type field.
func decodeSeries(raw timeseriesResult) (Series, bool, error) {
	metaRaw, ok := raw["meta"]
	if !ok {
		return Series{}, false, nil
	}

	var meta timeseriesMeta
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return Series{}, false, err
	}
	if len(meta.Type) == 0 {
		return Series{}, false, nil
	}

	metricType := meta.Type[0]
	valuesRaw, ok := raw[metricType]
	if !ok {
		return Series{}, false, nil
	}

	var values []*timeseriesValue
	if err := json.Unmarshal(valuesRaw, &values); err != nil {
		return Series{}, false, err
	}

	series := Series{Type: metricType}
	for _, v := range values {
		if v == nil {
			continue
		}
		asOf, err := time.Parse("2006-01-02", v.AsOfDate)
		if err != nil {
			continue
		}
		series.Points = append(series.Points, SeriesPoint{
			AsOfDate: asOf,
			Value:    v.ReportedValue.Raw,
		})
	}

	return series, len(series.Points) > 0, nil
}
