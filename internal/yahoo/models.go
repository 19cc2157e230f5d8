package yahoo

import (
	"encoding/json"
	"time"
)

// Bar is a single daily OHLCV price bar.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// ChartResult is the decoded output of the chart endpoint.
type ChartResult struct {
	Symbol         string
	Currency       string
	FirstTradeDate time.Time
	Bars           []Bar
}

// SeriesPoint is a single reported value of a fundamentals metric.
type SeriesPoint struct {
	AsOfDate time.Time
	Value    float64
}

// Series is one fundamentals metric over time. Type carries the
// granularity prefix as reported by the endpoint (e.g. "annualTotalRevenue").
type Series struct {
	Type   string
	Points []SeriesPoint
}

// chartResponse is the wire structure of the v8 chart endpoint.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string `json:"symbol"`
				Currency           string `json:"currency"`
				FirstTradeDateSecs int64  `json:"firstTradeDate"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiErrorBody `json:"error"`
	} `json:"chart"`
}

// timeseriesResponse is the wire structure of the fundamentals-timeseries
// endpoint. Each result carries its values under a dynamic key equal to the
// requested metric type, so results are decoded in two passes.
type timeseriesResponse struct {
	Timeseries struct {
		Result []timeseriesResult `json:"result"`
		Error  *apiErrorBody      `json:"error"`
	} `json:"timeseries"`
}

type timeseriesResult map[string]json.RawMessage

type timeseriesMeta struct {
	Symbol []string `json:"symbol"`
	Type   []string `json:"type"`
}

type timeseriesValue struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue struct {
		Raw float64 `json:"raw"`
	} `json:"reportedValue"`
}

type apiErrorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
