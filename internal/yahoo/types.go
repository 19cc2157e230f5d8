// Package yahoo provides a client for the Yahoo Finance public API.
// This package centralizes all market data provider interactions for the
// application.
package yahoo

import (
	"fmt"
	"time"
)

// APIError represents an error response from the Yahoo Finance API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// RateLimitError represents a client-side rate limit interruption.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("yahoo rate limit exceeded, retry after %v", e.RetryAfter)
}

// Metric prefixes selecting the reporting granularity of the
// fundamentals-timeseries endpoint.
const (
	AnnualPrefix    = "annual"
	QuarterlyPrefix = "quarterly"
)

// Metric sets per financial statement, as named by the
// fundamentals-timeseries endpoint (without the granularity prefix).
var (
	IncomeStatementMetrics = []string{
		"TotalRevenue",
		"CostOfRevenue",
		"GrossProfit",
		"OperatingExpense",
		"OperatingIncome",
		"PretaxIncome",
		"TaxProvision",
		"NetIncome",
		"BasicEPS",
		"DilutedEPS",
		"EBITDA",
	}

	BalanceSheetMetrics = []string{
		"TotalAssets",
		"TotalLiabilitiesNetMinorityInterest",
		"StockholdersEquity",
		"CashAndCashEquivalents",
		"CurrentAssets",
		"CurrentLiabilities",
		"Inventory",
		"LongTermDebt",
		"RetainedEarnings",
	}

	CashFlowMetrics = []string{
		"OperatingCashFlow",
		"InvestingCashFlow",
		"FinancingCashFlow",
		"CapitalExpenditure",
		"FreeCashFlow",
		"EndCashPosition",
	}
)

// PrefixedMetrics returns the metric names with the granularity prefix
// applied, as the timeseries endpoint expects them.
func PrefixedMetrics(prefix string, metrics []string) []string {
	prefixed := make([]string, len(metrics))
	for i, m := range metrics {
		prefixed[i] = prefix + m
	}
	return prefixed
}
