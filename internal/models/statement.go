package models

import (
	"fmt"
	"time"
)

// StatementType identifies which financial statement a table holds.
type StatementType string

const (
	StatementBalance  StatementType = "balance"
	StatementIncome   StatementType = "income"
	StatementCashflow StatementType = "cashflow"
)

// ParseStatementType validates a statement type string.
func ParseStatementType(s string) (StatementType, error) {
	switch StatementType(s) {
	case StatementBalance, StatementIncome, StatementCashflow:
		return StatementType(s), nil
	}
	return "", fmt.Errorf("invalid statement type %q (want balance, income or cashflow)", s)
}

// Granularity is the reporting period of statement data.
type Granularity string

const (
	GranularityQuarterly Granularity = "quarterly"
	GranularityYearly    Granularity = "yearly"
)

// ParseGranularity validates a granularity string.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityQuarterly, GranularityYearly:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("invalid granularity %q (want quarterly or yearly)", s)
}

// StatementRow is one reporting period of a financial statement.
type StatementRow struct {
	PeriodEnd time.Time          `json:"period_end"`
	LineItems map[string]float64 `json:"line_items"`
}

// StatementTable holds the fetched statement data for one ticker.
// Rows are ordered by period end date descending (most recent first).
type StatementTable struct {
	Ticker        string         `json:"ticker"`
	StatementType StatementType  `json:"statement_type"`
	Granularity   Granularity    `json:"granularity"`
	Rows          []StatementRow `json:"rows"`
	FetchedAt     time.Time      `json:"fetched_at"`
}

// PeriodEndDates returns the ordered period end dates of the table.
func (t *StatementTable) PeriodEndDates() []time.Time {
	dates := make([]time.Time, 0, len(t.Rows))
	for _, row := range t.Rows {
		dates = append(dates, row.PeriodEnd)
	}
	return dates
}
