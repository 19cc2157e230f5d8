package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/swiftgrasp/swiftgrasp/internal/common"
	"github.com/swiftgrasp/swiftgrasp/internal/models"
)

// Catalog is the immutable in-memory table of listed securities. It is
// built once at startup from the static listing files and is safe for
// concurrent readers.
type Catalog struct {
	records  []models.ListingRecord
	byTicker map[string]int
}

// rawListing is a parsed but not yet deduplicated CSV row.
type rawListing struct {
	ticker       string
	companyName  string
	securityName string
	exchange     models.Exchange
}

// Load reads the listing CSV files and builds the catalog. Column mapping
// is header-driven: the ticker comes from "Symbol", "CQS Symbol" or
// "ACT Symbol"; names from "Company Name" and "Security Name". Files
// without an "Exchange" column are treated as NASDAQ listings.
//
// When a company name is shared by more than three listings, or is shorter
// than five characters, the more specific security name is used as the
// display and match name instead. Duplicate tickers across files keep the
// first occurrence.
func Load(paths ...string) (*Catalog, error) {
	logger := common.GetLogger()

	if len(paths) == 0 {
		return nil, fmt.Errorf("no listing files provided")
	}

	var raw []rawListing
	for _, path := range paths {
		rows, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load listing file %s: %w", path, err)
		}
		raw = append(raw, rows...)
	}

	// Company names shared across many listings (share classes, warrants,
	// preferred stock) are too ambiguous to match on.
	nameCounts := make(map[string]int)
	for _, r := range raw {
		nameCounts[r.companyName]++
	}

	catalog := &Catalog{
		byTicker: make(map[string]int, len(raw)),
	}
	for _, r := range raw {
		ticker := common.NormalizeSymbol(r.ticker)
		if ticker == "" {
			continue
		}
		if _, seen := catalog.byTicker[ticker]; seen {
			continue
		}

		name := r.companyName
		if nameCounts[r.companyName] > 3 || len(r.companyName) < 5 {
			if r.securityName != "" {
				name = r.securityName
			}
		}

		record := models.ListingRecord{
			Ticker:         ticker,
			CompanyName:    name,
			Exchange:       r.exchange,
			NormalizedName: common.NormalizeName(name),
		}
		catalog.byTicker[ticker] = len(catalog.records)
		catalog.records = append(catalog.records, record)
	}

	if len(catalog.records) == 0 {
		return nil, fmt.Errorf("listing files contained no usable records")
	}

	logger.Info().
		Int("files", len(paths)).
		Int("records", len(catalog.records)).
		Msg("Listing catalog loaded")

	return catalog, nil
}

func loadFile(path string) ([]rawListing, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // listing files carry a short trailer row

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := columnIndex(header)
	tickerCol, ok := firstPresent(cols, "symbol", "cqs symbol", "act symbol")
	if !ok {
		return nil, fmt.Errorf("no ticker column in header %v", header)
	}
	companyCol, hasCompany := cols["company name"]
	securityCol, hasSecurity := cols["security name"]
	if !hasCompany && !hasSecurity {
		return nil, fmt.Errorf("no name column in header %v", header)
	}
	exchangeCol, hasExchange := cols["exchange"]

	var rows []rawListing
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if tickerCol >= len(fields) {
			continue // trailer row
		}

		row := rawListing{
			ticker:   strings.TrimSpace(fields[tickerCol]),
			exchange: models.ExchangeNASDAQ,
		}
		if row.ticker == "" {
			continue
		}
		if hasCompany && companyCol < len(fields) {
			row.companyName = strings.TrimSpace(fields[companyCol])
		}
		if hasSecurity && securityCol < len(fields) {
			row.securityName = strings.TrimSpace(fields[securityCol])
		}
		if row.companyName == "" {
			row.companyName = row.securityName
		}
		if row.companyName == "" {
			continue
		}
		if hasExchange && exchangeCol < len(fields) {
			row.exchange = exchangeFromCode(fields[exchangeCol])
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// columnIndex maps lowercased header names to their positions.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return cols
}

func firstPresent(cols map[string]int, names ...string) (int, bool) {
	for _, name := range names {
		if idx, ok := cols[name]; ok {
			return idx, true
		}
	}
	return 0, false
}

// exchangeFromCode maps the single-letter exchange codes used by the
// consolidated listing file.
func exchangeFromCode(code string) models.Exchange {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "N":
		return models.ExchangeNYSE
	case "Q":
		return models.ExchangeNASDAQ
	default:
		return models.ExchangeOther
	}
}

// Lookup returns the listing for a ticker, matching case-insensitively.
func (c *Catalog) Lookup(ticker string) (models.ListingRecord, bool) {
	idx, ok := c.byTicker[common.NormalizeSymbol(ticker)]
	if !ok {
		return models.ListingRecord{}, false
	}
	return c.records[idx], true
}

// All returns every listing record in load order. The returned slice must
// not be modified.
func (c *Catalog) All() []models.ListingRecord {
	return c.records
}

// Len returns the number of listings in the catalog.
func (c *Catalog) Len() int {
	return len(c.records)
}
