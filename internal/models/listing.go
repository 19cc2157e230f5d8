package models

// Exchange identifies the listing venue of a security.
type Exchange string

const (
	ExchangeNASDAQ Exchange = "NASDAQ"
	ExchangeNYSE   Exchange = "NYSE"
	ExchangeOther  Exchange = "OTHER"
)

// ParseExchange normalizes a free-form exchange label to one of the known
// Exchange values. Anything unrecognized maps to ExchangeOther.
func ParseExchange(s string) Exchange {
	switch s {
	case "NASDAQ", "nasdaq", "Nasdaq":
		return ExchangeNASDAQ
	case "NYSE", "nyse":
		return ExchangeNYSE
	default:
		return ExchangeOther
	}
}

// ListingRecord is one row of the exchange listing catalog. Records are
// immutable after the catalog is loaded at startup.
type ListingRecord struct {
	Ticker      string   `json:"ticker"`
	CompanyName string   `json:"company_name"`
	Exchange    Exchange `json:"exchange"`

	// NormalizedName is the match form of CompanyName (case-folded,
	// punctuation stripped). Precomputed at load time.
	NormalizedName string `json:"-"`
}
