package models

import "time"

// PriceBar is a single day of OHLCV price data.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// PriceSeries holds daily price history for one ticker.
// Bars are ordered by date ascending.
type PriceSeries struct {
	Ticker    string     `json:"ticker"`
	From      time.Time  `json:"from"`
	To        time.Time  `json:"to"`
	Bars      []PriceBar `json:"bars"`
	FetchedAt time.Time  `json:"fetched_at"`
}

// Closes returns the close values of the series in date order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, 0, len(s.Bars))
	for _, bar := range s.Bars {
		closes = append(closes, bar.Close)
	}
	return closes
}

// Split partitions the series into bars strictly before the anchor date and
// bars on or after it.
func (s *PriceSeries) Split(anchor time.Time) (pre, post []PriceBar) {
	for _, bar := range s.Bars {
		if bar.Date.Before(anchor) {
			pre = append(pre, bar)
		} else {
			post = append(post, bar)
		}
	}
	return pre, post
}
