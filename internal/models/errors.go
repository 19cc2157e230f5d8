package models

import "errors"

// Error taxonomy for the interaction pipeline. Every condition here is
// recovered at the handler boundary and reported to the user; none of them
// crash the hosting process.
var (
	// ErrUnknownTicker - the ticker is not present in the listing catalog.
	ErrUnknownTicker = errors.New("unknown ticker")

	// ErrProviderUnavailable - the market data provider is unreachable or
	// errored after the single immediate retry.
	ErrProviderUnavailable = errors.New("market data provider unavailable")

	// ErrNoData - the provider returned an empty result for a valid ticker
	// (e.g. a newly listed company with no statement history yet).
	ErrNoData = errors.New("no data for ticker")

	// ErrInsufficientData - the analysis window does not contain enough
	// points to fit the impact model.
	ErrInsufficientData = errors.New("insufficient data for analysis")

	// ErrCacheCorrupt - a cached payload failed to deserialize. Treated as
	// a cache miss by the cache store and never surfaced to callers.
	ErrCacheCorrupt = errors.New("cache entry corrupt")
)
