package resolver

import (
	"sort"

	"github.com/swiftgrasp/swiftgrasp/internal/catalog"
	"github.com/swiftgrasp/swiftgrasp/internal/common"
	"github.com/swiftgrasp/swiftgrasp/internal/models"

	"github.com/agext/levenshtein"
)

// SimilarityFunc scores how alike two normalized names are, in [0, 1].
type SimilarityFunc func(a, b string) float64

// LevenshteinSimilarity is the default similarity measure.
func LevenshteinSimilarity(a, b string) float64 {
	return levenshtein.Similarity(a, b, nil)
}

// Resolver maps free-form user input (a ticker or a company name, possibly
// misspelled) to catalog listings with confidence scores.
type Resolver struct {
	catalog    *catalog.Catalog
	similarity SimilarityFunc
	minScore   float64
	topK       int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSimilarity overrides the similarity function.
func WithSimilarity(fn SimilarityFunc) Option {
	return func(r *Resolver) {
		r.similarity = fn
	}
}

// WithMinScore sets the minimum similarity a fuzzy candidate must reach.
func WithMinScore(minScore float64) Option {
	return func(r *Resolver) {
		r.minScore = minScore
	}
}

// WithTopK caps the number of fuzzy candidates returned.
func WithTopK(topK int) Option {
	return func(r *Resolver) {
		r.topK = topK
	}
}

// New creates a Resolver over the given catalog.
func New(cat *catalog.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		catalog:    cat,
		similarity: LevenshteinSimilarity,
		minScore:   0.55,
		topK:       5,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve matches input text against the catalog. Exact ticker and exact
// normalized-name matches win outright with confidence 1.0; otherwise
// candidates are ranked by name similarity. An unmatchable input returns
// an empty candidate list, not an error.
//
// Resolution is deterministic: ties are broken by shorter company name,
// then by ticker.
func (r *Resolver) Resolve(text string) models.ResolvedTicker {
	resolved := models.ResolvedTicker{Input: text}

	if record, ok := r.catalog.Lookup(text); ok {
		resolved.Candidates = []models.Candidate{exactCandidate(record)}
		return resolved
	}

	normalized := common.NormalizeName(text)
	if normalized == "" {
		return resolved
	}

	for _, record := range r.catalog.All() {
		if record.NormalizedName == normalized {
			resolved.Candidates = append(resolved.Candidates, exactCandidate(record))
		}
	}
	if len(resolved.Candidates) > 0 {
		sortCandidates(resolved.Candidates)
		return resolved
	}

	for _, record := range r.catalog.All() {
		score := r.similarity(normalized, record.NormalizedName)
		if score < r.minScore {
			continue
		}
		resolved.Candidates = append(resolved.Candidates, models.Candidate{
			Ticker:      record.Ticker,
			CompanyName: record.CompanyName,
			Exchange:    record.Exchange,
			Confidence:  score,
		})
	}

	sortCandidates(resolved.Candidates)
	if len(resolved.Candidates) > r.topK {
		resolved.Candidates = resolved.Candidates[:r.topK]
	}
	return resolved
}

func exactCandidate(record models.ListingRecord) models.Candidate {
	return models.Candidate{
		Ticker:      record.Ticker,
		CompanyName: record.CompanyName,
		Exchange:    record.Exchange,
		Confidence:  1.0,
	}
}

func sortCandidates(candidates []models.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		if len(candidates[i].CompanyName) != len(candidates[j].CompanyName) {
			return len(candidates[i].CompanyName) < len(candidates[j].CompanyName)
		}
		return candidates[i].Ticker < candidates[j].Ticker
	})
}
