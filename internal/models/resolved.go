package models

// Candidate is one possible ticker match for a resolution query.
type Candidate struct {
	Ticker      string   `json:"ticker"`
	CompanyName string   `json:"company_name"`
	Exchange    Exchange `json:"exchange"`
	// Confidence is the match score in [0,1]. Exact matches score 1.0.
	Confidence float64 `json:"confidence"`
}

// ResolvedTicker is the result of resolving free-text input against the
// listing catalog. An empty candidate list means nothing in the catalog
// cleared the similarity threshold; the caller should prompt for re-entry.
type ResolvedTicker struct {
	Input      string      `json:"input"`
	Candidates []Candidate `json:"candidates"`
}

// Best returns the top candidate, or nil when there are no candidates.
func (r *ResolvedTicker) Best() *Candidate {
	if len(r.Candidates) == 0 {
		return nil
	}
	return &r.Candidates[0]
}
