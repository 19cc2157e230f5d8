package models

import "time"

// ChangeAnalysisResult is the outcome of a structural change analysis of a
// price series anchored at a statement posting date.
type ChangeAnalysisResult struct {
	ID          string      `json:"id"`
	Ticker      string      `json:"ticker"`
	AnchorDate  time.Time   `json:"anchor_date"`
	Granularity Granularity `json:"granularity"`

	// PValue is the significance indicator for the post-anchor deviation
	// from the estimated counterfactual. Lower means stronger evidence of
	// a structural change.
	PValue float64 `json:"p_value"`
	// Significant reports whether PValue clears the configured level.
	Significant bool `json:"significant"`

	// AbsoluteEffect is the cumulative difference between observed and
	// counterfactual closes over the post window.
	AbsoluteEffect float64 `json:"absolute_effect"`
	// RelativeEffect is AbsoluteEffect relative to the cumulative
	// counterfactual.
	RelativeEffect float64 `json:"relative_effect"`

	PrePoints  int `json:"pre_points"`
	PostPoints int `json:"post_points"`

	// Figure is the rendered before/after summary figure.
	Figure     []byte    `json:"-"`
	FigureType string    `json:"figure_type"`
	CreatedAt  time.Time `json:"created_at"`
}
