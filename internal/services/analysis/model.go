package analysis

import (
	"fmt"
	"math"
)

// ImpactResult is the output of an impact model: what the post-anchor
// series would have looked like without a structural change, and how far
// the observed series departed from it.
type ImpactResult struct {
	Counterfactual []float64 // predicted post series absent a change
	AbsoluteEffect float64   // cumulative observed minus predicted
	RelativeEffect float64   // absolute effect over cumulative predicted
	PValue         float64   // probability the departure is noise
}

// ImpactModel estimates the effect of a structural change at the boundary
// between pre and post. Implementations are pure functions of the input
// series.
type ImpactModel interface {
	Estimate(pre, post []float64) (*ImpactResult, error)
}

// TrendModel is the default ImpactModel: a least-squares trend fitted over
// the pre window, projected forward as the counterfactual. Significance
// comes from comparing the mean post-window departure against the pre
// window's residual spread.
type TrendModel struct{}

// NewTrendModel creates the default impact model.
func NewTrendModel() *TrendModel {
	return &TrendModel{}
}

func (m *TrendModel) Estimate(pre, post []float64) (*ImpactResult, error) {
	if len(pre) < 2 {
		return nil, fmt.Errorf("pre window too short: %d points", len(pre))
	}
	if len(post) == 0 {
		return nil, fmt.Errorf("post window is empty")
	}

	slope, intercept := linearFit(pre)

	residuals := make([]float64, len(pre))
	for i, v := range pre {
		residuals[i] = v - (intercept + slope*float64(i))
	}
	residualSD := stddev(residuals)

	result := &ImpactResult{
		Counterfactual: make([]float64, len(post)),
	}

	var observedSum, predictedSum float64
	departures := make([]float64, len(post))
	for i, v := range post {
		predicted := intercept + slope*float64(len(pre)+i)
		result.Counterfactual[i] = predicted
		observedSum += v
		predictedSum += predicted
		departures[i] = v - predicted
	}

	result.AbsoluteEffect = observedSum - predictedSum
	if predictedSum != 0 {
		result.RelativeEffect = result.AbsoluteEffect / math.Abs(predictedSum)
	}

	if residualSD == 0 {
		// a perfectly linear pre window: any departure at all is real
		if result.AbsoluteEffect == 0 {
			result.PValue = 1
		}
		return result, nil
	}

	z := avg(departures) / (residualSD / math.Sqrt(float64(len(post))))
	result.PValue = normalTwoTailed(z)

	return result, nil
}
