package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendModelNoChange(t *testing.T) {
	// a noisy but trendless continuation should not look significant
	pre := []float64{100, 101, 99, 100.5, 100, 99.5, 101, 100, 99, 100.5, 100, 100.2, 99.8, 100.1, 100, 99.9, 100.3, 99.7, 100, 100.1}
	post := []float64{100, 100.4, 99.6, 100.2, 99.8}

	model := NewTrendModel()
	result, err := model.Estimate(pre, post)
	require.NoError(t, err)

	assert.Len(t, result.Counterfactual, len(post))
	assert.Greater(t, result.PValue, 0.05)
	assert.InDelta(t, 0, result.RelativeEffect, 0.02)
}

func TestTrendModelLevelShift(t *testing.T) {
	// a clean jump of ~20% against a flat pre window
	pre := make([]float64, 40)
	for i := range pre {
		pre[i] = 100 + 0.5*float64(i%3) // small repeating wiggle
	}
	post := make([]float64, 10)
	for i := range post {
		post[i] = 120 + 0.5*float64(i%3)
	}

	model := NewTrendModel()
	result, err := model.Estimate(pre, post)
	require.NoError(t, err)

	assert.Less(t, result.PValue, 0.01)
	assert.Greater(t, result.AbsoluteEffect, 100.0)
	assert.Greater(t, result.RelativeEffect, 0.1)
}

func TestTrendModelFollowsTrend(t *testing.T) {
	// continuation of a linear trend is not a structural change
	pre := make([]float64, 30)
	for i := range pre {
		pre[i] = 50 + float64(i)
	}
	post := make([]float64, 8)
	for i := range post {
		post[i] = 50 + float64(len(pre)+i)
	}

	model := NewTrendModel()
	result, err := model.Estimate(pre, post)
	require.NoError(t, err)

	assert.InDelta(t, 0, result.AbsoluteEffect, 1e-6)
	assert.Equal(t, 1.0, result.PValue)
}

func TestTrendModelInputValidation(t *testing.T) {
	model := NewTrendModel()

	_, err := model.Estimate([]float64{100}, []float64{101})
	assert.Error(t, err)

	_, err = model.Estimate([]float64{100, 101, 102}, nil)
	assert.Error(t, err)
}

func TestLinearFit(t *testing.T) {
	slope, intercept := linearFit([]float64{1, 3, 5, 7})
	assert.InDelta(t, 2, slope, 1e-9)
	assert.InDelta(t, 1, intercept, 1e-9)

	slope, intercept = linearFit([]float64{4, 4, 4})
	assert.InDelta(t, 0, slope, 1e-9)
	assert.InDelta(t, 4, intercept, 1e-9)
}
