package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/common"
	"github.com/swiftgrasp/swiftgrasp/internal/models"
	"github.com/swiftgrasp/swiftgrasp/internal/services/cachestore"
	"github.com/swiftgrasp/swiftgrasp/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() common.AnalysisConfig {
	return common.AnalysisConfig{
		PreDays:           60,
		PostDays:          20,
		MinPrePoints:      10,
		MinPostPoints:     5,
		SignificanceLevel: 0.05,
	}
}

// stubData serves a fixed price series and statement table.
type stubData struct {
	prices     *models.PriceSeries
	statements *models.StatementTable
	pricesErr  error
	fetchCalls int
}

func (d *stubData) FetchPrices(_ context.Context, ticker string, from, to time.Time) (*models.PriceSeries, error) {
	d.fetchCalls++
	if d.pricesErr != nil {
		return nil, d.pricesErr
	}
	return d.prices, nil
}

func (d *stubData) FetchStatements(_ context.Context, ticker string, stmtType models.StatementType, granularity models.Granularity) (*models.StatementTable, error) {
	return d.statements, nil
}

// stubModel is a deterministic ImpactModel with call counting.
type stubModel struct {
	calls  int
	result *ImpactResult
}

func (m *stubModel) Estimate(pre, post []float64) (*ImpactResult, error) {
	m.calls++
	if m.result != nil {
		return m.result, nil
	}
	counterfactual := make([]float64, len(post))
	for i := range counterfactual {
		counterfactual[i] = pre[len(pre)-1]
	}
	return &ImpactResult{
		Counterfactual: counterfactual,
		AbsoluteEffect: 42,
		RelativeEffect: 0.1,
		PValue:         0.01,
	}, nil
}

func anchorDay() time.Time {
	return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
}

// seriesAround builds preCount bars before the anchor and postCount on or
// after it, one bar per day, closing at base plus a per-bar step.
func seriesAround(anchor time.Time, preCount, postCount int, base, step float64) *models.PriceSeries {
	series := &models.PriceSeries{Ticker: "AAPL"}
	for i := 0; i < preCount+postCount; i++ {
		date := anchor.AddDate(0, 0, i-preCount)
		series.Bars = append(series.Bars, models.PriceBar{
			Date:  date,
			Close: base + step*float64(i),
		})
	}
	series.From = series.Bars[0].Date
	series.To = series.Bars[len(series.Bars)-1].Date
	return series
}

func TestAnalyze(t *testing.T) {
	data := &stubData{prices: seriesAround(anchorDay(), 30, 10, 100, 0.5)}
	model := &stubModel{}
	service := NewService(data, cachestore.New(memory.NewPayloadStorage()), model, testConfig())

	result, err := service.Analyze(context.Background(), "AAPL", anchorDay(), models.GranularityQuarterly)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", result.Ticker)
	assert.Equal(t, 30, result.PrePoints)
	assert.Equal(t, 10, result.PostPoints)
	assert.Equal(t, 0.01, result.PValue)
	assert.True(t, result.Significant)
	assert.Equal(t, 42.0, result.AbsoluteEffect)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, FigureContentType, result.FigureType)
}

func TestAnalyzeCachedModelInvokedOnce(t *testing.T) {
	data := &stubData{prices: seriesAround(anchorDay(), 30, 10, 100, 0.5)}
	model := &stubModel{}
	service := NewService(data, cachestore.New(memory.NewPayloadStorage()), model, testConfig())
	ctx := context.Background()

	first, err := service.Analyze(ctx, "AAPL", anchorDay(), models.GranularityQuarterly)
	require.NoError(t, err)
	second, err := service.Analyze(ctx, "AAPL", anchorDay(), models.GranularityQuarterly)
	require.NoError(t, err)

	assert.Equal(t, 1, model.calls)
	assert.Equal(t, 1, data.fetchCalls)
	assert.Equal(t, first.ID, second.ID)
}

func TestAnalyzeFigureStored(t *testing.T) {
	data := &stubData{prices: seriesAround(anchorDay(), 30, 10, 100, 0.5)}
	service := NewService(data, cachestore.New(memory.NewPayloadStorage()), &stubModel{}, testConfig())
	ctx := context.Background()

	result, err := service.Analyze(ctx, "AAPL", anchorDay(), models.GranularityQuarterly)
	require.NoError(t, err)

	figure, err := service.Figure(ctx, result.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, figure)
	assert.Equal(t, "%PDF", string(figure[:4]))
}

func TestAnalyzeInsufficientData(t *testing.T) {
	tests := []struct {
		name     string
		pre, post int
	}{
		{"too few pre", 5, 10},
		{"too few post", 30, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := &stubData{prices: seriesAround(anchorDay(), tt.pre, tt.post, 100, 0.5)}
			model := &stubModel{}
			service := NewService(data, cachestore.New(memory.NewPayloadStorage()), model, testConfig())

			_, err := service.Analyze(context.Background(), "AAPL", anchorDay(), models.GranularityQuarterly)
			require.ErrorIs(t, err, models.ErrInsufficientData)
			assert.Equal(t, 0, model.calls)
		})
	}
}

func TestAnalyzeFetchErrorPropagates(t *testing.T) {
	data := &stubData{pricesErr: models.ErrUnknownTicker}
	service := NewService(data, cachestore.New(memory.NewPayloadStorage()), &stubModel{}, testConfig())

	_, err := service.Analyze(context.Background(), "ZZZZ", anchorDay(), models.GranularityQuarterly)
	assert.ErrorIs(t, err, models.ErrUnknownTicker)
}

func TestAnchorDates(t *testing.T) {
	data := &stubData{
		statements: &models.StatementTable{
			Ticker: "AAPL",
			Rows: []models.StatementRow{
				{PeriodEnd: time.Date(2023, 9, 30, 0, 0, 0, 0, time.UTC)},
				{PeriodEnd: time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)},
			},
		},
	}
	service := NewService(data, cachestore.New(memory.NewPayloadStorage()), &stubModel{}, testConfig())

	anchors, err := service.AnchorDates(context.Background(), "AAPL", models.GranularityQuarterly)
	require.NoError(t, err)
	require.Len(t, anchors, 2)
	assert.True(t, anchors[0].After(anchors[1]))
}
