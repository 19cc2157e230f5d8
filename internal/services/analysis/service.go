package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/common"
	"github.com/swiftgrasp/swiftgrasp/internal/models"
	"github.com/swiftgrasp/swiftgrasp/internal/services/cachestore"

	"github.com/ternarybob/arbor"
)

// MarketData is the slice of the market data gateway the analyzer needs.
type MarketData interface {
	FetchPrices(ctx context.Context, ticker string, from, to time.Time) (*models.PriceSeries, error)
	FetchStatements(ctx context.Context, ticker string, stmtType models.StatementType, granularity models.Granularity) (*models.StatementTable, error)
}

// Service runs structural change analyses on price history around
// statement dates. Results and their rendered figures are cached; a
// repeated analysis never re-invokes the model.
type Service struct {
	data   MarketData
	cache  *cachestore.Store
	model  ImpactModel
	config common.AnalysisConfig
	logger arbor.ILogger
}

// NewService creates the change analyzer. A nil model selects the default
// trend model.
func NewService(data MarketData, cache *cachestore.Store, model ImpactModel, config common.AnalysisConfig) *Service {
	if model == nil {
		model = NewTrendModel()
	}
	return &Service{
		data:   data,
		cache:  cache,
		model:  model,
		config: config,
		logger: common.GetLogger(),
	}
}

// Analyze estimates the impact of a structural change at the anchor date
// on the ticker's close price. The result is cached by (ticker, anchor,
// granularity).
func (s *Service) Analyze(ctx context.Context, ticker string, anchor time.Time, granularity models.Granularity) (*models.ChangeAnalysisResult, error) {
	anchor = anchor.UTC().Truncate(24 * time.Hour)

	key := cachestore.AnalysisKey(ticker, anchor, granularity)
	var result models.ChangeAnalysisResult
	err := s.cache.GetOrComputeValue(ctx, key, &result, func() (interface{}, error) {
		return s.analyze(ctx, ticker, anchor, granularity)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) analyze(ctx context.Context, ticker string, anchor time.Time, granularity models.Granularity) (*models.ChangeAnalysisResult, error) {
	from := anchor.AddDate(0, 0, -s.config.PreDays)
	to := anchor.AddDate(0, 0, s.config.PostDays)

	prices, err := s.data.FetchPrices(ctx, ticker, from, to)
	if err != nil {
		return nil, err
	}

	preBars, postBars := prices.Split(anchor)
	if len(preBars) < s.config.MinPrePoints || len(postBars) < s.config.MinPostPoints {
		return nil, fmt.Errorf("%w: %d pre / %d post closes around %s (need %d/%d)",
			models.ErrInsufficientData, len(preBars), len(postBars),
			anchor.Format("2006-01-02"), s.config.MinPrePoints, s.config.MinPostPoints)
	}

	pre := make([]float64, len(preBars))
	for i, bar := range preBars {
		pre[i] = bar.Close
	}
	post := make([]float64, len(postBars))
	for i, bar := range postBars {
		post[i] = bar.Close
	}

	estimate, err := s.model.Estimate(pre, post)
	if err != nil {
		return nil, fmt.Errorf("impact model failed: %w", err)
	}

	result := &models.ChangeAnalysisResult{
		ID:             common.NewAnalysisID(),
		Ticker:         prices.Ticker,
		AnchorDate:     anchor,
		Granularity:    granularity,
		PValue:         estimate.PValue,
		Significant:    estimate.PValue < s.config.SignificanceLevel,
		AbsoluteEffect: estimate.AbsoluteEffect,
		RelativeEffect: estimate.RelativeEffect,
		PrePoints:      len(pre),
		PostPoints:     len(post),
		FigureType:     FigureContentType,
		CreatedAt:      time.Now().UTC(),
	}

	figure, err := renderFigure(prices.Bars, estimate.Counterfactual, len(preBars), result.Ticker, anchor)
	if err != nil {
		return nil, fmt.Errorf("failed to render analysis figure: %w", err)
	}
	if err := s.cache.Put(ctx, cachestore.FigureKey(result.ID), figure); err != nil {
		return nil, fmt.Errorf("failed to store analysis figure: %w", err)
	}

	s.logger.Info().
		Str("ticker", result.Ticker).
		Str("anchor", anchor.Format("2006-01-02")).
		Str("p_value", fmt.Sprintf("%.4f", result.PValue)).
		Bool("significant", result.Significant).
		Msg("Change analysis computed")

	return result, nil
}

// Figure returns the rendered figure for an analysis artifact ID.
func (s *Service) Figure(ctx context.Context, id string) ([]byte, error) {
	return s.cache.Get(ctx, cachestore.FigureKey(id))
}

// AnchorDates lists the statement period-end dates usable as change
// anchors, most recent first.
func (s *Service) AnchorDates(ctx context.Context, ticker string, granularity models.Granularity) ([]time.Time, error) {
	table, err := s.data.FetchStatements(ctx, ticker, models.StatementBalance, granularity)
	if err != nil {
		return nil, err
	}
	return table.PeriodEndDates(), nil
}
