package precompute

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/common"
	"github.com/swiftgrasp/swiftgrasp/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
)

// Analyzer is the slice of the change analyzer the warmer drives.
type Analyzer interface {
	AnchorDates(ctx context.Context, ticker string, granularity models.Granularity) ([]time.Time, error)
	Analyze(ctx context.Context, ticker string, anchor time.Time, granularity models.Granularity) (*models.ChangeAnalysisResult, error)
}

// Service warms the cache for a configured watchlist on a cron schedule,
// so interactive requests for those tickers are served without provider
// round trips. Per-ticker failures are logged and skipped.
type Service struct {
	analyzer Analyzer
	config   common.PrecomputeConfig
	cron     *cron.Cron
	logger   arbor.ILogger

	mu      sync.Mutex
	running bool
}

// NewService creates the watchlist warmer.
func NewService(analyzer Analyzer, config common.PrecomputeConfig) *Service {
	return &Service{
		analyzer: analyzer,
		config:   config,
		cron:     cron.New(cron.WithSeconds()),
		logger:   common.GetLogger(),
	}
}

// Start registers the cron schedule. A disabled or empty watchlist is a
// no-op.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.config.Enabled || len(s.config.Watchlist) == 0 {
		s.logger.Debug().Msg("Precompute disabled")
		return nil
	}
	if s.running {
		return fmt.Errorf("precompute already running")
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.logger.Warn().Err(err).Msg("Precompute run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule precompute: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", s.config.Schedule).
		Int("watchlist", len(s.config.Watchlist)).
		Msg("Precompute scheduler started")

	return nil
}

// Stop halts the scheduler and waits for a running pass to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info().Msg("Precompute scheduler stopped")
}

// RunOnce warms the cache for every watchlist ticker and granularity:
// anchors are listed (which fetches and caches the statements), then each
// anchor is analyzed. Errors are per-ticker, the pass always completes.
func (s *Service) RunOnce(ctx context.Context) error {
	start := time.Now()
	var analyzed, failed int

	for _, ticker := range s.config.Watchlist {
		for _, g := range s.granularities() {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			anchors, err := s.analyzer.AnchorDates(ctx, ticker, g)
			if err != nil {
				failed++
				s.logger.Warn().
					Str("ticker", ticker).
					Str("granularity", string(g)).
					Err(err).
					Msg("Precompute skipping ticker")
				continue
			}

			for _, anchor := range anchors {
				if _, err := s.analyzer.Analyze(ctx, ticker, anchor, g); err != nil {
					failed++
					s.logger.Warn().
						Str("ticker", ticker).
						Str("anchor", anchor.Format("2006-01-02")).
						Err(err).
						Msg("Precompute analysis failed")
					continue
				}
				analyzed++
			}
		}
	}

	s.logger.Info().
		Int("analyzed", analyzed).
		Int("failed", failed).
		Str("elapsed", time.Since(start).Round(time.Millisecond).String()).
		Msg("Precompute pass complete")

	return nil
}

func (s *Service) granularities() []models.Granularity {
	if len(s.config.Granularities) == 0 {
		return []models.Granularity{models.GranularityQuarterly, models.GranularityYearly}
	}
	var out []models.Granularity
	for _, g := range s.config.Granularities {
		parsed, err := models.ParseGranularity(g)
		if err != nil {
			s.logger.Warn().Str("granularity", g).Msg("Ignoring unknown granularity")
			continue
		}
		out = append(out, parsed)
	}
	return out
}
