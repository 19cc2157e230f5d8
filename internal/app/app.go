package app

import (
	"fmt"
	"net/http"

	"github.com/swiftgrasp/swiftgrasp/internal/catalog"
	"github.com/swiftgrasp/swiftgrasp/internal/common"
	"github.com/swiftgrasp/swiftgrasp/internal/handlers"
	"github.com/swiftgrasp/swiftgrasp/internal/interfaces"
	"github.com/swiftgrasp/swiftgrasp/internal/resolver"
	"github.com/swiftgrasp/swiftgrasp/internal/services/analysis"
	"github.com/swiftgrasp/swiftgrasp/internal/services/cachestore"
	"github.com/swiftgrasp/swiftgrasp/internal/services/marketdata"
	"github.com/swiftgrasp/swiftgrasp/internal/services/precompute"
	"github.com/swiftgrasp/swiftgrasp/internal/services/status"
	badgerstorage "github.com/swiftgrasp/swiftgrasp/internal/storage/badger"
	"github.com/swiftgrasp/swiftgrasp/internal/yahoo"

	"github.com/ternarybob/arbor"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Domain services
	Catalog           *catalog.Catalog
	Resolver          *resolver.Resolver
	CacheStore        *cachestore.Store
	MarketDataService *marketdata.Service
	AnalysisService   *analysis.Service
	PrecomputeService *precompute.Service
	StatusService     *status.Service

	// HTTP handlers
	CatalogHandler    *handlers.CatalogHandler
	MarketDataHandler *handlers.MarketDataHandler
	AnalysisHandler   *handlers.AnalysisHandler
	CacheHandler      *handlers.CacheHandler
	StatusHandler     *handlers.StatusHandler
	PageHandler       *handlers.PageHandler
}

// New assembles the application: storage, catalog, services, handlers.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := a.initStorage(); err != nil {
		return nil, err
	}
	if err := a.initServices(); err != nil {
		return nil, err
	}
	if err := a.initHandlers(); err != nil {
		return nil, err
	}

	logger.Info().
		Int("catalog_size", a.Catalog.Len()).
		Msg("Application initialized")

	return a, nil
}

func (a *App) initStorage() error {
	conn, err := badgerstorage.NewConnection(&a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.StorageManager = conn
	return nil
}

func (a *App) initServices() error {
	cat, err := catalog.Load(a.Config.Catalog.NASDAQListing, a.Config.Catalog.OtherListing)
	if err != nil {
		return fmt.Errorf("failed to load listing catalog: %w", err)
	}
	a.Catalog = cat

	a.Resolver = resolver.New(cat,
		resolver.WithMinScore(a.Config.Resolver.MinScore),
		resolver.WithTopK(a.Config.Resolver.TopK),
	)

	a.CacheStore = cachestore.New(a.StorageManager.PayloadStorage())

	provider := yahoo.NewClient(
		yahoo.WithHTTPClient(&http.Client{Timeout: a.Config.Provider.Timeout}),
		yahoo.WithChartBaseURL(a.Config.Provider.ChartBaseURL),
		yahoo.WithFundamentalsBaseURL(a.Config.Provider.FundamentalsBaseURL),
		yahoo.WithRateLimit(a.Config.Provider.RateLimit),
		yahoo.WithUserAgent(a.Config.Provider.UserAgent),
		yahoo.WithLogger(a.Logger),
	)

	a.MarketDataService = marketdata.NewService(provider, cat, a.CacheStore)
	a.AnalysisService = analysis.NewService(a.MarketDataService, a.CacheStore, nil, a.Config.Analysis)
	a.PrecomputeService = precompute.NewService(a.AnalysisService, a.Config.Precompute)
	a.StatusService = status.NewService(a.Config.Environment, cat, a.CacheStore)

	return nil
}

func (a *App) initHandlers() error {
	pageHandler, err := handlers.NewPageHandler(a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize page handler: %w", err)
	}

	a.CatalogHandler = handlers.NewCatalogHandler(a.Catalog, a.Resolver, a.Logger)
	a.MarketDataHandler = handlers.NewMarketDataHandler(a.MarketDataService, a.Logger)
	a.AnalysisHandler = handlers.NewAnalysisHandler(a.AnalysisService, a.Logger)
	a.CacheHandler = handlers.NewCacheHandler(a.CacheStore, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.StatusService, a.Logger)
	a.PageHandler = pageHandler

	return nil
}

// Start launches background services.
func (a *App) Start() error {
	if err := a.PrecomputeService.Start(); err != nil {
		return fmt.Errorf("failed to start precompute: %w", err)
	}
	return nil
}

// Close shuts down background services and storage.
func (a *App) Close() error {
	a.PrecomputeService.Stop()

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Storage close failed")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
