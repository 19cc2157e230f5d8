package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	Provider    ProviderConfig   `toml:"provider"`
	Catalog     CatalogConfig    `toml:"catalog"`
	Resolver    ResolverConfig   `toml:"resolver"`
	Analysis    AnalysisConfig   `toml:"analysis"`
	Precompute  PrecomputeConfig `toml:"precompute"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"oneof=debug info warn error"` // "debug", "info", "warn", "error"
	Output []string `toml:"output"`                                       // "stdout", "file"
}

// ProviderConfig contains the market data provider client settings.
type ProviderConfig struct {
	ChartBaseURL        string        `toml:"chart_base_url" validate:"required,url"`
	FundamentalsBaseURL string        `toml:"fundamentals_base_url" validate:"required,url"`
	Timeout             time.Duration `toml:"timeout"`
	RateLimit           int           `toml:"rate_limit" validate:"gt=0"` // requests per second
	UserAgent           string        `toml:"user_agent"`
}

// CatalogConfig points at the static exchange listing files loaded at startup.
type CatalogConfig struct {
	NASDAQListing string `toml:"nasdaq_listing" validate:"required"`
	OtherListing  string `toml:"other_listing" validate:"required"`
}

// ResolverConfig tunes fuzzy ticker resolution.
type ResolverConfig struct {
	MinScore float64 `toml:"min_score" validate:"gte=0,lte=1"` // minimum similarity for a fuzzy candidate
	TopK     int     `toml:"top_k" validate:"gt=0"`            // max fuzzy candidates returned
}

// AnalysisConfig tunes the change analyzer windows and significance level.
type AnalysisConfig struct {
	PreDays           int     `toml:"pre_days" validate:"gt=0"`  // calendar days of pre-anchor history requested
	PostDays          int     `toml:"post_days" validate:"gt=0"` // calendar days of post-anchor history requested
	MinPrePoints      int     `toml:"min_pre_points" validate:"gt=1"`
	MinPostPoints     int     `toml:"min_post_points" validate:"gt=0"`
	SignificanceLevel float64 `toml:"significance_level" validate:"gt=0,lt=1"`
}

// PrecomputeConfig controls scheduled cache warming for the watchlist.
type PrecomputeConfig struct {
	Enabled       bool     `toml:"enabled"`
	Schedule      string   `toml:"schedule"` // cron format (with seconds)
	Watchlist     []string `toml:"watchlist"`
	Granularities []string `toml:"granularities"`
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings belong in swiftgrasp.toml; technical parameters
// keep their defaults here.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Provider: ProviderConfig{
			ChartBaseURL:        "https://query1.finance.yahoo.com/v8/finance/chart",
			FundamentalsBaseURL: "https://query1.finance.yahoo.com/ws/fundamentals-timeseries/v1/finance/timeseries",
			Timeout:             30 * time.Second,
			RateLimit:           5,
			UserAgent:           "Mozilla/5.0",
		},
		Catalog: CatalogConfig{
			NASDAQListing: "./resources/nasdaq-listed.csv",
			OtherListing:  "./resources/other-listed.csv",
		},
		Resolver: ResolverConfig{
			MinScore: 0.55,
			TopK:     5,
		},
		Analysis: AnalysisConfig{
			PreDays:           365,
			PostDays:          60,
			MinPrePoints:      30,
			MinPostPoints:     5,
			SignificanceLevel: 0.05,
		},
		Precompute: PrecomputeConfig{
			Enabled:       false,
			Schedule:      "0 0 6 * * *", // daily at 06:00
			Watchlist:     []string{},
			Granularities: []string{"quarterly", "yearly"},
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files; later files override
// earlier ones. Priority: CLI flags > environment variables > last config
// file > ... > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("SWIFTGRASP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("SWIFTGRASP_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("SWIFTGRASP_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("SWIFTGRASP_DATA_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("SWIFTGRASP_ENV"); v != "" {
		config.Environment = v
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority).
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the configuration for invalid values, including the
// precompute cron schedule when precompute is enabled.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Precompute.Enabled {
		if err := ValidateSchedule(c.Precompute.Schedule); err != nil {
			return fmt.Errorf("invalid precompute schedule: %w", err)
		}
		for _, g := range c.Precompute.Granularities {
			if g != "quarterly" && g != "yearly" {
				return fmt.Errorf("invalid precompute granularity %q", g)
			}
		}
	}

	return nil
}

// ValidateSchedule checks that a schedule string is valid 6-field cron syntax
// (with seconds).
func ValidateSchedule(schedule string) error {
	if schedule == "" {
		return fmt.Errorf("schedule cannot be empty")
	}
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	return nil
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
