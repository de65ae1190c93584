package config

import (
	"time"

	"stocksense-api/pkg/config"
)

// Dispatcher holds settings for delivering analysis requests to the external
// automation system.
type Dispatcher struct {
	// Strategy selects how dispatched requests reach the external system:
	// "webhook" posts to the user's configured URL, "queue" publishes to the
	// analysis request stream for an external poller.
	Strategy            string        `mapstructure:"strategy"`
	WebhookTimeout      time.Duration `mapstructure:"webhook_timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

// Callback holds settings for the inbound result callback endpoint.
type Callback struct {
	// AuthToken, when set, must match the X-Callback-Token header of every
	// callback. Empty leaves the endpoint open to the external system.
	AuthToken string `mapstructure:"auth_token"`
}

// Results holds settings for the analysis result listing.
type Results struct {
	PageSize int `mapstructure:"page_size"`
}

// Portfolio holds settings for the portfolio valuation.
type Portfolio struct {
	// QuoteOverrides extends or replaces entries of the static quote table,
	// keyed by symbol.
	QuoteOverrides map[string]float64 `mapstructure:"quote_overrides"`
	QuoteCacheTTL  time.Duration      `mapstructure:"quote_cache_ttl"`
}

// Retention holds settings for the periodic analysis cleanup job.
type Retention struct {
	Cron       string `mapstructure:"cron"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Config holds the full configuration for the API service.
type Config struct {
	App        config.App      `mapstructure:"app"`
	Logger     config.Logger   `mapstructure:"logger"`
	Database   config.Database `mapstructure:"database"`
	Redis      config.Redis    `mapstructure:"redis"`
	API        config.API      `mapstructure:"api"`
	Telegram   config.Telegram `mapstructure:"telegram"`
	Dispatcher Dispatcher      `mapstructure:"dispatcher"`
	Callback   Callback        `mapstructure:"callback"`
	Results    Results         `mapstructure:"results"`
	Portfolio  Portfolio       `mapstructure:"portfolio"`
	Retention  Retention       `mapstructure:"retention"`
}

// Load loads the API service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}

	if cfg.Dispatcher.Strategy == "" {
		cfg.Dispatcher.Strategy = "webhook"
	}
	if cfg.Dispatcher.WebhookTimeout == 0 {
		cfg.Dispatcher.WebhookTimeout = 30 * time.Second
	}
	if cfg.Dispatcher.MaxRequestPerMinute == 0 {
		cfg.Dispatcher.MaxRequestPerMinute = 60
	}
	if cfg.Results.PageSize == 0 {
		cfg.Results.PageSize = 10
	}
	if cfg.Portfolio.QuoteCacheTTL == 0 {
		cfg.Portfolio.QuoteCacheTTL = 5 * time.Minute
	}
	if cfg.Retention.Cron == "" {
		cfg.Retention.Cron = "0 3 * * *"
	}

	return &cfg, nil
}
