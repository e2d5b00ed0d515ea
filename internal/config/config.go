package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Simplici0/roi-estimator/internal/roi"
)

// Sentinel error kinds for this package.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

const (
	defaultAddr            = ":8080"
	defaultLogLevel        = "info"
	defaultCurrency        = "EUR"
	defaultShutdownSeconds = 10
)

// Config holds application configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Currency is the code printed in front of amounts. No conversion happens.
	Currency string `koanf:"currency"`

	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds"`

	// MetricsBuckets overrides the request duration histogram buckets, in milliseconds.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`

	// Initial form values.
	DefaultBaselineRevenue float64 `koanf:"default_baseline_revenue"`
	DefaultMarginPercent   int     `koanf:"default_margin_percent"`
	DefaultUpliftPercent   int     `koanf:"default_uplift_percent"`
	DefaultHorizonMonths   int     `koanf:"default_horizon_months"`
	DefaultSetupFee        float64 `koanf:"default_setup_fee"`
	DefaultMonthlyRetainer float64 `koanf:"default_monthly_retainer"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:                   defaultAddr,
		LogLevel:               defaultLogLevel,
		Currency:               defaultCurrency,
		ShutdownTimeoutSeconds: defaultShutdownSeconds,
		DefaultBaselineRevenue: 50_000,
		DefaultMarginPercent:   40,
		DefaultUpliftPercent:   15,
		DefaultHorizonMonths:   12,
		DefaultSetupFee:        8_000,
		DefaultMonthlyRetainer: 4_000,
	}
}

// Defaults returns the initial form values as a model input.
func (c *Config) Defaults() roi.Input {
	return roi.Input{
		BaselineRevenue: c.DefaultBaselineRevenue,
		MarginPercent:   c.DefaultMarginPercent,
		UpliftPercent:   c.DefaultUpliftPercent,
		HorizonMonths:   c.DefaultHorizonMonths,
		SetupFee:        c.DefaultSetupFee,
		MonthlyRetainer: c.DefaultMonthlyRetainer,
	}
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.Currency == "" {
		return fmt.Errorf("%w: currency must not be empty", ErrInvalidConfig)
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("%w: shutdown_timeout_seconds must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	for i, b := range c.MetricsBuckets {
		if i > 0 && b <= c.MetricsBuckets[i-1] {
			return fmt.Errorf("%w: metrics_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}
	if err := c.Defaults().Validate(); err != nil {
		return fmt.Errorf("%w: default inputs: %w", ErrInvalidConfig, err)
	}
	return nil
}
