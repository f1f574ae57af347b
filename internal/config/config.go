// Package config loads runtime settings from the environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP settings
	HTTPAddr        string
	RefreshInterval time.Duration // browser auto-refresh period

	// Feed settings
	FeedsConfigPath string
	CacheTTL        time.Duration
	RequestTimeout  time.Duration
	FetchInterval   time.Duration // min spacing between outbound fetches
	FetchBurst      int

	// Rendering
	DisplayTimezone string
	Location        *time.Location

	// Gemini settings (optional sentiment scorer)
	GeminiAPIKey string
	GeminiModel  string

	// App settings
	Debug bool
}

// Default returns the built-in settings, before the environment is applied.
func Default() *Config {
	return &Config{
		HTTPAddr:        ":8080",
		RefreshInterval: 60 * time.Second,
		FeedsConfigPath: "configs/feeds.yaml",
		CacheTTL:        60 * time.Second,
		RequestTimeout:  15 * time.Second,
		FetchInterval:   250 * time.Millisecond,
		FetchBurst:      3,
		DisplayTimezone: "America/New_York",
		GeminiModel:     "gemini-1.5-flash",
	}
}

// Load reads .env (when present) and the process environment on top of Default.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	cfg.HTTPAddr = getEnvOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.DisplayTimezone = getEnvOrDefault("DISPLAY_TIMEZONE", cfg.DisplayTimezone)
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getEnvOrDefault("GEMINI_MODEL", cfg.GeminiModel)

	cfg.CacheTTL = getEnvSecondsOrDefault("CACHE_TTL_SECONDS", cfg.CacheTTL)
	cfg.RefreshInterval = getEnvSecondsOrDefault("REFRESH_SECONDS", cfg.RefreshInterval)
	cfg.RequestTimeout = getEnvSecondsOrDefault("REQUEST_TIMEOUT_SECONDS", cfg.RequestTimeout)

	if v := os.Getenv("FETCH_RATE_MS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			cfg.FetchInterval = time.Duration(val) * time.Millisecond
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return time.Duration(intValue) * time.Second
		}
	}
	return defaultValue
}

// Validate checks the settings and resolves DisplayTimezone into Location.
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("REFRESH_SECONDS must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	if c.FetchInterval < 0 {
		return fmt.Errorf("FETCH_RATE_MS must not be negative")
	}
	if c.FetchBurst <= 0 {
		c.FetchBurst = 1
	}

	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return fmt.Errorf("DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	c.Location = loc
	return nil
}
