package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Threshold       float64 `envconfig:"DEDUP_THRESHOLD" default:"0.90"`
	UpdateThreshold float64 `envconfig:"DEDUP_UPDATE_THRESHOLD" default:"0.92"`
	MaxBatchItems   int     `envconfig:"DEDUP_MAX_BATCH_ITEMS" default:"5000"`
	MaxTitleBytes   int     `envconfig:"DEDUP_MAX_TITLE_BYTES" default:"4096"`
	DetectLanguages string  `envconfig:"DEDUP_DETECT_LANGUAGES" default:"en,fr,es,pt,ar"`

	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks ranges that would make the host layer unusable. Thresholds
// are only required to be finite; the engine accepts any value.
func (c *Config) Validate() error {
	if !isFinite(c.Threshold) {
		return fmt.Errorf("DEDUP_THRESHOLD must be a finite number")
	}
	if !isFinite(c.UpdateThreshold) {
		return fmt.Errorf("DEDUP_UPDATE_THRESHOLD must be a finite number")
	}
	if c.MaxBatchItems < 1 {
		return fmt.Errorf("DEDUP_MAX_BATCH_ITEMS must be >= 1")
	}
	if c.MaxTitleBytes < 1 {
		return fmt.Errorf("DEDUP_MAX_TITLE_BYTES must be >= 1")
	}
	return nil
}

func (c *Config) DetectLanguagesList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.DetectLanguages)
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}
	return splitList(c.CORSAllowedOrigins)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value == "" {
			continue
		}
		if _, exists := seen[value]; exists {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}
	return values
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
