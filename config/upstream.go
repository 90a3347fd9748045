package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// DefaultServiceURL is where the schedule generation service listens by default.
const DefaultServiceURL = "http://localhost:8000"

// GeneratorConfig locates the schedule generation service.
type GeneratorConfig struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// RatePerSec caps outbound generation requests; 0 disables the limit.
	RatePerSec int `json:"rate_per_sec"`
}

// SetDefaults applies sane defaults.
func (c *GeneratorConfig) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultServiceURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
}

// Validate checks mandatory fields.
func (c GeneratorConfig) Validate() error {
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", c.BaseURL)
	}
	if c.RatePerSec < 0 {
		return fmt.Errorf("rate_per_sec must not be negative")
	}
	return nil
}

// CatalogConfig locates the course catalog service and its refresh schedule.
type CatalogConfig struct {
	// BaseURL defaults to the generator base URL when empty.
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	// RefreshCron is a standard five-field cron expression; empty loads once.
	RefreshCron string `json:"refresh_cron"`
}

// SetDefaults applies sane defaults.
func (c *CatalogConfig) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks the URL and cron expression.
func (c CatalogConfig) Validate() error {
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("base_url must be an http(s) URL, got %q", c.BaseURL)
	}
	if c.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
			return fmt.Errorf("refresh_cron: %w", err)
		}
	}
	return nil
}
