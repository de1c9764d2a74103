// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/mhersi/copilot-premium-tui/internal/models"
)

// Config holds the application configuration.
type Config struct {
	// Pricing are the plan constants used for quota classification,
	// overage costing and upgrade suggestions.
	Pricing models.Pricing

	// ChunkSize is the number of CSV rows read per source chunk.
	ChunkSize int
	// ProgressResolution is the row interval between progress events.
	ProgressResolution int

	// Power-user ranking tunables.
	PowerUserMinRequests float64
	PowerUserTopN        int

	// Cost-optimization thresholds, in overage requests.
	StrongOverageThreshold    float64
	BreakEvenOverageThreshold float64

	// Notify sends a desktop notification when a long ingestion run
	// finishes.
	Notify bool
	// LogFile receives log output while the TUI owns the terminal.
	LogFile string
}

// Default values
const (
	defaultChunkSize          = 1000
	defaultProgressResolution = 500
	defaultPowerUserMin       = 20.0
	defaultPowerUserTopN      = 20
	defaultStrongThreshold    = 500.0
	defaultBreakEvenThreshold = 250.0
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	pricing := models.DefaultPricing()
	pricing.BusinessQuota = getEnvFloat("CPT_BUSINESS_QUOTA", pricing.BusinessQuota)
	pricing.EnterpriseQuota = getEnvFloat("CPT_ENTERPRISE_QUOTA", pricing.EnterpriseQuota)
	pricing.OverageRatePerRequest = getEnvFloat("CPT_OVERAGE_RATE", pricing.OverageRatePerRequest)
	pricing.EnterpriseUpgradeDelta = getEnvFloat("CPT_UPGRADE_DELTA", pricing.EnterpriseUpgradeDelta)

	cfg := &Config{
		Pricing:                   pricing,
		ChunkSize:                 getEnvInt("CPT_CHUNK_SIZE", defaultChunkSize),
		ProgressResolution:        getEnvInt("CPT_PROGRESS_RESOLUTION", defaultProgressResolution),
		PowerUserMinRequests:      getEnvFloat("CPT_POWER_USER_MIN_REQUESTS", defaultPowerUserMin),
		PowerUserTopN:             getEnvInt("CPT_POWER_USER_TOP_N", defaultPowerUserTopN),
		StrongOverageThreshold:    getEnvFloat("CPT_STRONG_OVERAGE", defaultStrongThreshold),
		BreakEvenOverageThreshold: getEnvFloat("CPT_BREAK_EVEN_OVERAGE", defaultBreakEvenThreshold),
		Notify:                    getEnvBool("CPT_NOTIFY", false),
		LogFile:                   getEnvString("CPT_LOG_FILE", getDefaultLogPath()),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Pricing.BusinessQuota <= 0 || c.Pricing.EnterpriseQuota <= 0 {
		return fmt.Errorf("plan quotas must be positive (business=%v enterprise=%v)",
			c.Pricing.BusinessQuota, c.Pricing.EnterpriseQuota)
	}
	if c.Pricing.EnterpriseQuota <= c.Pricing.BusinessQuota {
		return fmt.Errorf("enterprise quota (%v) must exceed business quota (%v)",
			c.Pricing.EnterpriseQuota, c.Pricing.BusinessQuota)
	}
	if c.Pricing.OverageRatePerRequest < 0 {
		return fmt.Errorf("overage rate must not be negative")
	}
	if c.BreakEvenOverageThreshold > c.StrongOverageThreshold {
		return fmt.Errorf("break-even threshold (%v) must not exceed strong threshold (%v)",
			c.BreakEvenOverageThreshold, c.StrongOverageThreshold)
	}
	return nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory location
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "copilot-premium-tui", ".env"))
	}

	return paths
}

// getDefaultLogPath returns the default log file path.
func getDefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cpt.log"
	}
	return filepath.Join(home, ".config", "copilot-premium-tui", "cpt.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvFloat retrieves a float environment variable or returns the default.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
