package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"powerts/internal/errors"
)

// Config represents the complete batch-run configuration, loaded from the
// environment the way the rest of the deployment expects.
type Config struct {
	// DataDir is the root of the download layout:
	// DataDir/source/variable/<start>_<end>/<file>.
	DataDir string

	// SourcesFile points at the declarative per-source YAML configuration.
	SourcesFile string

	// StartFromUser / EndFromUser optionally narrow the processed range.
	// Containers entirely outside the window are not even read.
	StartFromUser time.Time
	EndFromUser   time.Time

	// Patch enables gap interpolation on the merged datasets.
	Patch bool

	// EstimateLongGaps enables the experimental sibling-TSO estimator for
	// long gaps in German generation data. Off by default; see
	// internal/imputation.
	EstimateLongGaps bool

	// DatabaseURL, when set, enables the SQL audit sink for gap records.
	DatabaseURL string

	// Timezone is the reference zone for user-range day boundaries.
	Timezone string

	LogLevel string
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		DataDir:     getEnvDefault("DATA_DIR", "original_data"),
		SourcesFile: getEnvDefault("SOURCES_FILE", "sources.yml"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Timezone:    getEnvDefault("TIMEZONE", "Europe/Brussels"),
		LogLevel:    getEnvDefault("LOG_LEVEL", "INFO"),
	}

	var err error
	if cfg.StartFromUser, err = parseDate(os.Getenv("START_DATE")); err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("START_DATE: %v", err))
	}
	if cfg.EndFromUser, err = parseDate(os.Getenv("END_DATE")); err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("END_DATE: %v", err))
	}
	cfg.Patch = getEnvBool("PATCH", true)
	cfg.EstimateLongGaps = getEnvBool("ESTIMATE_LONG_GAPS", false)

	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, errors.ConfigInvalid(fmt.Sprintf("TIMEZONE %q: %v", cfg.Timezone, err))
	}
	return cfg, nil
}

// Location returns the parsed reference zone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
