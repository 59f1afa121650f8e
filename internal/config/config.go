package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	domain "gotitanic/domain/analysis"
	"gotitanic/internal"
	"gotitanic/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Admin    AdminConfig
	Data     DataConfig
	Analysis AnalysisConfig
	LogLevel string `validate:"oneof=ERROR WARN INFO DEBUG TRACE"`
}

// DatabaseConfig holds database connection settings. An empty URL runs the
// service on in-memory storage.
type DatabaseConfig struct {
	URL string `validate:"omitempty,url"`
}

// InMemory reports whether no database is configured
func (c DatabaseConfig) InMemory() bool {
	return c.URL == ""
}

// ServerConfig holds public API server settings
type ServerConfig struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"oneof=debug release test"`
}

// AdminConfig holds the health, metrics and pprof listener settings
type AdminConfig struct {
	Port    string `validate:"required,numeric"`
	Enabled bool
}

// DataConfig holds passenger import settings
type DataConfig struct {
	File        string
	SeedOnStart bool
}

// AnalysisConfig holds snapshot computation settings
type AnalysisConfig struct {
	// AgeBucketWidth of 0 keeps raw ages instead of fixed-width buckets
	AgeBucketWidth  float64       `validate:"gte=0"`
	AgeRangeMin     float64       `validate:"gte=0"`
	AgeRangeMax     float64       `validate:"gtfield=AgeRangeMin"`
	MinKnownAge     float64       `validate:"gte=0"`
	Workers         int           `validate:"gte=0,lte=256"`
	RebuildInterval time.Duration `validate:"gte=0"`
}

// AgeBinning returns the configured age buckets, or nil for raw ages
func (c AnalysisConfig) AgeBinning() *domain.Binning {
	if c.AgeBucketWidth == 0 {
		return nil
	}
	return &domain.Binning{Width: c.AgeBucketWidth, RangeMin: c.AgeRangeMin, RangeMax: c.AgeRangeMax}
}

// Level returns the parsed log level
func (c *Config) Level() internal.LogLevel {
	level, ok := internal.ParseLogLevel(c.LogLevel)
	if !ok {
		return internal.LogLevelInfo
	}
	return level
}

var validate = validator.New()

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: loadDatabaseConfig(),
		Server:   loadServerConfig(),
		Admin:    loadAdminConfig(),
		Data:     loadDataConfig(),
		LogLevel: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}

	analysisConfig, err := loadAnalysisConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load analysis configuration")
	}
	config.Analysis = *analysisConfig

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{URL: os.Getenv("DATABASE_URL")}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadAdminConfig() AdminConfig {
	return AdminConfig{
		Port:    getEnvOrDefault("ADMIN_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("ADMIN_ENABLED", true),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		File:        getEnvOrDefault("DATA_FILE", ""),
		SeedOnStart: getEnvBoolOrDefault("SEED_ON_START", false),
	}
}

// loadAnalysisConfig rejects malformed numbers instead of silently falling
// back, since a typo in a bucket width changes every published histogram
func loadAnalysisConfig() (*AnalysisConfig, error) {
	width, err := getEnvFloat("AGE_BUCKET_WIDTH", 0)
	if err != nil {
		return nil, err
	}
	rangeMin, err := getEnvFloat("AGE_RANGE_MIN", 0)
	if err != nil {
		return nil, err
	}
	rangeMax, err := getEnvFloat("AGE_RANGE_MAX", 80)
	if err != nil {
		return nil, err
	}
	minKnownAge, err := getEnvFloat("MIN_KNOWN_AGE", 0)
	if err != nil {
		return nil, err
	}

	return &AnalysisConfig{
		AgeBucketWidth:  width,
		AgeRangeMin:     rangeMin,
		AgeRangeMax:     rangeMax,
		MinKnownAge:     minKnownAge,
		Workers:         getEnvIntOrDefault("ANALYSIS_WORKERS", 4),
		RebuildInterval: getEnvDurationOrDefault("REBUILD_INTERVAL", 0),
	}, nil
}

func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return errors.ConfigInvalid(strings.Join(fields, "; "))
		}
		return errors.WithCode(errors.CodeConfigInvalid, err)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be a number, got %q", key, value))
	}
	return floatValue, nil
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
