package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"gosubgroup/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Quality QualityConfig
	Data    DataConfig
	Log     LogConfig
}

// QualityConfig selects and parametrizes a quality function
type QualityConfig struct {
	Name         string
	A            float64
	Direction    string
	MinInstances int
	Stat         string
}

// DataConfig says where the dataset comes from and what the target is
type DataConfig struct {
	File            string
	DatabaseURL     string
	DatabaseDriver  string
	Query           string
	Target          string
	WeightAttribute string
}

// LogConfig holds logging settings
type LogConfig struct {
	Mode string
}

// Defaults mirror the quality function defaults
const (
	DefaultQualityName  = "wracc"
	DefaultDirection    = "both"
	DefaultMinInstances = 5
	DefaultStat         = "chi2"
)

// LoadDotEnv reads .env style files into the environment. Missing files are
// ignored; a file that exists but does not parse is a configuration error.
func LoadDotEnv(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("failed to load %s: %w", strings.Join(existing, ", "), err))
	}
	return nil
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	quality, err := loadQualityConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load quality configuration")
	}

	config := &Config{
		Quality: *quality,
		Data:    *loadDataConfig(),
		Log:     LogConfig{Mode: getEnvOrDefault("LOG_MODE", "dev")},
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadQualityConfig() (*QualityConfig, error) {
	a, err := getEnvFloat("QF_A", 1.0)
	if err != nil {
		return nil, err
	}
	minInstances, err := getEnvInt("QF_MIN_INSTANCES", DefaultMinInstances)
	if err != nil {
		return nil, err
	}

	return &QualityConfig{
		Name:         strings.ToLower(getEnvOrDefault("QF_NAME", DefaultQualityName)),
		A:            a,
		Direction:    getEnvOrDefault("QF_DIRECTION", DefaultDirection),
		MinInstances: minInstances,
		Stat:         getEnvOrDefault("QF_STAT", DefaultStat),
	}, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:            getEnvOrDefault("DATA_FILE", ""),
		DatabaseURL:     getEnvOrDefault("DATABASE_URL", ""),
		DatabaseDriver:  getEnvOrDefault("DATABASE_DRIVER", "postgres"),
		Query:           getEnvOrDefault("DATA_QUERY", ""),
		Target:          getEnvOrDefault("TARGET", ""),
		WeightAttribute: getEnvOrDefault("WEIGHT_ATTR", ""),
	}
}

// Validate checks values that do not depend on the chosen quality function
func (c *Config) Validate() error {
	if c.Quality.Name == "" {
		return errors.ConfigInvalid("quality function name is required")
	}
	if c.Quality.MinInstances < 0 {
		return errors.ConfigInvalid("QF_MIN_INSTANCES must not be negative")
	}
	if c.Data.DatabaseURL != "" && c.Data.Query == "" {
		return errors.ConfigInvalid("DATA_QUERY is required when DATABASE_URL is set")
	}
	return nil
}

// ParseTarget splits "attribute=value"
func ParseTarget(s string) (string, string, error) {
	attr, value, ok := strings.Cut(s, "=")
	attr = strings.TrimSpace(attr)
	if !ok || attr == "" {
		return "", "", errors.ConfigInvalid("target must look like attribute=value, got " + strconv.Quote(s))
	}
	return attr, strings.TrimSpace(value), nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be an integer")
	}
	return intValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, errors.ConfigInvalid(key + " must be a number")
	}
	return floatValue, nil
}
