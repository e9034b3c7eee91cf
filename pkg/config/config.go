// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	// Category allow-lists injected into the cleaning pipelines
	Continents        []string
	CountryCodes      []string
	TimePeriods       []string
	ProductCategories []string

	// CurrencyToken is the currency symbol stripped from price columns
	CurrencyToken string

	// DayFirst controls date-format inference for ambiguous layouts
	// such as 01/02/2006 (day-first reads it as 1 February)
	DayFirst bool

	// Unit-to-kilogram conversion factors for the weight parser
	WeightFactors map[string]float64

	// Postgres sink (optional; nil disables the sink)
	Postgres *PostgresConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// Default returns the configuration used when no environment overrides
// are present
func Default() *Config {
	return &Config{
		Continents:        []string{"Europe", "America"},
		CountryCodes:      []string{"DE", "GB", "US"},
		TimePeriods:       []string{"Evening", "Morning", "Midday", "Late_Hours"},
		ProductCategories: []string{"diy", "food-and-drink", "health-and-beauty", "homeware", "pets", "sports-and-leisure", "toys-and-games"},
		CurrencyToken:     "£",
		DayFirst:          true,
		WeightFactors: map[string]float64{
			"kg": 1,
			"g":  0.001,
			"ml": 0.001, // millilitres treated as mass-equivalent for this catalog
			"oz": 0.0283495,
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load loads configuration from the environment, reading a .env file first
// if one is present
func Load() (*Config, error) {
	// Missing .env is fine; real environments set variables directly
	_ = godotenv.Load()

	cfg := Default()
	cfg.Continents = getEnvAsStringSlice("VALID_CONTINENTS", cfg.Continents)
	cfg.CountryCodes = getEnvAsStringSlice("VALID_COUNTRY_CODES", cfg.CountryCodes)
	cfg.TimePeriods = getEnvAsStringSlice("VALID_TIME_PERIODS", cfg.TimePeriods)
	cfg.ProductCategories = getEnvAsStringSlice("VALID_PRODUCT_CATEGORIES", cfg.ProductCategories)
	cfg.CurrencyToken = getEnv("CURRENCY_TOKEN", cfg.CurrencyToken)
	cfg.DayFirst = getEnvAsBool("DATE_DAY_FIRST", cfg.DayFirst)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	if os.Getenv("POSTGRES_HOST") != "" {
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return nil, errors.New("failed to load PostgreSQL configuration: " + err.Error())
		}
		cfg.Postgres = pgConfig
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	if len(c.Continents) == 0 {
		return errors.New("continent allow-list cannot be empty")
	}
	if len(c.CountryCodes) == 0 {
		return errors.New("country code allow-list cannot be empty")
	}
	if len(c.TimePeriods) == 0 {
		return errors.New("time period allow-list cannot be empty")
	}
	if len(c.ProductCategories) == 0 {
		return errors.New("product category allow-list cannot be empty")
	}
	if len(c.WeightFactors) == 0 {
		return errors.New("weight conversion table cannot be empty")
	}
	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
