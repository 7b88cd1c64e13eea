package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Geocoder GeocoderConfig
	Import   ImportConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Database    string
	SSLMode     string
	AutoMigrate bool
}

type GeocoderConfig struct {
	BaseURL     string
	UserAgent   string
	MaxAttempts int
	RetryDelay  time.Duration
	Timeout     time.Duration
}

type ImportConfig struct {
	// DefaultCountry is appended to addresses that don't already mention it
	// before geocoding.
	DefaultCountry string
	// WorkColumnMax is the last column index treated as the work/expense side
	// of a sheet; amount columns beyond it are income.
	WorkColumnMax int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvAsInt("POSTGRES_PORT", 5432),
			User:        getEnv("POSTGRES_USER", "postgres"),
			Password:    getEnv("POSTGRES_PASSWORD", "postgres"),
			Database:    getEnv("POSTGRES_DB", "propintel-dev"),
			SSLMode:     getEnv("POSTGRES_SSLMODE", "disable"),
			AutoMigrate: getEnvAsBool("AUTO_MIGRATE", true),
		},
		Geocoder: GeocoderConfig{
			BaseURL:     getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
			UserAgent:   getEnv("GEOCODER_USER_AGENT", "propintel_geocoder"),
			MaxAttempts: getEnvAsInt("GEOCODER_MAX_ATTEMPTS", 3),
			RetryDelay:  getEnvAsDuration("GEOCODER_RETRY_DELAY", time.Second),
			Timeout:     getEnvAsDuration("GEOCODER_TIMEOUT", 10*time.Second),
		},
		Import: ImportConfig{
			DefaultCountry: getEnv("IMPORT_DEFAULT_COUNTRY", "Australia"),
			WorkColumnMax:  getEnvAsInt("IMPORT_WORK_COLUMN_MAX", 6),
		},
	}

	if cfg.Import.WorkColumnMax < 1 {
		return nil, fmt.Errorf("IMPORT_WORK_COLUMN_MAX must be positive, got %d", cfg.Import.WorkColumnMax)
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
