package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Cache    CacheConfig
	Log      LogConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	Schema          string
	SQLitePath      string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Environment  string
	Port         string
	Timezone     string
	Currency     string
	TemplatesDir string
}

// CacheConfig selects the analytics cache backend
type CacheConfig struct {
	Driver   string
	RedisURL string
	TTL      time.Duration
	Prefix   string
}

// LogConfig controls the zap logger
type LogConfig struct {
	Level    string
	Encoding string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// A missing .env is fine outside development
	_ = godotenv.Load()

	maxIdle, err := getEnvInt("DB_MAX_IDLE_CONNS", 10)
	if err != nil {
		return nil, err
	}
	maxOpen, err := getEnvInt("DB_MAX_OPEN_CONNS", 100)
	if err != nil {
		return nil, err
	}
	lifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", time.Hour)
	if err != nil {
		return nil, err
	}
	ttl, err := getEnvDuration("CACHE_TTL", time.Hour)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "postgres"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			DBName:          getEnv("DB_NAME", "vivita_inventory"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			Schema:          getEnv("DB_SCHEMA", "inventory"),
			SQLitePath:      getEnv("DB_SQLITE_PATH", "vivita_inventory.db"),
			MaxIdleConns:    maxIdle,
			MaxOpenConns:    maxOpen,
			ConnMaxLifetime: lifetime,
		},
		App: AppConfig{
			Environment:  getEnv("APP_ENV", "development"),
			Port:         getEnv("APP_PORT", "8080"),
			Timezone:     getEnv("APP_TIMEZONE", "Asia/Manila"),
			Currency:     getEnv("APP_CURRENCY", "₱"),
			TemplatesDir: getEnv("APP_TEMPLATES", "./web/templates"),
		},
		Cache: CacheConfig{
			Driver:   getEnv("CACHE_DRIVER", "memory"),
			RedisURL: getEnv("REDIS_URL", ""),
			TTL:      ttl,
			Prefix:   getEnv("CACHE_PREFIX", "vivita_inventory_"),
		},
		Log: LogConfig{
			Level:    getEnv("LOG_LEVEL", ""),
			Encoding: getEnv("LOG_ENCODING", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations the application cannot start with
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	switch c.Cache.Driver {
	case "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("CACHE_DRIVER=redis requires REDIS_URL")
		}
	default:
		return fmt.Errorf("unsupported CACHE_DRIVER %q", c.Cache.Driver)
	}
	if _, err := c.App.Location(); err != nil {
		return err
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// Location resolves the configured display timezone
func (c *AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

// getEnvDuration accepts Go durations ("90s") or plain seconds ("3600")
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
