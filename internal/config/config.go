package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the Campaign-Insights application.
type Config struct {
	Server     ServerConfig
	Dataset    DatasetConfig
	Database   DatabaseConfig
	ClickHouse ClickHouseConfig
	Redis      RedisConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
	Metrics    MetricsConfig
}

type ServerConfig struct {
	Addr            string
	Env             string
	ShutdownTimeout time.Duration
}

// Dataset source kinds.
const (
	SourceCSV        = "csv"
	SourcePostgres   = "postgres"
	SourceClickHouse = "clickhouse"
)

// DatasetConfig selects and tunes the event-log source.
type DatasetConfig struct {
	// Source is one of csv, postgres, clickhouse.
	Source string
	// CSVPath is the event log file for the csv source.
	CSVPath string
	// Table is the event table name for the database sources.
	Table string
	// Strict fails the load on the first malformed row. When false,
	// malformed rows are quarantined (skipped and counted) instead.
	Strict bool
	// TopLocations is the N for the location ranking.
	TopLocations int
	// CacheTTL bounds the Redis dashboard-result cache entries.
	CacheTTL time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type ClickHouseConfig struct {
	Addr     string
	Database string
	User     string
	Password string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type LogConfig struct {
	Level  string
	Format string
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            getEnv("CAMPAIGN_INSIGHTS_HTTP_ADDR", ":8080"),
			Env:             getEnv("CAMPAIGN_INSIGHTS_ENV", "development"),
			ShutdownTimeout: getDurationEnv("CAMPAIGN_INSIGHTS_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Dataset: DatasetConfig{
			Source:       getEnv("CAMPAIGN_INSIGHTS_DATASET_SOURCE", SourceCSV),
			CSVPath:      getEnv("CAMPAIGN_INSIGHTS_DATASET_CSV_PATH", "ecommerce_campaign_data.csv"),
			Table:        getEnv("CAMPAIGN_INSIGHTS_DATASET_TABLE", "campaign_events"),
			Strict:       getBoolEnv("CAMPAIGN_INSIGHTS_DATASET_STRICT", true),
			TopLocations: getIntEnv("CAMPAIGN_INSIGHTS_TOP_LOCATIONS", 15),
			CacheTTL:     getDurationEnv("CAMPAIGN_INSIGHTS_RESULT_CACHE_TTL", 5*time.Minute),
		},
		Database: DatabaseConfig{
			Host:     getEnv("CAMPAIGN_INSIGHTS_DB_HOST", "localhost"),
			Port:     getIntEnv("CAMPAIGN_INSIGHTS_DB_PORT", 5432),
			User:     getEnv("CAMPAIGN_INSIGHTS_DB_USER", "insights"),
			Password: getEnv("CAMPAIGN_INSIGHTS_DB_PASSWORD", "insights_secret"),
			DBName:   getEnv("CAMPAIGN_INSIGHTS_DB_NAME", "insights"),
			SSLMode:  getEnv("CAMPAIGN_INSIGHTS_DB_SSLMODE", "disable"),
			MaxConns: getIntEnv("CAMPAIGN_INSIGHTS_DB_MAX_CONNS", 10),
			MinConns: getIntEnv("CAMPAIGN_INSIGHTS_DB_MIN_CONNS", 2),
		},
		ClickHouse: ClickHouseConfig{
			Addr:     getEnv("CAMPAIGN_INSIGHTS_CLICKHOUSE_ADDR", "localhost:9000"),
			Database: getEnv("CAMPAIGN_INSIGHTS_CLICKHOUSE_DB", "insights"),
			User:     getEnv("CAMPAIGN_INSIGHTS_CLICKHOUSE_USER", "default"),
			Password: getEnv("CAMPAIGN_INSIGHTS_CLICKHOUSE_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("CAMPAIGN_INSIGHTS_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("CAMPAIGN_INSIGHTS_REDIS_PASSWORD", ""),
			DB:       getIntEnv("CAMPAIGN_INSIGHTS_REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolEnv("CAMPAIGN_INSIGHTS_RATE_LIMIT_ENABLED", true),
			RPS:     getFloatEnv("CAMPAIGN_INSIGHTS_RATE_LIMIT_RPS", 100),
			Burst:   getIntEnv("CAMPAIGN_INSIGHTS_RATE_LIMIT_BURST", 20),
		},
		Log: LogConfig{
			Level:  getEnv("CAMPAIGN_INSIGHTS_LOG_LEVEL", "info"),
			Format: getEnv("CAMPAIGN_INSIGHTS_LOG_FORMAT", "json"),
		},
		Metrics: MetricsConfig{
			Enabled: getBoolEnv("CAMPAIGN_INSIGHTS_METRICS_ENABLED", true),
			Path:    getEnv("CAMPAIGN_INSIGHTS_METRICS_PATH", "/metrics"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Dataset.Source {
	case SourceCSV:
		if c.Dataset.CSVPath == "" {
			return fmt.Errorf("CAMPAIGN_INSIGHTS_DATASET_CSV_PATH is required for the csv source")
		}
	case SourcePostgres, SourceClickHouse:
		if c.Dataset.Table == "" {
			return fmt.Errorf("CAMPAIGN_INSIGHTS_DATASET_TABLE is required for the %s source", c.Dataset.Source)
		}
	default:
		return fmt.Errorf("unknown dataset source %q", c.Dataset.Source)
	}
	if c.Dataset.TopLocations <= 0 {
		return fmt.Errorf("CAMPAIGN_INSIGHTS_TOP_LOCATIONS must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions for reading environment variables

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getSliceEnv(key string, def []string) []string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		return result
	}
	return def
}
