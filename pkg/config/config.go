// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defaults, an optional YAML file overlay, then environment overrides, then Validate

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv names the environment variable that points at a YAML config file
const ConfigPathEnv = "TECHPULSE_CONFIG"

// Config holds all application configuration
type Config struct {
	// Ingest contains refresh pipeline configuration
	Ingest IngestConfig `yaml:"ingest"`

	// Retention contains article expiry configuration
	Retention RetentionConfig `yaml:"retention"`

	// Store contains article and source persistence configuration
	Store StoreConfig `yaml:"store"`

	// Cache contains cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Semantic contains the optional model-backed tagger configuration
	Semantic SemanticConfig `yaml:"semantic"`

	// Logging contains logger configuration
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains the Prometheus endpoint configuration
	Metrics MetricsConfig `yaml:"metrics"`

	// API contains the admin HTTP API configuration
	API APIConfig `yaml:"api"`
}

// IngestConfig holds refresh pipeline configuration
type IngestConfig struct {
	// PoolSize bounds how many sources are processed concurrently
	PoolSize int `yaml:"pool_size"`

	// SourceTimeoutSeconds is the deadline for one source
	SourceTimeoutSeconds int `yaml:"source_timeout_seconds"`

	// Schedule is the cron expression for scheduled refreshes
	Schedule string `yaml:"schedule"`

	// FetchRatePerHost is the sustained request rate per feed host; 0 disables limiting
	FetchRatePerHost float64 `yaml:"fetch_rate_per_host"`

	// FetchBurst is the per-host burst size
	FetchBurst int `yaml:"fetch_burst"`

	// FetchRetries is how many times a failed fetch is retried
	FetchRetries int `yaml:"fetch_retries"`
}

// RetentionConfig holds article expiry configuration
type RetentionConfig struct {
	// Days is the maximum article age
	Days int `yaml:"days"`

	// IntervalHours is the time between sweeps
	IntervalHours int `yaml:"interval_hours"`
}

// StoreConfig holds article and source persistence configuration
type StoreConfig struct {
	// Type specifies the store backend (sqlite/redis)
	Type string `yaml:"type"`

	// Path is the SQLite database file
	Path string `yaml:"path"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig `yaml:"redis"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite/none)
	Type string `yaml:"type"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig `yaml:"redis"`

	// Memory contains in-memory cache configuration
	Memory MemoryConfig `yaml:"memory"`

	// SQLitePath is the SQLite cache file
	SQLitePath string `yaml:"sqlite_path"`

	// FeedTTLSeconds is how long fetched feed bodies are reused
	FeedTTLSeconds int `yaml:"feed_ttl_seconds"`

	// ExtractionTTLSeconds is how long semantic extraction results are reused
	ExtractionTTLSeconds int `yaml:"extraction_ttl_seconds"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string `yaml:"address"`

	// Password is the Redis authentication password
	Password string `yaml:"password"`

	// DB is the Redis database number
	DB int `yaml:"db"`
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int `yaml:"default_expiration"`
}

// SemanticConfig holds the OpenAI-compatible model configuration
type SemanticConfig struct {
	Enabled bool   `yaml:"enabled"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	Token   string `yaml:"token"`

	// TimeoutSeconds bounds one model call
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// MetricsConfig holds the metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// APIConfig holds the admin HTTP API configuration
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`

	// RateLimit is the number of requests per client allowed in each window; 0 disables limiting
	RateLimit         int `yaml:"rate_limit"`
	RateWindowSeconds int `yaml:"rate_window_seconds"`
}

// Default returns a Config populated with default values
func Default() *Config {
	return &Config{
		Ingest: IngestConfig{
			PoolSize:             8,
			SourceTimeoutSeconds: 60,
			Schedule:             "@every 1h",
			FetchRatePerHost:     2,
			FetchBurst:           4,
			FetchRetries:         3,
		},
		Retention: RetentionConfig{
			Days:          30,
			IntervalHours: 24,
		},
		Store: StoreConfig{
			Type:  "sqlite",
			Path:  "techpulse.db",
			Redis: RedisConfig{Address: "localhost:6379"},
		},
		Cache: CacheConfig{
			Type:                 "memory",
			Redis:                RedisConfig{Address: "localhost:6379"},
			Memory:               MemoryConfig{DefaultExpiration: 3600},
			SQLitePath:           "cache.db",
			FeedTTLSeconds:       300,
			ExtractionTTLSeconds: 86400,
		},
		Semantic: SemanticConfig{
			Model:          "gpt-4o-mini",
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Address: ":9090",
		},
		API: APIConfig{
			Enabled:           true,
			Address:           ":8000",
			RateLimit:         60,
			RateWindowSeconds: 60,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (or
// $TECHPULSE_CONFIG when path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() (*Config, error) {
	cfg := Default()
	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Ingest.PoolSize = getEnvAsIntOrDefault("INGEST_POOL_SIZE", cfg.Ingest.PoolSize)
	cfg.Ingest.SourceTimeoutSeconds = getEnvAsIntOrDefault("SOURCE_TIMEOUT_SECONDS", cfg.Ingest.SourceTimeoutSeconds)
	cfg.Ingest.Schedule = getEnvOrDefault("REFRESH_SCHEDULE", cfg.Ingest.Schedule)
	cfg.Ingest.FetchRatePerHost = getEnvAsFloatOrDefault("FETCH_RATE_PER_HOST", cfg.Ingest.FetchRatePerHost)
	cfg.Ingest.FetchBurst = getEnvAsIntOrDefault("FETCH_BURST", cfg.Ingest.FetchBurst)
	cfg.Ingest.FetchRetries = getEnvAsIntOrDefault("FETCH_RETRIES", cfg.Ingest.FetchRetries)

	cfg.Retention.Days = getEnvAsIntOrDefault("RETENTION_DAYS", cfg.Retention.Days)
	cfg.Retention.IntervalHours = getEnvAsIntOrDefault("RETENTION_INTERVAL_HOURS", cfg.Retention.IntervalHours)

	cfg.Store.Type = getEnvOrDefault("STORE_TYPE", cfg.Store.Type)
	cfg.Store.Path = getEnvOrDefault("STORE_PATH", cfg.Store.Path)
	cfg.Store.Redis.Address = getEnvOrDefault("STORE_REDIS_ADDRESS", cfg.Store.Redis.Address)
	cfg.Store.Redis.Password = getEnvOrDefault("STORE_REDIS_PASSWORD", cfg.Store.Redis.Password)
	cfg.Store.Redis.DB = getEnvAsIntOrDefault("STORE_REDIS_DB", cfg.Store.Redis.DB)

	cfg.Cache.Type = getEnvOrDefault("CACHE_TYPE", cfg.Cache.Type)
	cfg.Cache.Redis.Address = getEnvOrDefault("REDIS_ADDRESS", cfg.Cache.Redis.Address)
	cfg.Cache.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", cfg.Cache.Redis.Password)
	cfg.Cache.Redis.DB = getEnvAsIntOrDefault("REDIS_DB", cfg.Cache.Redis.DB)
	cfg.Cache.Memory.DefaultExpiration = getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", cfg.Cache.Memory.DefaultExpiration)
	cfg.Cache.SQLitePath = getEnvOrDefault("CACHE_SQLITE_PATH", cfg.Cache.SQLitePath)
	cfg.Cache.FeedTTLSeconds = getEnvAsIntOrDefault("FEED_CACHE_TTL_SECONDS", cfg.Cache.FeedTTLSeconds)
	cfg.Cache.ExtractionTTLSeconds = getEnvAsIntOrDefault("EXTRACTION_CACHE_TTL_SECONDS", cfg.Cache.ExtractionTTLSeconds)

	cfg.Semantic.Enabled = getEnvAsBoolOrDefault("SEMANTIC_ENABLED", cfg.Semantic.Enabled)
	cfg.Semantic.BaseURL = getEnvOrDefault("SEMANTIC_BASE_URL", cfg.Semantic.BaseURL)
	cfg.Semantic.Model = getEnvOrDefault("SEMANTIC_MODEL", cfg.Semantic.Model)
	cfg.Semantic.Token = getEnvOrDefault("SEMANTIC_TOKEN", cfg.Semantic.Token)
	cfg.Semantic.TimeoutSeconds = getEnvAsIntOrDefault("SEMANTIC_TIMEOUT_SECONDS", cfg.Semantic.TimeoutSeconds)

	cfg.Logging.Level = getEnvOrDefault("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnvOrDefault("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.File = getEnvOrDefault("LOG_FILE", cfg.Logging.File)

	cfg.Metrics.Enabled = getEnvAsBoolOrDefault("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Address = getEnvOrDefault("METRICS_ADDRESS", cfg.Metrics.Address)

	cfg.API.Enabled = getEnvAsBoolOrDefault("API_ENABLED", cfg.API.Enabled)
	cfg.API.Address = getEnvOrDefault("API_ADDRESS", cfg.API.Address)
	cfg.API.RateLimit = getEnvAsIntOrDefault("API_RATE_LIMIT", cfg.API.RateLimit)
	cfg.API.RateWindowSeconds = getEnvAsIntOrDefault("API_RATE_WINDOW_SECONDS", cfg.API.RateWindowSeconds)
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// APIRateWindow returns the admin API rate limit window
func (c *Config) APIRateWindow() time.Duration {
	return time.Duration(c.API.RateWindowSeconds) * time.Second
}

// SourceTimeout returns the per-source deadline
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.Ingest.SourceTimeoutSeconds) * time.Second
}

// RetentionWindow returns the maximum article age
func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.Retention.Days) * 24 * time.Hour
}

// RetentionInterval returns the time between retention sweeps
func (c *Config) RetentionInterval() time.Duration {
	return time.Duration(c.Retention.IntervalHours) * time.Hour
}

// FeedCacheTTL returns how long fetched feed bodies are cached
func (c *Config) FeedCacheTTL() time.Duration {
	return time.Duration(c.Cache.FeedTTLSeconds) * time.Second
}

// ExtractionCacheTTL returns how long semantic extraction results are cached
func (c *Config) ExtractionCacheTTL() time.Duration {
	return time.Duration(c.Cache.ExtractionTTLSeconds) * time.Second
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Ingest.PoolSize < 1 {
		return errors.New("ingest pool size must be at least 1")
	}

	if c.Ingest.SourceTimeoutSeconds < 1 {
		return errors.New("source timeout must be at least 1 second")
	}

	if _, err := cron.ParseStandard(c.Ingest.Schedule); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", c.Ingest.Schedule, err)
	}

	if c.Ingest.FetchRatePerHost < 0 {
		return errors.New("fetch rate per host cannot be negative")
	}

	if c.Retention.Days < 1 {
		return errors.New("retention must be at least 1 day")
	}

	if c.Retention.IntervalHours < 1 {
		return errors.New("retention interval must be at least 1 hour")
	}

	switch c.Store.Type {
	case "sqlite":
		if c.Store.Path == "" {
			return errors.New("store path cannot be empty when using sqlite store")
		}
	case "redis":
		if c.Store.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis store")
		}
	default:
		return errors.New("store type must be 'sqlite' or 'redis'")
	}

	switch c.Cache.Type {
	case "memory", "none":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	case "sqlite":
		if c.Cache.SQLitePath == "" {
			return errors.New("sqlite path cannot be empty when using sqlite cache")
		}
	default:
		return errors.New("cache type must be 'memory', 'redis', 'sqlite' or 'none'")
	}

	if c.Semantic.Enabled && strings.TrimSpace(c.Semantic.Model) == "" {
		return errors.New("semantic model cannot be empty when semantic tagging is enabled")
	}

	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return errors.New("metrics address cannot be empty when metrics are enabled")
	}

	if c.API.Enabled {
		if c.API.Address == "" {
			return errors.New("api address cannot be empty when the api is enabled")
		}
		if c.API.RateLimit > 0 && c.API.RateWindowSeconds < 1 {
			return errors.New("api rate window must be at least 1 second when rate limiting")
		}
	}

	return nil
}
