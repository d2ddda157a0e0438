package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	Server     ServerConfig
	Pagination PaginationConfig
	Cache      CacheConfig
	Auth       AuthConfig
	Logging    LoggingConfig
	Telemetry  TelemetryConfig
	Sentry     SentryConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL     string
	Enabled bool
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	Host           string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// PaginationConfig holds page sizes for post listings
type PaginationConfig struct {
	PerPage     int
	FeedPerPage int
}

// CacheConfig holds page cache configuration
type CacheConfig struct {
	IndexTTL time.Duration
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	Issuer    string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string
	Format       string // "json" or "text"
	ScalyrFormat bool   // Enable Scalyr-compatible JSON format
}

// TelemetryConfig holds observability configuration
type TelemetryConfig struct {
	Enabled           bool
	Exporter          string // "jaeger" or "otlp"
	JaegerURL         string
	OTLPEndpoint      string
	PrometheusEnabled bool
	ServiceName       string
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN         string
	Environment string
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	// A missing .env is fine; real deployments use the environment directly
	_ = godotenv.Load()

	setDefaults()

	viper.SetEnvPrefix("YATUBE")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.yatube")
	viper.AddConfigPath("/etc/yatube")

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found; this is OK if we have env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			URL: getString("database_url", "sqlite://yatube.db"),
		},
		Redis: RedisConfig{
			URL:     getString("redis_url", ""),
			Enabled: getString("redis_url", "") != "",
		},
		Server: ServerConfig{
			Port:           getInt("http_server_port", 8080),
			Host:           getString("http_server_host", "0.0.0.0"),
			AllowedOrigins: splitList(getString("allowed_origins", "*")),
			RateLimitRPS:   getFloat("rate_limit_rps", 5),
			RateLimitBurst: getInt("rate_limit_burst", 10),
		},
		Pagination: PaginationConfig{
			PerPage:     getInt("per_page", 10),
			FeedPerPage: getInt("feed_per_page", 5),
		},
		Cache: CacheConfig{
			IndexTTL: GetDuration("index_cache_ttl", 20*time.Second),
		},
		Auth: AuthConfig{
			JWTSecret: getString("jwt_secret", ""),
			TokenTTL:  GetDuration("token_ttl", 24*time.Hour),
			Issuer:    getString("jwt_issuer", "yatube"),
		},
		Logging: LoggingConfig{
			Level:        getString("log_level", "INFO"),
			Format:       getString("log_format", "json"),
			ScalyrFormat: getBool("log_scalyr_format", false),
		},
		Telemetry: TelemetryConfig{
			Enabled:           getBool("telemetry_enabled", false),
			Exporter:          getString("telemetry_exporter", "jaeger"),
			JaegerURL:         getString("jaeger_url", "http://localhost:14268/api/traces"),
			OTLPEndpoint:      getString("otlp_endpoint", "localhost:4318"),
			PrometheusEnabled: getBool("prometheus_enabled", true),
			ServiceName:       getString("service_name", "yatube"),
		},
		Sentry: SentryConfig{
			DSN:         getString("sentry_dsn", ""),
			Environment: getString("sentry_environment", "production"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("database_url", "sqlite://yatube.db")
	viper.SetDefault("http_server_port", 8080)
	viper.SetDefault("http_server_host", "0.0.0.0")
	viper.SetDefault("per_page", 10)
	viper.SetDefault("feed_per_page", 5)
	viper.SetDefault("index_cache_ttl", "20s")
	viper.SetDefault("token_ttl", "24h")
	viper.SetDefault("log_level", "INFO")
	viper.SetDefault("log_format", "json")
	viper.SetDefault("telemetry_exporter", "jaeger")
	viper.SetDefault("prometheus_enabled", true)
	viper.SetDefault("service_name", "yatube")
}

func getString(key, defaultValue string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	if val := os.Getenv("YATUBE_" + toEnvKey(key)); val != "" {
		return val
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	if val := os.Getenv("YATUBE_" + toEnvKey(key)); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	if val := os.Getenv("YATUBE_" + toEnvKey(key)); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	if val := os.Getenv("YATUBE_" + toEnvKey(key)); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultValue
}

func toEnvKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database_url is required")
	}
	if c.Pagination.PerPage <= 0 || c.Pagination.PerPage > 100 {
		return fmt.Errorf("per_page must be between 1 and 100")
	}
	if c.Pagination.FeedPerPage <= 0 || c.Pagination.FeedPerPage > 100 {
		return fmt.Errorf("feed_per_page must be between 1 and 100")
	}
	if c.Cache.IndexTTL < 0 {
		return fmt.Errorf("index_cache_ttl must not be negative")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive")
	}
	switch c.Telemetry.Exporter {
	case "jaeger", "otlp":
	default:
		return fmt.Errorf("telemetry_exporter must be jaeger or otlp, got %q", c.Telemetry.Exporter)
	}
	return nil
}

// GetDuration returns a duration from config key, with default
func GetDuration(key string, defaultValue time.Duration) time.Duration {
	if viper.IsSet(key) {
		return viper.GetDuration(key)
	}
	return defaultValue
}
