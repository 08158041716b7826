package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the scout
type Config struct {
	Env string // development, staging, production

	// Database (optional; the ledger and portfolio fall back to
	// in-memory stores when no URL is configured)
	Database DatabaseConfig

	// Redis (optional; rate limiting degrades to a local limiter)
	Redis RedisConfig

	// External APIs
	Brave      BraveConfig
	Finnhub    FinnhubConfig
	Yahoo      YahooConfig
	OpenRouter OpenRouterConfig
	Resend     ResendConfig

	// Pipeline
	Regions      []string      // region codes to scan each cycle
	RunDeadline  time.Duration // wall-clock budget for one coordinator cycle
	StrategyFile string        // YAML strategy parameters

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// BraveConfig holds Brave Search API configuration
type BraveConfig struct {
	APIKey  string
	BaseURL string
}

// FinnhubConfig holds Finnhub API configuration
type FinnhubConfig struct {
	APIKey  string
	BaseURL string
}

// YahooConfig holds the quote fundamentals feed configuration
type YahooConfig struct {
	BaseURL string
}

// OpenRouterConfig holds the analyst LLM gateway configuration.
// Models is the ordered fallback chain; the client advances only on
// rate-limit errors.
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Models  []string
}

// ResendConfig holds email delivery configuration
type ResendConfig struct {
	APIKey     string
	From       string
	Recipients []string
}

// Load reads configuration from environment variables. This is the
// only function in the repository that calls os.Getenv.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Env: getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Brave: BraveConfig{
			APIKey:  getEnv("BRAVE_API_KEY", ""),
			BaseURL: getEnv("BRAVE_BASE_URL", "https://api.search.brave.com/res/v1"),
		},

		Finnhub: FinnhubConfig{
			APIKey:  getEnv("FINNHUB_API_KEY", ""),
			BaseURL: getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
		},

		Yahoo: YahooConfig{
			BaseURL: getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
		},

		OpenRouter: OpenRouterConfig{
			APIKey:  getEnv("OPENROUTER_API_KEY", ""),
			BaseURL: getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
			Models: getEnvAsList("OPENROUTER_MODELS",
				"meta-llama/llama-3.1-8b-instruct:free,google/gemma-2-9b-it:free"),
		},

		Resend: ResendConfig{
			APIKey:     getEnv("RESEND_API_KEY", ""),
			From:       getEnv("EMAIL_FROM", "Scout <onboarding@resend.dev>"),
			Recipients: getEnvAsList("EMAIL_RECIPIENTS", ""),
		},

		Regions:      getEnvAsList("SCOUT_REGIONS", "USA,UK,CA,AU"),
		RunDeadline:  getEnvAsDuration("RUN_DEADLINE", "50m"),
		StrategyFile: getEnv("STRATEGY_FILE", "config/strategy.yaml"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks required configuration values
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}
	if len(c.Regions) == 0 {
		return fmt.Errorf("SCOUT_REGIONS must name at least one region")
	}
	if c.RunDeadline <= 0 {
		return fmt.Errorf("RUN_DEADLINE must be positive")
	}
	return nil
}

// loadEnvFile tries to load .env from the usual locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
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
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}

func getEnvAsList(key, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
