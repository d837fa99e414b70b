package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the screener
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Screen inputs / outputs
	UniverseFile string // comma/newline separated ticker list
	ScreenConfig string // optional YAML with thresholds and keywords
	OutputDir    string

	// Data sources
	HistorySource string // yahoo | polygon | postgres
	NewsSource    string // yahoo | polygon | rss | postgres
	Yahoo         YahooConfig
	Polygon       PolygonConfig
	RSS           RSSConfig

	// Diff source
	DiffSource string // git | github | none
	GitHub     GitHubConfig

	// Pipeline
	Workers      int
	RatePerSec   float64 // 0 = unlimited
	ScheduleCron string

	// Database (optional, postgres source only)
	Database DatabaseConfig

	// Redis (optional, shared rate limiter)
	Redis RedisConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// YahooConfig holds Yahoo Finance endpoints
type YahooConfig struct {
	ChartURL  string
	SearchURL string
	NewsCount int
}

// PolygonConfig holds Polygon.io credentials
type PolygonConfig struct {
	APIKey  string
	BaseURL string
}

// RSSConfig holds the headline feed template; %s is replaced by the ticker
type RSSConfig struct {
	FeedURL string
}

// GitHubConfig locates the universe file in a GitHub repository
type GitHubConfig struct {
	Owner  string
	Repo   string
	Path   string
	Branch string
	Token  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host      string
	Port      string
	Password  string
	DB        int
	Enabled   bool
	KeyPrefix string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		UniverseFile: getEnv("UNIVERSE_FILE", "qm1w.txt"),
		ScreenConfig: getEnv("SCREEN_CONFIG", ""),
		OutputDir:    getEnv("OUTPUT_DIR", "."),

		HistorySource: getEnv("HISTORY_SOURCE", "yahoo"),
		NewsSource:    getEnv("NEWS_SOURCE", "yahoo"),
		Yahoo: YahooConfig{
			ChartURL:  getEnv("YAHOO_CHART_URL", "https://query1.finance.yahoo.com/v8/finance/chart"),
			SearchURL: getEnv("YAHOO_SEARCH_URL", "https://query1.finance.yahoo.com/v1/finance/search"),
			NewsCount: getEnvAsInt("YAHOO_NEWS_COUNT", 20),
		},
		Polygon: PolygonConfig{
			APIKey:  getEnv("POLYGON_API_KEY", ""),
			BaseURL: getEnv("POLYGON_BASE_URL", "https://api.polygon.io"),
		},
		RSS: RSSConfig{
			FeedURL: getEnv("RSS_FEED_URL", "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"),
		},

		DiffSource: getEnv("DIFF_SOURCE", "git"),
		GitHub: GitHubConfig{
			Owner:  getEnv("GITHUB_OWNER", ""),
			Repo:   getEnv("GITHUB_REPO", ""),
			Path:   getEnv("GITHUB_PATH", ""),
			Branch: getEnv("GITHUB_BRANCH", ""),
			Token:  getEnv("GITHUB_TOKEN", ""),
		},

		Workers:      getEnvAsInt("SCREEN_WORKERS", 1),
		RatePerSec:   getEnvAsFloat("SCREEN_RATE_PER_SEC", 0),
		ScheduleCron: getEnv("SCHEDULE_CRON", "0 30 16 * * 1-5"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost"),
			Port:      getEnv("REDIS_PORT", "6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			Enabled:   getEnvAsBool("REDIS_ENABLED", false),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "epscreen"), // 여러 프로젝트가 한 Redis를 공유할 때 키 충돌 방지
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks source selections and the settings each one needs
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.HistorySource {
	case "yahoo":
	case "polygon":
		if c.Polygon.APIKey == "" {
			return fmt.Errorf("POLYGON_API_KEY is required when HISTORY_SOURCE=polygon")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when HISTORY_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("HISTORY_SOURCE must be one of: yahoo, polygon, postgres")
	}

	switch c.NewsSource {
	case "yahoo", "rss":
	case "polygon":
		if c.Polygon.APIKey == "" {
			return fmt.Errorf("POLYGON_API_KEY is required when NEWS_SOURCE=polygon")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when NEWS_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("NEWS_SOURCE must be one of: yahoo, polygon, rss, postgres")
	}

	switch c.DiffSource {
	case "git", "none":
	case "github":
		if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
			return fmt.Errorf("GITHUB_OWNER and GITHUB_REPO are required when DIFF_SOURCE=github")
		}
	default:
		return fmt.Errorf("DIFF_SOURCE must be one of: git, github, none")
	}

	if c.Workers < 1 {
		return fmt.Errorf("SCREEN_WORKERS must be >= 1")
	}

	return nil
}

// UsesPostgres reports whether any data source reads from the database
func (c *Config) UsesPostgres() bool {
	return c.HistorySource == "postgres" || c.NewsSource == "postgres"
}

// loadEnvFile tries to load .env from multiple locations
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

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
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
