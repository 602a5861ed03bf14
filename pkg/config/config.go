package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// HistoryListPolicy selects how department/job history views are reduced.
type HistoryListPolicy string

const (
	// HistoryAllRows returns every matching row, newest effective date first.
	HistoryAllRows HistoryListPolicy = "all"
	// HistoryLatestPerEmployee drops separated employees and keeps only the
	// row with the latest effective date per employee.
	HistoryLatestPerEmployee HistoryListPolicy = "latest"
)

// Config holds the application configuration
type Config struct {
	Environment        string
	ServerPort         int
	LogLevel           string
	CORSAllowedOrigins []string

	Database DatabaseConfig
	RedisURL string

	JWTSecret string
	TokenTTL  time.Duration

	HistoryListPolicy HistoryListPolicy

	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	tokenTTLMin, err := strconv.Atoi(getEnv("TOKEN_TTL_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL_MINUTES: %w", err)
	}

	rateLimit, err := strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}

	policy := HistoryListPolicy(getEnv("HISTORY_LIST_POLICY", string(HistoryAllRows)))
	if policy != HistoryAllRows && policy != HistoryLatestPerEmployee {
		return nil, fmt.Errorf("invalid HISTORY_LIST_POLICY: %q", policy)
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  port,
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: parseCSVEnv("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "hradmin"),
			Password: getEnv("DB_PASSWORD", "dev"),
			Database: getEnv("DB_NAME", "hradmin"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		TokenTTL:          time.Duration(tokenTTLMin) * time.Minute,
		HistoryListPolicy: policy,
		RateLimitRequests: rateLimit,
		RateLimitWindow:   time.Minute,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseCSVEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
