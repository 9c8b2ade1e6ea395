package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Environment    string
	LogLevel       string
	Port           string
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBPath         string
	JWTSecret      string
	TokenTTL       time.Duration
	APIKey         string
	AllowedOrigins string
	// TrustProxy makes rate limiting key on the last X-Forwarded-For hop.
	TrustProxy bool

	// SiteURL is the frontend base used to build password reset links.
	SiteURL       string
	DefaultCover  string
	ResetTokenTTL time.Duration

	GoogleBooksURL string
	GoogleBooksKey string
	SearchTimeout  time.Duration

	ResendAPIKey string
	EmailFrom    string
}

func Load() (*Config, error) {
	cfg := &Config{
		Environment:    getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "8080"),
		DBDriver:       getEnv("DB_DRIVER", "mysql"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "bookshelf"),
		DBPassword:     getEnv("DB_PASSWORD", "bookshelf_pass"),
		DBName:         getEnv("DB_NAME", "bookshelf"),
		DBPath:         getEnv("DB_PATH", "bookshelf.db"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		APIKey:         getEnv("API_KEY", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),
		SiteURL:        getEnv("SITE_URL", "http://localhost:3000/reset-password"),
		DefaultCover:   getEnv("DEFAULT_COVER", "/images/default-cover.png"),
		GoogleBooksURL: getEnv("GOOGLE_BOOKS_URL", "https://www.googleapis.com/books/v1"),
		GoogleBooksKey: getEnv("GOOGLE_BOOKS_KEY", ""),
		ResendAPIKey:   getEnv("RESEND_API_KEY", ""),
		EmailFrom:      getEnv("EMAIL_FROM", "Bookshelf <no-reply@bookshelf.local>"),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable must be set")
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "sqlite3" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	// Without a key reset links are only logged, which must not happen in production.
	if cfg.Environment == "production" && cfg.ResendAPIKey == "" {
		return nil, errors.New("RESEND_API_KEY environment variable must be set in production")
	}

	var err error
	if cfg.TrustProxy, err = getBool("TRUST_PROXY", false); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ResetTokenTTL, err = getDuration("RESET_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SearchTimeout, err = getDuration("SEARCH_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DSN returns the data source name for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "sqlite3" {
		return "file:" + c.DBPath + "?_foreign_keys=on"
	}
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
