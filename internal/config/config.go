// Package config loads Money Guard configuration from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend kinds.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// Local database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Env  string
	Port string

	// Transaction backend
	Backend        string
	WalletAPIURL   string
	RequestTimeout time.Duration

	// Currency rates
	CurrencyAPIURL string
	CurrencyTTL    time.Duration

	// Local backend database
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Local backend tokens
	JWTSecret        string
	JWTExpirationDur time.Duration

	// Wallet clients unused for this long are evicted
	SessionIdleTTL time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	return FromEnv()
}

// FromEnv reads configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		Backend:      strings.ToLower(getEnv("BACKEND", BackendRemote)),
		WalletAPIURL: strings.TrimRight(getEnv("WALLET_API_URL", "https://wallet.b.goit.study/api"), "/"),

		CurrencyAPIURL: strings.TrimRight(getEnv("CURRENCY_API_URL", "https://api.monobank.ua"), "/"),

		DBDriver:   strings.ToLower(getEnv("LOCAL_DB_DRIVER", DriverSQLite)),
		DBPath:     getEnv("LOCAL_DB_PATH", "moneyguard.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "moneyguard"),
		DBPassword: getEnv("DB_PASSWORD", "moneyguard"),
		DBName:     getEnv("DB_NAME", "moneyguard"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
	}

	switch cfg.Backend {
	case BackendRemote, BackendLocal:
	default:
		return nil, fmt.Errorf("invalid BACKEND %q: must be remote or local", cfg.Backend)
	}

	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("invalid LOCAL_DB_DRIVER %q: must be sqlite or postgres", cfg.DBDriver)
	}

	var err error
	if cfg.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.CurrencyTTL, err = parseDuration("CURRENCY_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.JWTExpirationDur, err = parseDuration("JWT_EXPIRES_IN", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = parseDuration("SESSION_IDLE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}

	return cfg, nil
}

// PostgresURL returns the migrate-style connection URL for the local backend.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func parseDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, d)
	}
	return d, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
