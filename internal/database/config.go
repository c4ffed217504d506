package database

import (
	"fmt"

	"moneyguard/internal/config"
)

// DefaultMigrationsSource is where the postgres schema migrations live.
const DefaultMigrationsSource = "file://migrations"

// Config holds database configuration
type Config struct {
	Driver           string
	SQLitePath       string
	PostgresDSN      string
	PostgresURL      string
	MigrationsSource string
}

// PostgresConfig holds the postgres connection settings.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// FromAppConfig extracts the postgres settings from the application config.
func FromAppConfig(c *config.Config) *PostgresConfig {
	return &PostgresConfig{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		DBName:   c.DBName,
		SSLMode:  c.DBSSLMode,
	}
}

// DSN returns the PostgreSQL connection string
func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
