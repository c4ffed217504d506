package backend

import (
	"fmt"

	"moneyguard/internal/config"
	"moneyguard/internal/database"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.Backend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.Backend)
	}

	dbCfg := database.FromAppConfig(appConfig)
	return Config{
		Type: backendType,

		RemoteBaseURL:  appConfig.WalletAPIURL,
		RequestTimeout: appConfig.RequestTimeout,

		DBDriver:         appConfig.DBDriver,
		SQLitePath:       appConfig.DBPath,
		PostgresDSN:      dbCfg.DSN(),
		PostgresURL:      appConfig.PostgresURL(),
		MigrationsSource: database.DefaultMigrationsSource,
		JWTSecret:        appConfig.JWTSecret,
		JWTExpiration:    appConfig.JWTExpirationDur,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case RemoteBackend:
		if c.RemoteBaseURL == "" {
			return fmt.Errorf("wallet API URL is required for remote backend")
		}
	case LocalBackend:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT secret is required for local backend")
		}
		switch c.DBDriver {
		case config.DriverSQLite:
			if c.SQLitePath == "" {
				return fmt.Errorf("SQLite database path is required for local backend")
			}
		case config.DriverPostgres:
			if c.PostgresDSN == "" {
				return fmt.Errorf("postgres DSN is required for local backend")
			}
		default:
			return fmt.Errorf("unsupported database driver: %s", c.DBDriver)
		}
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{RemoteBackend, LocalBackend}
}
