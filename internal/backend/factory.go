package backend

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"moneyguard/internal/backend/local"
	"moneyguard/internal/backend/remote"
	"moneyguard/internal/database"
)

var (
	_ Backend = (*remote.Client)(nil)
	_ Backend = (*local.Backend)(nil)
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *zap.SugaredLogger
}

// NewFactory creates a new backend factory
func NewFactory(logger *zap.SugaredLogger) Factory {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case RemoteBackend:
		return f.createRemoteBackend(config)
	case LocalBackend:
		return f.createLocalBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createRemoteBackend(config Config) (*BackendResult, error) {
	httpClient := &http.Client{Timeout: config.RequestTimeout}
	client := remote.NewClient(config.RemoteBaseURL, httpClient)

	f.logger.Infow("Initialized remote backend", "base_url", config.RemoteBaseURL, "timeout", config.RequestTimeout)

	return &BackendResult{
		Backend: client,
		Cleanup: nil, // No cleanup needed for remote backend
	}, nil
}

func (f *DefaultFactory) createLocalBackend(ctx context.Context, config Config) (*BackendResult, error) {
	manager, err := database.NewManager(database.Config{
		Driver:           config.DBDriver,
		SQLitePath:       config.SQLitePath,
		PostgresDSN:      config.PostgresDSN,
		PostgresURL:      config.PostgresURL,
		MigrationsSource: config.MigrationsSource,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	if err := manager.Migrate(local.Models()...); err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("failed to migrate local database: %w", err)
	}

	b := local.New(manager.DB(), local.Options{
		JWTSecret:     config.JWTSecret,
		JWTExpiration: config.JWTExpiration,
	})
	if err := b.SeedCategories(ctx); err != nil {
		_ = manager.Close()
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	f.logger.Infow("Initialized local backend", "driver", config.DBDriver)

	return &BackendResult{
		Backend: b,
		Cleanup: manager.Close,
	}, nil
}
