// Package backend defines the wallet capability the client depends on and
// builds the configured implementation.
package backend

import (
	"context"
	"time"

	"moneyguard/internal/models"
)

// TransactionBackend is the transaction and category half of the wallet
// API. token is the session's bearer token; implementations send the
// request without credentials when it is empty.
type TransactionBackend interface {
	ListTransactions(ctx context.Context, token string) ([]models.Transaction, error)
	ListCategories(ctx context.Context, token string) ([]models.Category, error)
	CreateTransaction(ctx context.Context, token string, payload models.CreateTransactionPayload) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, token, id string, payload models.UpdateTransactionPayload) (models.Transaction, error)
	DeleteTransaction(ctx context.Context, token, id string) error
}

// AuthBackend is the account half of the wallet API.
type AuthBackend interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (models.AuthResult, error)
	SignIn(ctx context.Context, req models.SignInRequest) (models.AuthResult, error)
	SignOut(ctx context.Context, token string) error
	CurrentUser(ctx context.Context, token string) (models.User, error)
}

// Backend is the full wallet API.
type Backend interface {
	TransactionBackend
	AuthBackend
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// Remote specific
	RemoteBaseURL  string
	RequestTimeout time.Duration

	// Local specific
	DBDriver         string
	SQLitePath       string
	PostgresDSN      string
	PostgresURL      string
	MigrationsSource string
	JWTSecret        string
	JWTExpiration    time.Duration
}

// BackendType represents the type of backend
type BackendType string

const (
	RemoteBackend BackendType = "remote"
	LocalBackend  BackendType = "local"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case RemoteBackend, LocalBackend:
		return true
	default:
		return false
	}
}
