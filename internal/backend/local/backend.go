// Package local is a self-contained wallet API backed by a gorm database.
// It answers with the same status codes as the hosted service, so the
// client cannot tell the two apart.
package local

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"moneyguard/internal/logger"
	mgvalidator "moneyguard/internal/validator"
)

// Options configures token issuing.
type Options struct {
	JWTSecret     string
	JWTExpiration time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Backend implements the wallet API on top of a database.
type Backend struct {
	db       *gorm.DB
	opts     Options
	validate *validator.Validate
}

// New creates a local backend. The schema must already exist.
func New(db *gorm.DB, opts Options) *Backend {
	if opts.JWTExpiration <= 0 {
		opts.JWTExpiration = 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.JWTSecret == "" {
		logger.Get().Warn("local backend started without a JWT secret")
	}
	return &Backend{db: db, opts: opts, validate: mgvalidator.New()}
}
