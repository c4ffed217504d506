package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/middleware"
	"moneyguard/internal/wallet"
)

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Clock returns the current time. Tests replace it.
type Clock func() time.Time

// getClient returns the wallet client the Session middleware resolved.
func getClient(c *gin.Context) (*wallet.Client, error) {
	v, exists := c.Get(middleware.ClientKey)
	if !exists {
		return nil, apperrors.ErrNotAuthenticated
	}
	client, ok := v.(*wallet.Client)
	if !ok {
		return nil, apperrors.ErrNotAuthenticated
	}
	return client, nil
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.RenderError(c, err)
}
