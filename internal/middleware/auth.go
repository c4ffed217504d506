package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "moneyguard/internal/errors"
	"moneyguard/internal/wallet"
)

// Context keys set by Session.
const (
	ClientKey = "walletClient"
	TokenKey  = "token"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Session resolves the bearer token to the caller's wallet client and stores
// it in the context. Requests without a usable token are aborted; the error
// is rendered by ErrorHandler.
func Session(registry *wallet.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			_ = c.Error(apperrors.WithMessage(apperrors.ErrNotAuthenticated, "Authorization header is required"))
			c.Abort()
			return
		}

		token, ok := BearerToken(authHeader)
		if !ok {
			_ = c.Error(apperrors.WithMessage(apperrors.ErrNotAuthenticated, "Invalid authorization header format"))
			c.Abort()
			return
		}

		client, err := registry.Resolve(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		c.Set(ClientKey, client)
		c.Set(TokenKey, token)
		c.Next()
	}
}
