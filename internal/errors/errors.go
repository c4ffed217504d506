// Package errors provides the error types shared by the Money Guard client.
// Operations rewrite every backend failure into an AppError whose Message is
// safe to show to the user as-is.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// HTTPStatus returns the status code the error maps to.
func (e *AppError) HTTPStatus() int { return e.StatusCode }

// Is reports whether target is an AppError with the same code, so sentinels
// can be matched with errors.Is after Wrap or WithMessage.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Operation failures. Every error returned by an Operation is one of these.
var (
	ErrValidation           = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid transaction data", StatusCode: http.StatusBadRequest}
	ErrNotAuthenticated     = &AppError{Code: "NOT_AUTHENTICATED", Message: "Please sign in first", StatusCode: http.StatusUnauthorized}
	ErrMalformedRequest     = &AppError{Code: "MALFORMED_REQUEST", Message: "The request payload is malformed", StatusCode: http.StatusBadRequest}
	ErrSessionExpired       = &AppError{Code: "SESSION_EXPIRED", Message: "Your session has expired, please sign in again", StatusCode: http.StatusUnauthorized}
	ErrForbidden            = &AppError{Code: "FORBIDDEN", Message: "You are not allowed to access this resource", StatusCode: http.StatusForbidden}
	ErrNotFound             = &AppError{Code: "NOT_FOUND", Message: "Transaction or category not found", StatusCode: http.StatusNotFound}
	ErrCategoryTypeMismatch = &AppError{Code: "CATEGORY_TYPE_MISMATCH", Message: "Category type does not match transaction type", StatusCode: http.StatusConflict}
	ErrStaleReference       = &AppError{Code: "STALE_REFERENCE", Message: "The edited transaction is no longer in the local list, refresh and try again", StatusCode: http.StatusConflict}
	ErrOperationFailed      = &AppError{Code: "OPERATION_FAILED", Message: "Operation failed, please try again", StatusCode: http.StatusBadGateway}
)

// Authentication failures, with the messages the sign-in and sign-up forms show.
var (
	ErrIncorrectPassword  = &AppError{Code: "INCORRECT_PASSWORD", Message: "Incorrect password", StatusCode: http.StatusForbidden}
	ErrUserNotFound       = &AppError{Code: "USER_NOT_FOUND", Message: "No user is registered with this email", StatusCode: http.StatusNotFound}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password format", StatusCode: http.StatusBadRequest}
	ErrDuplicateEmail     = &AppError{Code: "DUPLICATE_EMAIL", Message: "This email is already registered", StatusCode: http.StatusConflict}
	ErrInvalidSignUp      = &AppError{Code: "INVALID_SIGN_UP", Message: "Invalid registration data", StatusCode: http.StatusBadRequest}
	ErrSignInFailed       = &AppError{Code: "SIGN_IN_FAILED", Message: "Could not sign in, please try again", StatusCode: http.StatusBadGateway}
	ErrSignUpFailed       = &AppError{Code: "SIGN_UP_FAILED", Message: "Could not register, please try again", StatusCode: http.StatusBadGateway}
)

// General errors used by the local backend and the HTTP facade.
var (
	ErrUnauthorized        = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidInput        = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrCategoryNotFound    = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrInternalServer      = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrRatesUnavailable    = &AppError{Code: "RATES_UNAVAILABLE", Message: "Currency rates could not be loaded", StatusCode: http.StatusBadGateway}
)
