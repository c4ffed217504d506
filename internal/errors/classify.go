package errors

import (
	"errors"
	"net/http"
)

// StatusError is implemented by transport errors that carry the HTTP status
// the backend answered with.
type StatusError interface {
	error
	HTTPStatus() int
}

// operationCodes lists the codes Classify passes through untouched.
var operationCodes = map[string]bool{
	ErrValidation.Code:           true,
	ErrNotAuthenticated.Code:     true,
	ErrMalformedRequest.Code:     true,
	ErrSessionExpired.Code:       true,
	ErrForbidden.Code:            true,
	ErrNotFound.Code:             true,
	ErrCategoryTypeMismatch.Code: true,
	ErrStaleReference.Code:       true,
	ErrOperationFailed.Code:      true,
}

// Classify rewrites a backend failure into one of the operation errors.
// Errors that are already classified are returned unchanged; anything
// without an HTTP status (network failures, decoding errors) becomes
// ErrOperationFailed.
func Classify(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) && operationCodes[appErr.Code] {
		return appErr
	}

	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return Wrap(ForStatus(statusErr.HTTPStatus()), err)
	}
	return Wrap(ErrOperationFailed, err)
}

// ForStatus returns the operation error sentinel for an HTTP status code.
func ForStatus(status int) *AppError {
	switch status {
	case http.StatusBadRequest:
		return ErrMalformedRequest
	case http.StatusUnauthorized:
		return ErrSessionExpired
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrCategoryTypeMismatch
	default:
		return ErrOperationFailed
	}
}

// ClassifySignIn maps a sign-in failure to the message shown on the login form.
func ClassifySignIn(err error) *AppError {
	return classifyAuth(err, map[int]*AppError{
		http.StatusBadRequest: ErrInvalidCredentials,
		http.StatusForbidden:  ErrIncorrectPassword,
		http.StatusNotFound:   ErrUserNotFound,
	}, ErrSignInFailed)
}

// ClassifySignUp maps a sign-up failure to the message shown on the registration form.
func ClassifySignUp(err error) *AppError {
	return classifyAuth(err, map[int]*AppError{
		http.StatusBadRequest: ErrInvalidSignUp,
		http.StatusConflict:   ErrDuplicateEmail,
	}, ErrSignUpFailed)
}

func classifyAuth(err error, byStatus map[int]*AppError, fallback *AppError) *AppError {
	if err == nil {
		return nil
	}
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		if sentinel, ok := byStatus[statusErr.HTTPStatus()]; ok {
			return Wrap(sentinel, err)
		}
	}
	return Wrap(fallback, err)
}

// IsSessionExpired reports whether err means the bearer token was rejected.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}
