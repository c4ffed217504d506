package testutil

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	apperrors "moneyguard/internal/errors"
)

// AssertAppError fails the test unless err is an *AppError carrying code.
// The error is returned so callers can inspect the message.
func AssertAppError(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()

	var appErr *apperrors.AppError
	switch {
	case err == nil:
		t.Fatalf("expected error %s, got nil", code)
	case !errors.As(err, &appErr):
		t.Fatalf("expected *AppError %s, got %T: %v", code, err, err)
	case appErr.Code != code:
		t.Errorf("error code = %s, want %s (message %q)", appErr.Code, code, appErr.Message)
	}
	return appErr
}

// AssertNoError stops the test on any error.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDecimal fails the test if got is not numerically equal to want.
func AssertDecimal(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s, got %s", want, got)
	}
}
