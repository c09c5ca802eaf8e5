package testutil

import (
	"errors"
	"testing"
	"time"

	apperrors "ledgerd/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertDate fails the test unless got falls on the same calendar day as want.
func AssertDate(t *testing.T, field string, got, want time.Time) {
	t.Helper()

	if got.Format("2006-01-02") != want.Format("2006-01-02") {
		t.Errorf("%s = %s, want %s", field, got.Format("2006-01-02"), want.Format("2006-01-02"))
	}
}
