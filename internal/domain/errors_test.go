package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Message: "exchange_rate must be > 0"}
	if err.Error() != "exchange_rate must be > 0" {
		t.Errorf("Error() = %q, want %q", err.Error(), "exchange_rate must be > 0")
	}
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("create order: %w", &StorageError{Op: "insert order", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("StorageError should unwrap to its cause")
	}
	if !IsStorageFailure(err) {
		t.Error("IsStorageFailure() = false, want true")
	}
	if want := "create order: storage: insert order: connection refused"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestNotFound_IsNotStorageFailure(t *testing.T) {
	err := fmt.Errorf("delete order 7: %w", ErrOrderNotFound)
	if IsStorageFailure(err) {
		t.Error("not-found must stay distinct from storage failure")
	}
	if !errors.Is(err, ErrOrderNotFound) {
		t.Error("errors.Is(err, ErrOrderNotFound) = false, want true")
	}
}
