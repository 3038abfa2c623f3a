package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrOrderNotFound = errors.New("order_not_found")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StorageError reports that a backend could not complete an operation.
// It is never retried by the services.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageFailure reports whether err carries a StorageError.
func IsStorageFailure(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
