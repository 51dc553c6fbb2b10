package store

import "fmt"

// StorageError represents a failure in a storage backend operation.
type StorageError struct {
	// Backend is the backend name ("memory", "sqlite").
	Backend string

	// Op is the operation that failed.
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("store backend %q: %s failed: %v", e.Backend, e.Op, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a storage error.
func NewStorageError(backend, op string, cause error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Cause: cause}
}
