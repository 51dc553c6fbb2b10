package verify

import (
	"fmt"
	"time"
)

// UnavailableError reports that the external classifier could not serve the
// call: rate-limit or quota exhaustion, timeout, or exhausted transport
// retries. Callers may retry after a cooldown; batch processing treats it
// as abort-worthy.
type UnavailableError struct {
	// Provider is the classifier provider name.
	Provider string

	// RetryAfter is the provider-suggested cooldown, zero if unknown.
	RetryAfter time.Duration

	// Cause is the underlying adapter error.
	Cause error
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("classifier %q unavailable (retry after %s): %v",
			e.Provider, e.RetryAfter, e.Cause)
	}
	return fmt.Sprintf("classifier %q unavailable: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// AuthFailedError reports that the classifier rejected the configured
// credentials. Not retryable without operator intervention; batch
// processing treats it as abort-worthy.
type AuthFailedError struct {
	// Provider is the classifier provider name.
	Provider string

	// Cause is the underlying adapter error.
	Cause error
}

// Error implements the error interface.
func (e *AuthFailedError) Error() string {
	return fmt.Sprintf("classifier %q authentication failed: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *AuthFailedError) Unwrap() error {
	return e.Cause
}

// ResponseInvalidError reports that the classifier produced output that
// could not be parsed into a verdict. Per-item failure; batch processing
// continues past it.
type ResponseInvalidError struct {
	// Provider is the classifier provider name.
	Provider string

	// Cause is the underlying parse error.
	Cause error
}

// Error implements the error interface.
func (e *ResponseInvalidError) Error() string {
	return fmt.Sprintf("classifier %q returned an invalid response: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *ResponseInvalidError) Unwrap() error {
	return e.Cause
}

// BatchTooLargeError reports a batch exceeding the configured maximum.
// It is returned before any record is processed.
type BatchTooLargeError struct {
	// Requested is the number of records in the batch.
	Requested int

	// Max is the configured maximum batch size.
	Max int
}

// Error implements the error interface.
func (e *BatchTooLargeError) Error() string {
	return fmt.Sprintf("batch of %d records exceeds the maximum of %d", e.Requested, e.Max)
}
