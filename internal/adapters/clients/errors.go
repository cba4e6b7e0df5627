// Package clients is the outbound HTTP layer: an instrumented client with
// retries, a circuit breaker and request id propagation. Adapters in the acl
// subpackage turn its errors into domain errors.
package clients

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCircuitOpen means the request was rejected locally without being sent.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure once every attempt is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// StatusError is a retryable response status (5xx or 429) that survived all
// attempts.
type StatusError struct {
	StatusCode int

	// RetryAfter is the server's requested delay, zero when absent.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("downstream status %d (retry after %s)", e.StatusCode, e.RetryAfter)
	}

	return fmt.Sprintf("downstream status %d", e.StatusCode)
}
