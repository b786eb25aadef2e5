package hh

import (
	"net/http"
	"time"
)

// RetryPolicy decides how the client reacts to retryable HTTP statuses.
// A retry happens inside the original call, so it occupies the same
// concurrency slot as the first attempt.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget, first try included.
	MaxAttempts int
	// Backoff returns the delay before the given retry attempt (1-based).
	Backoff func(attempt int) time.Duration
	// Retryable reports whether the status warrants another attempt.
	Retryable func(status int) bool
}

// DefaultRetryPolicy matches the source API's rate-limit contract: up to
// three attempts with linearly increasing delay, retrying on 429 only.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff: func(attempt int) time.Duration {
			return time.Duration(attempt) * time.Second
		},
		Retryable: func(status int) bool {
			return status == http.StatusTooManyRequests
		},
	}
}
