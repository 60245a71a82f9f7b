package reddit

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when Reddit answers 429.
var ErrRateLimited = errors.New("reddit rate limit exceeded")

// AuthError means the client credentials exchange was rejected.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("reddit auth failed (http %d): %s", e.StatusCode, e.Message)
	}
	return "reddit auth failed: " + e.Message
}

// APIError is a non-2xx answer from the search endpoint.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reddit api error (http %d): %s", e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == 429 {
		return ErrRateLimited
	}
	return nil
}
