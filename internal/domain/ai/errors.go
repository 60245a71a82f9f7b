package ai

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrMissingAPIKey is returned when no key is configured for the selected adapter.
var ErrMissingAPIKey = errors.New("ai api key not configured")

// ErrUnknownModel is returned for a model id that is not in the catalog.
var ErrUnknownModel = errors.New("unknown model")

// UnsupportedProviderError means no adapter is registered for a provider tag.
type UnsupportedProviderError struct {
	Provider Provider
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported ai provider %q", e.Provider)
}

// ProviderError is an error payload returned by a provider API.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s api error: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s api error (http %d): %s", e.Provider, e.StatusCode, e.Message)
}

func (e *ProviderError) Unwrap() error {
	if e.StatusCode == 429 {
		return ErrQuotaExceeded
	}
	return nil
}

// ResponseParseError means the model output is not a valid analysis object.
// Field is the JSON path that failed, empty when the text is not JSON at all.
type ResponseParseError struct {
	Field string
	Err   error
}

func (e *ResponseParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("failed to parse analysis result: %v", e.Err)
	}
	return fmt.Sprintf("failed to parse analysis result: %s: %v", e.Field, e.Err)
}

func (e *ResponseParseError) Unwrap() error { return e.Err }
