package ai

import (
	"fmt"
)

// ValidationError means the caller's input was rejected before any
// network call. Its message is safe to show to the end user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UpstreamHTTPError means the provider answered with a non-success status.
type UpstreamHTTPError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamHTTPError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// MalformedResponseError means the provider's text could not be coerced
// into the expected document.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed AI response: %s: %v", e.Reason, e.Err)
	}
	return "malformed AI response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// TransportError covers network failures and timeouts talking to the provider.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func malformed(reason string, err error) error {
	return &MalformedResponseError{Reason: reason, Err: err}
}
