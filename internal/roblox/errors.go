package roblox

import (
	"encoding/json"
	"fmt"
)

// UpstreamError is a non-2xx response from a Roblox endpoint.
// StatusCode is the HTTP status; Message is the upstream error message
// when the body carried one.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned HTTP %d: %s", e.StatusCode, e.Message)
}

// RateLimitError is an UpstreamError with status 429, carrying whatever
// x-ratelimit-* metadata the response included. A header that was absent
// or unparseable is left at -1.
type RateLimitError struct {
	UpstreamError
	Limit     int
	Remaining int
	Reset     int // seconds until the window resets
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (HTTP 429, reset in %ds)", e.Reset)
}

// TransportError is a failure to reach upstream or to read its response:
// dial errors, timeouts, connection resets, truncated or malformed bodies.
// Distinct from UpstreamError so callers can apply different fallback
// policies per class.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// errorBody is the error envelope Roblox APIs return on failures.
type errorBody struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// parseErrorMessage extracts the first upstream error message from body,
// or returns "" when the body is not the standard error envelope.
func parseErrorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Errors) == 0 {
		return ""
	}
	return eb.Errors[0].Message
}
