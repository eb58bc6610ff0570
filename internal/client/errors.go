// ABOUTME: API error type and response error-message extraction
// ABOUTME: Implements the ordered fallback message -> detail -> error -> raw body -> generic

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// maxRawMessageLen caps how much of a non-JSON body is surfaced to the user.
const maxRawMessageLen = 200

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Message)
}

// ErrSessionExpired is returned when the repair cycle cannot mint a new
// access token and the session has been torn down.
var ErrSessionExpired = errors.New("session expired: please log in again")

// IsAuthError reports whether err is an APIError with a 401 status.
func IsAuthError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

// IsSessionExpired reports whether err stems from a failed repair cycle.
func IsSessionExpired(err error) bool {
	return errors.Is(err, ErrSessionExpired)
}

// newAPIError builds an APIError from a response body, extracting the most
// specific human-readable message available.
func newAPIError(statusCode int, body []byte) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    extractMessage(statusCode, body),
		Body:       body,
	}
}

// extractMessage pulls a human-readable message out of an error body.
// Precedence: "message" field, then "detail", then "error" (with optional
// "details" suffix), then field-validation errors, then the raw body, then a
// generic status-based message.
func extractMessage(statusCode int, body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := stringField(payload, "message"); msg != "" {
			return msg
		}
		if msg := stringField(payload, "detail"); msg != "" {
			return msg
		}
		if msg := stringField(payload, "error"); msg != "" {
			if details := stringField(payload, "details"); details != "" {
				return msg + ": " + details
			}
			return msg
		}
		if msg := fieldErrors(payload); msg != "" {
			return msg
		}
	}

	raw := strings.TrimSpace(string(body))
	if raw != "" && raw != "{}" {
		if len(raw) > maxRawMessageLen {
			raw = raw[:maxRawMessageLen] + "..."
		}
		return raw
	}

	return fmt.Sprintf("request failed with status %d", statusCode)
}

// stringField decodes a top-level string field, returning "" if absent or
// not a string.
func stringField(payload map[string]json.RawMessage, key string) string {
	raw, ok := payload[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// fieldErrors flattens DRF-style validation maps like
// {"password_confirm": ["Password confirmation doesn't match."]}.
func fieldErrors(payload map[string]json.RawMessage) string {
	var parts []string
	for field, raw := range payload {
		var msgs []string
		if err := json.Unmarshal(raw, &msgs); err != nil || len(msgs) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", field, msgs[0]))
	}
	if len(parts) == 0 {
		return ""
	}
	// Map order is not stable; sort for deterministic messages.
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
