package client

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// AuthError indicates the upstream rejected the bearer token (HTTP 401).
// The message is fixed so the token value can never leak into results.
type AuthError struct{}

func (*AuthError) Error() string { return "invalid or expired API token" }

// NotFoundError indicates the requested resource does not exist upstream (HTTP 404).
type NotFoundError struct{}

func (*NotFoundError) Error() string { return "requested resource not found" }

// ValidationError indicates the upstream rejected the request payload (HTTP 422).
type ValidationError struct {
	// Message carries the upstream "detail" field when present, else the raw body.
	Message string
	// FieldErrors maps field locations to messages for FastAPI-style detail lists.
	FieldErrors map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// APIError is any other non-success upstream response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
	}
	return e.Message
}

// newValidationError decodes an HTTP 422 body. The upstream is a FastAPI
// service, so "detail" is either a plain string or a list of
// {loc: [...], msg: "..."} objects.
func newValidationError(raw []byte) *ValidationError {
	detail := gjson.GetBytes(raw, "detail")
	switch {
	case detail.Type == gjson.String:
		return &ValidationError{Message: "validation error: " + detail.Str}
	case detail.IsArray():
		fieldErrors := make(map[string]string)
		var lines []string
		for _, item := range detail.Array() {
			if !item.IsObject() {
				continue
			}
			var locParts []string
			for _, loc := range item.Get("loc").Array() {
				locParts = append(locParts, loc.String())
			}
			field := strings.Join(locParts, " -> ")
			if field == "" {
				field = "unknown field"
			}
			msg := item.Get("msg").String()
			if msg == "" {
				msg = "Invalid value"
			}
			fieldErrors[field] = msg
			lines = append(lines, fmt.Sprintf("  • %s: %s", field, msg))
		}
		if len(lines) > 0 {
			return &ValidationError{
				Message:     "validation error:\n" + strings.Join(lines, "\n"),
				FieldErrors: fieldErrors,
			}
		}
	}
	return &ValidationError{Message: "validation error: " + string(raw)}
}

// newAPIError decodes a generic error body, preferring the "detail" field.
func newAPIError(status int, raw []byte) *APIError {
	if detail := gjson.GetBytes(raw, "detail"); detail.Type == gjson.String {
		return &APIError{StatusCode: status, Message: detail.Str}
	}
	return &APIError{StatusCode: status, Message: string(raw)}
}
