// Package llm defines the model gateway used by the analysis nodes.
// Every implementation returns a decoded JSON object; when the model
// reply cannot be parsed, a structured parse-failure marker is
// returned instead of an error so callers can degrade per field.
package llm

import (
	"context"
	"errors"
)

// ErrorKeyParseFailed is the value of the "error" key in a parse-failure marker.
const ErrorKeyParseFailed = "parse_failed"

// MaxRawLen caps how much raw model output a parse-failure marker carries.
const MaxRawLen = 1000

// ErrNoAPIKey indicates the gateway has no credential configured.
var ErrNoAPIKey = errors.New("llm: api key is not configured")

// Client asks the model a single prompt and returns the decoded JSON object.
type Client interface {
	Ask(ctx context.Context, prompt string) (map[string]any, error)
}

// ParseFailure builds the marker object returned when model output is not
// a JSON object. The raw output is truncated to MaxRawLen.
func ParseFailure(raw, detail string) map[string]any {
	if len(raw) > MaxRawLen {
		raw = raw[:MaxRawLen]
	}
	return map[string]any{
		"raw":          raw,
		"error":        ErrorKeyParseFailed,
		"error_detail": detail,
	}
}

// IsParseFailure reports whether the object is a parse-failure marker.
func IsParseFailure(obj map[string]any) bool {
	v, ok := obj["error"]
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && s == ErrorKeyParseFailed
}
