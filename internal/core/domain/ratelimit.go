package domain

import (
	"errors"
	"strings"
)

// The forge signals rate limits through HTTP 403 with "API rate limit
// exceeded" in the body, HTTP 429 (secondary rate limit), or search
// errors containing "rate limit". Connectors wrap these as ErrRateLimited;
// the text match catches errors that arrive from outside our connectors.

// IsRateLimited reports whether err represents a forge rate limit.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "status code: 429") ||
		strings.Contains(msg, "status code: 403")
}

// RateLimitMessage renders a user-friendly message for a rate-limit error,
// shown in the status area instead of the raw API error text.
func RateLimitMessage(err error) string {
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "secondary rate limit") {
		return "Secondary rate limit hit — wait a moment then press [r] to retry"
	}
	return "API rate limit exceeded — press [r] to retry"
}
