package engine

import (
	"net/url"
	"strings"
)

// ValidateURL rejects empty or obviously malformed input locally
func ValidateURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return &ValidationError{Err: ErrEmptyURL}
	}
	if strings.ContainsAny(trimmed, " \t\r\n") {
		return &ValidationError{URL: trimmed, Err: ErrInvalidURL}
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return &ValidationError{URL: trimmed, Err: ErrInvalidURL}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return &ValidationError{URL: trimmed, Err: ErrInvalidURL}
	}
	if parsed.Host == "" {
		return &ValidationError{URL: trimmed, Err: ErrInvalidURL}
	}
	return nil
}
