// Package validator provides input validation and sanitization functions
// for the marketplace backend security layer.
package validator

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Validation errors
var (
	ErrInputTooLong     = errors.New("input exceeds maximum length")
	ErrInvalidCharacter = errors.New("input contains invalid characters")
	ErrEmptyInput       = errors.New("input cannot be empty")
)

// Length limits for free-text fields
const (
	// MaxMessageLength bounds thread messages and connection notes
	MaxMessageLength = 10000

	// MaxReasonLength bounds block reasons
	MaxReasonLength = 500
)

// ValidateMessageBody validates a free-text message body.
// Returns nil if valid, or an appropriate error.
func ValidateMessageBody(body string) error {
	body = strings.TrimSpace(body)

	if body == "" {
		return ErrEmptyInput
	}

	if utf8.RuneCountInString(body) > MaxMessageLength {
		return ErrInputTooLong
	}

	return nil
}

// Pagination constants
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ValidatePagination validates and sanitizes pagination parameters.
// Returns sanitized limit and offset values.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}

// SanitizeString removes potentially dangerous characters and enforces length limits.
// Removes control characters and trims whitespace.
func SanitizeString(input string, maxLength int) string {
	// Remove control characters (ASCII 0-31 and 127), keeping newlines
	// and tabs so multi-line messages survive
	input = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, input)

	// Trim whitespace
	input = strings.TrimSpace(input)

	// Enforce maximum length if specified
	if maxLength > 0 && utf8.RuneCountInString(input) > maxLength {
		runes := []rune(input)
		input = string(runes[:maxLength])
	}

	return input
}
