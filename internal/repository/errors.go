package repository

import (
	"errors"
	"strings"
)

// Common repository errors
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrStaleState is returned by status-guarded updates when zero rows
	// matched because the row's state changed underneath the caller.
	ErrStaleState = errors.New("record state changed")

	// ErrQuotaExhausted is returned by the conditional quota increment
	// when the subscription exists but has no remaining quota.
	ErrQuotaExhausted = errors.New("quota exhausted")
)

// isDuplicateKeyError checks if the error is a duplicate key violation
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "23505") // PostgreSQL unique violation code
}
