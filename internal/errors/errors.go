package errors

import (
	"errors"
	"fmt"
)

// Domain-specific error types
var (
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrConnectionNotFound indicates the connection was not found
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrMessageNotFound indicates the message was not found
	ErrMessageNotFound = errors.New("message not found")

	// ErrListingNotFound indicates the listing was not found
	ErrListingNotFound = errors.New("listing not found")

	// ErrUserNotFound indicates the user was not found
	ErrUserNotFound = errors.New("user not found")

	// ErrBlockNotFound indicates no active block exists for the pair
	ErrBlockNotFound = errors.New("block not found")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates unauthorized access
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the caller is not a party to the resource
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition indicates the requested transition is illegal
	// from the connection's current state
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrSubscriptionRequired indicates the user has no usable subscription
	ErrSubscriptionRequired = errors.New("an active subscription is required to request connections")

	// ErrQuotaExceeded indicates the monthly connection quota is exhausted
	ErrQuotaExceeded = errors.New("monthly connection quota exceeded")

	// ErrAlreadyPending indicates a pending connection already exists
	ErrAlreadyPending = errors.New("a connection request is already pending")

	// ErrAlreadyConnected indicates an approved connection already exists
	ErrAlreadyConnected = errors.New("you are already connected")

	// ErrAlreadyBlocked indicates an active block already exists for the pair
	ErrAlreadyBlocked = errors.New("user is already blocked")

	// ErrConnectionUnavailable is the generic unavailability failure for
	// connection requests. It is returned both when a listing is not
	// accepting connections and when a block exists between the parties;
	// the two causes must never be distinguishable at the API surface.
	ErrConnectionUnavailable = errors.New("this listing is currently unavailable for connections")

	// ErrMessagingUnavailable is the generic unavailability failure for
	// message sends. Returned when a block exists between the parties;
	// indistinguishable from an ordinary transient condition.
	ErrMessagingUnavailable = errors.New("unable to send message at this time")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal server error")
)

// Error codes for API responses
const (
	CodeNotFound             = "NOT_FOUND"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
	CodeQuotaExceeded        = "QUOTA_EXCEEDED"
	CodeAlreadyPending       = "ALREADY_PENDING"
	CodeAlreadyConnected     = "ALREADY_CONNECTED"
	CodeAlreadyBlocked       = "ALREADY_BLOCKED"
	CodeUnavailable          = "UNAVAILABLE"
	CodeInternalError        = "INTERNAL_ERROR"
)

// AppError represents an application error with context
type AppError struct {
	Err     error
	Message string
	Code    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(err error, message string, code string) *AppError {
	return &AppError{
		Err:     err,
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConnectionNotFound) ||
		errors.Is(err, ErrMessageNotFound) ||
		errors.Is(err, ErrListingNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrBlockNotFound)
}

// IsUnavailable checks if the error is one of the generic unavailability
// failures. Callers must not branch on the underlying cause.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrConnectionUnavailable) ||
		errors.Is(err, ErrMessagingUnavailable)
}

// IsQuotaExceeded checks if the error is a quota exhaustion error
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, ErrQuotaExceeded)
}

// GetErrorCode returns the appropriate error code for an error
func GetErrorCode(err error) string {
	switch {
	case IsNotFound(err):
		return CodeNotFound
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrSubscriptionRequired):
		return CodeSubscriptionRequired
	case errors.Is(err, ErrQuotaExceeded):
		return CodeQuotaExceeded
	case errors.Is(err, ErrAlreadyPending):
		return CodeAlreadyPending
	case errors.Is(err, ErrAlreadyConnected):
		return CodeAlreadyConnected
	case errors.Is(err, ErrAlreadyBlocked):
		return CodeAlreadyBlocked
	case IsUnavailable(err):
		return CodeUnavailable
	default:
		return CodeInternalError
	}
}
