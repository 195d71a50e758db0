package domain

import (
	"errors"
	"fmt"
)

// Application error codes
const (
	EINVALID     = "invalid"     // Invalid input or validation failure
	ENOTFOUND    = "not_found"   // Resource not found
	ECONFLICT    = "conflict"    // Resource conflict (e.g., duplicate key)
	ELIMIT       = "limit"       // Usage limit reached for the billing period
	EEXPIRED     = "expired"     // Trial over and no active subscription
	ERATELIMIT   = "rate_limit"  // Too many requests from one client
	EUNAVAILABLE = "unavailable" // A backing store could not complete the write
	EINTERNAL    = "internal"    // Internal server error
)

// Error represents an application error with structured information.
type Error struct {
	Code    string // Machine-readable error code
	Op      string // Operation that failed (e.g., "estimate.submit")
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code of the root error, or EINTERNAL if none.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage returns the human-readable message of the error.
// Internal errors are replaced with a generic message so store details
// never leak to the embedded widget.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Code != EINTERNAL {
		return e.Message
	}
	return "An internal error occurred. Please try again later."
}

// ErrorOp returns the operation of the root error, or "" if none.
func ErrorOp(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Convenience constructors for common error types

// NotFound creates a not found error.
func NotFound(op, resource, id string) *Error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("%s %q not found", resource, id),
	}
}

// Invalid creates a validation error.
func Invalid(op, message string) *Error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: message,
	}
}

// Conflict creates a conflict error.
func Conflict(op, message string) *Error {
	return &Error{
		Code:    ECONFLICT,
		Op:      op,
		Message: message,
	}
}

// Internal creates an internal error, wrapping the underlying error.
func Internal(err error, op, message string) *Error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// RateLimit creates a rate limit error.
func RateLimit(op string) *Error {
	return &Error{
		Code:    ERATELIMIT,
		Op:      op,
		Message: "Too many requests. Please try again later.",
	}
}

// DuplicateKey creates a conflict error for a service key that already
// exists in an account's catalog.
func DuplicateKey(op, key string) *Error {
	return &Error{
		Code:    ECONFLICT,
		Op:      op,
		Message: fmt.Sprintf("a service with key %q already exists", key),
	}
}

// GeometryMismatch creates a validation error for a drawn shape whose
// kind does not match what the selected service requires.
func GeometryMismatch(op string, got, want GeometryKind) *Error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: fmt.Sprintf("service requires a %s but a %s was drawn", want, got),
	}
}

// UnknownService creates a not found error for a service key that is not
// in the account's catalog.
func UnknownService(op, key string) *Error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("unknown service %q", key),
	}
}

// UsageLimitExceeded creates a limit error carrying current usage.
func UsageLimitExceeded(op string, used, limit int64) *Error {
	return &Error{
		Code:    ELIMIT,
		Op:      op,
		Message: fmt.Sprintf("estimate limit reached (%d/%d this period)", used, limit),
	}
}

// SubscriptionExpired creates an expired error for accounts whose trial is
// over with no active subscription.
func SubscriptionExpired(op string) *Error {
	return &Error{
		Code:    EEXPIRED,
		Op:      op,
		Message: "trial has ended and no subscription is active",
	}
}

// PersistenceFailed wraps a store error from the submission pipeline.
// The estimate was not created; the caller may resubmit the same input.
func PersistenceFailed(err error, op string) *Error {
	return &Error{
		Code:    EUNAVAILABLE,
		Op:      op,
		Message: "estimate could not be saved",
		Err:     err,
	}
}
