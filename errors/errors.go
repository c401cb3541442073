package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified toolkit error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an AppError carrying the same code.
// This lets the sentinels below be used with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrEmptyCollection    = &AppError{Code: ErrCodeEmptyCollection, Message: "collection is empty"}
	ErrItemNotFound       = &AppError{Code: ErrCodeItemNotFound, Message: "item not found"}
	ErrMultipleItemsFound = &AppError{Code: ErrCodeMultipleItemsFound, Message: "multiple items found"}
	ErrTypeError          = &AppError{Code: ErrCodeTypeError, Message: "type error"}
	ErrUnexpected         = &AppError{Code: ErrCodeUnexpected, Message: "unexpected error"}
	ErrKeyNotFound        = &AppError{Code: ErrCodeKeyNotFound, Message: "key not found"}
	ErrInvalidConfig      = &AppError{Code: ErrCodeInvalidConfig, Message: "invalid configuration"}
	ErrSerialization      = &AppError{Code: ErrCodeSerialization, Message: "serialization failed"}
	ErrAdapterFailure     = &AppError{Code: ErrCodeAdapterFailure, Message: "adapter failure"}
	ErrTimeout            = &AppError{Code: ErrCodeTimeout, Message: "timed out"}
	ErrCircuitOpen        = &AppError{Code: ErrCodeCircuitOpen, Message: "circuit breaker is open"}
)

// --- Sequence engine constructors ---

// EmptyCollection creates an AppError for an operation that needs at least one item.
func EmptyCollection(operation string) *AppError {
	return &AppError{
		Code: ErrCodeEmptyCollection, Message: fmt.Sprintf("%s requires a non-empty collection", operation),
		Details: map[string]any{"operation": operation},
	}
}

// ItemNotFound creates an AppError for a lookup that matched no item.
func ItemNotFound(operation string) *AppError {
	return &AppError{
		Code: ErrCodeItemNotFound, Message: fmt.Sprintf("%s found no matching item", operation),
		Details: map[string]any{"operation": operation},
	}
}

// MultipleItemsFound creates an AppError for a lookup that expected exactly one match.
func MultipleItemsFound(operation string) *AppError {
	return &AppError{
		Code: ErrCodeMultipleItemsFound, Message: fmt.Sprintf("%s matched more than one item", operation),
		Details: map[string]any{"operation": operation},
	}
}

// TypeMismatch creates an AppError for an item whose type an operation cannot handle.
func TypeMismatch(operation, expected string, got any) *AppError {
	return &AppError{
		Code: ErrCodeTypeError, Message: fmt.Sprintf("%s expected %s, got %T", operation, expected, got),
		Details: map[string]any{"operation": operation, "expected": expected, "got": fmt.Sprintf("%T", got)},
	}
}

// InvalidArgument creates an AppError for an operator parameter that violates its contract.
func InvalidArgument(operation, param string, value any, reason string) *AppError {
	return &AppError{
		Code: ErrCodeTypeError, Message: fmt.Sprintf("%s: %s %s (got: %v)", operation, param, reason, value),
		Details: map[string]any{"operation": operation, "param": param, "value": value},
	}
}

// Unexpected creates an AppError wrapping an error outside the taxonomy.
func Unexpected(cause error) *AppError {
	return &AppError{
		Code: ErrCodeUnexpected, Message: "an unexpected error occurred", Cause: cause,
	}
}

// --- Toolkit constructors ---

// KeyNotFound creates an AppError for a missing cache key.
func KeyNotFound(key string) *AppError {
	return &AppError{
		Code: ErrCodeKeyNotFound, Message: fmt.Sprintf("key %q was not found", key),
		Details: map[string]any{"key": key},
	}
}

// InvalidConfig creates an AppError for configuration that failed validation.
func InvalidConfig(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidConfig, Message: message}
}

// Serialization creates an AppError for a value that could not be encoded or decoded.
func Serialization(format string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeSerialization, Message: fmt.Sprintf("%s serialization failed", format),
		Details: map[string]any{"format": format}, Cause: cause,
	}
}

// AdapterFailure creates an AppError for a failed storage adapter call.
func AdapterFailure(adapter, operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeAdapterFailure, Message: fmt.Sprintf("%s adapter failed during %s", adapter, operation),
		Retryable: true, Details: map[string]any{"adapter": adapter, "operation": operation}, Cause: cause,
	}
}

// Timeout creates an AppError for an operation that did not finish in time.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		Retryable: true, Details: map[string]any{"operation": operation},
	}
}

// CircuitOpen creates an AppError for a call rejected by an open breaker.
func CircuitOpen(name string) *AppError {
	return &AppError{
		Code: ErrCodeCircuitOpen, Message: fmt.Sprintf("circuit breaker %q is open", name),
		Details: map[string]any{"breaker": name},
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// IsRetryable reports whether err is an AppError marked retryable.
func IsRetryable(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Retryable
}

// Wrap returns err unchanged when it already belongs to the taxonomy and
// wraps it as UNEXPECTED otherwise. nil stays nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	if IsAppError(err) {
		return err
	}
	return Unexpected(err)
}
