package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Sequence engine errors
const (
	// ErrCodeEmptyCollection indicates an aggregate or reduction ran over an empty sequence.
	ErrCodeEmptyCollection ErrorCode = "EMPTY_COLLECTION"
	// ErrCodeItemNotFound indicates an ...OrFail lookup matched nothing.
	ErrCodeItemNotFound ErrorCode = "ITEM_NOT_FOUND"
	// ErrCodeMultipleItemsFound indicates a sole lookup matched more than one item.
	ErrCodeMultipleItemsFound ErrorCode = "MULTIPLE_ITEMS_FOUND"
	// ErrCodeTypeError indicates a type mismatch or a violated operator contract.
	ErrCodeTypeError ErrorCode = "TYPE_ERROR"
	// ErrCodeUnexpected wraps any error outside the taxonomy.
	ErrCodeUnexpected ErrorCode = "UNEXPECTED"
)

// Toolkit errors
const (
	// ErrCodeKeyNotFound indicates a cache key does not exist.
	ErrCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"
	// ErrCodeInvalidConfig indicates configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeSerialization indicates a value could not be encoded or decoded.
	ErrCodeSerialization ErrorCode = "SERIALIZATION_FAILED"
	// ErrCodeAdapterFailure indicates a storage adapter call failed.
	ErrCodeAdapterFailure ErrorCode = "ADAPTER_FAILURE"
	// ErrCodeTimeout indicates an operation did not finish in time.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeCircuitOpen indicates a circuit breaker rejected the call.
	ErrCodeCircuitOpen ErrorCode = "CIRCUIT_OPEN"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeAdapterFailure: true,
	ErrCodeTimeout:        true,
	ErrCodeUnexpected:     false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
