// Package errors provides the error taxonomy shared by the collection
// engines and the toolkit collaborators built on top of them.
// It implements a structured error type with machine-readable codes,
// sentinel values for errors.Is and retryable detection.
package errors
