package reportkit

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common operations.
var (
	// ErrCacheMiss is returned by Cache.Fetch when no entry is stored
	// under the requested key.
	ErrCacheMiss = errors.New("reportkit: cache miss")

	// ErrNoOutput is returned when a render step completes without
	// writing a single fragment. A render producing empty output is a
	// programming error, not a cache miss.
	ErrNoOutput = errors.New("reportkit: render step produced no output")

	// ErrNotImplemented is returned when the abstract render operation
	// is invoked directly instead of through a concrete implementation.
	ErrNotImplemented = errors.New("reportkit: render operation not implemented")
)

// RenderError wraps an error raised while executing a render operation.
type RenderError struct {
	Op  string // Operation type (e.g., "spent_time_report")
	Err error  // Underlying error
}

// Error returns the error string.
func (e *RenderError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("reportkit: rendering %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("reportkit: rendering: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// NewRenderError returns a new RenderError for the given operation type.
func NewRenderError(op string, err error) *RenderError {
	return &RenderError{Op: op, Err: err}
}

// IsRenderError returns true if the error is a RenderError.
func IsRenderError(err error) bool {
	if err == nil {
		return false
	}
	var e *RenderError
	return errors.As(err, &e)
}

// FieldRefError represents a field reference that is neither nil, a
// (table, column) pair, a qualified SQL expression, nor resolvable
// against a default table. Fragment builders fail fast on such input
// rather than emit guessable-but-wrong SQL.
type FieldRefError struct {
	Ref any // The offending reference
}

// Error returns the error string.
func (e *FieldRefError) Error() string {
	return fmt.Sprintf("reportkit: invalid field reference %v (%T)", e.Ref, e.Ref)
}

// NewFieldRefError returns a new FieldRefError for the given reference.
func NewFieldRefError(ref any) *FieldRefError {
	return &FieldRefError{Ref: ref}
}

// IsFieldRefError returns true if the error is a FieldRefError.
func IsFieldRefError(err error) bool {
	if err == nil {
		return false
	}
	var e *FieldRefError
	return errors.As(err, &e)
}

// IsCacheMiss returns true if the error indicates a missing cache entry.
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

// StoreError wraps a failure reported by the external cache store.
// Store failures are non-fatal for rendering: reads degrade to a miss
// and writes are best-effort.
type StoreError struct {
	Op  string // "exists", "fetch" or "write"
	Key string // Fingerprint the operation targeted
	Err error  // Underlying error
}

// Error returns the error string.
func (e *StoreError) Error() string {
	return fmt.Sprintf("reportkit: cache store %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError returns a new StoreError.
func NewStoreError(op, key string, err error) *StoreError {
	return &StoreError{Op: op, Key: key, Err: err}
}

// IsStoreError returns true if the error is a StoreError.
func IsStoreError(err error) bool {
	if err == nil {
		return false
	}
	var e *StoreError
	return errors.As(err, &e)
}
