package transmem

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a lookup by identifier matched no row.
var ErrNotFound = errors.New("not found")

// UnsupportedPairError indicates a language pair outside the supported set.
// It is a configuration error: surfaced immediately, never retried.
type UnsupportedPairError struct {
	Pair string
}

func (e *UnsupportedPairError) Error() string {
	return fmt.Sprintf("unsupported language pair %q", e.Pair)
}

// ProviderError indicates a failure of the external translation capability.
type ProviderError struct {
	Message   string
	Cause     error
	Retryable bool // whether the call can be retried
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// StoreError indicates a persistence failure on a mutating operation.
// The enclosing transaction has been rolled back when it is returned.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("store %s failed", e.Op)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a segment-cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}
