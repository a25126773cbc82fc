/*
errors.go - Centralized error taxonomy for the ledger core

PURPOSE:
  All error types in one place. The API layer maps these onto HTTP
  statuses with errors.Is/As; callers inside the module wrap them with
  fmt.Errorf("...: %w", err).

ERROR CATEGORIES:
  1. Input errors     - rejected before any write is attempted
  2. Not-found errors - deletes referencing a nonexistent id
  3. Persistence errors - store/transaction failures; the triggering
     transaction is rolled back in full and the cause surfaced verbatim

SEE ALSO:
  - writer.go: raises these
  - api/handlers.go: maps them to HTTP statuses
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned for malformed dates, bad enum values,
	// missing required fields and out-of-bounds amounts or hours.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRangeTooLong is returned when a vacation request spans more
	// than MaxRangeDays calendar days.
	ErrRangeTooLong = errors.New("date range too long")

	// ErrNotFound is returned when a delete references an id that does
	// not exist. Never retried.
	ErrNotFound = errors.New("not found")

	// ErrPersistence is returned when the event store fails. The whole
	// transaction has been rolled back; the caller decides whether to
	// retry (only the upsert-based time-off path is safely retryable).
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry enough detail to fix the request
// =============================================================================

// InputError reports which field was rejected and why.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// RangeTooLongError reports a rejected vacation span.
type RangeTooLongError struct {
	From Date
	To   Date
	Days int
}

func (e *RangeTooLongError) Error() string {
	return fmt.Sprintf("range %s..%s spans %d days, max %d", e.From, e.To, e.Days, MaxRangeDays)
}

func (e *RangeTooLongError) Unwrap() error { return ErrRangeTooLong }

// PersistenceError wraps a store failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: persistence failure: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return ErrPersistence }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is the caller's fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrRangeTooLong)
}

// IsNotFound returns true if the error indicates a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
