/*
errors.go - Centralized error types for the maternity engine

ERROR CATEGORIES:
  1. Validation errors - bad input, blocks the operation
  2. Not-found errors  - unknown case/period/employee
  3. Persistence errors - store write failures, never silently retried
  4. Calculation errors - unexpected entitlement engine failure
  5. Concurrency errors - optimistic version conflict on write

Resolution failures (calendar.ErrNoMatchingPeriod) are deliberately NOT
errors of this package: they are non-fatal and recovered locally via
the synthetic monthly fallback.
*/
package maternity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/warp/maternity-engine/employee"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrCaseNotFound is returned when a case id does not exist.
	ErrCaseNotFound = errors.New("maternity case not found")

	// ErrPeriodNotFound is returned when a period id does not exist
	// within a case.
	ErrPeriodNotFound = errors.New("maternity period not found")

	// ErrCaseArchived is returned when mutating an archived case.
	// Archival is terminal; archived cases are read-only.
	ErrCaseArchived = errors.New("maternity case is archived")

	// ErrConcurrentModification is returned when optimistic locking
	// detects a conflicting write. Retry by re-reading the case.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationError reports one or more input problems. The operation is
// blocked entirely; the caller corrects input and retries.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// PersistenceError wraps a store write failure. In-memory state is
// discarded by callers so memory never diverges from the store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// CalculationError reports an unexpected failure inside the
// entitlement engine. Case creation tolerates it (totalCMP defaults to
// zero, surfaced as a warning); every other call site propagates it.
type CalculationError struct {
	CaseID string
	Err    error
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("entitlement calculation failed for case %s: %v", e.CaseID, e.Err)
}

func (e *CalculationError) Unwrap() error { return e.Err }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) || errors.Is(err, ErrCaseArchived)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCaseNotFound) ||
		errors.Is(err, ErrPeriodNotFound) ||
		errors.Is(err, employee.ErrEmployeeNotFound)
}

// IsRetryable returns true if the error might succeed on retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification)
}
