/*
store.go - Persistence interface for maternity cases

PURPOSE:
  Defines the contract between the engine and the database. Cases are
  keyed records, saved whole (case row plus its periods) under
  optimistic concurrency.

VERSIONING CONTRACT:
  Every Case carries a Version. SaveCase accepts:
    - an insert when Version == 1 and no row exists for the id
    - an update when the stored version is exactly Version-1
  Anything else fails with ErrConcurrentModification. Two staff editing
  the same case therefore fail fast instead of silently overwriting
  each other; edits to different cases never collide.

IMPLEMENTATIONS:
  - store/sqlite:         Production SQLite
  - maternity/store:      In-memory, for tests
*/
package maternity

import "context"

// CaseStore persists maternity cases.
type CaseStore interface {
	// GetCase returns the case with the given id, including periods,
	// or ErrCaseNotFound.
	GetCase(ctx context.Context, id string) (*Case, error)

	// ListCases returns all cases ordered by maternity start date.
	// Archived cases are included only when requested.
	ListCases(ctx context.Context, includeArchived bool) ([]*Case, error)

	// SaveCase inserts or updates a case and replaces its periods
	// atomically. Fails with ErrConcurrentModification on a version
	// conflict; the caller discards in-memory state and re-reads.
	SaveCase(ctx context.Context, c *Case) error
}
