/*
store.go - Persistence interfaces for the event store

PURPOSE:
  Defines the boundary between the ledger core and the database. The
  store persists two logical tables - time_events (upsert on the natural
  key) and comp_events (append-only lines) - plus a read-only employee
  directory owned by the surrounding admin tool.

UNIT OF WORK:
  Multi-day vacation writes must be all-or-nothing. Rather than inline
  BEGIN/COMMIT around a loop, the atomicity boundary is a first-class
  construct: InTx hands the caller a transactional handle and commits
  only if the function returns nil. A mid-range failure rolls back every
  row written so far, so a concurrent reader observes either none of the
  days or all of them.

IMPLEMENTATIONS:
  - store/sqlite: production store (go-sqlite3, WAL)
  - test wrappers inject failures through the same interfaces

SEE ALSO:
  - writer.go: the only writer through these interfaces
  - aggregate.go: read side
*/
package ledger

import "context"

// =============================================================================
// LIST FILTER
// =============================================================================

// ListFilter narrows event queries. The zero value matches everything
// up to MaxQueryRows rows.
type ListFilter struct {
	// EmployeeName restricts to a single employee when non-empty.
	EmployeeName string

	// Window restricts Day to the half-open range [From, To).
	Window Window

	// OrderAsc orders by day ascending (statement itemization).
	// Default ordering is day descending, then employee name ascending.
	OrderAsc bool

	// Limit caps returned rows; 0 means MaxQueryRows.
	Limit int
}

// =============================================================================
// STORE INTERFACES
// =============================================================================

// Tx is the transactional handle passed to an InTx function. All writes
// performed through one Tx commit or roll back together.
type Tx interface {
	// UpsertTimeEvent inserts the event, or - when a row with the same
	// (employee, day, kind) already exists - updates that row's
	// hours_off and note in place, keeping its id and creation audit.
	UpsertTimeEvent(ctx context.Context, ev TimeEvent) error

	// InsertCompEvent appends one ledger line. Never updates.
	InsertCompEvent(ctx context.Context, ev CompEvent) error
}

// EventStore is the durable home of both event kinds.
type EventStore interface {
	// InTx runs fn inside one transaction. fn returning an error rolls
	// everything back and the error is returned unchanged.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// DeleteTimeEvent removes one row by id. Returns ErrNotFound if no
	// such row exists.
	DeleteTimeEvent(ctx context.Context, id string) error

	// DeleteCompEvent removes one ledger line by id and returns the
	// removed line so the caller can log it. Returns ErrNotFound if no
	// such row exists.
	DeleteCompEvent(ctx context.Context, id string) (*CompEvent, error)

	// ListTimeEvents returns events matching the filter.
	ListTimeEvents(ctx context.Context, f ListFilter) ([]TimeEvent, error)

	// ListCompEvents returns ledger lines matching the filter.
	ListCompEvents(ctx context.Context, f ListFilter) ([]CompEvent, error)
}

// EmployeeDirectory lists known employee names. The directory is owned
// by an external subsystem; this core only reads it. Implementations
// should include names that appear in events but have since left the
// directory, so orphaned ledger rows stay visible.
type EmployeeDirectory interface {
	ListNames(ctx context.Context) ([]string, error)
}
