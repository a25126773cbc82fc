/*
Package sqlite provides the SQLite-backed event store.

PURPOSE:
  Implements ledger.EventStore and ledger.EmployeeDirectory on SQLite.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  time_events: one row per employee-day absence, UNIQUE on the natural
               key (employee_name, day, kind). Writes go through
               INSERT ... ON CONFLICT DO UPDATE so a resubmission
               updates hours_off/note instead of failing.
  comp_events: append-only compensation lines, no uniqueness constraint.
  employees:   the employee directory. Owned by the external admin tool;
               this store only reads and seeds it.

UPSERT SEMANTICS:
  The conflict clause updates hours_off and note only. The original id,
  created_at and created_by survive, so the row keeps its creation
  audit across resubmissions.

TRANSACTIONS:
  InTx is the unit-of-work boundary: it hands the callback a
  transactional handle and commits only on nil. A multi-day vacation
  write therefore lands all-or-nothing; a reader on another connection
  never observes a partially-expanded range.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better
  concurrency: readers don't block on the single writer.

SCHEMA BOOTSTRAP:
  Migrate() is an explicit startup step, called once from main (and
  from test setup). The hot path never branches on "is the schema
  ready".

USAGE:
  store, err := sqlite.Open("./data/ledger.db")
  if err != nil { ... }
  defer store.Close()
  if err := store.Migrate(ctx); err != nil { ... }

SEE ALSO:
  - ledger/store.go: interface definitions
  - ledger/writer.go: the only writer through these interfaces
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/absence-ledger/ledger"
)

// Store implements ledger.EventStore and ledger.EmployeeDirectory.
type Store struct {
	db *sql.DB
}

// Open opens the database without touching the schema. Use ":memory:"
// for an in-memory database. Call Migrate before serving requests.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate creates the schema. Explicit one-shot bootstrap, run at
// process startup before the first request.
func (s *Store) Migrate(ctx context.Context) error {
	schema := `
	-- Time events: one employee-day absence, upserted on the natural key
	CREATE TABLE IF NOT EXISTS time_events (
		id TEXT PRIMARY KEY,
		employee_name TEXT NOT NULL,
		day TEXT NOT NULL,
		kind TEXT NOT NULL CHECK (kind IN ('vacation', 'short')),
		hours_off INTEGER,
		note TEXT,
		created_at TEXT NOT NULL,
		created_by TEXT NOT NULL,
		UNIQUE (employee_name, day, kind)
	);

	CREATE INDEX IF NOT EXISTS idx_time_events_day
		ON time_events(day DESC, employee_name);
	CREATE INDEX IF NOT EXISTS idx_time_events_employee
		ON time_events(employee_name, day);

	-- Comp events: append-only ledger lines, no natural key
	CREATE TABLE IF NOT EXISTS comp_events (
		id TEXT PRIMARY KEY,
		employee_name TEXT NOT NULL,
		day TEXT NOT NULL,
		unit TEXT NOT NULL CHECK (unit IN ('day', 'hour')),
		amount INTEGER NOT NULL CHECK (amount <> 0),
		note TEXT NOT NULL,
		created_at TEXT NOT NULL,
		created_by TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_comp_events_day
		ON comp_events(day DESC, employee_name);
	CREATE INDEX IF NOT EXISTS idx_comp_events_employee
		ON comp_events(employee_name, day);

	-- Employee directory (owned by the external admin tool)
	CREATE TABLE IF NOT EXISTS employees (
		name TEXT PRIMARY KEY,
		location TEXT,
		created_at TEXT NOT NULL
	);
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// =============================================================================
// UNIT OF WORK (ledger.EventStore interface)
// =============================================================================

// InTx executes fn inside one database transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx ledger.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&eventTx{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// eventTx is the transactional handle handed to InTx callbacks.
type eventTx struct {
	tx *sql.Tx
}

func (t *eventTx) UpsertTimeEvent(ctx context.Context, ev ledger.TimeEvent) error {
	query := `
		INSERT INTO time_events
		(id, employee_name, day, kind, hours_off, note, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_name, day, kind) DO UPDATE SET
			hours_off = excluded.hours_off,
			note = excluded.note
	`
	_, err := t.tx.ExecContext(ctx, query,
		ev.ID,
		ev.EmployeeName,
		ev.Day.String(),
		string(ev.Kind),
		nullInt(ev.HoursOff),
		nullString(ev.Note),
		ev.CreatedAt.UTC().Format(time.RFC3339),
		ev.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert time event: %w", err)
	}
	return nil
}

func (t *eventTx) InsertCompEvent(ctx context.Context, ev ledger.CompEvent) error {
	query := `
		INSERT INTO comp_events
		(id, employee_name, day, unit, amount, note, created_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := t.tx.ExecContext(ctx, query,
		ev.ID,
		ev.EmployeeName,
		ev.Day.String(),
		string(ev.Unit),
		ev.Amount,
		ev.Note,
		ev.CreatedAt.UTC().Format(time.RFC3339),
		ev.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comp event: %w", err)
	}
	return nil
}

// =============================================================================
// DELETES
// =============================================================================

// DeleteTimeEvent removes one row by id.
func (s *Store) DeleteTimeEvent(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM time_events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete time event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete time event: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("time event %s: %w", id, ledger.ErrNotFound)
	}
	return nil
}

// DeleteCompEvent removes one ledger line by id and returns the removed
// line so the caller can log it.
func (s *Store) DeleteCompEvent(ctx context.Context, id string) (*ledger.CompEvent, error) {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	row := sqlTx.QueryRowContext(ctx, `
		SELECT id, employee_name, day, unit, amount, note, created_at, created_by
		FROM comp_events WHERE id = ?
	`, id)
	ev, err := scanCompEvent(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("comp event %s: %w", id, ledger.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load comp event: %w", err)
	}

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM comp_events WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("failed to delete comp event: %w", err)
	}
	if err := sqlTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to delete comp event: %w", err)
	}
	return ev, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// ListTimeEvents returns events matching the filter.
func (s *Store) ListTimeEvents(ctx context.Context, f ledger.ListFilter) ([]ledger.TimeEvent, error) {
	query := `
		SELECT id, employee_name, day, kind, hours_off, note, created_at, created_by
		FROM time_events
	` + filterClause(f)

	rows, err := s.db.QueryContext(ctx, query, filterArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query time events: %w", err)
	}
	defer rows.Close()

	var events []ledger.TimeEvent
	for rows.Next() {
		ev, err := scanTimeEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// ListCompEvents returns ledger lines matching the filter.
func (s *Store) ListCompEvents(ctx context.Context, f ledger.ListFilter) ([]ledger.CompEvent, error) {
	query := `
		SELECT id, employee_name, day, unit, amount, note, created_at, created_by
		FROM comp_events
	` + filterClause(f)

	rows, err := s.db.QueryContext(ctx, query, filterArgs(f)...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comp events: %w", err)
	}
	defer rows.Close()

	var events []ledger.CompEvent
	for rows.Next() {
		ev, err := scanCompEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// filterClause builds WHERE/ORDER/LIMIT for both event tables. Dates
// compare lexicographically because days are stored as YYYY-MM-DD.
func filterClause(f ledger.ListFilter) string {
	var conds []string
	if f.EmployeeName != "" {
		conds = append(conds, "employee_name = ?")
	}
	if f.Window.From != nil {
		conds = append(conds, "day >= ?")
	}
	if f.Window.To != nil {
		conds = append(conds, "day < ?")
	}

	clause := ""
	if len(conds) > 0 {
		clause = " WHERE " + strings.Join(conds, " AND ")
	}
	if f.OrderAsc {
		clause += " ORDER BY day ASC, employee_name ASC"
	} else {
		clause += " ORDER BY day DESC, employee_name ASC"
	}
	return clause + " LIMIT ?"
}

func filterArgs(f ledger.ListFilter) []any {
	var args []any
	if f.EmployeeName != "" {
		args = append(args, f.EmployeeName)
	}
	if f.Window.From != nil {
		args = append(args, f.Window.From.String())
	}
	if f.Window.To != nil {
		args = append(args, f.Window.To.String())
	}
	limit := f.Limit
	if limit <= 0 || limit > ledger.MaxQueryRows {
		limit = ledger.MaxQueryRows
	}
	return append(args, limit)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTimeEvent(row rowScanner) (ledger.TimeEvent, error) {
	var (
		ev        ledger.TimeEvent
		day       string
		kind      string
		hoursOff  sql.NullInt64
		note      sql.NullString
		createdAt string
	)
	err := row.Scan(&ev.ID, &ev.EmployeeName, &day, &kind, &hoursOff, &note, &createdAt, &ev.CreatedBy)
	if err != nil {
		return ev, fmt.Errorf("failed to scan time event: %w", err)
	}

	if ev.Day, err = ledger.ParseDate(day); err != nil {
		return ev, fmt.Errorf("corrupt day column: %w", err)
	}
	ev.Kind = ledger.Kind(kind)
	if hoursOff.Valid {
		h := int(hoursOff.Int64)
		ev.HoursOff = &h
	}
	ev.Note = note.String
	ev.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return ev, nil
}

func scanCompEvent(row rowScanner) (*ledger.CompEvent, error) {
	var (
		ev        ledger.CompEvent
		day       string
		unit      string
		createdAt string
	)
	err := row.Scan(&ev.ID, &ev.EmployeeName, &day, &unit, &ev.Amount, &ev.Note, &createdAt, &ev.CreatedBy)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan comp event: %w", err)
	}

	if ev.Day, err = ledger.ParseDate(day); err != nil {
		return nil, fmt.Errorf("corrupt day column: %w", err)
	}
	ev.Unit = ledger.Unit(unit)
	ev.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &ev, nil
}

// =============================================================================
// EMPLOYEE DIRECTORY (ledger.EmployeeDirectory interface)
// =============================================================================

// ListNames returns every known employee name, ascending: the directory
// union any name that appears in events, so ledger rows for
// since-removed employees stay visible.
func (s *Store) ListNames(ctx context.Context) ([]string, error) {
	query := `
		SELECT name FROM employees
		UNION
		SELECT DISTINCT employee_name FROM time_events
		UNION
		SELECT DISTINCT employee_name FROM comp_events
		ORDER BY 1
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan employee name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// SaveEmployee adds a name to the directory. Used by the admin tool's
// seeding path and by tests.
func (s *Store) SaveEmployee(ctx context.Context, name, location string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (name, location, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET location = excluded.location
	`, name, location, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}
