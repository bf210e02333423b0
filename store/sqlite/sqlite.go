/*
Package sqlite provides the SQLite-backed implementation of the tracker
storage interfaces.

PURPOSE:
  Implements tracker.Store (employees, entitlements, requests) on SQLite.
  The same patterns apply to PostgreSQL - only minor SQL dialect
  differences.

CODE MAPPING:
  The database keeps the legacy single-character codes; they never escape
  this package:
    leave type:  V=Vacation  S=Sick  P=Stat  C=Company
    status:      P=Pending   A=Approved  R=Rejected

PRECISION:
  Balance columns are TEXT holding decimal strings, round-tripped through
  shopspring/decimal. REAL would reintroduce the float drift the ledger
  exists to avoid.

SOFT DELETE:
  Employees are never physically deleted; removal_date marks them removed.
  Request queries join employees so a removed owner's requests drop out of
  every listing while the rows survive for audit.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

USAGE:
  store, err := sqlite.New("./data/tracker.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := tracker.NewEngine(store, store, store)

SEE ALSO:
  - tracker/store.go: Interface definitions
  - store/memory/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/vacation-tracker/calendar"
	"github.com/warp/vacation-tracker/tracker"
)

// Store implements tracker.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ tracker.Store = (*Store)(nil)

// New creates a SQLite store at the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		removal_date TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_employees_email
		ON employees(email);
	CREATE INDEX IF NOT EXISTS idx_employees_name
		ON employees(first_name, last_name);

	CREATE TABLE IF NOT EXISTS entitlements (
		employee_id INTEGER PRIMARY KEY REFERENCES employees(id),
		access TEXT NOT NULL,
		earned_vacation_days TEXT NOT NULL,
		vacation_rollover TEXT NOT NULL,
		vacation_days_available TEXT NOT NULL,
		sick_days_allotted TEXT NOT NULL,
		sick_days_taken TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		owner_id INTEGER REFERENCES employees(id),
		type TEXT NOT NULL CHECK (type IN ('V','S','P','C')),
		status TEXT NOT NULL CHECK (status IN ('P','A','R')),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		number_of_days INTEGER NOT NULL,
		title TEXT NOT NULL,
		comments TEXT NOT NULL DEFAULT '',
		notify_owner INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_requests_owner_status
		ON requests(owner_id, status);
	CREATE INDEX IF NOT EXISTS idx_requests_type_dates
		ON requests(type, start_date, end_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CODE MAPPING
// =============================================================================

func typeCode(t tracker.LeaveType) string {
	switch t {
	case tracker.LeaveSick:
		return "S"
	case tracker.LeaveStatutory:
		return "P"
	case tracker.LeaveCompany:
		return "C"
	default:
		return "V"
	}
}

func typeFromCode(code string) tracker.LeaveType {
	switch code {
	case "S":
		return tracker.LeaveSick
	case "P":
		return tracker.LeaveStatutory
	case "C":
		return tracker.LeaveCompany
	default:
		return tracker.LeaveVacation
	}
}

func statusCode(st tracker.RequestStatus) string {
	switch st {
	case tracker.StatusApproved:
		return "A"
	case tracker.StatusRejected:
		return "R"
	default:
		return "P"
	}
}

func statusFromCode(code string) tracker.RequestStatus {
	switch code {
	case "A":
		return tracker.StatusApproved
	case "R":
		return tracker.StatusRejected
	default:
		return tracker.StatusPending
	}
}

func parseAmount(column, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt %s %q: %w", column, value, err)
	}
	return d, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

const employeeColumns = `id, email, first_name, last_name, start_date, removal_date`

func scanEmployee(row interface{ Scan(...any) error }) (*tracker.Employee, error) {
	var (
		e       tracker.Employee
		start   string
		removed sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Email, &e.FirstName, &e.LastName, &start, &removed); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	startDate, err := calendar.ParseISO(start)
	if err != nil {
		return nil, fmt.Errorf("corrupt start_date %q: %w", start, err)
	}
	e.StartDate = startDate

	if removed.Valid {
		at, err := time.Parse(time.RFC3339, removed.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt removal_date %q: %w", removed.String, err)
		}
		e.RemovalDate = &at
	}
	return &e, nil
}

func (s *Store) GetEmployee(ctx context.Context, id tracker.EmployeeID) (*tracker.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = ? AND removal_date IS NULL`, id)
	return scanEmployee(row)
}

func (s *Store) GetEmployeeByEmail(ctx context.Context, email string) (*tracker.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE email = ? AND removal_date IS NULL`, email)
	return scanEmployee(row)
}

func (s *Store) GetEmployeeByName(ctx context.Context, fullName string) (*tracker.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees
		 WHERE first_name || ' ' || last_name = ? AND removal_date IS NULL`, fullName)
	return scanEmployee(row)
}

func (s *Store) GetRemovedEmployeeByEmail(ctx context.Context, email string) (*tracker.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE email = ? AND removal_date IS NOT NULL`, email)
	return scanEmployee(row)
}

func (s *Store) ListActiveEmployees(ctx context.Context) ([]*tracker.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE removal_date IS NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*tracker.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) AddEmployee(ctx context.Context, e *tracker.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (email, first_name, last_name, start_date) VALUES (?, ?, ?, ?)`,
		e.Email, e.FirstName, e.LastName, e.StartDate.ISO())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = tracker.EmployeeID(id)
	return nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e *tracker.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE employees SET email = ?, first_name = ?, last_name = ?, start_date = ? WHERE id = ?`,
		e.Email, e.FirstName, e.LastName, e.StartDate.ISO(), e.ID)
	return err
}

func (s *Store) MarkEmployeeRemoved(ctx context.Context, id tracker.EmployeeID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE employees SET removal_date = ? WHERE id = ?`,
		at.UTC().Format(time.RFC3339), id)
	return err
}

// =============================================================================
// ENTITLEMENTS
// =============================================================================

const entitlementColumns = `employee_id, access, earned_vacation_days, vacation_rollover,
	vacation_days_available, sick_days_allotted, sick_days_taken`

func scanEntitlement(row interface{ Scan(...any) error }) (*tracker.Entitlement, error) {
	var (
		e                                               tracker.Entitlement
		access                                          string
		earned, rollover, available, allotted, sickTaken string
	)
	if err := row.Scan(&e.EmployeeID, &access, &earned, &rollover, &available, &allotted, &sickTaken); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	e.Access = tracker.AccessLevel(access)

	var err error
	if e.EarnedVacationDays, err = parseAmount("earned_vacation_days", earned); err != nil {
		return nil, err
	}
	if e.VacationRollover, err = parseAmount("vacation_rollover", rollover); err != nil {
		return nil, err
	}
	if e.VacationDaysAvailable, err = parseAmount("vacation_days_available", available); err != nil {
		return nil, err
	}
	if e.SickDaysAllotted, err = parseAmount("sick_days_allotted", allotted); err != nil {
		return nil, err
	}
	if e.SickDaysTaken, err = parseAmount("sick_days_taken", sickTaken); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *Store) GetEntitlement(ctx context.Context, employeeID tracker.EmployeeID) (*tracker.Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+entitlementColumns+` FROM entitlements WHERE employee_id = ?`, employeeID)
	return scanEntitlement(row)
}

func (s *Store) ListEntitlements(ctx context.Context) ([]*tracker.Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entitlementColumns+` FROM entitlements e
		 JOIN employees emp ON emp.id = e.employee_id
		 WHERE emp.removal_date IS NULL
		 ORDER BY e.employee_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*tracker.Entitlement
	for rows.Next() {
		e, err := scanEntitlement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) AddEntitlement(ctx context.Context, e *tracker.Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entitlements (employee_id, access, earned_vacation_days, vacation_rollover,
			vacation_days_available, sick_days_allotted, sick_days_taken)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.EmployeeID, string(e.Access),
		e.EarnedVacationDays.String(), e.VacationRollover.String(),
		e.VacationDaysAvailable.String(), e.SickDaysAllotted.String(), e.SickDaysTaken.String())
	return err
}

func (s *Store) UpdateEntitlement(ctx context.Context, e *tracker.Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE entitlements SET access = ?, earned_vacation_days = ?, vacation_rollover = ?,
			vacation_days_available = ?, sick_days_allotted = ?, sick_days_taken = ?
		 WHERE employee_id = ?`,
		string(e.Access),
		e.EarnedVacationDays.String(), e.VacationRollover.String(),
		e.VacationDaysAvailable.String(), e.SickDaysAllotted.String(), e.SickDaysTaken.String(),
		e.EmployeeID)
	return err
}

// =============================================================================
// REQUESTS
// =============================================================================

const requestColumns = `r.id, r.owner_id, r.type, r.status, r.start_date, r.end_date,
	r.number_of_days, r.title, r.comments, r.notify_owner`

// activeOwner keeps requests of removed employees out of listings; company
// rows (NULL owner) always pass.
const activeOwner = `(r.owner_id IS NULL OR EXISTS (
	SELECT 1 FROM employees emp WHERE emp.id = r.owner_id AND emp.removal_date IS NULL))`

func scanRequest(row interface{ Scan(...any) error }) (*tracker.Request, error) {
	var (
		r          tracker.Request
		owner      sql.NullInt64
		typ, st    string
		start, end string
		notify     int
	)
	if err := row.Scan(&r.ID, &owner, &typ, &st, &start, &end,
		&r.NumberOfDays, &r.Title, &r.Comments, &notify); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if owner.Valid {
		id := tracker.EmployeeID(owner.Int64)
		r.OwnerID = &id
	}
	r.Type = typeFromCode(typ)
	r.Status = statusFromCode(st)
	r.NotifyOwner = notify != 0

	var err error
	if r.Start, err = calendar.ParseISO(start); err != nil {
		return nil, fmt.Errorf("corrupt start_date %q: %w", start, err)
	}
	if r.End, err = calendar.ParseISO(end); err != nil {
		return nil, fmt.Errorf("corrupt end_date %q: %w", end, err)
	}
	return &r, nil
}

func (s *Store) queryRequests(ctx context.Context, query string, args ...any) ([]*tracker.Request, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*tracker.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) GetRequest(ctx context.Context, id tracker.RequestID) (*tracker.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM requests r WHERE r.id = ? AND `+activeOwner, id)
	return scanRequest(row)
}

func (s *Store) ListRequests(ctx context.Context) ([]*tracker.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM requests r WHERE `+activeOwner+` ORDER BY r.id`)
}

func (s *Store) ListRequestsByStatus(ctx context.Context, status tracker.RequestStatus) ([]*tracker.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM requests r
		 WHERE r.status = ? AND `+activeOwner+` ORDER BY r.id`,
		statusCode(status))
}

func (s *Store) ListOwnerRequestsByStatus(ctx context.Context, owner tracker.EmployeeID, status tracker.RequestStatus) ([]*tracker.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM requests r
		 WHERE r.owner_id = ? AND r.status = ? AND `+activeOwner+` ORDER BY r.id`,
		owner, statusCode(status))
}

func (s *Store) ListRequestsContaining(ctx context.Context, t tracker.LeaveType, start, end calendar.Date) ([]*tracker.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// ISO dates compare lexicographically, so range containment works on the
	// TEXT columns directly.
	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM requests r
		 WHERE r.type = ? AND r.start_date <= ? AND r.end_date >= ? AND `+activeOwner+`
		 ORDER BY r.id`,
		typeCode(t), start.ISO(), end.ISO())
}

func (s *Store) AddRequest(ctx context.Context, r *tracker.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var owner any
	if r.OwnerID != nil {
		owner = int64(*r.OwnerID)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO requests (owner_id, type, status, start_date, end_date,
			number_of_days, title, comments, notify_owner)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		owner, typeCode(r.Type), statusCode(r.Status),
		r.Start.ISO(), r.End.ISO(), r.NumberOfDays, r.Title, r.Comments, boolInt(r.NotifyOwner))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = tracker.RequestID(id)
	return nil
}

func (s *Store) UpdateRequest(ctx context.Context, r *tracker.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`UPDATE requests SET status = ?, start_date = ?, end_date = ?,
			number_of_days = ?, title = ?, comments = ?, notify_owner = ?
		 WHERE id = ?`,
		statusCode(r.Status), r.Start.ISO(), r.End.ISO(),
		r.NumberOfDays, r.Title, r.Comments, boolInt(r.NotifyOwner), r.ID)
	return err
}

func (s *Store) DeleteRequest(ctx context.Context, id tracker.RequestID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
