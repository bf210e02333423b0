/*
store.go - Persistence contracts the engine depends on

PURPOSE:
  The engine is a library of operations over loaded entities plus explicit
  persist calls. These interfaces are the collaborator contracts it needs;
  store/sqlite and store/memory implement all three on a single Store type.

CONVENTIONS:
  - Lookups return (nil, nil) when the record is absent; the engine
    translates that into ErrEmployeeNotFound / ErrRequestNotFound.
  - "Active" queries exclude soft-removed employees. Requests owned by
    removed employees are likewise excluded from listings, though the rows
    survive for audit.
  - Each engine operation is one logical transaction (read, compute, mutate,
    persist); serializing concurrent writes to the same rows is the storage
    layer's job.

SEE ALSO:
  - store/memory/memory.go: In-memory implementation (tests, dev)
  - store/sqlite/sqlite.go: SQLite implementation
*/
package tracker

import (
	"context"
	"time"

	"github.com/warp/vacation-tracker/calendar"
)

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

type EmployeeStore interface {
	// GetEmployee returns an active employee by id, nil if absent or removed.
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)

	// GetEmployeeByEmail returns an active employee by email.
	GetEmployeeByEmail(ctx context.Context, email string) (*Employee, error)

	// GetEmployeeByName returns an active employee by "First Last" full name.
	GetEmployeeByName(ctx context.Context, fullName string) (*Employee, error)

	// GetRemovedEmployeeByEmail returns a soft-removed employee by email.
	// Used for duplicate-identity checks: removed emails stay reserved.
	GetRemovedEmployeeByEmail(ctx context.Context, email string) (*Employee, error)

	// ListActiveEmployees returns all employees without a removal date.
	ListActiveEmployees(ctx context.Context) ([]*Employee, error)

	// AddEmployee persists a new employee and assigns its ID.
	AddEmployee(ctx context.Context, e *Employee) error

	// UpdateEmployee persists changes to an existing employee.
	UpdateEmployee(ctx context.Context, e *Employee) error

	// MarkEmployeeRemoved sets the removal timestamp. The row is never
	// physically deleted.
	MarkEmployeeRemoved(ctx context.Context, id EmployeeID, at time.Time) error
}

// =============================================================================
// ENTITLEMENT STORE
// =============================================================================

type EntitlementStore interface {
	// GetEntitlement returns the entitlement for an employee, nil if absent.
	GetEntitlement(ctx context.Context, employeeID EmployeeID) (*Entitlement, error)

	// ListEntitlements returns entitlements of all active employees.
	ListEntitlements(ctx context.Context) ([]*Entitlement, error)

	// AddEntitlement persists a new entitlement.
	AddEntitlement(ctx context.Context, e *Entitlement) error

	// UpdateEntitlement persists balance or allotment changes.
	UpdateEntitlement(ctx context.Context, e *Entitlement) error
}

// =============================================================================
// REQUEST STORE
// =============================================================================

type RequestStore interface {
	// GetRequest returns a request by id, nil if absent or owned by a
	// removed employee.
	GetRequest(ctx context.Context, id RequestID) (*Request, error)

	// ListRequests returns all requests except those owned by removed
	// employees.
	ListRequests(ctx context.Context) ([]*Request, error)

	// ListRequestsByStatus filters ListRequests by status.
	ListRequestsByStatus(ctx context.Context, status RequestStatus) ([]*Request, error)

	// ListOwnerRequestsByStatus returns one employee's requests in a status.
	ListOwnerRequestsByStatus(ctx context.Context, owner EmployeeID, status RequestStatus) ([]*Request, error)

	// ListRequestsContaining returns requests of the given type, any status,
	// whose date range fully contains [start, end].
	ListRequestsContaining(ctx context.Context, t LeaveType, start, end calendar.Date) ([]*Request, error)

	// AddRequest persists a new request and assigns its ID.
	AddRequest(ctx context.Context, r *Request) error

	// UpdateRequest persists changes to an existing request.
	UpdateRequest(ctx context.Context, r *Request) error

	// DeleteRequest removes a request row.
	DeleteRequest(ctx context.Context, id RequestID) error
}

// =============================================================================
// COMPOSITE
// =============================================================================

// Store bundles the three contracts; both store implementations satisfy it
// with a single type.
type Store interface {
	EmployeeStore
	EntitlementStore
	RequestStore
}
