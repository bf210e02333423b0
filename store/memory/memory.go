/*
memory.go - In-memory store

PURPOSE:
  A map-backed implementation of the tracker store contracts, used by tests
  and local development. Everything is copied on the way in and out so
  callers can't mutate store state behind the lock.

SEE ALSO:
  - tracker/store.go: The contracts implemented here
  - store/sqlite/sqlite.go: The production implementation
*/
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/warp/vacation-tracker/calendar"
	"github.com/warp/vacation-tracker/tracker"
)

// Store keeps all records in maps behind one mutex. It implements
// tracker.Store.
type Store struct {
	mu sync.Mutex

	employees    map[tracker.EmployeeID]*tracker.Employee
	entitlements map[tracker.EmployeeID]*tracker.Entitlement
	requests     map[tracker.RequestID]*tracker.Request

	nextEmployeeID tracker.EmployeeID
	nextRequestID  tracker.RequestID
}

var _ tracker.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		employees:      make(map[tracker.EmployeeID]*tracker.Employee),
		entitlements:   make(map[tracker.EmployeeID]*tracker.Entitlement),
		requests:       make(map[tracker.RequestID]*tracker.Request),
		nextEmployeeID: 1,
		nextRequestID:  1,
	}
}

func copyEmployee(e *tracker.Employee) *tracker.Employee {
	c := *e
	c.Entitlement = nil
	if e.RemovalDate != nil {
		at := *e.RemovalDate
		c.RemovalDate = &at
	}
	return &c
}

func copyEntitlement(e *tracker.Entitlement) *tracker.Entitlement {
	c := *e
	return &c
}

func copyRequest(r *tracker.Request) *tracker.Request {
	c := *r
	if r.OwnerID != nil {
		owner := *r.OwnerID
		c.OwnerID = &owner
	}
	return &c
}

// removedOwner reports whether the request belongs to a soft-removed
// employee. Must be called with the lock held.
func (s *Store) removedOwner(r *tracker.Request) bool {
	if r.OwnerID == nil {
		return false
	}
	e, ok := s.employees[*r.OwnerID]
	return ok && e.IsRemoved()
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) GetEmployee(ctx context.Context, id tracker.EmployeeID) (*tracker.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.employees[id]
	if !ok || e.IsRemoved() {
		return nil, nil
	}
	return copyEmployee(e), nil
}

func (s *Store) GetEmployeeByEmail(ctx context.Context, email string) (*tracker.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.employees {
		if e.Email == email && !e.IsRemoved() {
			return copyEmployee(e), nil
		}
	}
	return nil, nil
}

func (s *Store) GetEmployeeByName(ctx context.Context, fullName string) (*tracker.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.employees {
		if e.FullName() == fullName && !e.IsRemoved() {
			return copyEmployee(e), nil
		}
	}
	return nil, nil
}

func (s *Store) GetRemovedEmployeeByEmail(ctx context.Context, email string) (*tracker.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.employees {
		if e.Email == email && e.IsRemoved() {
			return copyEmployee(e), nil
		}
	}
	return nil, nil
}

func (s *Store) ListActiveEmployees(ctx context.Context) ([]*tracker.Employee, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*tracker.Employee
	for _, e := range s.employees {
		if !e.IsRemoved() {
			out = append(out, copyEmployee(e))
		}
	}
	return out, nil
}

func (s *Store) AddEmployee(ctx context.Context, e *tracker.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextEmployeeID
	s.nextEmployeeID++
	s.employees[e.ID] = copyEmployee(e)
	return nil
}

func (s *Store) UpdateEmployee(ctx context.Context, e *tracker.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.employees[e.ID] = copyEmployee(e)
	return nil
}

func (s *Store) MarkEmployeeRemoved(ctx context.Context, id tracker.EmployeeID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.employees[id]; ok {
		when := at
		e.RemovalDate = &when
	}
	return nil
}

// =============================================================================
// ENTITLEMENTS
// =============================================================================

func (s *Store) GetEntitlement(ctx context.Context, employeeID tracker.EmployeeID) (*tracker.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entitlements[employeeID]
	if !ok {
		return nil, nil
	}
	return copyEntitlement(e), nil
}

func (s *Store) ListEntitlements(ctx context.Context) ([]*tracker.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*tracker.Entitlement
	for _, e := range s.entitlements {
		if emp, ok := s.employees[e.EmployeeID]; ok && emp.IsRemoved() {
			continue
		}
		out = append(out, copyEntitlement(e))
	}
	return out, nil
}

func (s *Store) AddEntitlement(ctx context.Context, e *tracker.Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entitlements[e.EmployeeID] = copyEntitlement(e)
	return nil
}

func (s *Store) UpdateEntitlement(ctx context.Context, e *tracker.Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entitlements[e.EmployeeID] = copyEntitlement(e)
	return nil
}

// =============================================================================
// REQUESTS
// =============================================================================

func (s *Store) GetRequest(ctx context.Context, id tracker.RequestID) (*tracker.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok || s.removedOwner(r) {
		return nil, nil
	}
	return copyRequest(r), nil
}

func (s *Store) ListRequests(ctx context.Context) ([]*tracker.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*tracker.Request
	for _, r := range s.requests {
		if s.removedOwner(r) {
			continue
		}
		out = append(out, copyRequest(r))
	}
	return out, nil
}

func (s *Store) ListRequestsByStatus(ctx context.Context, status tracker.RequestStatus) ([]*tracker.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*tracker.Request
	for _, r := range s.requests {
		if r.Status != status || s.removedOwner(r) {
			continue
		}
		out = append(out, copyRequest(r))
	}
	return out, nil
}

func (s *Store) ListOwnerRequestsByStatus(ctx context.Context, owner tracker.EmployeeID, status tracker.RequestStatus) ([]*tracker.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*tracker.Request
	for _, r := range s.requests {
		if r.OwnerID == nil || *r.OwnerID != owner || r.Status != status {
			continue
		}
		if s.removedOwner(r) {
			continue
		}
		out = append(out, copyRequest(r))
	}
	return out, nil
}

func (s *Store) ListRequestsContaining(ctx context.Context, t tracker.LeaveType, start, end calendar.Date) ([]*tracker.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*tracker.Request
	for _, r := range s.requests {
		if r.Type != t || s.removedOwner(r) {
			continue
		}
		if r.Start.BeforeOrEqual(start) && end.BeforeOrEqual(r.End) {
			out = append(out, copyRequest(r))
		}
	}
	return out, nil
}

func (s *Store) AddRequest(ctx context.Context, r *tracker.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.nextRequestID
	s.nextRequestID++
	s.requests[r.ID] = copyRequest(r)
	return nil
}

func (s *Store) UpdateRequest(ctx context.Context, r *tracker.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests[r.ID] = copyRequest(r)
	return nil
}

func (s *Store) DeleteRequest(ctx context.Context, id tracker.RequestID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.requests, id)
	return nil
}
