package tracker

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/warp/vacation-tracker/calendar"
)

// =============================================================================
// EMPLOYEE - Identity and tenure
// =============================================================================

// Employee is a person who can own requests and an entitlement. Removal is a
// soft delete: the removal date excludes the employee from active queries
// while historical requests survive for audit and reporting.
type Employee struct {
	ID          EmployeeID
	Email       string
	FirstName   string
	LastName    string
	StartDate   calendar.Date
	RemovalDate *time.Time

	// Loaded on demand; nil until attached.
	Entitlement *Entitlement
}

// SetName stores normalized first/last names: trimmed, first letter
// upper-cased, rest lowered when the input didn't already lead with a
// capital.
func (e *Employee) SetName(first, last string) {
	e.FirstName = normalizeName(first)
	e.LastName = normalizeName(last)
}

func normalizeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	runes := []rune(s)
	if unicode.IsUpper(runes[0]) {
		return s
	}
	return string(unicode.ToUpper(runes[0])) + strings.ToLower(string(runes[1:]))
}

// FullName returns "First Last", the format used to resolve employees from
// form submissions.
func (e *Employee) FullName() string {
	return fmt.Sprintf("%s %s", e.FirstName, e.LastName)
}

// IsRemoved reports whether the employee has been soft-deleted.
func (e *Employee) IsRemoved() bool {
	return e.RemovalDate != nil
}

// IsAdmin reports whether the employee's entitlement grants admin access.
func (e *Employee) IsAdmin() bool {
	return e.Entitlement != nil && e.Entitlement.Access == AccessAdmin
}
