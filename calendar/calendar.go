// Package calendar provides day-granularity date handling for leave requests.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE - Day-granularity point in time
// =============================================================================

// Date is a calendar day, normalized to UTC midnight. Requests and
// entitlements never care about time of day.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return FromTime(time.Now())
}

// ParseDMY parses a "dd-MM-yyyy" date string, the format the submission
// forms post.
func ParseDMY(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date %q: want dd-MM-yyyy", s)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("invalid day in %q: %w", s, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("invalid month in %q: %w", s, err)
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("invalid year in %q: %w", s, err)
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, fmt.Errorf("date %q out of range", s)
	}

	d := NewDate(year, time.Month(month), day)
	// time.Date normalizes overflow (e.g. 31-02 becomes 03-03); reject it.
	if d.Day() != day || d.Month() != time.Month(month) {
		return Date{}, fmt.Errorf("date %q does not exist", s)
	}
	return d, nil
}

// ParseISO parses a "yyyy-MM-dd" date string.
func ParseISO(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return FromTime(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int              { return d.Time.Year() }
func (d Date) Month() time.Month      { return d.Time.Month() }
func (d Date) Day() int               { return d.Time.Day() }
func (d Date) Weekday() time.Weekday  { return d.Time.Weekday() }
func (d Date) IsZero() bool           { return d.Time.IsZero() }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Formatting
func (d Date) ISO() string    { return d.normalize().Format("2006-01-02") }
func (d Date) DMY() string    { return d.normalize().Format("02-01-2006") }
func (d Date) String() string { return d.ISO() }

// =============================================================================
// SPANS
// =============================================================================

// DaysBetween counts calendar days from one date to another.
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// BusinessDaySpan counts working days in the half-open range
// [start, endExclusive): calendar days minus any Saturday/Sunday inside the
// range. A same-day request is stored with endExclusive == start and has span
// 1 by definition, whatever the weekday.
func BusinessDaySpan(start, endExclusive Date) int {
	span := DaysBetween(start, endExclusive)
	if start.Equal(endExclusive) {
		span = 1
	}

	for d := start; !d.Equal(endExclusive); d = d.AddDays(1) {
		if d.IsWeekend() {
			span--
		}
	}
	return span
}
