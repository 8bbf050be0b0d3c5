package wbs

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Day-granular time point (this IS a calendar system)
// =============================================================================

// Date is a calendar day, normalized to UTC midnight. All engine computations
// (business-day counting, proration, capacity) operate on whole days.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.Time.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.Time.AddDate(0, n, 0)) }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Date) IsZero() bool { return d.Time.IsZero() }

func (d Date) String() string { return d.normalize().Format("2006-01-02") }

// =============================================================================
// MONTH KEY - "YYYY/MM" calendar-month identifier
// =============================================================================

// MonthKey identifies a calendar month as "YYYY/MM". Zero-padded month means
// lexicographic order equals chronological order, so plain string sorting is
// all the ordering the engine ever needs.
type MonthKey string

// MonthKeyOf returns the month key for the month containing d.
func MonthKeyOf(d Date) MonthKey {
	return MonthKey(fmt.Sprintf("%04d/%02d", d.Year(), int(d.Month())))
}

func (k MonthKey) String() string { return string(k) }

// MonthKey returns the key of the month containing this date.
func (d Date) MonthKey() MonthKey { return MonthKeyOf(d) }

// =============================================================================
// DATE UTILITIES
// =============================================================================

func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }

func EndOfMonth(year int, month time.Month) Date {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return DateOf(t)
}
