/*
errors.go - Centralized error types for the domain values

PURPOSE:
  All domain-value error types in one place for consistency and
  discoverability. Engine packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Validation errors - Factory rejections (rate, period, clock strings)
  2. Lookup errors - Referenced records that do not exist

USAGE:
  Callers can classify with errors.Is:

    if errors.Is(err, wbs.ErrInvalidRate) {
        // reject the form input
    }
*/
package wbs

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidRate is returned when an assignee rate falls outside (0, 1].
	ErrInvalidRate = errors.New("invalid rate: must be in (0, 1]")

	// ErrInvalidClock is returned when an "HH:MM" string cannot be parsed.
	ErrInvalidClock = errors.New("invalid clock time: expected HH:MM")

	// ErrNegativeHours is returned when a factory receives negative man-hours.
	ErrNegativeHours = errors.New("invalid hours: must not be negative")

	// ErrTaskNotFound is returned when a referenced task doesn't exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAssigneeNotFound is returned when a referenced assignee doesn't exist.
	ErrAssigneeNotFound = errors.New("assignee not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ClockError reports which clock string failed to parse.
type ClockError struct {
	Value string
}

func (e *ClockError) Error() string {
	return fmt.Sprintf("invalid clock time %q: expected HH:MM", e.Value)
}

func (e *ClockError) Unwrap() error { return ErrInvalidClock }

// RateError reports an out-of-range assignee rate.
type RateError struct {
	UserID string
	Rate   float64
}

func (e *RateError) Error() string {
	return fmt.Sprintf("invalid rate %.3f for user %s: must be in (0, 1]", e.Rate, e.UserID)
}

func (e *RateError) Unwrap() error { return ErrInvalidRate }
