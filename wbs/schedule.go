package wbs

import (
	"strconv"
	"strings"
)

// =============================================================================
// USER SCHEDULE - Personal commitment that reduces availability
// =============================================================================

// UserSchedule is one personal calendar entry (meeting, appointment) for a
// user on a date. Its duration is subtracted from that day's available hours.
type UserSchedule struct {
	UserID    string
	Date      Date
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM"
	Title     string
}

// NewUserSchedule creates a schedule entry, validating both clock strings
// and that the entry does not run backwards.
func NewUserSchedule(userID string, date Date, startTime, endTime, title string) (UserSchedule, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return UserSchedule{}, err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return UserSchedule{}, err
	}
	if end < start {
		return UserSchedule{}, &ClockError{Value: endTime}
	}
	return UserSchedule{UserID: userID, Date: date, StartTime: startTime, EndTime: endTime, Title: title}, nil
}

// ReconstructUserSchedule rehydrates a stored entry without re-validation.
func ReconstructUserSchedule(userID string, date Date, startTime, endTime, title string) UserSchedule {
	return UserSchedule{UserID: userID, Date: date, StartTime: startTime, EndTime: endTime, Title: title}
}

// DurationHours returns end-start as fractional hours: 09:30-11:15 is 1.75.
// Zero when start equals end, zero (never negative) on malformed or
// backwards entries.
func (s UserSchedule) DurationHours() Hours {
	d, err := ScheduleDuration(s.StartTime, s.EndTime)
	if err != nil {
		return ZeroHours()
	}
	return d
}

// =============================================================================
// CLOCK PARSING
// =============================================================================

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(v string) (int, error) {
	parts := strings.Split(v, ":")
	if len(parts) != 2 {
		return 0, &ClockError{Value: v}
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil || hh < 0 || hh > 23 {
		return 0, &ClockError{Value: v}
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil || mm < 0 || mm > 59 {
		return 0, &ClockError{Value: v}
	}
	return hh*60 + mm, nil
}

// ScheduleDuration returns the fractional-hour distance between two "HH:MM"
// clock strings. Zero when equal, never negative.
func ScheduleDuration(startTime, endTime string) (Hours, error) {
	start, err := ParseClock(startTime)
	if err != nil {
		return ZeroHours(), err
	}
	end, err := ParseClock(endTime)
	if err != nil {
		return ZeroHours(), err
	}
	if end <= start {
		return ZeroHours(), nil
	}
	return NewHoursFromInt(end - start).Div(NewHoursFromInt(60)), nil
}
