package wbs

// =============================================================================
// TASK - Unit of planned work inside a WBS
// =============================================================================

// Task carries the planned (yotei) and actual (jisseki) effort of one WBS
// task. YoteiEnd is nil for a task planned as a single day; JissekiKosu is
// nil until actual hours are recorded.
type Task struct {
	WbsID       string
	TaskID      string
	TaskName    string
	Phase       string
	YoteiStart  Date
	YoteiEnd    *Date
	YoteiKosu   Hours
	JissekiKosu *Hours
}

// NewTask creates a task, validating the planned hours and date range.
func NewTask(wbsID, taskID, taskName, phase string, yoteiStart Date, yoteiEnd *Date, yoteiKosu Hours) (Task, error) {
	if yoteiKosu.IsNegative() {
		return Task{}, ErrNegativeHours
	}
	if yoteiEnd != nil && yoteiEnd.Before(yoteiStart) {
		return Task{}, ErrInvalidPeriod
	}
	return Task{
		WbsID:      wbsID,
		TaskID:     taskID,
		TaskName:   taskName,
		Phase:      phase,
		YoteiStart: yoteiStart,
		YoteiEnd:   yoteiEnd,
		YoteiKosu:  yoteiKosu,
	}, nil
}

// ReconstructTask rehydrates a stored task without re-validation.
func ReconstructTask(wbsID, taskID, taskName, phase string, yoteiStart Date, yoteiEnd *Date, yoteiKosu Hours, jissekiKosu *Hours) Task {
	return Task{
		WbsID:       wbsID,
		TaskID:      taskID,
		TaskName:    taskName,
		Phase:       phase,
		YoteiStart:  yoteiStart,
		YoteiEnd:    yoteiEnd,
		YoteiKosu:   yoteiKosu,
		JissekiKosu: jissekiKosu,
	}
}

// HasPeriod reports whether the task has a usable planned start date.
func (t Task) HasPeriod() bool { return !t.YoteiStart.IsZero() }

// PlannedPeriod returns the task's [start, end] range. A task without an end
// date is treated as single-day.
func (t Task) PlannedPeriod() Period {
	if t.YoteiEnd == nil {
		return SingleDay(t.YoteiStart)
	}
	return Period{Start: t.YoteiStart, End: *t.YoteiEnd}
}

// ActualHours returns the recorded jisseki kosu, zero when none recorded.
func (t Task) ActualHours() Hours {
	if t.JissekiKosu == nil {
		return ZeroHours()
	}
	return *t.JissekiKosu
}

// WithActualHours returns a copy with jisseki kosu recorded. Returns the
// receiver unchanged when the value is already equal.
func (t Task) WithActualHours(h Hours) Task {
	if t.JissekiKosu != nil && t.JissekiKosu.Equal(h) {
		return t
	}
	c := t
	c.JissekiKosu = &h
	return c
}
