package wbs

// =============================================================================
// WBS ASSIGNEE - Person committed to a WBS at a rate
// =============================================================================

// WbsAssignee links a user to a work breakdown structure with a commitment
// rate: the fraction of a standard working day the person dedicates to this
// WBS. Rate 1.0 is full-time, 0.5 half-time.
type WbsAssignee struct {
	UserID string
	Rate   float64
}

// NewWbsAssignee creates an assignee, rejecting rates outside (0, 1].
func NewWbsAssignee(userID string, rate float64) (WbsAssignee, error) {
	if rate <= 0 || rate > 1 {
		return WbsAssignee{}, &RateError{UserID: userID, Rate: rate}
	}
	return WbsAssignee{UserID: userID, Rate: rate}, nil
}

// ReconstructWbsAssignee rehydrates a stored assignee without re-validation.
func ReconstructWbsAssignee(userID string, rate float64) WbsAssignee {
	return WbsAssignee{UserID: userID, Rate: rate}
}

// FullTimePlaceholder is the rate-1.0 stand-in used when a task has no
// assignee, so unassigned tasks still get a deterministic split.
func FullTimePlaceholder() WbsAssignee {
	return WbsAssignee{UserID: "", Rate: 1.0}
}

// WithRate returns a copy with the new rate. Returns the receiver unchanged
// when the rate is already equal, so callers can detect a no-op by identity.
func (a WbsAssignee) WithRate(rate float64) (WbsAssignee, error) {
	if rate == a.Rate {
		return a, nil
	}
	return NewWbsAssignee(a.UserID, rate)
}
