package workload

import (
	"errors"
	"fmt"
)

// ErrUnknownDemandMode is returned when a calculator is configured with an
// unrecognized demand mode. Use with errors.Is().
var ErrUnknownDemandMode = errors.New("unknown demand mode")

// UnknownDemandModeError names the invalid mode value.
type UnknownDemandModeError struct {
	Mode DemandMode
}

func (e *UnknownDemandModeError) Error() string {
	return fmt.Sprintf("unknown demand mode %q: expected %q or %q", e.Mode, DemandTotal, DemandDailyRate)
}

func (e *UnknownDemandModeError) Unwrap() error { return ErrUnknownDemandMode }
