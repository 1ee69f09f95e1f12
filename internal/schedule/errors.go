package schedule

import (
	"fmt"
	"time"
)

// InvalidTargetError is returned when a target is not strictly later than
// the time of day at which waiting started.
type InvalidTargetError struct {
	Target TimeOfDay
	Now    time.Time
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid target %s: target time must be after current time %s",
		e.Target, e.Now.Format("15:04:05.000"))
}

var _ error = (*InvalidTargetError)(nil)

// RequestError wraps a failed outbound request for a single target.
type RequestError struct {
	Target TimeOfDay
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request for target %s failed: %v", e.Target, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

var _ error = (*RequestError)(nil)

// ParseError describes a malformed target time.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid target time %q: %s", e.Input, e.Reason)
}

var _ error = (*ParseError)(nil)
