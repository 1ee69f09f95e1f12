package schedule

import (
	"context"
	"time"
)

// Clock reads wall-clock time and suspends the caller.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, whichever comes first.
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock is the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Clock = SystemClock{}

// untilNextSecond is the remaining fraction of the second that t falls in.
func untilNextSecond(t time.Time) time.Duration {
	return time.Second - time.Duration(t.Nanosecond())
}
