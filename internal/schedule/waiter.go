package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/glizzus/timed-requests/internal/requester"
)

// Firer sends the single outbound request for a target.
type Firer interface {
	Fire(ctx context.Context) (*requester.Result, error)
}

// FireRecord is what a Waiter observed when it fired.
type FireRecord struct {
	Target TimeOfDay
	// Fired is the second in which the request was sent.
	Fired   TimeOfDay
	FiredAt time.Time
	// Drift is FiredAt minus the start of the target second.
	Drift    time.Duration
	Response *requester.Result
}

// StatusCode is the HTTP status of the response, or 0 if none was recorded.
func (r *FireRecord) StatusCode() int {
	if r.Response == nil {
		return 0
	}
	return r.Response.StatusCode
}

// Waiter blocks until a target second arrives and then fires once.
type Waiter struct {
	clock  Clock
	firer  Firer
	logger *slog.Logger
}

func NewWaiter(clock Clock, firer Firer, logger *slog.Logger) *Waiter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Waiter{clock: clock, firer: firer, logger: logger}
}

// Wait polls the clock until its time of day reaches target and then invokes
// the Firer exactly once. Between polls it sleeps for the rest of the current
// second. A wake-up that lands past the target second, including one carried
// into the next day, fires at once.
//
// A target that is not strictly after the first reading fails with
// *InvalidTargetError and nothing is sent. A failed request is returned as
// *RequestError and is not retried.
func (w *Waiter) Wait(ctx context.Context, target TimeOfDay) (*FireRecord, error) {
	now := w.clock.Now()
	if !target.After(TimeOfDayOf(now)) {
		return nil, &InvalidTargetError{Target: target, Now: now}
	}

	w.logger.DebugContext(ctx, "waiting for target",
		slog.String("target", target.String()),
		slog.String("now", now.Format("15:04:05.000")),
	)

	// Pinned to the starting date: a wake-up carried past midnight still fires.
	deadline := target.On(now)
	for now.Before(deadline) {
		if err := w.clock.Sleep(ctx, untilNextSecond(now)); err != nil {
			return nil, err
		}
		now = w.clock.Now()
	}

	firedAt := w.clock.Now()
	resp, err := w.firer.Fire(ctx)
	if err != nil {
		return nil, &RequestError{Target: target, Err: err}
	}

	record := &FireRecord{
		Target:   target,
		Fired:    TimeOfDayOf(firedAt),
		FiredAt:  firedAt,
		Drift:    firedAt.Sub(deadline),
		Response: resp,
	}

	w.logger.InfoContext(ctx, "request sent",
		slog.String("target", target.String()),
		slog.String("sent", record.Fired.String()),
		slog.Int("status", record.StatusCode()),
		slog.Int64("driftMicros", record.Drift.Microseconds()),
	)
	return record, nil
}
