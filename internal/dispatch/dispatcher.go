// Package dispatch runs one waiter per target concurrently and collects the
// results in input order.
package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/glizzus/timed-requests/internal/schedule"
	"github.com/glizzus/timed-requests/internal/util"
)

// Waiter blocks until a target arrives and fires once.
type Waiter interface {
	Wait(ctx context.Context, target schedule.TimeOfDay) (*schedule.FireRecord, error)
}

var _ Waiter = (*schedule.Waiter)(nil)

// Outcome is the result for the target at Index. Exactly one of Record and
// Err is set.
type Outcome struct {
	Index  int
	Target schedule.TimeOfDay
	Record *schedule.FireRecord
	Err    error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

type Option func(*Dispatcher)

// WithFailFast makes the first failing target cancel every other waiter and
// abort the run.
func WithFailFast() Option {
	return func(d *Dispatcher) {
		d.failFast = true
	}
}

type Dispatcher struct {
	waiter   Waiter
	logger   *slog.Logger
	failFast bool
}

func NewDispatcher(waiter Waiter, logger *slog.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	d := &Dispatcher{waiter: waiter, logger: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch starts one goroutine per target and waits for all of them. The
// returned outcomes are positionally aligned with targets regardless of the
// order in which the goroutines finish.
//
// By default a failing target only marks its own outcome and the error
// return is nil. In fail-fast mode the first failure is returned and the
// outcomes of aborted targets carry the cancellation error.
func (d *Dispatcher) Dispatch(ctx context.Context, targets []schedule.TimeOfDay) ([]Outcome, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets to dispatch")
	}

	d.logger.DebugContext(ctx, "dispatching targets",
		slog.Int("count", len(targets)),
		slog.Bool("failFast", d.failFast),
	)

	outcomes := make([]Outcome, len(targets))
	run := func(ctx context.Context, i int) error {
		record, err := d.waiter.Wait(ctx, targets[i])
		outcomes[i] = Outcome{Index: i, Target: targets[i], Record: record, Err: err}
		if err != nil {
			d.logger.ErrorContext(ctx, "target failed",
				slog.Int("index", i),
				slog.String("target", targets[i].String()),
				slog.Any("error", err),
			)
		}
		return err
	}

	if d.failFast {
		g, gctx := errgroup.WithContext(ctx)
		for i := range targets {
			g.Go(func() error { return run(gctx, i) })
		}
		return outcomes, g.Wait()
	}

	var wg sync.WaitGroup
	wg.Add(len(targets))
	for i := range targets {
		go func() {
			defer wg.Done()
			_ = run(ctx, i)
		}()
	}
	wg.Wait()
	return outcomes, nil
}

// FirstFailure returns the lowest indexed failed outcome.
func FirstFailure(outcomes []Outcome) (Outcome, bool) {
	return util.FindFirst(outcomes, func(o Outcome) bool { return !o.OK() })
}

// Targets returns the target of every outcome, in order.
func Targets(outcomes []Outcome) []schedule.TimeOfDay {
	return util.Map(outcomes, func(o Outcome) schedule.TimeOfDay { return o.Target })
}
