package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/glizzus/timed-requests/internal/config"
	"github.com/glizzus/timed-requests/internal/dispatch"
	"github.com/glizzus/timed-requests/internal/generator"
	"github.com/glizzus/timed-requests/internal/report"
	"github.com/glizzus/timed-requests/internal/requester"
	"github.com/glizzus/timed-requests/internal/schedule"
)

const (
	exitFailure = 1
	exitMissed  = 2
)

// publishTimeout bounds how long sinks may take once the run is over.
const publishTimeout = 30 * time.Second

var uuidGenerator = generator.UUIDV4Generator{}

// exitCode maps a finished run to the process exit status.
func exitCode(run report.Run) int {
	if run.Result.Unfired() {
		return exitFailure
	}
	if !run.Result.Success {
		return exitMissed
	}
	return 0
}

func newLogger(w io.Writer, level *slog.LevelVar) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func run(c *cli.Context) error {
	level := new(slog.LevelVar)
	debug := c.Bool("debug")
	if debug {
		level.Set(slog.LevelDebug)
	}
	logger := newLogger(c.App.ErrWriter, level)

	if err := config.LoadEnv(); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No .env file found, continuing without it")
		} else {
			return cli.Exit("Failed to load .env file: "+err.Error(), exitFailure)
		}
	}

	requestConfig, err := config.NewRequestConfigFromEnv()
	if err != nil {
		return cli.Exit("Failed to load request config: "+err.Error(), exitFailure)
	}
	if endpoint := c.String("endpoint"); endpoint != "" {
		requestConfig.Endpoint = endpoint
	}

	client, err := requester.New(requester.Options{
		Endpoint:  requestConfig.Endpoint,
		Timeout:   requestConfig.Timeout,
		UserAgent: requestConfig.UserAgent,
		ProxyURL:  requestConfig.ProxyURL,
	})
	if err != nil {
		return cli.Exit("Failed to create requester: "+err.Error(), exitFailure)
	}

	opts := targetOptions{
		Str:   c.String("str"),
		Test:  c.IntSlice("test"),
		Cron:  c.String("cron"),
		Count: c.Int("count"),
	}
	if err := opts.validate(); err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := openSinks(ctx, logger)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}
	defer out.close()

	runID, err := uuidGenerator.Next()
	if err != nil {
		return cli.Exit("Failed to generate run ID: "+err.Error(), exitFailure)
	}
	runLogger := logger.With("runID", runID)

	var dispatchOpts []dispatch.Option
	if c.Bool("fail-fast") {
		dispatchOpts = append(dispatchOpts, dispatch.WithFailFast())
	}
	clock := schedule.SystemClock{}
	waiter := schedule.NewWaiter(clock, client, runLogger)
	dispatcher := dispatch.NewDispatcher(waiter, runLogger, dispatchOpts...)

	// Resolved after setup: --test offsets count from now.
	source, targets, err := selectTargets(opts, clock.Now(), defaultOffsets)
	if err != nil {
		return cli.Exit(err.Error(), exitFailure)
	}

	runLogger.Info("Scheduled targets",
		"source", source,
		"endpoint", requestConfig.Endpoint,
		"targets", schedule.Strings(targets),
	)

	startedAt := clock.Now()
	outcomes, err := dispatcher.Dispatch(ctx, targets)
	finishedAt := clock.Now()
	if err != nil {
		runLogger.Error("Run aborted", "error", err)
		if outcomes == nil {
			return cli.Exit(err.Error(), exitFailure)
		}
	}

	result := report.NewRun(runID, source, requestConfig.Endpoint, startedAt, finishedAt, outcomes)
	report.Print(c.App.Writer, result, debug)
	report.Log(ctx, runLogger, result)

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	out.publish(publishCtx, result)

	if code := exitCode(result); code != 0 {
		return cli.Exit("", code)
	}
	return nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "timed-requests",
		Usage: "Send HTTP requests at exact wall-clock seconds and verify they landed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "str",
				Usage: "comma separated target times, e.g. \"09:00:00,09:00:05\"",
			},
			&cli.IntSliceFlag{
				Name:  "test",
				Usage: "N,R: fire N requests at random seconds within the next R seconds",
			},
			&cli.StringFlag{
				Name:  "cron",
				Usage: "fire at the next --count firings of a cron expression",
			},
			&cli.IntFlag{
				Name:  "count",
				Usage: "number of cron firings to target",
				Value: 1,
			},
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "URL to request, overrides TIMED_ENDPOINT",
			},
			&cli.BoolFlag{
				Name:  "fail-fast",
				Usage: "abort every pending request when one fails",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "log at debug level and print mismatch details",
			},
		},
		Action: run,
	}
}

func main() {
	// cli.HandleExitCoder exits with the status of any cli.Exit error; what
	// reaches here is a usage error.
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
}
