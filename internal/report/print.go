package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/glizzus/timed-requests/internal/schedule"
)

// DriftBudget is the drift above which a fire is highlighted as slow even if
// it landed in the right second.
const DriftBudget = time.Millisecond

// Log writes the run outcome to logger. The missed targets are logged at
// info; the target/sent pairs only at debug.
func Log(ctx context.Context, logger *slog.Logger, run Run) {
	logger.InfoContext(ctx, "Send times", slog.Any("sendTimes", run.SendTimes()))
	if run.Result.Success {
		logger.InfoContext(ctx, "Success.")
		return
	}
	logger.InfoContext(ctx, "Error.")
	logger.InfoContext(ctx, "Missed requests", slog.Any("missed", schedule.Strings(run.Result.Missed)))
	logger.DebugContext(ctx, "Missed requests", slog.Any("details", run.Result.Details()))
}

// Print writes a colored summary table of run to w. Mismatch details are
// included only when verbose is set.
func Print(w io.Writer, run Run, verbose bool) {
	header := color.New(color.FgHiCyan, color.Bold)
	section := color.New(color.FgHiYellow)
	label := color.New(color.FgWhite)
	good := color.New(color.FgGreen, color.Bold)
	bad := color.New(color.FgRed, color.Bold)
	slow := color.New(color.FgHiMagenta)

	header.Fprintln(w, "[Timed Requests Run]")
	fmt.Fprintf(w, "%s : %s\n", label.Sprint("Run ID  "), run.ID)
	fmt.Fprintf(w, "%s : %s\n", label.Sprint("Source  "), run.Source)
	fmt.Fprintf(w, "%s : %s\n", label.Sprint("Endpoint"), run.Endpoint)

	section.Fprintln(w, strings.Repeat("-", 50))
	section.Fprintln(w, "#   Target    Sent      Status  Drift")
	section.Fprintln(w, strings.Repeat("-", 50))
	for _, f := range run.Fires {
		if !f.OK() {
			fmt.Fprintf(w, "%-3d %s  %s\n", f.Index+1, f.Target, bad.Sprintf("failed: %s", f.Error))
			continue
		}

		drift := fmt.Sprintf("%+d µs", f.Drift.Microseconds())
		switch {
		case *f.Sent != f.Target:
			drift = bad.Sprint(drift)
		case f.Drift > DriftBudget:
			drift = slow.Sprint(drift)
		default:
			drift = good.Sprint(drift)
		}
		fmt.Fprintf(w, "%-3d %s  %s  %-6d  %s\n", f.Index+1, f.Target, f.Sent, f.StatusCode, drift)
	}
	section.Fprintln(w, strings.Repeat("-", 50))

	if run.Result.Success {
		good.Fprintf(w, "SUCCESS: all %d requests fired on their target second\n", len(run.Fires))
		return
	}
	bad.Fprintf(w, "MISSED %d of %d: %s\n",
		len(run.Result.Missed), len(run.Fires), strings.Join(schedule.Strings(run.Result.Missed), ", "))
	if verbose {
		for _, d := range run.Result.Details() {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}
}
