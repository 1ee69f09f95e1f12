package main

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/glizzus/timed-requests/internal/generator"
	"github.com/glizzus/timed-requests/internal/report"
	"github.com/glizzus/timed-requests/internal/schedule"
	"github.com/glizzus/timed-requests/internal/verify"
)

func tod(h, m, s int) schedule.TimeOfDay {
	return schedule.TimeOfDay{Hour: h, Minute: m, Second: s}
}

func fixedOffsets(values ...int) offsetSource {
	return func(int) generator.Generator[int] {
		return &generator.SequenceGenerator[int]{Values: values}
	}
}

func TestSelectTargets(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 3, 0, time.UTC)

	tests := []struct {
		name       string
		opts       targetOptions
		wantSource string
		want       []schedule.TimeOfDay
	}{
		{
			name:       "explicit list keeps order and repeats",
			opts:       targetOptions{Str: "12:00:10, 12:00:05,12:00:10"},
			wantSource: "str",
			want:       []schedule.TimeOfDay{tod(12, 0, 10), tod(12, 0, 5), tod(12, 0, 10)},
		},
		{
			name:       "test mode draws sorted offsets",
			opts:       targetOptions{Test: []int{3, 30}},
			wantSource: "test",
			want:       []schedule.TimeOfDay{tod(12, 0, 7), tod(12, 0, 13), tod(12, 0, 23)},
		},
		{
			name:       "cron mode",
			opts:       targetOptions{Cron: "*/10 * * * * * *", Count: 2},
			wantSource: "cron",
			want:       []schedule.TimeOfDay{tod(12, 0, 10), tod(12, 0, 20)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, got, err := selectTargets(tt.opts, now, fixedOffsets(20, 4, 10))
			if err != nil {
				t.Fatalf("selectTargets() error = %v", err)
			}
			if source != tt.wantSource {
				t.Errorf("expected source %q, got %q", tt.wantSource, source)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("selectTargets() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectTargetsErrors(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		opts    targetOptions
		wantErr string
	}{
		{name: "no mode", opts: targetOptions{}, wantErr: "is required"},
		{name: "two modes", opts: targetOptions{Str: "12:00:05", Cron: "* * * * *"}, wantErr: "--cron, --str"},
		{name: "test needs two values", opts: targetOptions{Test: []int{3}}, wantErr: "exactly two values"},
		{name: "test range too small", opts: targetOptions{Test: []int{3, 3}}, wantErr: "range must exceed"},
		{name: "malformed list", opts: targetOptions{Str: "12:00"}, wantErr: "12:00"},
		{name: "bad cron", opts: targetOptions{Cron: "nope", Count: 1}, wantErr: "invalid cron expression"},
		{name: "zero count", opts: targetOptions{Cron: "* * * * *", Count: 0}, wantErr: "--count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := selectTargets(tt.opts, now, defaultOffsets)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %q", tt.wantErr, err)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	noon := tod(12, 0, 0)
	late := tod(12, 0, 1)

	tests := []struct {
		name string
		run  report.Run
		want int
	}{
		{
			name: "all landed",
			run: report.Run{
				Fires:  []report.Fire{{Target: noon, Sent: &noon}},
				Result: verify.Result{Success: true},
			},
			want: 0,
		},
		{
			name: "fired but missed",
			run: report.Run{
				Fires: []report.Fire{{Target: noon, Sent: &late}},
				Result: verify.Result{
					Missed:     []schedule.TimeOfDay{noon},
					Mismatches: []verify.Mismatch{{Target: noon, Actual: late, Fired: true}},
				},
			},
			want: exitMissed,
		},
		{
			name: "one target failed",
			run: report.Run{
				Fires: []report.Fire{
					{Target: noon, Sent: &noon},
					{Index: 1, Target: late, Error: "connection refused"},
				},
				Result: verify.Result{
					Missed:     []schedule.TimeOfDay{late},
					Mismatches: []verify.Mismatch{{Index: 1, Target: late, Reason: "connection refused"}},
				},
			},
			want: exitFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.run); got != tt.want {
				t.Errorf("exitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
