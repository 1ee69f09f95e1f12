package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glizzus/timed-requests/internal/generator"
	"github.com/glizzus/timed-requests/internal/schedule"
	"github.com/glizzus/timed-requests/internal/util"
)

const (
	sourceStr  = "str"
	sourceTest = "test"
	sourceCron = "cron"
)

type targetOptions struct {
	Str   string
	Test  []int
	Cron  string
	Count int
}

// modes returns the target sources that were requested on the command line.
func (o targetOptions) modes() map[string]struct{} {
	m := make(map[string]struct{})
	if o.Str != "" {
		m[sourceStr] = struct{}{}
	}
	if len(o.Test) > 0 {
		m[sourceTest] = struct{}{}
	}
	if o.Cron != "" {
		m[sourceCron] = struct{}{}
	}
	return m
}

// validate reports argument errors without depending on the current time.
func (o targetOptions) validate() error {
	_, _, err := selectTargets(o, time.Time{}, defaultOffsets)
	return err
}

type offsetSource func(rangeSeconds int) generator.Generator[int]

func defaultOffsets(rangeSeconds int) generator.Generator[int] {
	return schedule.NewTestOffsets(rangeSeconds)
}

// selectTargets resolves the one requested target source into a list of
// target times relative to now.
func selectTargets(opts targetOptions, now time.Time, offsets offsetSource) (string, []schedule.TimeOfDay, error) {
	modes := opts.modes()
	source, _, err := util.GetOne(modes)
	switch {
	case errors.Is(err, util.ErrNoElement):
		return "", nil, fmt.Errorf("one of --str, --test or --cron is required")
	case errors.Is(err, util.ErrMultipleElements):
		return "", nil, fmt.Errorf("only one of --str, --test or --cron may be given, got --%s", strings.Join(util.SortedKeys(modes), ", --"))
	}

	var targets []schedule.TimeOfDay
	switch source {
	case sourceStr:
		targets, err = schedule.ParseList(opts.Str)
	case sourceTest:
		if len(opts.Test) != 2 {
			return "", nil, fmt.Errorf("--test takes exactly two values N,R, got %d", len(opts.Test))
		}
		n, rangeSeconds := opts.Test[0], opts.Test[1]
		targets, err = schedule.GenerateTestTimes(now, n, rangeSeconds, offsets(rangeSeconds))
	case sourceCron:
		if opts.Count < 1 {
			return "", nil, fmt.Errorf("--count must be at least 1, got %d", opts.Count)
		}
		targets, err = schedule.NextTargets(opts.Cron, now, opts.Count)
	}
	if err != nil {
		return "", nil, err
	}
	return source, targets, nil
}
