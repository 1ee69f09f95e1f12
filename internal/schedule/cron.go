package schedule

import (
	"fmt"
	"time"

	"github.com/hashicorp/cronexpr"
)

// NextTargets returns the next n firings of a cron expression after a
// specific time, as target times of day. Seven-field expressions carry a
// leading seconds field; shorter ones fire on second zero.
func NextTargets(cron string, after time.Time, n int) ([]TimeOfDay, error) {
	runTimes, err := NextRunTimesAfter(cron, after, n)
	if err != nil {
		return nil, err
	}
	targets := make([]TimeOfDay, len(runTimes))
	for i, rt := range runTimes {
		targets[i] = TimeOfDayOf(rt)
	}
	return targets, nil
}

// NextRunTimesAfter returns the next N run times after a specific time.
// It returns an error if the cron expression is invalid or if count is less than 1.
func NextRunTimesAfter(cron string, after time.Time, n int) ([]time.Time, error) {
	if n <= 0 {
		return nil, fmt.Errorf("count must be greater than 0")
	}
	expr, err := cronexpr.Parse(cron)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return expr.NextN(after, uint(n)), nil
}

func ValidateCron(cron string) error {
	_, err := cronexpr.Parse(cron)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return nil
}
