package schedule

import (
	"fmt"
	"slices"
	"time"

	"github.com/glizzus/timed-requests/internal/generator"
)

// MinLeadSeconds is how far ahead of generation the earliest test time lies,
// leaving room for the waiters to start.
const MinLeadSeconds = 3

// GenerateTestTimes returns n target times within rangeSeconds after now.
// Each offset is drawn from offsets, which must yield values in
// [MinLeadSeconds, rangeSeconds). The result is sorted by offset.
func GenerateTestTimes(now time.Time, n int, rangeSeconds int, offsets generator.Generator[int]) ([]TimeOfDay, error) {
	if n < 1 {
		return nil, fmt.Errorf("number of tests must be at least 1, got %d", n)
	}
	if rangeSeconds <= MinLeadSeconds {
		return nil, fmt.Errorf("range must exceed %d seconds, got %d", MinLeadSeconds, rangeSeconds)
	}

	secs := make([]int, n)
	for i := range secs {
		off, err := offsets.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to draw offset: %w", err)
		}
		secs[i] = off
	}
	slices.Sort(secs)

	targets := make([]TimeOfDay, n)
	for i, off := range secs {
		targets[i] = TimeOfDayOf(now.Add(time.Duration(off) * time.Second))
	}
	return targets, nil
}

// NewTestOffsets returns the uniform offset source GenerateTestTimes expects.
func NewTestOffsets(rangeSeconds int) *generator.IntRangeGenerator {
	return generator.NewIntRangeGenerator(MinLeadSeconds, rangeSeconds)
}
